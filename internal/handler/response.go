package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/suar-net/ghost-gateway/internal/model"
)

// upstreamUnavailableMessage is the user-facing text of the 502 envelope.
const upstreamUnavailableMessage = "Servicio no disponible"

// respondWithError writes the standard error envelope.
func respondWithError(w http.ResponseWriter, status int, code, message, traceID string) {
	respondWithJSON(w, status, model.ErrorEnvelope{
		Error: model.ErrorBody{
			Code:    code,
			Message: message,
			TraceID: traceID,
		},
	})
}

// respondWithJSON marshals payload and writes it with the given status.
func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	dat, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"Failed to marshal response","trace_id":""}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(dat)
}
