package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suar-net/ghost-gateway/internal/model"
)

var (
	ErrInvalidMode      = errors.New("invalid dashboard mode")
	ErrNoTimeframeScore = errors.New("no timeframe produced a score")
)

// StatusError is a non-2xx answer from the gateway or the upstream.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Body)
}

// SymbolNotFoundError is returned by Analyze when the upstream does not know
// the requested symbol. Suggestions may be empty.
type SymbolNotFoundError struct {
	model.SymbolErrorResponse
}

func (e *SymbolNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return "symbol not found: " + e.Message
	}
	return fmt.Sprintf("symbol not found: %s (did you mean %s?)", e.Message, strings.Join(e.Suggestions, ", "))
}
