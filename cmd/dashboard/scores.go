package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseScores reads "timeframe=score" pairs.
func parseScores(args []string) (map[string]float64, error) {
	scores := make(map[string]float64, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected timeframe=score, got %q", arg)
		}
		score, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score for %s: %w", name, err)
		}
		if score < 0 || score > 1 {
			return nil, fmt.Errorf("score for %s must be within [0,1], got %v", name, score)
		}
		scores[name] = score
	}
	return scores, nil
}
