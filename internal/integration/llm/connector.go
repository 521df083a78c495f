// Package llm holds the chat completion connectors used to classify tickets.
// Every connector sends the assembled prompt as a single message and returns
// the raw text of the first answer.
package llm

import (
	"errors"
	"strings"
	"time"

	"github.com/futig/ticket-classifier/internal/metrics"
)

var ErrMissingAPIKey = errors.New("llm api key is not configured")

const (
	statusOK    = "ok"
	statusError = "error"
)

func observe(provider, model, status string, start time.Time, inputTokens, outputTokens int64) {
	metrics.LLMRequestsTotal.WithLabelValues(provider, model, status).Inc()
	metrics.LLMRequestDuration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())
	if inputTokens > 0 {
		metrics.LLMTokensUsed.WithLabelValues(provider, model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		metrics.LLMTokensUsed.WithLabelValues(provider, model, "output").Add(float64(outputTokens))
	}
}

// trimCodeFence strips a markdown code fence some models wrap JSON in
func trimCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
