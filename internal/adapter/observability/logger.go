// Package observability bridges the provider-call logging infrastructure
// to the classification pipeline's logging port.
package observability

import (
	"context"

	llmhttp "github.com/bkyoung/mtscreen/internal/adapter/llm/http"
	"github.com/bkyoung/mtscreen/internal/usecase/classify"
)

// PipelineLogger adapts llmhttp.Logger to the classify.Logger port, so the
// pipeline shares one structured logging setup with the provider clients.
type PipelineLogger struct {
	logger llmhttp.Logger
}

// NewPipelineLogger creates a new pipeline logger adapter.
func NewPipelineLogger(logger llmhttp.Logger) classify.Logger {
	return &PipelineLogger{logger: logger}
}

// LogWarning logs a warning message with structured fields.
func (l *PipelineLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}

// LogInfo logs an informational message with structured fields.
func (l *PipelineLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}
