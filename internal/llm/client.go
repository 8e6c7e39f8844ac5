package llm

import (
	"context"

	"github.com/AlvesGus/finbot/internal/model"
)

// Extractor is the uniform contract both provider adapters implement.
// A (nil, nil) return means the provider answered but produced no
// parsable JSON object; that is a normal outcome, not an error.
type Extractor interface {
	Extract(ctx context.Context, text string) (*model.Movement, error)
}

// Config holds provider settings shared by the adapters.
type Config struct {
	Model       string
	Temperature float64
}
