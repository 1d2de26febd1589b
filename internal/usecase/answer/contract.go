package answer

import (
	"context"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// Provider is one chat-completion backend (local or remote).
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, system, user string, params domain.GenerationParams) (domain.Completion, error)
}
