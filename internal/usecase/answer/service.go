package answer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// Service generates the final answer from a question and its context block.
//
// Provider order is fixed at construction: the optional local provider first,
// then the remote one. A local failure triggers exactly one fallback to the
// remote provider within the same call; a terminal failure is encoded as a
// well-formed result with the fixed apology, never a raised fault.
type Service struct {
	providers []Provider
	params    domain.GenerationParams
	logger    *zap.Logger
}

// New creates an answer service. providers must hold at least one entry.
func New(providers []Provider, params domain.GenerationParams, logger *zap.Logger) *Service {
	return &Service{providers: providers, params: params, logger: logger}
}

// Generate runs the attempt sequence and returns the terminal result.
// score is the retrieval relevance carried through untouched.
func (s *Service) Generate(ctx context.Context, question, contextBlock string, score float64) domain.GenerationResult {
	user := userMessage(question, contextBlock)

	var lastErr error
	for i, p := range s.providers {
		if i > 0 {
			s.logger.Info("Falling back to next provider",
				zap.String("provider", p.Name()), zap.Error(lastErr))
		}

		completion, err := p.Complete(ctx, systemPrompt, user, s.params)
		if err != nil {
			lastErr = err
			s.logger.Warn("Provider failed",
				zap.String("provider", p.Name()),
				zap.String("model", p.Model()),
				zap.Error(err))
			continue
		}

		tokensIn, tokensOut := usage(completion, user)
		return domain.GenerationResult{
			Answer:    strings.TrimSpace(completion.Text),
			TokensIn:  tokensIn,
			TokensOut: tokensOut,
			Score:     score,
			Model:     p.Model(),
		}
	}

	cause := "no providers configured"
	if lastErr != nil {
		cause = lastErr.Error()
	}
	return domain.GenerationResult{
		Answer: apology(cause),
		Score:  score,
		Err:    cause,
	}
}

// usage returns the provider's token counters, approximating with whitespace
// word counts when the provider omits them.
func usage(c domain.Completion, userPrompt string) (in, out int) {
	in, out = c.PromptTokens, c.CompletionTokens
	if in == 0 && out == 0 {
		in = len(strings.Fields(userPrompt))
		out = len(strings.Fields(c.Text))
	}
	return in, out
}
