package domain

// Generation parameter defaults. Each is independently overridable via
// configuration.
const (
	DefaultTemperature      float32 = 0.7
	DefaultTopP             float32 = 1.0
	DefaultFrequencyPenalty float32 = 0.0
	DefaultPresencePenalty  float32 = 0.0
	DefaultMaxTokens                = 3000
)

// GenerationParams are the chat-completion tuning knobs sent to a provider.
type GenerationParams struct {
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	MaxTokens        int
	Stream           bool
}

// DefaultGenerationParams returns the documented defaults.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature:      DefaultTemperature,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
		MaxTokens:        DefaultMaxTokens,
	}
}

// Completion is the raw outcome of one provider call. Token counts may be
// zero when the provider omits usage counters; callers fall back to an
// approximate word count.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// GenerationResult is the terminal output of the answer pipeline.
// A provider failure is encoded as data: Answer holds the fixed apology,
// Err the cause, token counts are zero. It is never a raised fault.
type GenerationResult struct {
	Answer    string  `json:"answer"`
	TokensIn  int     `json:"tokens_in"`
	TokensOut int     `json:"tokens_out"`
	Score     float64 `json:"relevance_score"`
	Model     string  `json:"model,omitempty"`
	Err       string  `json:"error,omitempty"`
}

// Failed reports whether the result carries a terminal provider failure.
func (r GenerationResult) Failed() bool {
	return r.Err != ""
}
