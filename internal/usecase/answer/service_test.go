package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// --- Mocks ---

type mockProvider struct {
	name       string
	model      string
	completion domain.Completion
	err        error
	calls      int
	gotSystem  string
	gotUser    string
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.model }

func (m *mockProvider) Complete(_ context.Context, system, user string, _ domain.GenerationParams) (domain.Completion, error) {
	m.calls++
	m.gotSystem = system
	m.gotUser = user
	return m.completion, m.err
}

// --- Tests ---

func TestGenerate_FirstProviderSucceeds(t *testing.T) {
	local := &mockProvider{
		name:       "local",
		model:      "local-7b",
		completion: domain.Completion{Text: "  Te recomiendo Hollow Knight.  ", PromptTokens: 120, CompletionTokens: 30},
	}
	remote := &mockProvider{name: "remote", model: "gemini"}
	svc := New([]Provider{local, remote}, domain.DefaultGenerationParams(), zap.NewNop())

	res := svc.Generate(context.Background(), "¿qué juego me recomiendas?", "contexto", 0.87)

	if res.Failed() {
		t.Fatalf("unexpected failure: %s", res.Err)
	}
	if res.Answer != "Te recomiendo Hollow Knight." {
		t.Errorf("expected trimmed answer, got %q", res.Answer)
	}
	if res.Model != "local-7b" {
		t.Errorf("expected the winning provider's model, got %q", res.Model)
	}
	if res.TokensIn != 120 || res.TokensOut != 30 {
		t.Errorf("expected provider token counts, got in=%d out=%d", res.TokensIn, res.TokensOut)
	}
	if res.Score != 0.87 {
		t.Errorf("relevance score must pass through untouched, got %v", res.Score)
	}
	if remote.calls != 0 {
		t.Errorf("remote must not be called when local succeeds, got %d calls", remote.calls)
	}
}

func TestGenerate_LocalFailureFallsBackOnce(t *testing.T) {
	local := &mockProvider{name: "local", model: "local-7b", err: errors.New("connection refused")}
	remote := &mockProvider{
		name:       "remote",
		model:      "gemini",
		completion: domain.Completion{Text: "respuesta remota", PromptTokens: 90, CompletionTokens: 12},
	}
	svc := New([]Provider{local, remote}, domain.DefaultGenerationParams(), zap.NewNop())

	res := svc.Generate(context.Background(), "pregunta", "contexto", 0.5)

	if local.calls != 1 {
		t.Errorf("expected exactly one local attempt, got %d", local.calls)
	}
	if remote.calls != 1 {
		t.Errorf("expected exactly one remote attempt, got %d", remote.calls)
	}
	if res.Failed() {
		t.Fatalf("fallback must succeed, got error %s", res.Err)
	}
	if res.Answer != "respuesta remota" || res.Model != "gemini" {
		t.Errorf("expected the remote result, got answer=%q model=%q", res.Answer, res.Model)
	}
}

func TestGenerate_AllProvidersFail(t *testing.T) {
	local := &mockProvider{name: "local", model: "local-7b", err: errors.New("local down")}
	remote := &mockProvider{name: "remote", model: "gemini", err: errors.New("rate limited")}
	svc := New([]Provider{local, remote}, domain.DefaultGenerationParams(), zap.NewNop())

	res := svc.Generate(context.Background(), "pregunta", "contexto", 0.5)

	if !res.Failed() {
		t.Fatal("expected a terminal failure result")
	}
	if res.Err != "rate limited" {
		t.Errorf("expected the last cause, got %q", res.Err)
	}
	if !strings.HasPrefix(res.Answer, "Vaya, he tenido un problema técnico") {
		t.Errorf("expected the fixed apology, got %q", res.Answer)
	}
	if !strings.Contains(res.Answer, "rate limited") {
		t.Errorf("apology must carry the cause, got %q", res.Answer)
	}
	if res.TokensIn != 0 || res.TokensOut != 0 {
		t.Errorf("failed generation must report zero tokens, got in=%d out=%d", res.TokensIn, res.TokensOut)
	}
	if res.Score != 0.5 {
		t.Errorf("score must survive the failure path, got %v", res.Score)
	}
}

func TestGenerate_NoProvidersConfigured(t *testing.T) {
	svc := New(nil, domain.DefaultGenerationParams(), zap.NewNop())

	res := svc.Generate(context.Background(), "pregunta", "contexto", 0)

	if !res.Failed() {
		t.Fatal("expected a failure result")
	}
	if res.Err != "no providers configured" {
		t.Errorf("expected the no-providers cause, got %q", res.Err)
	}
}

func TestGenerate_WordCountFallbackWhenUsageMissing(t *testing.T) {
	p := &mockProvider{
		name:       "remote",
		model:      "gemini",
		completion: domain.Completion{Text: "una respuesta de cinco palabras"},
	}
	svc := New([]Provider{p}, domain.DefaultGenerationParams(), zap.NewNop())

	res := svc.Generate(context.Background(), "hola", "ctx", 0)

	wantIn := len(strings.Fields(userMessage("hola", "ctx")))
	if res.TokensIn != wantIn {
		t.Errorf("expected word-count fallback %d for input, got %d", wantIn, res.TokensIn)
	}
	if res.TokensOut != 5 {
		t.Errorf("expected 5 output words, got %d", res.TokensOut)
	}
}

func TestGenerate_PromptComposition(t *testing.T) {
	p := &mockProvider{name: "remote", model: "gemini", completion: domain.Completion{Text: "ok"}}
	svc := New([]Provider{p}, domain.DefaultGenerationParams(), zap.NewNop())

	svc.Generate(context.Background(), "¿hay juegos gratis?", "🎮 Título: Dota 2", 0)

	if !strings.Contains(p.gotSystem, "experto en videojuegos de Steam") {
		t.Errorf("system prompt missing persona, got %q", p.gotSystem)
	}
	if !strings.Contains(p.gotUser, "CONTEXTO DE JUEGOS DISPONIBLES:\n🎮 Título: Dota 2") {
		t.Errorf("user message missing context block, got %q", p.gotUser)
	}
	if !strings.Contains(p.gotUser, "PREGUNTA DEL USUARIO:\n¿hay juegos gratis?") {
		t.Errorf("user message missing question, got %q", p.gotUser)
	}
}
