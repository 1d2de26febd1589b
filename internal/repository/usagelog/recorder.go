package usagelog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askgames/internal/domain"
)

// Stored previews are capped so the log stays scannable; full answers live
// only in the HTTP response.
const (
	questionPreviewRunes = 100
	answerPreviewRunes   = 500
)

// Record is one answered question appended to the usage log.
type Record struct {
	Timestamp string  `json:"timestamp"`
	Question  string  `json:"question"`
	Strategy  string  `json:"strategy"`
	Answer    string  `json:"answer"`
	TokensIn  int     `json:"tokens_in"`
	TokensOut int     `json:"tokens_out"`
	Score     float64 `json:"relevance_score"`
	Model     string  `json:"model,omitempty"`
	Err       string  `json:"error,omitempty"`
}

// Recorder appends usage records to a JSONL file. Failures are logged and
// swallowed: accounting never breaks the answer path.
type Recorder struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
	f  *os.File
}

// New creates a JSONL usage recorder. The parent directory is created on
// first write, not here.
func New(path string, logger *zap.Logger) *Recorder {
	return &Recorder{path: path, logger: logger}
}

// Record appends one entry. Safe for concurrent use.
func (r *Recorder) Record(question string, strategy domain.Strategy, res domain.GenerationResult) {
	rec := Record{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Question:  preview(question, questionPreviewRunes),
		Strategy:  strategy.String(),
		Answer:    preview(res.Answer, answerPreviewRunes),
		TokensIn:  res.TokensIn,
		TokensOut: res.TokensOut,
		Score:     res.Score,
		Model:     res.Model,
		Err:       res.Err,
	}

	line, err := json.Marshal(rec)
	if err != nil {
		r.logger.Warn("Failed to marshal usage record", zap.Error(err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.write(append(line, '\n')); err != nil {
		r.logger.Warn("Failed to append usage record",
			zap.String("path", r.path), zap.Error(err))
	}
}

// preview caps s at max runes.
func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Close flushes and closes the underlying file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	if err != nil {
		return fmt.Errorf("close usage log: %w", err)
	}
	return nil
}

func (r *Recorder) write(line []byte) error {
	if r.f == nil {
		if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
			return fmt.Errorf("create usage log dir: %w", err)
		}
		f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open usage log: %w", err)
		}
		r.f = f
	}

	if _, err := r.f.Write(line); err != nil {
		return fmt.Errorf("write usage log: %w", err)
	}
	return nil
}
