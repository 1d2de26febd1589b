package domain

import "errors"

var (
	// ErrEmbeddingFailed signals that the embedding provider could not produce a vector.
	// It aborts the request: an empty vector must never be passed off as "no context".
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrEmptyQuestion signals a blank question on the inbound surface.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrGenerationFailed signals that every configured chat provider failed.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrInvalidDate signals an unparseable date filter value.
	ErrInvalidDate = errors.New("invalid date")
	// ErrGameNotFound signals that a catalog lookup by title matched nothing.
	ErrGameNotFound = errors.New("game not found")
)
