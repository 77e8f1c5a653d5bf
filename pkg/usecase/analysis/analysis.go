package analysis

import (
	"github.com/r-ahemad/radiqa/pkg/adapter"
	"github.com/r-ahemad/radiqa/pkg/repository"
)

// UseCase provides analysis-record operations: ingestion, image analysis,
// listing and statistics
type UseCase struct {
	repo   repository.Repository
	gemini adapter.Gemini
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithGemini sets the vision backend used by AnalyzeImage
func WithGemini(gemini adapter.Gemini) Option {
	return func(uc *UseCase) {
		uc.gemini = gemini
	}
}

// New creates a new analysis UseCase instance
func New(repo repository.Repository, opts ...Option) *UseCase {
	uc := &UseCase{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
