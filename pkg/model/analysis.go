package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type AnalysisID string

// NewAnalysisID generates a new unique AnalysisID
func NewAnalysisID() AnalysisID {
	return AnalysisID(uuid.New().String())
}

// UnknownFilename is used when the originating image file name is not recorded.
const UnknownFilename = "unknown"

// MaxKeywords is the maximum number of keywords kept per analysis.
const MaxKeywords = 6

// Analysis is a stored result of a prior image analysis. Records are
// immutable once written; the store only grows or shrinks by explicit
// deletion.
type Analysis struct {
	ID        AnalysisID `json:"id" firestore:"id"`
	Analysis  string     `json:"analysis" firestore:"analysis"`
	Findings  []string   `json:"findings" firestore:"findings"`
	Keywords  []string   `json:"keywords" firestore:"keywords"`
	CreatedAt time.Time  `json:"date" firestore:"created_at"`
	Filename  string     `json:"filename,omitempty" firestore:"filename"`
}

// ImageFilename returns the originating file name, falling back to a
// placeholder when it was not recorded.
func (a *Analysis) ImageFilename() string {
	if a.Filename == "" {
		return UnknownFilename
	}
	return a.Filename
}

// Validate checks if the analysis record is well-formed
func (a *Analysis) Validate() error {
	if a.ID == "" {
		return goerr.New("analysis ID is empty")
	}
	if len(a.Keywords) > MaxKeywords {
		return goerr.New("too many keywords", goerr.V("count", len(a.Keywords)))
	}
	for _, kw := range a.Keywords {
		if kw != strings.ToLower(kw) {
			return goerr.New("keyword is not lowercase", goerr.V("keyword", kw))
		}
	}
	return nil
}
