package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/adapter"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/repository"
)

// UseCase assembles report documents for analysis records and archives them
type UseCase struct {
	repo    repository.Repository
	storage adapter.Storage
}

// New creates a new report UseCase instance
func New(repo repository.Repository, storage adapter.Storage) *UseCase {
	return &UseCase{
		repo:    repo,
		storage: storage,
	}
}

// Render formats an analysis record as a Markdown report document
func Render(a *model.Analysis) string {
	var sb strings.Builder
	sb.WriteString("# Medical Imaging Analysis Report\n\n")
	fmt.Fprintf(&sb, "Date: %s\n", a.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Report ID: %s\n", a.ID)
	fmt.Fprintf(&sb, "Image: %s\n", a.ImageFilename())

	sb.WriteString("\n## Analysis Results\n\n")
	sb.WriteString(a.Analysis)
	sb.WriteString("\n")

	if len(a.Findings) > 0 {
		sb.WriteString("\n## Key Findings\n\n")
		for i, finding := range a.Findings {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, finding)
		}
	}

	if len(a.Keywords) > 0 {
		sb.WriteString("\n## Keywords\n\n")
		sb.WriteString(strings.Join(a.Keywords, ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Generate renders the report for an analysis and archives it, returning
// the storage key of the archived document.
func (u *UseCase) Generate(ctx context.Context, id model.AnalysisID) (string, error) {
	analysis, err := u.repo.GetAnalysis(ctx, id)
	if err != nil {
		return "", err
	}

	key := "reports/" + string(id) + ".md"
	writer, err := u.storage.Put(ctx, key)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create report writer", goerr.V("key", key))
	}

	if _, err := writer.Write([]byte(Render(analysis))); err != nil {
		_ = writer.Close()
		return "", goerr.Wrap(err, "failed to write report", goerr.V("key", key))
	}
	if err := writer.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close report writer", goerr.V("key", key))
	}

	return key, nil
}
