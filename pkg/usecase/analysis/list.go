package analysis

import (
	"context"
	"sort"

	"github.com/r-ahemad/radiqa/pkg/model"
)

// List retrieves all analysis records in insertion order
func (u *UseCase) List(ctx context.Context) ([]*model.Analysis, error) {
	return u.repo.ListAnalyses(ctx)
}

// Show retrieves a specific analysis record by ID
func (u *UseCase) Show(ctx context.Context, id model.AnalysisID) (*model.Analysis, error) {
	return u.repo.GetAnalysis(ctx, id)
}

// Latest retrieves the most recent analyses, newest first
func (u *UseCase) Latest(ctx context.Context, limit int) ([]*model.Analysis, error) {
	analyses, err := u.repo.ListAnalyses(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].CreatedAt.After(analyses[j].CreatedAt)
	})

	if limit > 0 && len(analyses) > limit {
		analyses = analyses[:limit]
	}
	return analyses, nil
}

// Delete removes an analysis record from the store
func (u *UseCase) Delete(ctx context.Context, id model.AnalysisID) error {
	return u.repo.DeleteAnalysis(ctx, id)
}
