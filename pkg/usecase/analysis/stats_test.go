package analysis_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/r-ahemad/radiqa/pkg/model"
	"github.com/r-ahemad/radiqa/pkg/repository"
	"github.com/r-ahemad/radiqa/pkg/usecase/analysis"
)

func putRecord(t *testing.T, repo repository.Repository, created time.Time, keywords ...string) {
	t.Helper()
	a := &model.Analysis{
		ID:        model.NewAnalysisID(),
		Analysis:  "analysis",
		Keywords:  keywords,
		CreatedAt: created,
	}
	gt.NoError(t, repo.PutAnalysis(context.Background(), a))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	putRecord(t, repo, base, "effusion", "pneumonia")
	putRecord(t, repo, base.Add(time.Hour), "effusion")
	putRecord(t, repo, base.Add(2*time.Hour), "effusion", "nodule")

	uc := analysis.New(repo)
	stats := gt.R1(uc.Stats(ctx)).NoError(t)

	gt.Equal(t, stats.Total, 3)
	gt.True(t, len(stats.Keywords) == 3)
	gt.Equal(t, stats.Keywords[0].Keyword, "effusion")
	gt.Equal(t, stats.Keywords[0].Count, 3)

	report := stats.Render()
	gt.S(t, report).Contains("Total analyses: 3")
	gt.S(t, report).Contains("effusion")
}

func TestStatsEmptyStore(t *testing.T) {
	ctx := context.Background()
	uc := analysis.New(repository.NewMemory())

	stats := gt.R1(uc.Stats(ctx)).NoError(t)
	gt.Equal(t, stats.Total, 0)
	gt.A(t, stats.Keywords).Length(0)
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	putRecord(t, repo, base, "first")
	putRecord(t, repo, base.Add(2*time.Hour), "newest")
	putRecord(t, repo, base.Add(time.Hour), "middle")

	uc := analysis.New(repo)
	latest := gt.R1(uc.Latest(ctx, 2)).NoError(t)

	gt.A(t, latest).Length(2)
	gt.Equal(t, latest[0].Keywords[0], "newest")
	gt.Equal(t, latest[1].Keywords[0], "middle")
}

func TestInsertExtractsFindings(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	uc := analysis.New(repo)

	a := gt.R1(uc.Insert(ctx, "Impression:\n1. Small pleural effusion.", "ct_chest.dcm")).NoError(t)
	gt.True(t, a.ID != "")
	gt.A(t, a.Findings).Length(1)
	gt.Equal(t, a.Filename, "ct_chest.dcm")

	stored := gt.R1(repo.GetAnalysis(ctx, a.ID)).NoError(t)
	gt.Equal(t, stored.Analysis, "Impression:\n1. Small pleural effusion.")
}

func TestInsertRejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	uc := analysis.New(repository.NewMemory())

	_, err := uc.Insert(ctx, "   ", "x.png")
	gt.Error(t, err)
}
