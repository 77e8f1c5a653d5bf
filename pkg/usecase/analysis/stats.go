package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/r-ahemad/radiqa/pkg/adapter"
)

// KeywordFreq is a keyword with its occurrence count across the store
type KeywordFreq struct {
	Keyword string
	Count   int
}

// Stats summarizes the analysis store
type Stats struct {
	Total    int
	Keywords []KeywordFreq // most frequent first
}

// Stats computes keyword frequencies over the local analysis store
func (u *UseCase) Stats(ctx context.Context) (*Stats, error) {
	analyses, err := u.repo.ListAnalyses(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, a := range analyses {
		for _, kw := range a.Keywords {
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	keywords := make([]KeywordFreq, 0, len(order))
	for _, kw := range order {
		keywords = append(keywords, KeywordFreq{Keyword: kw, Count: counts[kw]})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})

	return &Stats{
		Total:    len(analyses),
		Keywords: keywords,
	}, nil
}

// Export streams all analysis records to the BigQuery export table
func (u *UseCase) Export(ctx context.Context, bq adapter.BigQuery) (int, error) {
	analyses, err := u.repo.ListAnalyses(ctx)
	if err != nil {
		return 0, err
	}
	if len(analyses) == 0 {
		return 0, nil
	}

	if err := bq.InsertAnalyses(ctx, analyses); err != nil {
		return 0, err
	}
	return len(analyses), nil
}

// ExportedStats aggregates keyword frequencies over the BigQuery export
// table instead of the local store.
func (u *UseCase) ExportedStats(ctx context.Context, bq adapter.BigQuery, limit int) ([]KeywordFreq, error) {
	counts, err := bq.KeywordCounts(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]KeywordFreq, 0, len(counts))
	for _, c := range counts {
		out = append(out, KeywordFreq{Keyword: c.Keyword, Count: int(c.Count)})
	}
	return out, nil
}

// Render formats the statistics as a human-readable report
func (s *Stats) Render() string {
	var sb strings.Builder
	sb.WriteString("Medical Imaging Statistics\n")
	fmt.Fprintf(&sb, "Total analyses: %d\n", s.Total)

	if len(s.Keywords) > 0 {
		sb.WriteString("\nCommon findings:\n")
		for _, kw := range s.Keywords {
			fmt.Fprintf(&sb, "  %-20s %d\n", kw.Keyword, kw.Count)
		}
	}
	return sb.String()
}
