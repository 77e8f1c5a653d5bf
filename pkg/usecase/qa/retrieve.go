package qa

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/model"
)

// candidate is a transient scoring record built fresh on every retrieval.
// Embeddings are never persisted or cached across calls.
type candidate struct {
	text      string
	embedding []float64
	id        model.AnalysisID
	score     float64
}

// buildContextText concatenates the analysis text with its findings and
// image metadata into the retrievable representation of a record.
func buildContextText(a *model.Analysis) string {
	var sb strings.Builder
	sb.WriteString(a.Analysis)

	if len(a.Findings) > 0 {
		sb.WriteString("\n\nFindings:\n")
		for _, finding := range a.Findings {
			sb.WriteString("- ")
			sb.WriteString(finding)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n\nImage: ")
	sb.WriteString(a.ImageFilename())
	sb.WriteString("\nDate: ")
	sb.WriteString(a.CreatedAt.Format("2006-01-02"))

	return sb.String()
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// in [-1, 1]. Zero vectors or mismatched lengths score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Retrieve returns the texts of the topK stored analyses most relevant to
// the query, most relevant first. Fewer than topK qualifying records return
// all of them; an empty store returns an empty result.
func (x *Engine) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	texts, _, err := x.retrieve(ctx, query, topK)
	return texts, err
}

// retrieve loads the full analysis store, embeds the query and every
// qualifying record, and returns the texts of the topK most similar records,
// most relevant first. An empty store yields an empty result. The boolean
// reports whether all embeddings were real (false means ranking is degraded).
func (x *Engine) retrieve(ctx context.Context, query string, topK int) ([]string, bool, error) {
	if topK < 1 {
		return nil, true, goerr.New("topK must be at least 1", goerr.V("topK", topK))
	}

	queryVec, ok := x.embed(ctx, query)
	grounded := ok

	analyses, err := x.repo.ListAnalyses(ctx)
	if err != nil {
		return nil, grounded, goerr.Wrap(err, "failed to load analysis store")
	}

	var candidates []*candidate
	for _, a := range analyses {
		// Records without analysis text are malformed, skip silently
		if strings.TrimSpace(a.Analysis) == "" {
			continue
		}

		text := buildContextText(a)
		vec, ok := x.embed(ctx, text)
		if !ok {
			grounded = false
		}
		candidates = append(candidates, &candidate{
			text:      text,
			embedding: vec,
			id:        a.ID,
		})
	}

	for _, c := range candidates {
		c.score = cosineSimilarity(queryVec, c.embedding)
	}

	// Stable sort keeps insertion order for equal scores, so rankings are
	// reproducible
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.text
	}
	return texts, grounded, nil
}
