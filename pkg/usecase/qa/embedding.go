package qa

import (
	"context"
	"math/rand"
	"time"

	"github.com/r-ahemad/radiqa/pkg/utils/logging"
)

// EmbeddingDim is the dimensionality of text-embedding-ada-002 vectors. The
// fallback vector uses the same length so the retrieval pipeline works
// without connectivity.
const EmbeddingDim = 1536

const embeddingTimeout = 10 * time.Second

// embed returns an embedding vector for the text. It never fails: without a
// configured client, or when the provider call errors, it returns a random
// vector instead so that question answering degrades rather than aborts.
// The second return value reports whether the vector is a real embedding.
func (x *Engine) embed(ctx context.Context, text string) ([]float64, bool) {
	if x.client == nil {
		return randomVector(), false
	}

	ctx, cancel := context.WithTimeout(ctx, embeddingTimeout)
	defer cancel()

	vec, err := x.client.Embedding(ctx, text)
	if err != nil {
		logging.From(ctx).Warn("embedding failed, falling back to random vector", "error", err)
		return randomVector(), false
	}

	return vec, true
}

func randomVector() []float64 {
	vec := make([]float64, EmbeddingDim)
	for i := range vec {
		vec[i] = rand.Float64()
	}
	return vec
}
