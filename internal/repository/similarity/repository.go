// Package similarity implements the narrative nearest-neighbor search
// over the redis vector index.
package similarity

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/db/redis"
)

// IDField is the hash field holding the transaction id.
const IDField = "transaction_id"

// Searcher is the redis command surface the repository needs.
type Searcher interface {
	SearchKNN(ctx context.Context, index string, vector []float32, k int, returnFields []string) ([]redis.Entry, error)
}

// Repository searches the narrative index. It satisfies
// domain.SimilaritySearcher.
type Repository struct {
	store Searcher
	embed domain.Embedder
	index string
}

// New creates a similarity repository over the named index.
func New(store Searcher, embed domain.Embedder, index string) *Repository {
	return &Repository{store: store, embed: embed, index: index}
}

// Search embeds the query and returns the k nearest narratives. An
// absent index yields an empty result, not an error; the probe must
// stay harmless when the index was never built.
func (r *Repository) Search(ctx context.Context, query string, k int) (domain.SimilarityResult, error) {
	emb, err := r.embed.Embed(ctx, query)
	if err != nil {
		return domain.SimilarityResult{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}

	entries, err := r.store.SearchKNN(ctx, r.index, emb.Embedding, k, []string{IDField})
	if err != nil {
		if errors.Is(err, redis.ErrIndexNotFound) {
			return domain.SimilarityResult{}, nil
		}
		return domain.SimilarityResult{}, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	res := domain.SimilarityResult{
		Matches:   make([]string, 0, len(entries)),
		Distances: make([]float64, 0, len(entries)),
	}
	for _, e := range entries {
		id := e.Fields[IDField]
		if id == "" {
			id = e.Key
		}
		res.Matches = append(res.Matches, id)
		res.Distances = append(res.Distances, e.Distance)
	}
	return res, nil
}
