package domain

import (
	"context"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Tagger is the external text-understanding service that assigns risk
// metadata to a raw row. Each call may fail; callers retry a bounded
// number of times and then skip the record.
type Tagger interface {
	TagCommunication(ctx context.Context, c record.Communication) (record.Communication, error)
	TagTransaction(ctx context.Context, t record.Transaction) (record.Transaction, error)
	TagRegParagraph(ctx context.Context, p record.RegParagraph) (record.RegParagraph, error)
}

// SimilarityResult holds nearest-neighbor ids and distances. An absent
// index yields an empty result, not an error.
type SimilarityResult struct {
	Matches   []string  `json:"matches"`
	Distances []float64 `json:"distances"`
}

// SimilaritySearcher is the best-effort nearest-neighbor index contract.
// Its output never affects deterministic answers.
type SimilaritySearcher interface {
	Search(ctx context.Context, query string, k int) (SimilarityResult, error)
}
