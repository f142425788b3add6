package orchestrator

import (
	"context"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/hit"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/mode"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/regmetric"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/summary"
)

// Lookup searches one dataset family. Both the raw and the tagged
// adapters satisfy it; the orchestrator picks one per request mode.
type Lookup interface {
	SearchPII(ctx context.Context, query string) hit.Envelope[hit.PII]
	SearchAML(ctx context.Context, query string) hit.Envelope[hit.AML]
	SearchReg(ctx context.Context, query string) hit.Envelope[hit.Reg]
}

// RegAnswerer handles the analytical regulatory questions that plain
// lookup cannot. ok is false when the query does not match any of its
// patterns, in which case the caller falls back to lookup.
type RegAnswerer interface {
	Answer(ctx context.Context, query string, m mode.Mode) (regmetric.Answer, bool)
}

// SummaryBuilder computes the tagged-layer aggregate snapshot.
type SummaryBuilder interface {
	Build(ctx context.Context) (summary.Metrics, error)
}

// NarrativeSearcher finds transactions whose tagged narratives are
// semantically close to the query. It matches domain.SimilaritySearcher.
type NarrativeSearcher interface {
	Search(ctx context.Context, query string, k int) (domain.SimilarityResult, error)
}
