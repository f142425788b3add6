package lookup

import (
	"context"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/hit"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/normalize"
)

// Tagged answers lookups from the enriched tables and trusts their
// fields as authoritative; no heuristic inference happens here. Tool
// payloads may be list- or envelope-shaped.
type Tagged struct {
	tools TaggedTools
}

// NewTagged creates the tagged adapter family.
func NewTagged(tools TaggedTools) *Tagged {
	return &Tagged{tools: tools}
}

// SearchPII looks up enriched communications.
func (a *Tagged) SearchPII(ctx context.Context, query string) hit.Envelope[hit.PII] {
	return normalize.PII(a.tools.SearchPII(ctx, query, DefaultLimit))
}

// SearchAML looks up enriched transactions.
func (a *Tagged) SearchAML(ctx context.Context, query string) hit.Envelope[hit.AML] {
	return normalize.AML(a.tools.SearchAML(ctx, query, DefaultLimit))
}

// SearchReg looks up enriched regulatory paragraphs.
func (a *Tagged) SearchReg(ctx context.Context, query string) hit.Envelope[hit.Reg] {
	return normalize.Reg(a.tools.SearchReg(ctx, query, DefaultLimit))
}
