package lookup

import "context"

// DefaultLimit caps the number of rows a lookup tool returns.
const DefaultLimit = 20

// RawTools runs naive substring lookups over the unenriched tables.
// Payloads are decoded JSON values, list- or envelope-shaped; a missing
// table yields an empty payload with a note, never an error.
type RawTools interface {
	SearchPII(ctx context.Context, query string, limit int) any
	SearchAML(ctx context.Context, query string, limit int) any
	SearchReg(ctx context.Context, query string, limit int) any
}

// TaggedTools runs lookups over the enriched tables, whose fields are
// authoritative. Same payload contract as RawTools.
type TaggedTools interface {
	SearchPII(ctx context.Context, query string, limit int) any
	SearchAML(ctx context.Context, query string, limit int) any
	SearchReg(ctx context.Context, query string, limit int) any
}
