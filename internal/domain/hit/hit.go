// Package hit defines the canonical per-domain result shapes produced
// by the normalizer and consumed by the answer writer.
package hit

// PII is a normalized communications hit.
type PII struct {
	ID       string   `json:"id"`
	Risk     string   `json:"risk"`
	Entities []string `json:"entities"`
	Excerpt  string   `json:"excerpt"`
}

// AML is a normalized transaction hit.
type AML struct {
	ID        string   `json:"id"`
	AmountSGD *float64 `json:"amount_sgd,omitempty"`
	RiskScore *float64 `json:"risk_score,omitempty"`
	Tags      []string `json:"tags"`
	Narrative string   `json:"narrative"`
}

// Reg is a normalized regulatory hit.
type Reg struct {
	ID         string `json:"id"`
	Regulation string `json:"regulation"`
	Text       string `json:"text"`
	Owner      string `json:"owner"`
	Deadline   string `json:"deadline"`
}

// Envelope is the canonical result container: a list of hits plus a
// count that always equals the list length. The count is derived, so
// the invariant holds by construction.
type Envelope[T any] struct {
	items []T
	note  string
}

// NewEnvelope creates an envelope over the given items.
func NewEnvelope[T any](items []T) Envelope[T] {
	return Envelope[T]{items: items}
}

// EmptyEnvelope creates an empty envelope annotated with a diagnostic
// note, used when a source table is missing or a lookup degrades.
func EmptyEnvelope[T any](note string) Envelope[T] {
	return Envelope[T]{note: note}
}

// Items returns the hits in adapter order.
func (e Envelope[T]) Items() []T { return e.items }

// Count returns the number of hits.
func (e Envelope[T]) Count() int { return len(e.items) }

// Note returns the diagnostic note, empty for healthy lookups.
func (e Envelope[T]) Note() string { return e.note }
