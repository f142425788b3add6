package mode

// Mode selects which adapter family answers a query.
type Mode string

// Answering mode constants.
const (
	// Raw answers from unenriched tables with heuristic fallbacks.
	Raw Mode = "raw"
	// Tagged answers from enriched tables with authoritative fields.
	Tagged Mode = "tagged"
	// TaggedSimilarity behaves like Tagged and additionally touches the
	// similarity index for the demo storyline.
	TaggedSimilarity Mode = "tagged_similarity"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Raw || m == Tagged || m == TaggedSimilarity
}

// UsesTags reports whether the mode reads enriched tables.
func (m Mode) UsesTags() bool {
	return m == Tagged || m == TaggedSimilarity
}
