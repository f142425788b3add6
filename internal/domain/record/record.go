// Package record holds the row shapes of the three banking tables.
// Rows are read-only views materialized fresh per query; only the
// external enrichment pipeline ever writes them back.
package record

// RiskLevel is the enriched PII risk classification.
type RiskLevel string

// Risk level constants.
const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// IsValid checks if the risk level is one of the four enum values.
func (r RiskLevel) IsValid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh || r == RiskCritical
}

// Communication is a customer message row. Masked text, entities and
// risk are present only on enriched rows.
type Communication struct {
	MessageID  string
	Channel    string
	Text       string
	MaskedText string
	Entities   []string
	Risk       RiskLevel // empty when untagged
}

// Transaction is a transaction narrative row. Masked narrative, tags
// and risk score are present only on enriched rows.
type Transaction struct {
	TransactionID   string
	AmountSGD       *float64
	Date            string
	Narrative       string
	MaskedNarrative string
	Tags            []string
	RiskScore       *float64 // 0-10 inclusive when present
}

// RegParagraph is a regulatory paragraph row. Risk type, business
// units, owner and deadline are present only on enriched rows. A blank
// or absent deadline both mean "unspecified".
type RegParagraph struct {
	ParagraphID    string
	SourceDocument string
	Regulation     string
	Article        string
	Text           string
	RiskType       string
	BusinessUnits  []string
	Owner          string
	Deadline       string
}
