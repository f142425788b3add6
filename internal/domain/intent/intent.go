package intent

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a free-text query.
type Intent string

// Intent constants.
const (
	PIISearch  Intent = "PII_SEARCH"
	AMLSearch  Intent = "AML_SEARCH"
	RegSearch  Intent = "REG_SEARCH"
	SARDraft   Intent = "SAR_DRAFT"
	OutOfScope Intent = "OUT_OF_SCOPE"
)

// IsValid checks if the intent is one of the supported values.
func (i Intent) IsValid() bool {
	switch i {
	case PIISearch, AMLSearch, RegSearch, SARDraft, OutOfScope:
		return true
	}
	return false
}

// Classify maps a free-text query to a single intent via keyword rules,
// first match wins. It is a pure function of the lower-cased query and
// never returns more than one intent; cross-domain queries resolve by
// rule order.
func Classify(query string) Intent {
	q := strings.ToLower(query)

	if containsAny(q, "nric", "salary", "pii", "chats", "messages") {
		return PIISearch
	}

	if containsAny(q, "structuring", "crypto", "high-risk", "high risk") {
		return AMLSearch
	}
	if strings.Contains(q, "transactions") && containsAny(q, "risk", "crypto") {
		return AMLSearch
	}

	if strings.Contains(q, "mas 610") ||
		(strings.Contains(q, "mas") && strings.Contains(q, "610")) ||
		strings.Contains(q, "suspicious transactions") {
		return RegSearch
	}

	if strings.Contains(q, "sar") && strings.Contains(q, "t028") {
		return SARDraft
	}

	return OutOfScope
}

// DefaultTxID is assumed when a SAR query names no transaction.
const DefaultTxID = "T028"

var txIDPattern = regexp.MustCompile(`\bT\d+\b`)

// ExtractTxID returns the first transaction id of the form "T" followed
// by digits, upper-cased. Empty string when the query names none.
func ExtractTxID(query string) string {
	return txIDPattern.FindString(strings.ToUpper(query))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
