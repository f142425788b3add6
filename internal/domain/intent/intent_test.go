package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{"nric keyword", "Show me any messages with NRIC leaks.", PIISearch},
		{"salary keyword", "Which chats mention SALARY details?", PIISearch},
		{"pii keyword", "find pii exposure", PIISearch},
		{"chats keyword", "search the chats", PIISearch},
		{"messages keyword", "list customer messages", PIISearch},

		{"structuring", "any evidence of structuring?", AMLSearch},
		{"crypto", "Find high-risk transactions related to crypto.", AMLSearch},
		{"high-risk hyphen", "show high-risk accounts", AMLSearch},
		{"high risk spaced", "show high risk activity", AMLSearch},
		{"transactions with risk", "which transactions carry the most risk?", AMLSearch},

		{"mas 610", "what does mas 610 require?", RegSearch},
		{"mas and 610 apart", "under MAS notice number 610, what applies?", RegSearch},
		{"suspicious transactions", "obligations on suspicious transactions", RegSearch},

		{"sar with id", "Draft a SAR for transaction T028", SARDraft},
		{"sar without id", "please draft a sar", OutOfScope},

		{"out of scope", "what's the weather in Singapore?", OutOfScope},
		{"empty", "", OutOfScope},

		// Precedence: PII keywords win over AML keywords.
		{"pii beats aml", "messages about crypto transfers", PIISearch},
		// AML keywords win over regulatory keywords.
		{"aml beats reg", "crypto obligations under mas 610", AMLSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.query); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestExtractTxID(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Draft a SAR for T028", "T028"},
		{"draft a sar for t028 please", "T028"},
		{"T1 and T2345", "T1"},
		{"no id here", ""},
		{"TX28 is not an id", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractTxID(tt.query); got != tt.want {
			t.Errorf("ExtractTxID(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, i := range []Intent{PIISearch, AMLSearch, RegSearch, SARDraft, OutOfScope} {
		if !i.IsValid() {
			t.Errorf("intent %q should be valid", i)
		}
	}
	if Intent("PII").IsValid() {
		t.Error("intent PII should be invalid")
	}
}
