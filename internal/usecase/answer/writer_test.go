package answer

import (
	"strings"
	"testing"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/hit"
)

func f64(v float64) *float64 { return &v }

func TestWritePIIEmpty(t *testing.T) {
	got := WritePII(hit.EmptyEnvelope[hit.PII](""))
	if got != NoResults {
		t.Fatalf("expected empty-result sentence, got %q", got)
	}
}

func TestWritePIIFormatting(t *testing.T) {
	env := hit.NewEnvelope([]hit.PII{
		{ID: "C001", Risk: "Critical", Entities: []string{"NRIC", "Phone"}, Excerpt: "line one\nline two"},
		{ID: "C002", Risk: "high", Entities: nil, Excerpt: ""},
	})

	got := WritePII(env)

	if !strings.HasPrefix(got, "🚨 **PII Matches Found:**\n") {
		t.Fatalf("missing header: %q", got)
	}
	if !strings.Contains(got, "Total: 2 hits (Critical: 1, High: 1, Medium: 0, Low: 0)") {
		t.Errorf("risk breakdown wrong:\n%s", got)
	}
	if !strings.Contains(got, "\n• ID: `C001` | Risk: **Critical** | Entities: NRIC, Phone") {
		t.Errorf("hit line wrong:\n%s", got)
	}
	if !strings.Contains(got, "_Excerpt (masked):_ line one line two") {
		t.Errorf("newlines should collapse to spaces:\n%s", got)
	}
	if !strings.Contains(got, "\n• ID: `C002` | Risk: **high** | Entities: (not provided)") {
		t.Errorf("fallback entities wrong:\n%s", got)
	}
	if strings.Count(got, "_Excerpt") != 1 {
		t.Errorf("blank excerpt should not emit an excerpt line:\n%s", got)
	}
}

func TestWritePIITruncationBoundary(t *testing.T) {
	exact := strings.Repeat("a", 140)
	over := strings.Repeat("a", 141)

	gotExact := WritePII(hit.NewEnvelope([]hit.PII{{ID: "X", Excerpt: exact}}))
	if !strings.Contains(gotExact, exact) || strings.Contains(gotExact, "...") {
		t.Errorf("140-char excerpt must be untouched:\n%s", gotExact)
	}

	gotOver := WritePII(hit.NewEnvelope([]hit.PII{{ID: "X", Excerpt: over}}))
	want := strings.Repeat("a", 137) + "..."
	if !strings.Contains(gotOver, want) {
		t.Errorf("141-char excerpt must truncate to 137 + ellipsis:\n%s", gotOver)
	}
	if strings.Contains(gotOver, strings.Repeat("a", 138)) {
		t.Errorf("truncated excerpt too long:\n%s", gotOver)
	}
}

func TestTruncateTrimsTrailingSpaceBeforeEllipsis(t *testing.T) {
	s := strings.Repeat("a", 135) + "  " + strings.Repeat("b", 10)
	got := truncate(s, 140)
	want := strings.Repeat("a", 135) + "..."
	if got != want {
		t.Fatalf("truncate(%q) = %q, want %q", s, got, want)
	}
}

func TestWriteAMLEmpty(t *testing.T) {
	if got := WriteAML(hit.EmptyEnvelope[hit.AML]("")); got != NoResults {
		t.Fatalf("expected empty-result sentence, got %q", got)
	}
}

func TestWriteAMLFormatting(t *testing.T) {
	env := hit.NewEnvelope([]hit.AML{
		{ID: "T028", AmountSGD: f64(9500), RiskScore: f64(9), Tags: []string{"structuring", "layering"}, Narrative: "Split deposits\nacross branches"},
		{ID: "T031", Tags: nil},
	})

	got := WriteAML(env)

	if !strings.HasPrefix(got, "**High-Risk Transactions:**\n") {
		t.Fatalf("missing header: %q", got)
	}
	if !strings.Contains(got, "Total: 2 transactions (showing up to first 2).") {
		t.Errorf("total line wrong:\n%s", got)
	}
	if !strings.Contains(got, "\n• **T028** | SGD 9500 | Risk: **9/10**\n  Tags: structuring, layering") {
		t.Errorf("match line wrong:\n%s", got)
	}
	if !strings.Contains(got, "_Narrative:_ Split deposits across branches") {
		t.Errorf("narrative wrong:\n%s", got)
	}
	if !strings.Contains(got, "\n• **T031** | Risk: **(not provided)**\n  Tags: (not provided)") {
		t.Errorf("fallbacks wrong:\n%s", got)
	}
}

func TestWriteAMLDisplayCap(t *testing.T) {
	matches := make([]hit.AML, 25)
	for i := range matches {
		matches[i] = hit.AML{ID: "T" + strings.Repeat("0", i+1)}
	}
	got := WriteAML(hit.NewEnvelope(matches))

	if !strings.Contains(got, "Total: 25 transactions (showing up to first 20).") {
		t.Errorf("total line wrong:\n%s", got)
	}
	if n := strings.Count(got, "\n• **"); n != 20 {
		t.Errorf("expected 20 rendered matches, got %d", n)
	}
}

func TestWriteRegFormatting(t *testing.T) {
	env := hit.NewEnvelope([]hit.Reg{
		{ID: "R1", Regulation: "MAS Notice 610", Text: "Report suspicious transactions promptly.", Owner: "Compliance"},
		{ID: "R2", Regulation: "  ", Text: "Maintain records.", Owner: ""},
	})

	got := WriteReg(env)

	if !strings.HasPrefix(got, "**Regulatory Obligations:**\n") {
		t.Fatalf("missing header: %q", got)
	}
	if !strings.Contains(got, "Total: 2 obligations (showing up to first 2).") {
		t.Errorf("total line wrong:\n%s", got)
	}
	if !strings.Contains(got, "\n• [MAS Notice 610] Report suspicious transactions promptly.\n  Owner: **Compliance**") {
		t.Errorf("prefixed line wrong:\n%s", got)
	}
	if !strings.Contains(got, "\n• Maintain records.\n  Owner: **(not provided)**") {
		t.Errorf("blank regulation must drop the bracket prefix:\n%s", got)
	}
}

func TestWriteRegTruncation(t *testing.T) {
	long := strings.Repeat("x", 201)
	got := WriteReg(hit.NewEnvelope([]hit.Reg{{ID: "R1", Text: long}}))
	want := strings.Repeat("x", 197) + "..."
	if !strings.Contains(got, want) {
		t.Errorf("201-char text must truncate to 197 + ellipsis:\n%s", got)
	}
}

func TestBuildSARDraftPrefersExactMatch(t *testing.T) {
	env := hit.NewEnvelope([]hit.AML{
		{ID: "T001", RiskScore: f64(5)},
		{ID: "T028", AmountSGD: f64(9500), RiskScore: f64(9), Tags: []string{"structuring"}, Narrative: "Split deposits."},
	})

	d := BuildSARDraft(env, "T028")
	if d.TransactionID != "T028" {
		t.Fatalf("transaction id = %q", d.TransactionID)
	}
	want := "Amount: SGD 9500\nTypology: structuring\nRisk: 9/10\nNarrative: Split deposits."
	if d.Draft != want {
		t.Errorf("draft = %q, want %q", d.Draft, want)
	}
}

func TestBuildSARDraftFallsBackToFirstResult(t *testing.T) {
	env := hit.NewEnvelope([]hit.AML{{ID: "T099", RiskScore: f64(7)}})
	d := BuildSARDraft(env, "T028")
	if !strings.Contains(d.Draft, "Risk: 7/10") {
		t.Errorf("should draft from the first result when no exact match: %q", d.Draft)
	}
	if d.TransactionID != "T028" {
		t.Errorf("requested id is kept even on fallback: %q", d.TransactionID)
	}
}

func TestBuildSARDraftNoResults(t *testing.T) {
	d := BuildSARDraft(hit.EmptyEnvelope[hit.AML](""), "")
	if d.TransactionID != "T028" {
		t.Errorf("default transaction id wrong: %q", d.TransactionID)
	}
	if d.Draft != "No SAR draft available for the requested transaction." {
		t.Errorf("draft = %q", d.Draft)
	}
}

func TestBuildSARDraftMissingFields(t *testing.T) {
	d := BuildSARDraft(hit.NewEnvelope([]hit.AML{{ID: "T028"}}), "T028")
	want := "Amount: SGD (not provided)\nTypology: (not provided)\nRisk: (not provided)"
	if d.Draft != want {
		t.Errorf("draft = %q, want %q", d.Draft, want)
	}
}

func TestWriteSAR(t *testing.T) {
	got := WriteSAR(SARDraft{TransactionID: "T028", Draft: "Amount: SGD 9500"})
	if got != "**SAR Drafted for T028**\nAmount: SGD 9500" {
		t.Fatalf("got %q", got)
	}
}

func TestBaselineSARDraft(t *testing.T) {
	d := BaselineSARDraft("")
	if d.TransactionID != "T028" || d.Draft != BaselineSARSentence {
		t.Fatalf("unexpected baseline draft: %+v", d)
	}
}
