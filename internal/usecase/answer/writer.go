// Package answer renders normalized lookup results into the final
// user-facing text. Every template is deterministic, so outputs are
// byte-reproducible given the same inputs; there is no generative
// component anywhere in this path.
package answer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/hit"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/intent"
)

// NoResults is the uniform empty-result sentence for the three search
// intents.
const NoResults = "No results found for your query."

// OutOfScopeGuidance names the four supported topics.
const OutOfScopeGuidance = "Query out of scope for this demo — please ask about PII, " +
	"AML high-risk transactions, MAS 610 regulations, or SAR drafting in our synthetic dataset."

// Fixed section headers. Kept byte-identical for golden tests.
const (
	piiHeader = "🚨 **PII Matches Found:**"
	amlHeader = "**High-Risk Transactions:**"
	regHeader = "**Regulatory Obligations:**"
)

// Display caps for the three excerpt kinds, in characters.
const (
	piiExcerptMax    = 140
	amlNarrativeMax  = 160
	regParagraphMax  = 200
	amlDisplayLimit  = 20
	regDisplayLimit  = 20
	notProvidedLabel = "(not provided)"
)

// WritePII formats communications hits: a fixed header, a risk
// breakdown summary, then one block per hit with no truncation of the
// hit list itself.
func WritePII(env hit.Envelope[hit.PII]) string {
	if env.Count() == 0 {
		return NoResults
	}

	counts := map[string]int{"Critical": 0, "High": 0, "Medium": 0, "Low": 0}
	for _, h := range env.Items() {
		if _, ok := counts[titleCase(h.Risk)]; ok {
			counts[titleCase(h.Risk)]++
		}
	}

	lines := []string{
		piiHeader,
		fmt.Sprintf("Total: %d hits (Critical: %d, High: %d, Medium: %d, Low: %d)",
			env.Count(), counts["Critical"], counts["High"], counts["Medium"], counts["Low"]),
	}

	for _, h := range env.Items() {
		id := orLabel(h.ID, "-")
		risk := orLabel(h.Risk, notProvidedLabel)
		entities := joinOrLabel(h.Entities)
		excerpt := truncate(collapse(h.Excerpt), piiExcerptMax)

		lines = append(lines, fmt.Sprintf("\n• ID: `%s` | Risk: **%s** | Entities: %s", id, risk, entities))
		if excerpt != "" {
			lines = append(lines, fmt.Sprintf("  _Excerpt (masked):_ %s", excerpt))
		}
	}

	return strings.Join(lines, "\n")
}

// WriteAML formats transaction hits in the order received; the writer
// never re-sorts. Shows at most 20 matches.
func WriteAML(env hit.Envelope[hit.AML]) string {
	if env.Count() == 0 {
		return NoResults
	}

	total := env.Count()
	lines := []string{
		amlHeader,
		fmt.Sprintf("Total: %d transactions (showing up to first %d).", total, min(total, amlDisplayLimit)),
	}

	for _, m := range env.Items()[:min(total, amlDisplayLimit)] {
		id := orLabel(m.ID, notProvidedLabel)

		amountPart := ""
		if m.AmountSGD != nil {
			amountPart = " | SGD " + formatNumber(*m.AmountSGD)
		}

		risk := notProvidedLabel
		if m.RiskScore != nil {
			risk = formatNumber(*m.RiskScore) + "/10"
		}

		tags := joinOrLabel(m.Tags)
		narrative := truncate(collapse(m.Narrative), amlNarrativeMax)

		lines = append(lines, fmt.Sprintf("\n• **%s**%s | Risk: **%s**\n  Tags: %s", id, amountPart, risk, tags))
		if narrative != "" {
			lines = append(lines, fmt.Sprintf("  _Narrative:_ %s", narrative))
		}
	}

	return strings.Join(lines, "\n")
}

// WriteReg formats regulatory hits. Shows at most 20 matches.
func WriteReg(env hit.Envelope[hit.Reg]) string {
	if env.Count() == 0 {
		return NoResults
	}

	total := env.Count()
	lines := []string{
		regHeader,
		fmt.Sprintf("Total: %d obligations (showing up to first %d).", total, min(total, regDisplayLimit)),
	}

	for _, m := range env.Items()[:min(total, regDisplayLimit)] {
		prefix := ""
		if reg := strings.TrimSpace(m.Regulation); reg != "" {
			prefix = "[" + reg + "] "
		}
		text := truncate(collapse(orLabel(m.Text, notProvidedLabel)), regParagraphMax)
		owner := orLabel(m.Owner, notProvidedLabel)

		lines = append(lines, fmt.Sprintf("\n• %s%s", prefix, text))
		lines = append(lines, fmt.Sprintf("  Owner: **%s**", owner))
	}

	return strings.Join(lines, "\n")
}

// SARDraft is a short structured narrative drafted from a matched
// transaction's tagged metadata.
type SARDraft struct {
	TransactionID string `json:"transaction_id"`
	Draft         string `json:"sar_draft"`
}

const noSARSentence = "No SAR draft available for the requested transaction."

// BaselineSARSentence is returned in raw mode regardless of lookup
// results: the baseline intentionally cannot draft a SAR.
const BaselineSARSentence = "No SAR draft available for the requested transaction in this " +
	"baseline mode (no tagged AML semantic layer)."

// BaselineSARDraft is the designed capability gap for raw mode.
func BaselineSARDraft(txID string) SARDraft {
	if txID == "" {
		txID = intent.DefaultTxID
	}
	return SARDraft{TransactionID: txID, Draft: BaselineSARSentence}
}

// BuildSARDraft constructs a SAR draft from a tagged AML lookup,
// preferring the exact transaction-id match, else the first result.
func BuildSARDraft(env hit.Envelope[hit.AML], txID string) SARDraft {
	if txID == "" {
		txID = intent.DefaultTxID
	}

	var row *hit.AML
	for i := range env.Items() {
		if strings.EqualFold(env.Items()[i].ID, txID) {
			row = &env.Items()[i]
			break
		}
	}
	if row == nil && env.Count() > 0 {
		row = &env.Items()[0]
	}
	if row == nil {
		return SARDraft{TransactionID: txID, Draft: noSARSentence}
	}

	amount := notProvidedLabel
	if row.AmountSGD != nil {
		amount = formatNumber(*row.AmountSGD)
	}

	risk := "Risk: " + notProvidedLabel
	if row.RiskScore != nil {
		risk = "Risk: " + formatNumber(*row.RiskScore) + "/10"
	}

	body := []string{
		"Amount: SGD " + amount,
		"Typology: " + joinOrLabel(row.Tags),
		risk,
	}
	if row.Narrative != "" {
		body = append(body, "Narrative: "+row.Narrative)
	}

	return SARDraft{TransactionID: txID, Draft: strings.Join(body, "\n")}
}

// WriteSAR formats a SAR draft.
func WriteSAR(d SARDraft) string {
	id := orLabel(d.TransactionID, notProvidedLabel)
	draft := orLabel(d.Draft, noSARSentence)
	return fmt.Sprintf("**SAR Drafted for %s**\n%s", id, draft)
}

// --- Helpers ---

// collapse flattens newlines to spaces and trims the ends.
func collapse(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// truncate cuts s to max characters, replacing the tail with a
// three-character ellipsis marker. A string of exactly max characters
// is returned unmodified.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := strings.TrimRightFunc(string(runes[:max-3]), unicode.IsSpace)
	return cut + "..."
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orLabel(s, label string) string {
	if s == "" {
		return label
	}
	return s
}

func joinOrLabel(items []string) string {
	if len(items) == 0 {
		return notProvidedLabel
	}
	return strings.Join(items, ", ")
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
