package lookup

import (
	"context"
	"strings"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/hit"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/normalize"
)

// Raw answers lookups from the unenriched tables. No tags or risk
// fields exist in raw data, so it synthesizes approximate entities and
// risk via keyword heuristics for display purposes only. The keyword
// lists and their precedence are part of the demo contract; changing
// them silently changes demo behavior.
type Raw struct {
	tools RawTools
}

// NewRaw creates the raw adapter family.
func NewRaw(tools RawTools) *Raw {
	return &Raw{tools: tools}
}

// entityKeywords maps literal keyword substrings to display labels, in
// detection order.
var entityKeywords = []struct {
	keyword string
	label   string
}{
	{"nric", "NRIC"},
	{"passport", "Passport"},
	{"phone", "Phone"},
	{"phone number", "Phone Number"},
	{"account", "Account"},
	{"account number", "Account Number"},
	{"salary", "Salary"},
}

// SearchPII filters raw communications and infers entity labels and a
// crude risk level from keyword substrings.
func (a *Raw) SearchPII(ctx context.Context, query string) hit.Envelope[hit.PII] {
	payload := a.tools.SearchPII(ctx, query, DefaultLimit)
	records := normalize.Records(payload)

	items := make([]hit.PII, 0, len(records))
	for _, r := range records {
		excerpt := firstRawString(r, "text", "original_text")
		text := strings.ToLower(excerpt)

		var entities []string
		for _, kw := range entityKeywords {
			if strings.Contains(text, kw.keyword) {
				entities = append(entities, kw.label)
			}
		}
		if len(entities) == 0 && query != "" {
			entities = append(entities, query)
		}

		risk := "Low"
		switch {
		case containsAny(text, "nric", "passport", "account"):
			risk = "High"
		case strings.Contains(text, "salary"):
			risk = "Medium"
		}

		items = append(items, hit.PII{
			ID:       firstRawString(r, "message_id", "id"),
			Risk:     risk,
			Entities: entities,
			Excerpt:  excerpt,
		})
	}
	return envelopeWithNote(items, payload)
}

// SearchAML filters raw transaction narratives and infers typology
// tags; no risk score is synthesized, the baseline must visibly lack it.
func (a *Raw) SearchAML(ctx context.Context, query string) hit.Envelope[hit.AML] {
	payload := a.tools.SearchAML(ctx, query, DefaultLimit)
	records := normalize.Records(payload)
	q := strings.ToLower(query)

	items := make([]hit.AML, 0, len(records))
	for _, r := range records {
		narrative := firstRawString(r, "narrative")
		lower := strings.ToLower(narrative)

		var tags []string
		if strings.Contains(q, "crypto") || strings.Contains(lower, "crypto") {
			tags = append(tags, "Crypto")
		}
		if containsAny(q, "structuring", "structured") || strings.Contains(lower, "structuring") {
			tags = append(tags, "Structuring")
		}
		if len(tags) == 0 && query != "" {
			tags = append(tags, query)
		}

		items = append(items, hit.AML{
			ID:        firstRawString(r, "transaction_id", "id"),
			AmountSGD: normalize.Number(r, "amount_sgd", "amount"),
			Tags:      tags,
			Narrative: narrative,
		})
	}
	return envelopeWithNote(items, payload)
}

// SearchReg filters raw regulatory paragraphs. Raw rows carry no tagged
// owner, business unit, or deadline.
func (a *Raw) SearchReg(ctx context.Context, query string) hit.Envelope[hit.Reg] {
	payload := a.tools.SearchReg(ctx, query, DefaultLimit)
	records := normalize.Records(payload)

	items := make([]hit.Reg, 0, len(records))
	for _, r := range records {
		text := firstRawString(r, "paragraph_text")
		regulation := firstRawString(r, "regulation")
		if regulation == "" {
			regulation = text
		}
		items = append(items, hit.Reg{
			ID:         firstRawString(r, "paragraph_id", "id"),
			Regulation: regulation,
			Text:       text,
			Owner:      "(not tagged)",
		})
	}
	return envelopeWithNote(items, payload)
}

func envelopeWithNote[T any](items []T, payload any) hit.Envelope[T] {
	if len(items) == 0 {
		if m, ok := payload.(map[string]any); ok {
			if note, ok := m["note"].(string); ok && note != "" {
				return hit.EmptyEnvelope[T](note)
			}
		}
	}
	return hit.NewEnvelope(items)
}

func firstRawString(r map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := r[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
