package tabular

import (
	"context"
	"strings"
)

// RawToolset exposes the raw tables as search tools: a case-insensitive
// substring filter of the whole query against the table's free-text
// column, at most limit rows in table order. Payloads mimic decoded
// JSON so the normalizer sees the same shapes external tools produce.
type RawToolset struct {
	store *Store
}

// NewRawToolset creates the raw search tools.
func NewRawToolset(store *Store) *RawToolset {
	return &RawToolset{store: store}
}

// SearchPII filters raw chat logs by text.
func (t *RawToolset) SearchPII(ctx context.Context, query string, limit int) any {
	rows, note := t.store.RawCommunications(ctx)
	if note != "" {
		return rawEnvelope("hits", nil, note)
	}

	hits := make([]map[string]any, 0)
	for _, r := range rows {
		if len(hits) >= limit {
			break
		}
		if !containsFold(r.Text, query) {
			continue
		}
		hits = append(hits, map[string]any{
			"message_id": r.MessageID,
			"channel":    r.Channel,
			"text":       r.Text,
		})
	}
	return rawEnvelope("hits", hits, "")
}

// SearchAML filters raw transaction narratives.
func (t *RawToolset) SearchAML(ctx context.Context, query string, limit int) any {
	rows, note := t.store.RawTransactions(ctx)
	if note != "" {
		return rawEnvelope("matches", nil, note)
	}

	matches := make([]map[string]any, 0)
	for _, r := range rows {
		if len(matches) >= limit {
			break
		}
		if !containsFold(r.Narrative, query) {
			continue
		}
		m := map[string]any{
			"transaction_id": r.TransactionID,
			"date":           r.Date,
			"narrative":      r.Narrative,
		}
		if r.AmountSGD != nil {
			m["amount_sgd"] = *r.AmountSGD
		}
		matches = append(matches, m)
	}
	return rawEnvelope("matches", matches, "")
}

// SearchReg filters raw regulatory paragraphs.
func (t *RawToolset) SearchReg(ctx context.Context, query string, limit int) any {
	rows, note := t.store.RawRegParagraphs(ctx)
	if note != "" {
		return rawEnvelope("matches", nil, note)
	}

	matches := make([]map[string]any, 0)
	for _, r := range rows {
		if len(matches) >= limit {
			break
		}
		if !containsFold(r.Text, query) {
			continue
		}
		matches = append(matches, map[string]any{
			"paragraph_id":    r.ParagraphID,
			"source_document": r.SourceDocument,
			"regulation":      r.Regulation,
			"article":         r.Article,
			"paragraph_text":  r.Text,
		})
	}
	return rawEnvelope("matches", matches, "")
}

// TaggedToolset exposes the enriched tables as search tools. The text
// filter also matches the row id so SAR drafting can look up a
// transaction by its identifier.
type TaggedToolset struct {
	store *Store
}

// NewTaggedToolset creates the tagged search tools.
func NewTaggedToolset(store *Store) *TaggedToolset {
	return &TaggedToolset{store: store}
}

// SearchPII filters tagged chat logs by masked text or id.
func (t *TaggedToolset) SearchPII(ctx context.Context, query string, limit int) any {
	rows, note := t.store.TaggedCommunications(ctx)
	if note != "" {
		return map[string]any{"hits": []map[string]any{}, "count": 0, "note": note}
	}

	hits := make([]map[string]any, 0)
	for _, r := range rows {
		if len(hits) >= limit {
			break
		}
		if !containsFold(r.MaskedText, query) && !containsFold(r.Text, query) && !strings.EqualFold(r.MessageID, query) {
			continue
		}
		hits = append(hits, map[string]any{
			"message_id":   r.MessageID,
			"channel":      r.Channel,
			"masked_text":  r.MaskedText,
			"pii_entities": r.Entities,
			"risk_flag":    string(r.Risk),
		})
	}
	return map[string]any{"hits": hits, "count": len(hits)}
}

// SearchAML filters tagged transactions by narrative or id.
func (t *TaggedToolset) SearchAML(ctx context.Context, query string, limit int) any {
	rows, note := t.store.TaggedTransactions(ctx)
	if note != "" {
		return map[string]any{"matches": []map[string]any{}, "count": 0, "note": note}
	}

	matches := make([]map[string]any, 0)
	for _, r := range rows {
		if len(matches) >= limit {
			break
		}
		if !containsFold(r.MaskedNarrative, query) && !containsFold(r.Narrative, query) && !strings.EqualFold(r.TransactionID, query) {
			continue
		}
		m := map[string]any{
			"transaction_id":   r.TransactionID,
			"date":             r.Date,
			"masked_narrative": r.MaskedNarrative,
			"aml_tags":         r.Tags,
		}
		if r.AmountSGD != nil {
			m["amount_sgd"] = *r.AmountSGD
		}
		if r.RiskScore != nil {
			m["risk_score"] = *r.RiskScore
		}
		matches = append(matches, m)
	}
	return map[string]any{"matches": matches, "count": len(matches)}
}

// SearchReg filters tagged regulatory paragraphs by text or id.
func (t *TaggedToolset) SearchReg(ctx context.Context, query string, limit int) any {
	rows, note := t.store.TaggedRegParagraphs(ctx)
	if note != "" {
		return map[string]any{"matches": []map[string]any{}, "count": 0, "note": note}
	}

	matches := make([]map[string]any, 0)
	for _, r := range rows {
		if len(matches) >= limit {
			break
		}
		if !containsFold(r.Text, query) && !strings.EqualFold(r.ParagraphID, query) {
			continue
		}
		matches = append(matches, map[string]any{
			"paragraph_id":    r.ParagraphID,
			"source_document": r.SourceDocument,
			"regulation":      r.Regulation,
			"article":         r.Article,
			"paragraph_text":  r.Text,
			"risk_type":       r.RiskType,
			"business_unit":   r.BusinessUnits,
			"owner":           r.Owner,
			"deadline":        r.Deadline,
		})
	}
	return map[string]any{"matches": matches, "count": len(matches)}
}

func rawEnvelope(listKey string, items []map[string]any, note string) map[string]any {
	if items == nil {
		items = []map[string]any{}
	}
	env := map[string]any{
		"approximate": true,
		listKey:       items,
		"count":       len(items),
	}
	if note != "" {
		env["note"] = note
	}
	return env
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
