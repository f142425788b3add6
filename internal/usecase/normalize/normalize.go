// Package normalize converts heterogeneous lookup-tool payloads into
// the canonical envelope shape. External tools return decoded JSON:
// either a bare list of records or an envelope object with aliased
// field names. All aliasing lives here, in one place, with an ordered
// alias list per field; call sites never duck-type payloads themselves.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/hit"
)

// hitListKeys are the accepted aliases for the hits list of an
// envelope-shaped payload, first present wins.
var hitListKeys = []string{"hits", "results", "matches", "rows"}

// Records extracts the list of record maps from a list- or
// envelope-shaped payload. Records that are not mappings are silently
// dropped.
func Records(payload any) []map[string]any {
	switch v := payload.(type) {
	case []any:
		return mapsOnly(v)
	case []map[string]any:
		return v
	case map[string]any:
		for _, key := range hitListKeys {
			if list, ok := v[key].([]any); ok {
				return mapsOnly(list)
			}
			if list, ok := v[key].([]map[string]any); ok {
				return list
			}
		}
	}
	return nil
}

// PII normalizes a communications lookup payload. Passing an already
// canonical envelope returns it unchanged.
func PII(payload any) hit.Envelope[hit.PII] {
	if env, ok := payload.(hit.Envelope[hit.PII]); ok {
		return env
	}

	records := Records(payload)
	items := make([]hit.PII, 0, len(records))
	for _, r := range records {
		items = append(items, hit.PII{
			ID:       firstString(r, "id", "message_id"),
			Risk:     firstString(r, "risk_flag", "risk_level"),
			Entities: toList(firstValue(r, "pii_entities", "entities")),
			Excerpt:  firstString(r, "masked_text", "original_text", "text"),
		})
	}
	return withNote(hit.NewEnvelope(items), payload)
}

// AML normalizes a transactions lookup payload.
func AML(payload any) hit.Envelope[hit.AML] {
	if env, ok := payload.(hit.Envelope[hit.AML]); ok {
		return env
	}

	records := Records(payload)
	items := make([]hit.AML, 0, len(records))
	for _, r := range records {
		items = append(items, hit.AML{
			ID:        firstString(r, "id", "transaction_id", "tx_id"),
			AmountSGD: firstNumber(r, "amount_sgd", "amount", "amount_SGD"),
			RiskScore: firstNumber(r, "risk_score", "risk"),
			Tags:      toList(firstValue(r, "aml_tags", "tags", "typology")),
			Narrative: firstString(r, "masked_narrative", "original_narrative", "narrative"),
		})
	}
	return withNote(hit.NewEnvelope(items), payload)
}

// Reg normalizes a regulatory lookup payload.
func Reg(payload any) hit.Envelope[hit.Reg] {
	if env, ok := payload.(hit.Envelope[hit.Reg]); ok {
		return env
	}

	records := Records(payload)
	items := make([]hit.Reg, 0, len(records))
	for _, r := range records {
		items = append(items, hit.Reg{
			ID:         firstString(r, "id", "paragraph_id"),
			Regulation: firstString(r, "regulation", "source_document"),
			Text:       firstString(r, "paragraph_text", "original_text", "text"),
			Owner:      firstOwner(r),
			Deadline:   firstString(r, "deadline"),
		})
	}
	return withNote(hit.NewEnvelope(items), payload)
}

// firstOwner resolves the owner aliases; business_unit may be a list.
func firstOwner(r map[string]any) string {
	if s := firstString(r, "owner"); s != "" {
		return s
	}
	if units := toList(r["business_unit"]); len(units) > 0 {
		return strings.Join(units, ", ")
	}
	return firstString(r, "assigned_to")
}

func mapsOnly(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// withNote carries an envelope-level diagnostic note through
// normalization when the payload had no hits.
func withNote[T any](env hit.Envelope[T], payload any) hit.Envelope[T] {
	if env.Count() > 0 {
		return env
	}
	if m, ok := payload.(map[string]any); ok {
		if note, ok := m["note"].(string); ok && note != "" {
			return hit.EmptyEnvelope[T](note)
		}
	}
	return env
}

func firstValue(r map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// String returns the first non-blank string value among the aliases,
// converting scalar values to their string form.
func String(r map[string]any, keys ...string) string {
	return firstString(r, keys...)
}

// Number returns the first numeric value among the aliases, or nil.
func Number(r map[string]any, keys ...string) *float64 {
	return firstNumber(r, keys...)
}

// firstString returns the first non-blank string value among the
// aliases, converting scalar values to their string form.
func firstString(r map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if s := asString(v); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// firstNumber returns the first numeric value among the aliases, or nil.
func firstNumber(r map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return &n
		case float32:
			f := float64(n)
			return &f
		case int:
			f := float64(n)
			return &f
		case int64:
			f := float64(n)
			return &f
		case *float64:
			return n
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// toList normalizes a field that might be a list, a bracketed string
// like "['NRIC', 'account number']", a comma-separated string, or a
// single label into a clean list of labels.
func toList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return cleanLabels(val)
	case []any:
		labels := make([]string, 0, len(val))
		for _, item := range val {
			labels = append(labels, asString(item))
		}
		return cleanLabels(labels)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			// Tolerate single-quoted pseudo-JSON lists.
			var arr []any
			if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &arr); err == nil {
				labels := make([]string, 0, len(arr))
				for _, item := range arr {
					labels = append(labels, asString(item))
				}
				return cleanLabels(labels)
			}
		}
		if strings.Contains(s, ",") {
			return cleanLabels(strings.Split(s, ","))
		}
		return cleanLabels([]string{s})
	}
	if s := asString(v); s != "" {
		return cleanLabels([]string{s})
	}
	return nil
}

func cleanLabels(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, label := range raw {
		label = strings.Trim(strings.TrimSpace(label), `'"`)
		if label != "" {
			out = append(out, label)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
