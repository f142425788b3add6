package tabular

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// Parquet row shapes. Raw and tagged variants share a struct; tagged
// columns are optional and come back empty on raw files.
type commRow struct {
	MessageID   string   `parquet:"message_id"`
	Channel     string   `parquet:"channel,optional"`
	Text        string   `parquet:"text,optional"`
	MaskedText  string   `parquet:"masked_text,optional"`
	PIIEntities string   `parquet:"pii_entities,optional"`
	RiskFlag    string   `parquet:"risk_flag,optional"`
}

type txRow struct {
	TransactionID   string   `parquet:"transaction_id"`
	AmountSGD       *float64 `parquet:"amount_sgd,optional"`
	Date            string   `parquet:"date,optional"`
	Narrative       string   `parquet:"narrative,optional"`
	MaskedNarrative string   `parquet:"masked_narrative,optional"`
	AMLTags         string   `parquet:"aml_tags,optional"`
	RiskScore       *float64 `parquet:"risk_score,optional"`
}

type regRow struct {
	ParagraphID    string `parquet:"paragraph_id"`
	SourceDocument string `parquet:"source_document,optional"`
	Regulation     string `parquet:"regulation,optional"`
	Article        string `parquet:"article,optional"`
	ParagraphText  string `parquet:"paragraph_text,optional"`
	RiskType       string `parquet:"risk_type,optional"`
	BusinessUnit   string `parquet:"business_unit,optional"`
	Owner          string `parquet:"owner,optional"`
	Deadline       string `parquet:"deadline,optional"`
}

// readParquetTable loads a parquet table as the same header-keyed
// string rows the CSV reader produces.
func readParquetTable(path, stem string) ([]map[string]string, error) {
	switch stem {
	case rawCommStem, taggedCommStem:
		rows, err := parquet.ReadFile[commRow](path)
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
		out := make([]map[string]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, map[string]string{
				"message_id":   r.MessageID,
				"channel":      r.Channel,
				"text":         r.Text,
				"masked_text":  r.MaskedText,
				"pii_entities": r.PIIEntities,
				"risk_flag":    r.RiskFlag,
			})
		}
		return out, nil

	case rawTxStem, taggedTxStem:
		rows, err := parquet.ReadFile[txRow](path)
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
		out := make([]map[string]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, map[string]string{
				"transaction_id":   r.TransactionID,
				"amount_sgd":       formatFloat(r.AmountSGD),
				"date":             r.Date,
				"narrative":        r.Narrative,
				"masked_narrative": r.MaskedNarrative,
				"aml_tags":         r.AMLTags,
				"risk_score":       formatFloat(r.RiskScore),
			})
		}
		return out, nil

	case rawRegStem, taggedRegStem:
		rows, err := parquet.ReadFile[regRow](path)
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
		out := make([]map[string]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, map[string]string{
				"paragraph_id":    r.ParagraphID,
				"source_document": r.SourceDocument,
				"regulation":      r.Regulation,
				"article":         r.Article,
				"paragraph_text":  r.ParagraphText,
				"risk_type":       r.RiskType,
				"business_unit":   r.BusinessUnit,
				"owner":           r.Owner,
				"deadline":        r.Deadline,
			})
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown table stem %q", stem)
}
