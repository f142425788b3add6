package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
)

// readCSVTable loads a CSV file as header-keyed rows. Short rows are
// padded with empty strings.
func readCSVTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	header := all[0]
	rows := make([]map[string]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeCSVTable writes header+rows to path, creating the directory.
func writeCSVTable(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return f.Close()
}

// WriteTaggedCommunications writes the enriched chat log CSV.
func (s *Store) WriteTaggedCommunications(_ context.Context, rows []record.Communication) error {
	header := []string{"message_id", "channel", "text", "masked_text", "pii_entities", "risk_flag"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.MessageID, r.Channel, r.Text, r.MaskedText, formatList(r.Entities), string(r.Risk),
		})
	}
	return writeCSVTable(filepath.Join(s.cfg.OutputDir, taggedCommStem+".csv"), header, out)
}

// WriteTaggedTransactions writes the enriched transaction CSV.
func (s *Store) WriteTaggedTransactions(_ context.Context, rows []record.Transaction) error {
	header := []string{"transaction_id", "amount_sgd", "date", "narrative", "masked_narrative", "aml_tags", "risk_score"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.TransactionID, formatFloat(r.AmountSGD), r.Date, r.Narrative,
			r.MaskedNarrative, formatList(r.Tags), formatFloat(r.RiskScore),
		})
	}
	return writeCSVTable(filepath.Join(s.cfg.OutputDir, taggedTxStem+".csv"), header, out)
}

// WriteTaggedRegParagraphs writes the enriched regulatory CSV.
func (s *Store) WriteTaggedRegParagraphs(_ context.Context, rows []record.RegParagraph) error {
	header := []string{
		"paragraph_id", "source_document", "regulation", "article", "paragraph_text",
		"risk_type", "business_unit", "owner", "deadline",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.ParagraphID, r.SourceDocument, r.Regulation, r.Article, r.Text,
			r.RiskType, formatList(r.BusinessUnits), r.Owner, r.Deadline,
		})
	}
	return writeCSVTable(filepath.Join(s.cfg.OutputDir, taggedRegStem+".csv"), header, out)
}
