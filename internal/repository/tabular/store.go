// Package tabular is the flat-file record store: the three raw banking
// tables plus their tagged variants, stored as CSV (primary) or
// parquet. A missing table yields an empty result and a note, never an
// error; the demo must keep answering with whatever data exists.
package tabular

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
)

// Raw table filename stems, matched with a trailing glob so row-count
// suffixes like "_100_rows" keep working.
const (
	rawCommStem = "customer_communication_logs"
	rawTxStem   = "transaction_narratives"
	rawRegStem  = "regulatory_paragraphs"
)

// Tagged table filename stems under the output directory.
const (
	taggedCommStem = "tagged_pii"
	taggedTxStem   = "tagged_aml"
	taggedRegStem  = "tagged_regulatory"
)

// Config locates the data directories.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	OutputDir string `yaml:"output_dir"`
}

// Store reads and writes the flat tables.
type Store struct {
	cfg Config
}

// New creates a tabular store.
func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

// CheckData verifies that the three raw tables resolve to files.
func (s *Store) CheckData(_ context.Context) error {
	for _, t := range []struct{ stem, label string }{
		{rawCommStem, "raw communications"},
		{rawTxStem, "raw transactions"},
		{rawRegStem, "raw regulatory paragraphs"},
	} {
		if findTable(s.cfg.DataDir, t.stem) == "" {
			return fmt.Errorf("%s: %w", t.label, domain.ErrMissingSource)
		}
	}
	return nil
}

// findTable resolves a filename stem to a concrete file, CSV first,
// then parquet. Empty path when nothing matches.
func findTable(dir, stem string) string {
	for _, ext := range []string{".csv", ".parquet"} {
		matches, err := filepath.Glob(filepath.Join(dir, stem+"*"+ext))
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return matches[0]
	}
	return ""
}

// RawCommunications reads the raw chat log table.
func (s *Store) RawCommunications(_ context.Context) ([]record.Communication, string) {
	rows, note := s.readTable(s.cfg.DataDir, rawCommStem, "raw communications")
	if note != "" {
		return nil, note
	}

	out := make([]record.Communication, 0, len(rows))
	for _, r := range rows {
		out = append(out, record.Communication{
			MessageID: r["message_id"],
			Channel:   r["channel"],
			Text:      r["text"],
		})
	}
	return out, ""
}

// RawTransactions reads the raw transaction narrative table.
func (s *Store) RawTransactions(_ context.Context) ([]record.Transaction, string) {
	rows, note := s.readTable(s.cfg.DataDir, rawTxStem, "raw transactions")
	if note != "" {
		return nil, note
	}

	out := make([]record.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, record.Transaction{
			TransactionID: r["transaction_id"],
			AmountSGD:     parseFloat(r["amount_sgd"]),
			Date:          r["date"],
			Narrative:     r["narrative"],
		})
	}
	return out, ""
}

// RawRegParagraphs reads the raw regulatory paragraph table.
func (s *Store) RawRegParagraphs(_ context.Context) ([]record.RegParagraph, string) {
	rows, note := s.readTable(s.cfg.DataDir, rawRegStem, "raw regulatory paragraphs")
	if note != "" {
		return nil, note
	}

	out := make([]record.RegParagraph, 0, len(rows))
	for _, r := range rows {
		out = append(out, record.RegParagraph{
			ParagraphID:    r["paragraph_id"],
			SourceDocument: r["source_document"],
			Regulation:     r["regulation"],
			Article:        r["article"],
			Text:           r["paragraph_text"],
		})
	}
	return out, ""
}

// TaggedCommunications reads the enriched chat log table.
func (s *Store) TaggedCommunications(_ context.Context) ([]record.Communication, string) {
	rows, note := s.readTable(s.cfg.OutputDir, taggedCommStem, "tagged communications")
	if note != "" {
		return nil, note
	}

	out := make([]record.Communication, 0, len(rows))
	for _, r := range rows {
		out = append(out, record.Communication{
			MessageID:  r["message_id"],
			Channel:    r["channel"],
			Text:       r["text"],
			MaskedText: r["masked_text"],
			Entities:   parseList(r["pii_entities"]),
			Risk:       record.RiskLevel(r["risk_flag"]),
		})
	}
	return out, ""
}

// TaggedTransactions reads the enriched transaction table.
func (s *Store) TaggedTransactions(_ context.Context) ([]record.Transaction, string) {
	rows, note := s.readTable(s.cfg.OutputDir, taggedTxStem, "tagged transactions")
	if note != "" {
		return nil, note
	}

	out := make([]record.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, record.Transaction{
			TransactionID:   r["transaction_id"],
			AmountSGD:       parseFloat(r["amount_sgd"]),
			Date:            r["date"],
			Narrative:       r["narrative"],
			MaskedNarrative: r["masked_narrative"],
			Tags:            parseList(r["aml_tags"]),
			RiskScore:       parseFloat(r["risk_score"]),
		})
	}
	return out, ""
}

// TaggedRegParagraphs reads the enriched regulatory table.
func (s *Store) TaggedRegParagraphs(_ context.Context) ([]record.RegParagraph, string) {
	rows, note := s.readTable(s.cfg.OutputDir, taggedRegStem, "tagged regulatory paragraphs")
	if note != "" {
		return nil, note
	}

	out := make([]record.RegParagraph, 0, len(rows))
	for _, r := range rows {
		out = append(out, record.RegParagraph{
			ParagraphID:    r["paragraph_id"],
			SourceDocument: r["source_document"],
			Regulation:     r["regulation"],
			Article:        r["article"],
			Text:           r["paragraph_text"],
			RiskType:       r["risk_type"],
			BusinessUnits:  parseList(r["business_unit"]),
			Owner:          r["owner"],
			Deadline:       r["deadline"],
		})
	}
	return out, ""
}

// readTable loads a table as header-keyed string rows.
func (s *Store) readTable(dir, stem, label string) ([]map[string]string, string) {
	path := findTable(dir, stem)
	if path == "" {
		return nil, label + " table not found under " + dir
	}

	var rows []map[string]string
	var err error
	if strings.HasSuffix(path, ".parquet") {
		rows, err = readParquetTable(path, stem)
	} else {
		rows, err = readCSVTable(path)
	}
	if err != nil {
		return nil, label + " table unreadable: " + err.Error()
	}
	return rows, ""
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseList splits a serialized label list: either a comma-joined
// string or a bracketed form like "['NRIC', 'Account']".
func parseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.Trim(s, "[]")

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'" `)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func formatList(items []string) string {
	return strings.Join(items, ", ")
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
