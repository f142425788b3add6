// Package regmetric answers structured analytic questions over the
// enriched regulatory table: filter-based row queries, a deadline
// coverage handler, and a missing-field audit handler.
package regmetric

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/mode"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
)

// Source reads the enriched regulatory table. A missing table yields an
// empty slice plus a note.
type Source interface {
	TaggedRegParagraphs(ctx context.Context) ([]record.RegParagraph, string)
}

// Filters select regulatory rows. String filters are case-insensitive
// substring matches; boolean filters keep rows whose field is blank
// after trimming. Filters are ANDed; zero values are no-ops.
type Filters struct {
	SourceDocument  string
	RiskType        string
	MissingDeadline bool
	MissingOwner    bool
}

// Answer is a crafted response to a structured regulatory question.
type Answer struct {
	Text     string
	Matches  []record.RegParagraph
	Count    int
	ToolName string
}

// Service is the regulatory metric engine.
type Service struct {
	source Source
}

// New creates a regulatory metric engine.
func New(source Source) *Service {
	return &Service{source: source}
}

// QueryRegulations returns enriched regulatory rows matching the
// filters, in table order. Returns an empty slice when the enriched
// table does not exist.
func (s *Service) QueryRegulations(ctx context.Context, f Filters) []record.RegParagraph {
	rows, _ := s.source.TaggedRegParagraphs(ctx)

	var out []record.RegParagraph
	for _, r := range rows {
		if f.SourceDocument != "" && !containsFold(r.SourceDocument, f.SourceDocument) {
			continue
		}
		if f.RiskType != "" && !containsFold(r.RiskType, f.RiskType) {
			continue
		}
		if f.MissingDeadline && strings.TrimSpace(r.Deadline) != "" {
			continue
		}
		if f.MissingOwner && strings.TrimSpace(r.Owner) != "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// sourcePattern keys the structured handlers to the MAS 610 demo data.
const sourcePattern = "MAS Notice 610"

const noMatchSentence = "In the tagged regulations, there are no suspicious-transaction " +
	"obligations under MAS Notice 610 matching this filter."

// Answer tries the two structured question handlers against the query.
// Returns false when the query matches neither pattern or the mode does
// not read enriched tables; callers then fall back to generic search.
func (s *Service) Answer(ctx context.Context, query string, m mode.Mode) (Answer, bool) {
	if !m.UsesTags() {
		return Answer{}, false
	}

	q := strings.ToLower(query)

	isMAS610 := strings.Contains(q, "mas 610") || strings.Contains(q, "mas notice 610")
	isSuspicious := strings.Contains(q, "suspicious")
	if !isMAS610 || !isSuspicious {
		return Answer{}, false
	}

	if (strings.Contains(q, "how many") || strings.Contains(q, "count")) &&
		(strings.Contains(q, "deadline") || strings.Contains(q, "deadlines")) {
		return s.deadlineCoverage(ctx), true
	}

	if (strings.Contains(q, "show") || strings.Contains(q, "list")) &&
		strings.Contains(q, "missing") &&
		(strings.Contains(q, "owner") || strings.Contains(q, "deadline")) {
		return s.missingFieldAudit(ctx), true
	}

	return Answer{}, false
}

// deadlineCoverage answers "how many ... have deadlines captured?".
func (s *Service) deadlineCoverage(ctx context.Context) Answer {
	rows := s.QueryRegulations(ctx, Filters{
		SourceDocument: sourcePattern,
		RiskType:       "suspicious",
	})

	total := len(rows)
	withDeadline := 0
	for _, r := range rows {
		if strings.TrimSpace(r.Deadline) != "" {
			withDeadline++
		}
	}
	withoutDeadline := total - withDeadline

	if total == 0 {
		return Answer{Text: noMatchSentence, ToolName: "query_regulations"}
	}

	var examples []string
	for _, r := range rows[:min(3, total)] {
		examples = append(examples, fmt.Sprintf("- %s: %s", idOrPlaceholder(r), excerpt(r, 160)))
	}

	text := fmt.Sprintf(
		"Under MAS Notice 610, the tagged regulatory data shows **%d** "+
			"suspicious-transaction obligations.\n\n"+
			"- **With deadlines captured:** %d\n"+
			"- **Missing/blank deadlines:** %d\n",
		total, withDeadline, withoutDeadline,
	)
	if len(examples) > 0 {
		text += "\n**Examples (first few paragraphs):**\n" + strings.Join(examples, "\n")
	}

	return Answer{Text: text, Matches: rows, Count: total, ToolName: "query_regulations"}
}

// missingFieldAudit answers "show/list ... where owner or deadline is missing".
func (s *Service) missingFieldAudit(ctx context.Context) Answer {
	rows := s.QueryRegulations(ctx, Filters{
		SourceDocument: sourcePattern,
		RiskType:       "suspicious",
	})

	if len(rows) == 0 {
		return Answer{Text: noMatchSentence, ToolName: "query_regulations"}
	}

	var missing []record.RegParagraph
	for _, r := range rows {
		if strings.TrimSpace(r.Owner) == "" || strings.TrimSpace(r.Deadline) == "" {
			missing = append(missing, r)
		}
	}

	lines := []string{
		fmt.Sprintf("From **MAS Notice 610**, there are **%d** tagged "+
			"suspicious-transaction obligations.", len(rows)),
		fmt.Sprintf("Out of these, **%d** have a missing owner and/or deadline.", len(missing)),
	}

	if len(missing) > 0 {
		lines = append(lines, "\n**Obligations with missing owner/deadline (first few):**")
		for _, r := range missing[:min(5, len(missing))] {
			lines = append(lines, fmt.Sprintf(
				"- %s: %s … | owner=%s, deadline=%s",
				idOrPlaceholder(r), excerpt(r, 160),
				orMissing(r.Owner), orMissing(r.Deadline),
			))
		}
	}

	return Answer{
		Text:     strings.Join(lines, "\n"),
		Matches:  rows,
		Count:    len(rows),
		ToolName: "query_regulations",
	}
}

func idOrPlaceholder(r record.RegParagraph) string {
	if r.ParagraphID == "" {
		return "(no id)"
	}
	return r.ParagraphID
}

// excerpt returns the first n characters of the regulation name,
// falling back to the paragraph text.
func excerpt(r record.RegParagraph, n int) string {
	text := r.Regulation
	if text == "" {
		text = r.Text
	}
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n])
	}
	return text
}

func orMissing(s string) string {
	if s == "" {
		return "(missing)"
	}
	return s
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
