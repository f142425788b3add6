// Package summary computes aggregate metrics over the tagged datasets.
// The numbers back the /v1/summary endpoint and the regulatory
// snapshot text; none of them flow into query answers.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
)

// Source reads the tagged datasets. The accompanying note explains an
// empty result (typically a missing tagged file).
type Source interface {
	TaggedCommunications(ctx context.Context) ([]record.Communication, string)
	TaggedTransactions(ctx context.Context) ([]record.Transaction, string)
	TaggedRegParagraphs(ctx context.Context) ([]record.RegParagraph, string)
}

// Metrics is the aggregate snapshot across all three tagged datasets.
// Reg holds per-dimension regulatory counts keyed "reg_<dimension>".
type Metrics struct {
	AMLHighRiskCount   int            `json:"aml_high_risk_count"`
	AvgRiskScore       float64        `json:"avg_risk_score"`
	PIICriticalCount   int            `json:"pii_critical_count"`
	RegTotalParagraphs int            `json:"reg_total_paragraphs"`
	Reg                map[string]int `json:"reg"`
}

// highRiskThreshold marks a transaction as high risk when its tagged
// score is strictly above it.
const highRiskThreshold = 8.0

const deadlineLayout = "2006-01-02"

// Service builds Metrics from a tagged-data source.
type Service struct {
	source Source
	now    func() time.Time
}

// New creates a summary service.
func New(source Source) *Service {
	return &Service{source: source, now: time.Now}
}

// Build computes the snapshot. Missing tagged datasets contribute zero
// counts rather than an error.
func (s *Service) Build(ctx context.Context) (Metrics, error) {
	if ctx.Err() != nil {
		return Metrics{}, ctx.Err()
	}

	txs, _ := s.source.TaggedTransactions(ctx)
	comms, _ := s.source.TaggedCommunications(ctx)
	regs, _ := s.source.TaggedRegParagraphs(ctx)

	m := Metrics{Reg: map[string]int{}}

	var scoreSum float64
	var scored int
	for _, tx := range txs {
		if tx.RiskScore == nil {
			continue
		}
		scored++
		scoreSum += *tx.RiskScore
		if *tx.RiskScore > highRiskThreshold {
			m.AMLHighRiskCount++
		}
	}
	if scored > 0 {
		m.AvgRiskScore = scoreSum / float64(scored)
	}

	for _, c := range comms {
		if c.Risk == record.RiskCritical {
			m.PIICriticalCount++
		}
	}

	m.RegTotalParagraphs = len(regs)
	s.regBreakdown(regs, m.Reg)

	return m, nil
}

// regBreakdown fills the reg_* counters: coverage totals plus
// per-document, per-owner, and per-risk-type distributions.
func (s *Service) regBreakdown(regs []record.RegParagraph, out map[string]int) {
	out["reg_total_obligations"] = len(regs)

	docs := map[string]struct{}{}
	owners := map[string]struct{}{}
	today := s.now().Truncate(24 * time.Hour)

	for _, r := range regs {
		if doc := strings.TrimSpace(r.SourceDocument); doc != "" {
			docs[doc] = struct{}{}
			out["reg_doc_"+slug(doc)]++
		}

		owner := strings.TrimSpace(r.Owner)
		if owner == "" {
			out["reg_missing_owner"]++
		} else {
			owners[owner] = struct{}{}
			out["reg_owner_"+slug(owner)]++
		}

		if rt := strings.TrimSpace(r.RiskType); rt != "" {
			out["reg_risk_type_"+slug(rt)]++
		}

		deadline := strings.TrimSpace(r.Deadline)
		if deadline != "" {
			out["reg_with_deadline"]++
			if d, err := time.Parse(deadlineLayout, deadline); err == nil && d.Before(today) {
				out["reg_overdue_obligations"]++
			}
		}
	}

	out["reg_unique_documents"] = len(docs)
	out["reg_unique_owners"] = len(owners)
	if _, ok := out["reg_with_deadline"]; !ok {
		out["reg_with_deadline"] = 0
	}
	if _, ok := out["reg_missing_owner"]; !ok {
		out["reg_missing_owner"] = 0
	}
	if _, ok := out["reg_overdue_obligations"]; !ok {
		out["reg_overdue_obligations"] = 0
	}
}

// preferredRegOrder lists the snapshot keys rendered first; the rest
// follow in lexical order.
var preferredRegOrder = []string{
	"reg_total_obligations",
	"reg_unique_documents",
	"reg_unique_owners",
	"reg_with_deadline",
	"reg_overdue_obligations",
	"reg_missing_owner",
}

// RegSnapshot renders the regulatory counters as a stable bulleted
// block, preferred keys first then the remainder sorted by key.
func RegSnapshot(reg map[string]int) string {
	if len(reg) == 0 {
		return ""
	}

	seen := map[string]struct{}{}
	lines := []string{"Regulatory semantic-layer snapshot:"}

	for _, k := range preferredRegOrder {
		if v, ok := reg[k]; ok {
			lines = append(lines, fmt.Sprintf("- %s: %d", regLabel(k), v))
			seen[k] = struct{}{}
		}
	}

	rest := make([]string, 0, len(reg))
	for k := range reg {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		lines = append(lines, fmt.Sprintf("- %s: %d", regLabel(k), reg[k]))
	}

	return strings.Join(lines, "\n")
}

// regLabel turns "reg_with_deadline" into "With deadline".
func regLabel(key string) string {
	label := strings.ReplaceAll(strings.TrimPrefix(key, "reg_"), "_", " ")
	r := []rune(label)
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
