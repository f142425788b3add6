// Package orchestrator routes a query to the right lookup path and
// assembles the final response with its trace. Routing is a fixed
// keyword classifier; there is no model in the loop.
package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/hit"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/intent"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/mode"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
	"github.com/sandeep-kumarpalo/taglayer/internal/logger"
	"github.com/sandeep-kumarpalo/taglayer/internal/metrics"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/answer"
)

// previewSize caps the trace preview at the first few hits.
const previewSize = 3

// similarityK is the neighbor count for the narrative probe.
const similarityK = 3

// Trace records how a response was produced.
type Trace struct {
	Intent   intent.Intent `json:"intent"`
	Mode     mode.Mode     `json:"mode"`
	ToolName string        `json:"tool_name"`
	HitCount int           `json:"hit_count"`
	Preview  []any         `json:"preview"`
}

// Response is the answer text plus its trace.
type Response struct {
	Answer string `json:"answer"`
	Trace  Trace  `json:"trace"`
}

// Service answers queries over the banking datasets.
type Service struct {
	raw        Lookup
	tagged     Lookup
	regMetrics RegAnswerer
	summary    SummaryBuilder
	similarity NarrativeSearcher
}

// New creates an orchestrator. summary and similarity may be nil; the
// corresponding probes are then skipped.
func New(raw, tagged Lookup, regMetrics RegAnswerer, sum SummaryBuilder, sim NarrativeSearcher) *Service {
	return &Service{raw: raw, tagged: tagged, regMetrics: regMetrics, summary: sum, similarity: sim}
}

// Ask classifies the query, runs the matching lookup in the requested
// mode, and renders the deterministic answer.
func (s *Service) Ask(ctx context.Context, query string, m mode.Mode) (Response, error) {
	if !m.IsValid() {
		return Response{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, m)
	}

	it := intent.Classify(query)
	lk := s.raw
	if m.UsesTags() {
		lk = s.tagged
	}

	resp := Response{Trace: Trace{Intent: it, Mode: m, ToolName: "none", Preview: []any{}}}

	switch it {
	case intent.PIISearch:
		env := lk.SearchPII(ctx, query)
		resp.Answer = answer.WritePII(env)
		resp.Trace.ToolName = toolName(m, "raw_search_pii", "search_pii_tool")
		resp.Trace.HitCount = env.Count()
		resp.Trace.Preview = preview(env)

	case intent.AMLSearch:
		env := lk.SearchAML(ctx, query)
		resp.Answer = answer.WriteAML(env)
		resp.Trace.ToolName = toolName(m, "raw_search_aml", "search_aml_tool")
		resp.Trace.HitCount = env.Count()
		resp.Trace.Preview = preview(env)

	case intent.RegSearch:
		if s.regMetrics != nil {
			if a, ok := s.regMetrics.Answer(ctx, query, m); ok {
				resp.Answer = a.Text
				resp.Trace.ToolName = a.ToolName
				resp.Trace.HitCount = a.Count
				resp.Trace.Preview = regPreview(a.Matches)
				break
			}
		}
		env := lk.SearchReg(ctx, query)
		resp.Answer = answer.WriteReg(env)
		resp.Trace.ToolName = toolName(m, "raw_search_reg", "search_regulations_tool")
		resp.Trace.HitCount = env.Count()
		resp.Trace.Preview = preview(env)

	case intent.SARDraft:
		draft := s.draftSAR(ctx, lk, query, m)
		resp.Answer = answer.WriteSAR(draft)
		if m.UsesTags() {
			resp.Trace.ToolName = "draft_sar_tool"
		}
		resp.Trace.HitCount = 1
		resp.Trace.Preview = []any{draft}

	default:
		resp.Answer = answer.OutOfScopeGuidance
	}

	metrics.QueriesTotal.WithLabelValues(string(it), string(m), resp.Trace.ToolName).Inc()
	metrics.QueryHits.WithLabelValues(string(it), string(m)).Observe(float64(resp.Trace.HitCount))

	s.probeSemanticLayer(ctx, query, m)

	return resp, nil
}

func (s *Service) draftSAR(ctx context.Context, lk Lookup, query string, m mode.Mode) answer.SARDraft {
	txID := intent.ExtractTxID(query)
	if !m.UsesTags() {
		return answer.BaselineSARDraft(txID)
	}
	if txID == "" {
		txID = intent.DefaultTxID
	}
	return answer.BuildSARDraft(lk.SearchAML(ctx, txID), txID)
}

// probeSemanticLayer exercises the aggregate snapshot and the narrative
// index in tagged modes. Results are deliberately discarded; failures
// are logged and never affect the answer.
func (s *Service) probeSemanticLayer(ctx context.Context, query string, m mode.Mode) {
	if !m.UsesTags() {
		return
	}
	log := logger.FromContext(ctx)

	if s.summary != nil {
		if _, err := s.summary.Build(ctx); err != nil {
			log.Warn("summary probe failed", zap.Error(err))
		}
	}

	if m == mode.TaggedSimilarity && s.similarity != nil {
		if _, err := s.similarity.Search(ctx, query, similarityK); err != nil {
			metrics.SimilarityProbesTotal.WithLabelValues("error").Inc()
			log.Warn("similarity probe failed", zap.Error(err))
		} else {
			metrics.SimilarityProbesTotal.WithLabelValues("ok").Inc()
		}
	}
}

func toolName(m mode.Mode, raw, tagged string) string {
	if m.UsesTags() {
		return tagged
	}
	return raw
}

func preview[T any](env hit.Envelope[T]) []any {
	n := min(env.Count(), previewSize)
	out := make([]any, 0, n)
	for _, item := range env.Items()[:n] {
		out = append(out, item)
	}
	return out
}

func regPreview(rows []record.RegParagraph) []any {
	n := min(len(rows), previewSize)
	out := make([]any, 0, n)
	for _, r := range rows[:n] {
		out = append(out, r.ParagraphID)
	}
	return out
}
