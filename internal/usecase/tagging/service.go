// Package tagging runs the enrichment pipeline: raw rows go to the
// tagger one record at a time and the enriched rows are written back
// as the tagged datasets. Records that still fail after the retry
// budget are skipped, never dropped silently into the output.
package tagging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
	"github.com/sandeep-kumarpalo/taglayer/internal/logger"
	"github.com/sandeep-kumarpalo/taglayer/internal/metrics"
)

// maxAttempts bounds tagger calls per record.
const maxAttempts = 3

// retryBackoff is the pause between attempts for one record.
const retryBackoff = time.Second

// Source reads the raw datasets. The note explains an empty result.
type Source interface {
	RawCommunications(ctx context.Context) ([]record.Communication, string)
	RawTransactions(ctx context.Context) ([]record.Transaction, string)
	RawRegParagraphs(ctx context.Context) ([]record.RegParagraph, string)
}

// Sink persists the tagged datasets.
type Sink interface {
	WriteTaggedCommunications(ctx context.Context, rows []record.Communication) error
	WriteTaggedTransactions(ctx context.Context, rows []record.Transaction) error
	WriteTaggedRegParagraphs(ctx context.Context, rows []record.RegParagraph) error
}

// DatasetReport counts one dataset's pipeline outcome. Skipped records
// appear here and nowhere else; the tagged output holds only successes.
type DatasetReport struct {
	Total   int `json:"total"`
	Tagged  int `json:"tagged"`
	Skipped int `json:"skipped"`
}

// Report aggregates the three dataset runs.
type Report struct {
	Communications DatasetReport `json:"communications"`
	Transactions   DatasetReport `json:"transactions"`
	RegParagraphs  DatasetReport `json:"reg_paragraphs"`
}

// Service drives the enrichment pipeline.
type Service struct {
	source Source
	sink   Sink
	tagger domain.Tagger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a tagging service.
func New(source Source, sink Sink, tagger domain.Tagger) *Service {
	return &Service{source: source, sink: sink, tagger: tagger, sleep: sleepCtx}
}

// Run tags all three datasets and writes the tagged outputs.
func (s *Service) Run(ctx context.Context) (Report, error) {
	var rep Report
	var err error

	if rep.Communications, err = s.TagCommunications(ctx); err != nil {
		return rep, err
	}
	if rep.Transactions, err = s.TagTransactions(ctx); err != nil {
		return rep, err
	}
	if rep.RegParagraphs, err = s.TagRegParagraphs(ctx); err != nil {
		return rep, err
	}
	return rep, nil
}

// TagCommunications enriches the communication log with masked text,
// detected entities, and a risk flag.
func (s *Service) TagCommunications(ctx context.Context) (DatasetReport, error) {
	rows, note := s.source.RawCommunications(ctx)
	if note != "" {
		logger.FromContext(ctx).Warn("raw communications unavailable", zap.String("note", note))
	}

	tagged := make([]record.Communication, 0, len(rows))
	rep := DatasetReport{Total: len(rows)}

	for _, row := range rows {
		out, err := retryTag(ctx, s.sleep, "communication", row.MessageID, func() (record.Communication, error) {
			return s.tagger.TagCommunication(ctx, row)
		})
		if err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			rep.Skipped++
			continue
		}
		tagged = append(tagged, out)
		rep.Tagged++
	}

	if err := s.sink.WriteTaggedCommunications(ctx, tagged); err != nil {
		return rep, err
	}
	return rep, nil
}

// TagTransactions enriches transaction narratives with a masked
// narrative, typology tags, and a risk score.
func (s *Service) TagTransactions(ctx context.Context) (DatasetReport, error) {
	rows, note := s.source.RawTransactions(ctx)
	if note != "" {
		logger.FromContext(ctx).Warn("raw transactions unavailable", zap.String("note", note))
	}

	tagged := make([]record.Transaction, 0, len(rows))
	rep := DatasetReport{Total: len(rows)}

	for _, row := range rows {
		out, err := retryTag(ctx, s.sleep, "transaction", row.TransactionID, func() (record.Transaction, error) {
			return s.tagger.TagTransaction(ctx, row)
		})
		if err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			rep.Skipped++
			continue
		}
		tagged = append(tagged, out)
		rep.Tagged++
	}

	if err := s.sink.WriteTaggedTransactions(ctx, tagged); err != nil {
		return rep, err
	}
	return rep, nil
}

// TagRegParagraphs enriches regulatory paragraphs with regulation,
// risk type, business units, owner, and deadline.
func (s *Service) TagRegParagraphs(ctx context.Context) (DatasetReport, error) {
	rows, note := s.source.RawRegParagraphs(ctx)
	if note != "" {
		logger.FromContext(ctx).Warn("raw regulatory paragraphs unavailable", zap.String("note", note))
	}

	tagged := make([]record.RegParagraph, 0, len(rows))
	rep := DatasetReport{Total: len(rows)}

	for _, row := range rows {
		out, err := retryTag(ctx, s.sleep, "reg_paragraph", row.ParagraphID, func() (record.RegParagraph, error) {
			return s.tagger.TagRegParagraph(ctx, row)
		})
		if err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			rep.Skipped++
			continue
		}
		tagged = append(tagged, out)
		rep.Tagged++
	}

	if err := s.sink.WriteTaggedRegParagraphs(ctx, tagged); err != nil {
		return rep, err
	}
	return rep, nil
}

// retryTag calls fn up to maxAttempts times, pausing between attempts.
// The record is abandoned, not the run, when all attempts fail.
func retryTag[T any](
	ctx context.Context,
	sleep func(context.Context, time.Duration) error,
	dataset, id string,
	fn func() (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err := fn()
		if err == nil {
			metrics.TaggedRecordsTotal.WithLabelValues(dataset, "ok").Inc()
			return out, nil
		}
		lastErr = err
		logger.FromContext(ctx).Warn("tagging attempt failed",
			zap.String("dataset", dataset),
			zap.String("id", id),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < maxAttempts {
			if serr := sleep(ctx, retryBackoff); serr != nil {
				return zero, serr
			}
		}
	}

	metrics.TaggedRecordsTotal.WithLabelValues(dataset, "skipped").Inc()
	logger.FromContext(ctx).Warn("record skipped after retries",
		zap.String("dataset", dataset),
		zap.String("id", id),
	)
	return zero, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
