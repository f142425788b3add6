// Package vectorindex builds the narrative similarity index: tagged
// transaction narratives are embedded and written to redis as vector
// hash documents.
package vectorindex

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sandeep-kumarpalo/taglayer/internal/db/redis"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
	"github.com/sandeep-kumarpalo/taglayer/internal/logger"
)

// KeyPrefix namespaces indexed narrative hashes.
const KeyPrefix = "narr:"

// IDField mirrors the field the similarity repository reads back.
const IDField = "transaction_id"

// Source reads the tagged transactions.
type Source interface {
	TaggedTransactions(ctx context.Context) ([]record.Transaction, string)
}

// Index is the redis command surface the builder needs.
type Index interface {
	CreateVectorIndex(ctx context.Context, name, prefix string, dim int) error
	DropIndex(ctx context.Context, name string) error
	WriteDocs(ctx context.Context, docs []redis.Doc) error
}

// Report counts one index build.
type Report struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
}

// Service builds the narrative index.
type Service struct {
	source Source
	store  Index
	embed  domain.Embedder
	index  string
}

// New creates an index builder for the named index.
func New(source Source, store Index, embed domain.Embedder, index string) *Service {
	return &Service{source: source, store: store, embed: embed, index: index}
}

// Build embeds every tagged narrative and recreates the index from
// scratch. The masked narrative is preferred; rows with no narrative
// at all are skipped and counted.
func (s *Service) Build(ctx context.Context) (Report, error) {
	log := logger.FromContext(ctx)

	rows, note := s.source.TaggedTransactions(ctx)
	if note != "" {
		log.Warn("tagged transactions unavailable", zap.String("note", note))
	}
	if len(rows) == 0 {
		return Report{}, fmt.Errorf("%w: no tagged transactions to index", domain.ErrMissingSource)
	}

	var rep Report
	docs := make([]redis.Doc, 0, len(rows))

	for _, row := range rows {
		text := row.MaskedNarrative
		if text == "" {
			text = row.Narrative
		}
		if text == "" {
			rep.Skipped++
			continue
		}

		emb, err := s.embed.Embed(ctx, text)
		if err != nil {
			return rep, fmt.Errorf("%w: embed %s: %w", domain.ErrEmbeddingProviderError, row.TransactionID, err)
		}

		docs = append(docs, redis.Doc{
			Key:    KeyPrefix + row.TransactionID,
			Fields: map[string]string{IDField: row.TransactionID},
			Vector: emb.Embedding,
		})
		rep.Indexed++
	}

	if len(docs) == 0 {
		return rep, fmt.Errorf("%w: no narratives to index", domain.ErrMissingSource)
	}

	if err := s.store.DropIndex(ctx, s.index); err != nil && !errors.Is(err, redis.ErrIndexNotFound) {
		return rep, fmt.Errorf("drop index: %w", err)
	}
	if err := s.store.CreateVectorIndex(ctx, s.index, KeyPrefix, len(docs[0].Vector)); err != nil {
		return rep, fmt.Errorf("create index: %w", err)
	}
	if err := s.store.WriteDocs(ctx, docs); err != nil {
		return rep, fmt.Errorf("write docs: %w", err)
	}

	log.Info("narrative index built",
		zap.String("index", s.index),
		zap.Int("indexed", rep.Indexed),
		zap.Int("skipped", rep.Skipped),
	)
	return rep, nil
}
