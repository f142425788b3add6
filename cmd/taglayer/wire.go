package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeep-kumarpalo/taglayer/internal/config"
	dbRedis "github.com/sandeep-kumarpalo/taglayer/internal/db/redis"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/metrics"
	"github.com/sandeep-kumarpalo/taglayer/internal/repository/similarity"
	"github.com/sandeep-kumarpalo/taglayer/internal/repository/tabular"
	openaiTransport "github.com/sandeep-kumarpalo/taglayer/internal/transport/openai"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/lookup"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/orchestrator"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/regmetric"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/summary"
)

// buildStore connects to the similarity index backend, or returns nil
// when no addrs are configured.
func buildStore(ctx context.Context, cfg config.SimilarityConfig, logger *zap.Logger) (*dbRedis.Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}

	logger.Info("Connected to similarity index backend", zap.Strings("addrs", cfg.Addrs))
	return store, nil
}

// buildEmbedder creates the embedding provider, or nil when unconfigured.
func buildEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) *openaiTransport.Embedder {
	if cfg.APIKey == "" {
		return nil
	}

	metrics.RegisterEmbeddingMetrics()
	return openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})
}

// buildTagger creates the tagging provider, or nil when unconfigured.
func buildTagger(cfg config.ProviderConfig, logger *zap.Logger) *openaiTransport.Tagger {
	if cfg.APIKey == "" {
		return nil
	}

	metrics.RegisterTaggingMetrics()
	return openaiTransport.NewTagger(&openaiTransport.TaggerConfig{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Provider: cfg.Provider,
		Logger:   logger,
	})
}

// buildOrchestrator assembles the query path: toolsets over the flat
// tables, the regulatory filter engine, the summary layer, and the
// optional similarity searcher.
func buildOrchestrator(
	tables *tabular.Store,
	store *dbRedis.Store,
	embedder domain.Embedder,
	indexName string,
) *orchestrator.Service {
	metrics.RegisterQueryMetrics()

	rawLk := lookup.NewRaw(tabular.NewRawToolset(tables))
	taggedLk := lookup.NewTagged(tabular.NewTaggedToolset(tables))
	regSvc := regmetric.New(tables)
	sumSvc := summary.New(tables)

	var sim orchestrator.NarrativeSearcher
	if store != nil && embedder != nil {
		sim = similarity.New(store, embedder, indexName)
	}

	return orchestrator.New(rawLk, taggedLk, regSvc, sumSvc, sim)
}
