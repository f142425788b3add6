package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	logpkg "github.com/sandeep-kumarpalo/taglayer/internal/logger"
	"github.com/sandeep-kumarpalo/taglayer/internal/repository/tabular"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/vectorindex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the narrative similarity index",
	Long: `Embeds the tagged transaction narratives (masked where available)
and writes them into the vector index, recreating it from scratch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIndex()
	},
}

func runIndex() error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	store, err := buildStore(ctx, cfg.Similarity, logger)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("similarity.addrs is not configured")
	}
	defer store.Close()

	embedder := buildEmbedder(cfg.Embedding, logger)
	if embedder == nil {
		return errors.New("embedding.api_key is not configured")
	}

	tables := tabular.New(cfg.Data)
	builder := vectorindex.New(tables, store, embedder, cfg.Similarity.IndexName)

	report, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("indexed %d narratives, skipped %d\n", report.Indexed, report.Skipped)
	return nil
}
