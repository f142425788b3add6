package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/mode"
	logpkg "github.com/sandeep-kumarpalo/taglayer/internal/logger"
	"github.com/sandeep-kumarpalo/taglayer/internal/repository/tabular"
)

var (
	askQuery string
	askMode  string
	askTrace bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a single query in-process",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk()
	},
}

func init() {
	askCmd.Flags().StringVarP(&askQuery, "query", "q", "", "query text (required)")
	askCmd.Flags().StringVarP(&askMode, "mode", "m", string(mode.Raw), "answering mode: raw, tagged, tagged_similarity")
	askCmd.Flags().BoolVar(&askTrace, "trace", false, "print the routing trace as JSON")
	_ = askCmd.MarkFlagRequired("query")
}

func runAsk() error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	store, err := buildStore(ctx, cfg.Similarity, logger)
	if err != nil {
		logger.Warn("Similarity index backend unavailable", zap.Error(err))
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var embedder domain.Embedder
	if e := buildEmbedder(cfg.Embedding, logger); e != nil {
		embedder = e
	}

	tables := tabular.New(cfg.Data)
	orch := buildOrchestrator(tables, store, embedder, cfg.Similarity.IndexName)

	resp, err := orch.Ask(ctx, askQuery, mode.Mode(askMode))
	if err != nil {
		return err
	}

	fmt.Println(resp.Answer)

	if askTrace {
		trace, err := json.MarshalIndent(resp.Trace, "", "  ")
		if err != nil {
			return fmt.Errorf("encode trace: %w", err)
		}
		fmt.Println(string(trace))
	}
	return nil
}
