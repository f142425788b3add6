package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	logpkg "github.com/sandeep-kumarpalo/taglayer/internal/logger"
	"github.com/sandeep-kumarpalo/taglayer/internal/repository/tabular"
	"github.com/sandeep-kumarpalo/taglayer/internal/usecase/tagging"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Run the enrichment pipeline over the raw tables",
	Long: `Reads the raw tables, sends each row to the configured tagging
provider, and writes the tagged tables to the output directory. Rows
whose tagging keeps failing after retries are skipped and counted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTag()
	},
}

func runTag() error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tagger := buildTagger(cfg.Tagging, logger)
	if tagger == nil {
		return errors.New("tagging.api_key is not configured")
	}

	tables := tabular.New(cfg.Data)
	pipeline := tagging.New(tables, tables, tagger)

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	report, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("communications: %d tagged, %d skipped of %d\n",
		report.Communications.Tagged, report.Communications.Skipped, report.Communications.Total)
	fmt.Printf("transactions:   %d tagged, %d skipped of %d\n",
		report.Transactions.Tagged, report.Transactions.Skipped, report.Transactions.Total)
	fmt.Printf("regulatory:     %d tagged, %d skipped of %d\n",
		report.RegParagraphs.Tagged, report.RegParagraphs.Skipped, report.RegParagraphs.Total)
	return nil
}
