package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeep-kumarpalo/taglayer/internal/config"
	logpkg "github.com/sandeep-kumarpalo/taglayer/internal/logger"
	"github.com/sandeep-kumarpalo/taglayer/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "taglayer",
	Short: "Banking records risk tagging demo",
	Long: `taglayer answers questions over three synthetic banking tables
(customer chats, transaction narratives, regulatory paragraphs) in two
modes: raw keyword lookups and tagged lookups over an LLM-enriched
semantic layer. It also runs the enrichment pipeline and maintains an
optional narrative similarity index.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taglayer %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, askCmd, tagCmd, indexCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads config for the current ENV and builds the process logger.
func bootstrap() (config.Config, *zap.Logger, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, logger, nil
}
