package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "analyst-cli",
	Short: "Hybrid SQL+RAG question answering over a warehouse and document corpus",
	Long:  "Routes analytic questions to a SQL warehouse, a document corpus, or both, synthesizes typed answers via Claude, and emits scored, cited output records.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
