package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sells-group/analyst-cli/internal/model"
)

var (
	askQuestion   string
	askFormatHint string
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a single analytic question",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initAgent(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rec := env.Workflow.Process(ctx, model.Question{
			ID:         uuid.New().String(),
			Text:       askQuestion,
			FormatHint: askFormatHint,
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question text (required)")
	askCmd.Flags().StringVar(&askFormatHint, "format", "", "format hint: int, float, {...}, list[...], or free text")
	_ = askCmd.MarkFlagRequired("question")
	rootCmd.AddCommand(askCmd)
}
