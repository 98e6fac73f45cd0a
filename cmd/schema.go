package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/analyst-cli/internal/warehouse"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the warehouse schema used in generation prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		runner, err := warehouse.NewSQLite(cfg.Warehouse.Path)
		if err != nil {
			return err
		}
		defer runner.Close() //nolint:errcheck

		schema, err := runner.Schema(ctx)
		if err != nil {
			return err
		}
		fmt.Print(schema)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
