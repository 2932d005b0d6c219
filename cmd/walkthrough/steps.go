package main

import (
	"fmt"

	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/spf13/cobra"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the installation steps in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		cat := catalog.Default()
		if cfg.CatalogPath != "" {
			if cat, err = catalog.Load(cfg.CatalogPath); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%d steps)\n", cat.Title(), cat.Len())
		for i, step := range cat.Steps() {
			fmt.Fprintf(out, "%2d. [%s] %s\n", i+1, step.ID, step.Text)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <catalog.yaml>",
	Short: "Check a step catalog file",
	Long:  `Parses a catalog file and reports missing or duplicate step ids.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog is valid: %d steps.\n", cat.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(validateCmd)
}
