package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abxplore/crmsim/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "crmsim",
	Short: "Synthetic CRM dataset generator for the ABXplore onboarding A/B test",
	Long:  "Generates an internally consistent B2B sales funnel dataset (leads, contact events, funnel stages, deal outcomes) with a known treatment effect and injected data-quality defects, and writes it to a relational store and CSV files.",
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
