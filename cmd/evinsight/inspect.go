package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/evmetrics/evinsight/config"
	"github.com/evmetrics/evinsight/dataset"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load and summarize a registration CSV without analyzing it",
	RunE:  inspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func inspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	table, err := dataset.Load(cfg.Input, &dataset.LoadOptions{State: cfg.State})
	if err != nil {
		return err
	}
	return table.TablePrint(os.Stdout, cfg.PreviewRows)
}
