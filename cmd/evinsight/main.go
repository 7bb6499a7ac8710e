// Command evinsight analyzes an electric vehicle registration CSV: it
// cleans the data, summarizes adoption, geography, vehicle mix, and range,
// fits an exponential growth model to the yearly totals, and writes charts
// and reports.
package main

import (
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/evmetrics/evinsight"
	"github.com/evmetrics/evinsight/config"
)

var (
	cfgPath    string
	cpuProfile bool
)

var rootCmd = &cobra.Command{
	Use:          "evinsight",
	Short:        "Analyze EV registration data and project market growth",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringP("input", "i", "", "registration CSV to analyze")
	rootCmd.PersistentFlags().String("state", "", "keep only registrations of this state, empty keeps every state")
	rootCmd.PersistentFlags().Int("preview-rows", 0, "records shown in the dataset preview")

	rootCmd.Flags().StringP("output", "o", "", "directory charts and reports are written to")
	rootCmd.Flags().Int("horizon", 0, "years to project past the last observed year")
	rootCmd.Flags().Int("max-year", 0, "cap on the observed years entering the fit")
	rootCmd.Flags().Bool("charts", true, "write the PNG charts")
	rootCmd.Flags().Bool("dashboard", false, "write the interactive HTML dashboard")
	rootCmd.Flags().Bool("workbook", false, "write the xlsx workbook")
	rootCmd.Flags().Bool("json", false, "write the JSON run report")
	rootCmd.Flags().String("log-level", "", "log level: trace, debug, info, warn, or error")
	rootCmd.Flags().Bool("pretty", false, "human readable log lines instead of JSON")
	rootCmd.Flags().BoolVar(&cpuProfile, "cpuprofile", false, "write a CPU profile to the output directory")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Output)).Stop()
	}

	return evinsight.New(evinsight.OptionsFromConfig(cfg)).Run()
}

// applyFlags lays explicitly set flags over the resolved configuration, so
// flags win over both the config file and environment overrides.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input, _ = flags.GetString("input")
	}
	if flags.Changed("state") {
		cfg.State, _ = flags.GetString("state")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("horizon") {
		cfg.Horizon, _ = flags.GetInt("horizon")
	}
	if flags.Changed("max-year") {
		cfg.MaxYear, _ = flags.GetInt("max-year")
	}
	if flags.Changed("preview-rows") {
		cfg.PreviewRows, _ = flags.GetInt("preview-rows")
	}
	if flags.Changed("charts") {
		cfg.Outputs.Charts, _ = flags.GetBool("charts")
	}
	if flags.Changed("dashboard") {
		cfg.Outputs.Dashboard, _ = flags.GetBool("dashboard")
	}
	if flags.Changed("workbook") {
		cfg.Outputs.Workbook, _ = flags.GetBool("workbook")
	}
	if flags.Changed("json") {
		cfg.Outputs.JSON, _ = flags.GetBool("json")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("pretty") {
		cfg.Logging.Pretty, _ = flags.GetBool("pretty")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
