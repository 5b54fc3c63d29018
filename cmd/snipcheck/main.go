// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the snipcheck CLI.
// Implements: block extraction, snippet classification, consistency
//             checking (CLI surface), findings history, watch mode.
// See DESIGN.md § CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/snipcheck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is loaded from snipcheck.yaml, the environment and flags before
	// any subcommand runs.
	cfg types.Config

	logger = zap.NewNop()
)

// rootCmd is the base command for the snipcheck CLI.
var rootCmd = &cobra.Command{
	Use:   "snipcheck",
	Short: "Check that documentation prose agrees with its code snippets",
	Long: `snipcheck reads Markdown tutorials and API documentation, extracts the
code blocks, classifies each snippet (declaration, constructor call, error
transcript), and flags prose that contradicts the snippet it describes, such
as "this compiles" next to a compiler error.

Use check for a consistency report, blocks to inspect what the extractor and
classifier see, and history to browse recorded runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		zc := zap.NewProductionConfig()
		if cfg.Verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./snipcheck.yaml or ~/.config/snipcheck/snipcheck.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log classification and pairing decisions at debug level")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("snipcheck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "snipcheck"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("SNIPCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so AutomaticEnv and Unmarshal see
// it even when no config file is present.
func setDefaults(d types.Config) {
	viper.SetDefault("verbose", d.Verbose)
	viper.SetDefault("check.fail_on", string(d.Check.FailOn))
	viper.SetDefault("check.report_unverifiable", d.Check.ReportUnverifiable)
	viper.SetDefault("check.extensions", d.Check.Extensions)
	viper.SetDefault("report.format", string(d.Report.Format))
	viper.SetDefault("archive.dir", d.Archive.Dir)
	viper.SetDefault("archive.max_results", d.Archive.MaxResults)
	viper.SetDefault("watch.debounce", d.Watch.Debounce)
}

func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("reading configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
