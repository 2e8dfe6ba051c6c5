// Command statgen is the CLI surface over the statistical-genetics core:
// window-based clumping, SuSiE-inf fine-mapping, COLOC/eCAVIAR
// colocalisation, RAISS summary-statistics imputation and credible-set
// QC. Each subcommand is a thin adapter from files and flags onto
// exactly one core entry point; all numeric work happens in the library
// packages.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/locusmap/statgen-core/ldstore"
	"github.com/locusmap/statgen-core/statgenconfig"
	"github.com/locusmap/statgen-core/statgenerr"
	"github.com/locusmap/statgen-core/statgenlog"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

// cfg and log are loaded once in the root PersistentPreRunE and shared
// by every subcommand.
var (
	cfg *statgenconfig.Config
	log *statgenlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "statgen",
	Short: "GWAS post-processing: clumping, fine-mapping, colocalisation, imputation, QC",
	Long: `statgen consumes per-variant GWAS/QTL summary statistics plus a
reference LD panel and produces, per associated region, a probabilistic
description of which variants are likely causal.

Subcommands map one-to-one onto the core kernels: clump (peak
detection), finemap (SuSiE-inf), coloc (COLOC/eCAVIAR), impute (RAISS)
and qc (credible-set filters).`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = statgenconfig.Load(flagConfig)
		if err != nil {
			return statgenerr.NewKindError(statgenerr.InputSchema, err)
		}
		log = statgenlog.NewLogger(statgenlog.Config{
			Level:  statgenlog.Level(flagLogLevel),
			Format: statgenlog.Format(flagLogFormat),
			Output: os.Stderr,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "statgen.yaml", "Path to the YAML config file (missing file = built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "console", "Log format (console|json)")

	rootCmd.AddCommand(newClumpCmd())
	rootCmd.AddCommand(newFinemapCmd())
	rootCmd.AddCommand(newColocCmd())
	rootCmd.AddCommand(newImputeCmd())
	rootCmd.AddCommand(newQcCmd())
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, so every
// long-running kernel observes the abort at its next iteration boundary.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

// openLdStore opens the self-describing SQLite LD panel at path.
func openLdStore(path string) (*ldstore.SQLite, error) {
	store, err := ldstore.OpenSQLiteStored(path)
	if err != nil {
		return nil, statgenerr.NewKindError(statgenerr.InputSchema, err)
	}
	return store, nil
}

// exitCode maps an error onto the stable exit codes: 0 success, 2 input
// schema violation, 3 LD panel missing required variants, 4 numerical
// failure, 5 cancelled.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 5
	}
	if errors.Is(err, ldstore.ErrVariantNotInPanel) {
		return 3
	}
	if ke := statgenerr.AsKindError(err); ke != nil {
		return ke.Kind.ExitCode()
	}
	return 1
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Error("command failed", "error", err.Error())
		} else {
			fmt.Fprintln(os.Stderr, "statgen:", err)
		}
		os.Exit(exitCode(err))
	}
}
