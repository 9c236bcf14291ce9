package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/saveligulas/debian-setup/internal/app"
	"github.com/saveligulas/debian-setup/internal/adapters/logging"
	"github.com/saveligulas/debian-setup/internal/domain/config"
	"github.com/saveligulas/debian-setup/internal/ports"
)

var (
	cfgFile     string
	dryRun      bool
	verify      bool
	verbose     bool
	jsonLog     bool
	stepTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "debsetup",
	Short: "Converge a Debian host onto its declared setup",
	Long: `debsetup reads a YAML manifest describing a workstation (target user,
packages, shell setup, runtimes, dotfiles, services) and converges the
host onto it. Every step probes before it acts, so re-running after a
failure or a manual change is always safe.

The process must run as root; steps that belong to the target user are
re-executed under that account via runuser.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "setup.yaml", "manifest file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan and report without applying")
	rootCmd.Flags().BoolVar(&verify, "verify", false, "re-probe each step after its action")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().BoolVar(&jsonLog, "json-log", false, "emit log lines as JSON")
	rootCmd.Flags().DurationVar(&stepTimeout, "step-timeout", 0, "bound each step's action (0 = no bound)")

	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, _ []string) error {
	level := ports.LevelInfo
	if verbose {
		level = ports.LevelDebug
	}
	log := logging.NewConsoleLogger(
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithLevel(level),
		logging.WithJSONFormat(jsonLog),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setup := app.New(cmd.OutOrStdout(), log).
		WithDryRun(dryRun).
		WithVerify(verify).
		WithStepTimeout(stepTimeout)

	_, err := setup.Run(ctx, cfgFile)
	return err
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// formatError renders UserError with its suggestion; verbose adds the
// underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}
