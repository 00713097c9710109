package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gradelens/gradelens/internal/config"
	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/services"
)

// options are the flags shared by every subcommand
type options struct {
	configPath string
	file       string
	jsonOutput bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "gradectl",
		Short: "Grade analytics from the command line",
		Long: `gradectl analyzes a grade history stored as JSON, either
{"grades": [...]} or a bare array of grades, read from --file or stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to configuration file (grading scale, events)")
	flags.StringVarP(&opts.file, "file", "f", "-", "grade history file, - for stdin")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of tables")

	rootCmd.AddCommand(
		newStatsCommand(opts),
		newTrendCommand(opts),
		newPredictCommand(opts),
		newAnalyzeCommand(opts),
		newWhatIfCommand(opts),
		newNeededCommand(opts),
		newEventsCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gradectl %s (commit: %s)\n", Version, GitCommit)
		},
	}
}

func (o *options) loadConfig() (*config.Config, error) {
	return config.Load(o.configPath)
}

// service builds an analytics service on the configured scale. Offline runs
// never publish events.
func (o *options) service() (*services.AnalyticsService, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return services.NewAnalyticsService(logging.NewNop(), nil, nil, cfg.GPAScale(), cfg.Grading.Decimals), nil
}

// describe adds the error code and offending field to service errors
func describe(err error) error {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		return err
	}
	if reason, ok := svcErr.Details["error"]; ok {
		return fmt.Errorf("%s: %s: %v", svcErr.Code, svcErr.Message, reason)
	}
	return fmt.Errorf("%s: %s", svcErr.Code, svcErr.Message)
}
