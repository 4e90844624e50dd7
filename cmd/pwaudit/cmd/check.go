package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ssargent/pwaudit/pkg/audit"
	"github.com/ssargent/pwaudit/pkg/config"
	"github.com/ssargent/pwaudit/pkg/di"
	"github.com/ssargent/pwaudit/pkg/policy"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Count the passwords that satisfy their policy",
	Long: `Check every record in a file against a password policy and report how
many are valid. Use "-" to read from standard input.

Examples:
  pwaudit check passwords.txt
  pwaudit check --policy position passwords.txt
  cat passwords.txt | pwaudit check --format json -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyCheckFlags(cmd.Flags(), cfg)
		if len(args) == 1 {
			cfg.Input = args[0]
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		_, err := runCheck(cmd.Context(), container, cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("policy", "p", policy.NameCount, "policy to apply (count or position)")
	checkCmd.Flags().StringP("format", "o", audit.FormatText, "output format (text or json)")
	checkCmd.Flags().Bool("stop-on-error", false, "abort at the first malformed line")
	checkCmd.Flags().String("metrics-file", "", "write Prometheus metrics to this file after the run")
	checkCmd.Flags().Bool("history", false, "record the run summary in the history store")
	checkCmd.Flags().String("history-dir", "", "history store directory")
}

// applyCheckFlags copies explicitly set flags over the loaded configuration
func applyCheckFlags(fs *pflag.FlagSet, c *config.Config) {
	if fs.Changed("policy") {
		c.Policy, _ = fs.GetString("policy")
	}
	if fs.Changed("format") {
		c.Format, _ = fs.GetString("format")
	}
	if fs.Changed("stop-on-error") {
		c.StopOnError, _ = fs.GetBool("stop-on-error")
	}
	if fs.Changed("metrics-file") {
		c.Metrics.Textfile, _ = fs.GetString("metrics-file")
	}
	if fs.Changed("history") {
		c.History.Enabled, _ = fs.GetBool("history")
	}
	if fs.Changed("history-dir") {
		c.History.Dir, _ = fs.GetString("history-dir")
		c.History.Enabled = true
	}
}

// runCheck audits c.Input and writes the report to out
func runCheck(ctx context.Context, c *di.Container, conf *config.Config, log *zap.Logger, stdin io.Reader, out io.Writer) (*audit.Summary, error) {
	if conf.Input == "" {
		return nil, fmt.Errorf("no input file given (pass a path or set input in the config file)")
	}

	validator, err := policy.Lookup(conf.Policy)
	if err != nil {
		return nil, err
	}
	reporter, err := audit.NewReporter(conf.Format, out)
	if err != nil {
		return nil, err
	}

	in := stdin
	if conf.Input != "-" {
		f, err := os.Open(conf.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	auditor := audit.New(validator,
		audit.WithMetrics(c.Metrics()),
		audit.WithLogger(log),
		audit.StopOnError(conf.StopOnError))

	summary, runErr := auditor.Run(ctx, conf.Input, in, reporter)

	if conf.History.Enabled {
		if err := saveRun(c, conf.History.Dir, summary); err != nil {
			log.Warn("failed to record run", zap.Error(err))
		}
	}
	if conf.Metrics.Textfile != "" {
		if err := c.Metrics().WriteTextfile(conf.Metrics.Textfile); err != nil {
			log.Warn("failed to write metrics file", zap.String("path", conf.Metrics.Textfile), zap.Error(err))
		}
	}

	return summary, runErr
}

func saveRun(c *di.Container, dir string, summary *audit.Summary) error {
	store, err := c.OpenHistory(dir)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(summary)
}
