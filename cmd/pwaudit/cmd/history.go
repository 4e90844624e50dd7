package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/pwaudit/pkg/audit"
	"github.com/ssargent/pwaudit/pkg/di"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded check runs",
	Long: `List the summaries of previous runs recorded with --history, newest first.

Examples:
  pwaudit history
  pwaudit history --limit 5 --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		dir := cfg.History.Dir
		if fs.Changed("history-dir") {
			dir, _ = fs.GetString("history-dir")
		}
		limit, _ := fs.GetInt("limit")
		format, _ := fs.GetString("format")

		return listHistory(container, dir, limit, format, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("history-dir", "", "history store directory")
	historyCmd.Flags().IntP("limit", "n", 20, "maximum number of runs to show (0 for all)")
	historyCmd.Flags().StringP("format", "o", audit.FormatText, "output format (text or json)")
}

func listHistory(c *di.Container, dir string, limit int, format string, out io.Writer) error {
	store, err := c.OpenHistory(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	switch format {
	case audit.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	case audit.FormatText:
		return outputRunsTable(out, runs)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// outputRunsTable displays runs in table format
func outputRunsTable(out io.Writer, runs []*audit.Summary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No runs recorded")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tPOLICY\tSOURCE\tTOTAL\tVALID\tINVALID\tERRORS")
	for _, run := range runs {
		source := run.Source
		if len(source) > 40 {
			source = "..." + source[len(source)-37:]
		}
		status := ""
		if run.Aborted {
			status = " (aborted)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d%s\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Policy,
			source,
			run.Total,
			run.Valid,
			run.Invalid,
			run.Errors,
			status)
	}
	return w.Flush()
}
