package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/config"
	"github.com/Veraticus/stockroom/internal/export"
	"github.com/Veraticus/stockroom/internal/metrics"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
	"github.com/Veraticus/stockroom/internal/sheets"
	"github.com/Veraticus/stockroom/internal/tui"
	"github.com/Veraticus/stockroom/internal/tui/themes"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly request reports",
		Long: `Summarize, export, view, and publish monthly request reports.

Every subcommand takes an optional YYYY-MM month and defaults to the
previous calendar month.`,
	}

	cmd.AddCommand(reportSummaryCmd())
	cmd.AddCommand(reportExportCmd())
	cmd.AddCommand(reportViewCmd())
	cmd.AddCommand(reportPublishCmd())

	return cmd
}

// loadMonth reads the requests of a month and summarizes them.
func loadMonth(cmd *cobra.Command, args []string) (report.Period, []model.Request, report.Summary, error) {
	ctx := cmd.Context()

	period, err := parsePeriodArg(args)
	if err != nil {
		return period, nil, report.Summary{}, err
	}

	loc, err := config.Location()
	if err != nil {
		return period, nil, report.Summary{}, err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return period, nil, report.Summary{}, err
	}
	defer func() { _ = store.Close() }()

	records, err := store.GetRequestsByPeriod(ctx, period, loc)
	if err != nil {
		return period, nil, report.Summary{}, fmt.Errorf("failed to load requests for %s: %w", period, err)
	}

	return period, records, report.Summarize(records), nil
}

func reportSummaryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary [YYYY-MM]",
		Short: "Print the summary statistics for a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, _, summary, err := loadMonth(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != "table" {
				return printStructured(out, format, struct {
					Period  string         `json:"period" yaml:"period"`
					Title   string         `json:"title" yaml:"title"`
					Summary report.Summary `json:"summary" yaml:"summary"`
				}{period.String(), period.Title(), summary})
			}

			printSummary(out, period, summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml)")

	return cmd
}

func printSummary(out io.Writer, period report.Period, summary report.Summary) {
	fmt.Fprintln(out, cli.FormatTitle("Monthly Request Report"))
	fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" "+period.Title(), cli.SubtitleStyle.Render(
		fmt.Sprintf("%d requests, %d items requested", summary.TotalRequests, summary.TotalItemsRequested))))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", cli.HeaderStyle.Render("Metric"), cli.HeaderStyle.Render("Value"))
	for _, row := range export.SummaryRows(summary) {
		fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()

	printRanked(out, "Most Requested Items", "Quantity", summary.MostRequestedItems)
	printRanked(out, "Top Requesters", "Requests", summary.TopRequesters)
}

func printRanked(out io.Writer, title, unit string, entries []report.RankedEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.BoldStyle.Render(title))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\n", cli.HeaderStyle.Render("Rank"), cli.HeaderStyle.Render("Name"), cli.HeaderStyle.Render(unit))
	for i, e := range report.Top(entries, 5) {
		fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, e.Name, e.Count)
	}
}

func reportExportCmd() *cobra.Command {
	var (
		formats   []string
		outputDir string
		deliver   bool
	)

	cmd := &cobra.Command{
		Use:   "export [YYYY-MM]",
		Short: "Write the report as XLSX and/or PDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			selected, err := configuredFormats()
			if err != nil {
				return err
			}
			if len(formats) > 0 {
				selected = selected[:0]
				for _, name := range formats {
					f, err := export.ParseFormat(name)
					if err != nil {
						return err
					}
					selected = append(selected, f)
				}
			}

			n, err := newNotifierFromConfig()
			if err != nil {
				return err
			}
			if deliver && n == nil {
				return fmt.Errorf("--deliver requires slack.token and slack.channel")
			}

			period, records, summary, err := loadMonth(cmd, args)
			if err != nil {
				return err
			}

			dir := outputDir
			if dir == "" {
				dir = config.OutputDir()
			}

			out := cmd.OutOrStdout()
			for _, f := range selected {
				exporter, err := export.ForFormat(f)
				if err != nil {
					return err
				}
				doc, err := export.Render(exporter, records, summary, period)
				if err != nil {
					return err
				}
				path, err := writeDocument(dir, doc)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Wrote %s (%d requests)", path, len(records))))

				if deliver {
					err := n.Deliver(ctx, doc, fmt.Sprintf("Monthly request report for %s", period.Title()))
					metrics.RecordDelivery(string(f), err)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, cli.FormatSuccess("Delivered "+doc.FileName+" to Slack"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "formats to write (xlsx, pdf; default from report.formats)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default from report.output_dir)")
	cmd.Flags().BoolVar(&deliver, "deliver", false, "also upload each file to the configured Slack channel")

	return cmd
}

func reportViewCmd() *cobra.Command {
	var (
		theme     string
		rankLimit int
	)

	cmd := &cobra.Command{
		Use:   "view [YYYY-MM]",
		Short: "Browse the report in an interactive dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, _, summary, err := loadMonth(cmd, args)
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), period, summary,
				tui.WithTheme(themes.GetTheme(theme)),
				tui.WithRankLimit(rankLimit),
			)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().IntVar(&rankLimit, "top", 5, "entries shown per ranked list")

	return cmd
}

// newReportWriter builds the Google Sheets publisher from configuration.
var newReportWriter = func(ctx context.Context) (sheets.ReportWriter, error) {
	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, err
	}
	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets writer: %w", err)
	}
	return writer, nil
}

func reportPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [YYYY-MM]",
		Short: "Publish the report to Google Sheets",
		Long: `Write the report into a tab of the configured Google Sheets spreadsheet.

Run 'stockroom auth sheets' first, or configure a service account under
sheets.service_account_path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			writer, err := newReportWriter(ctx)
			if err != nil {
				return common.NewUserError("Google Sheets is not configured; run 'stockroom auth sheets' first", err)
			}

			period, records, summary, err := loadMonth(cmd, args)
			if err != nil {
				return err
			}

			result, err := writer.Write(ctx, period, records, summary)
			if err != nil {
				return fmt.Errorf("failed to publish report: %w", err)
			}

			if viper.GetString("sheets.spreadsheet_id") == "" && result.SpreadsheetID != "" {
				viper.Set("sheets.spreadsheet_id", result.SpreadsheetID)
				if err := saveConfig(); err != nil {
					slog.Warn("Failed to save spreadsheet ID", "error", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Published %d rows to tab %q", result.RowsWritten, result.SheetTitle)))
			if result.SpreadsheetURL != "" {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(result.SpreadsheetURL))
			}
			return nil
		},
	}

	return cmd
}
