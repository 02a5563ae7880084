package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/config"
	"github.com/Veraticus/stockroom/internal/schedule"
)

func scheduleCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Export last month's report on a cron schedule",
		Long: `Run until interrupted, exporting the previous month's report whenever
report.schedule fires (default: 06:00 on the 1st). Files go to
report.output_dir and, when slack.token and slack.channel are set, are
uploaded to Slack.

With --once the export runs immediately and the command exits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			loc, err := config.Location()
			if err != nil {
				return err
			}
			formats, err := configuredFormats()
			if err != nil {
				return err
			}
			notifier, err := newNotifierFromConfig()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			opts := []schedule.Option{schedule.WithLogger(slog.Default())}
			if notifier != nil {
				opts = append(opts, schedule.WithNotifier(notifier))
			}

			scheduler, err := schedule.New(store, schedule.Config{
				Schedule:  viper.GetString("report.schedule"),
				Location:  loc,
				OutputDir: config.OutputDir(),
				Formats:   formats,
			}, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if once {
				result, err := scheduler.RunOnce(ctx, time.Now())
				for _, path := range result.Files {
					fmt.Fprintln(out, cli.FormatSuccess("Wrote "+path))
				}
				if result.Delivered > 0 {
					fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Delivered %d files", result.Delivered)))
				}
				return err
			}

			fmt.Fprintln(out, cli.FormatInfo("Next report run: "+scheduler.Next(time.Now()).Format(time.RFC1123)))
			return scheduler.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "export the previous month now and exit")
	cmd.Flags().String("cron", "", "five-field cron expression (default \"0 6 1 * *\")")
	_ = viper.BindPFlag("report.schedule", cmd.Flags().Lookup("cron"))

	return cmd
}
