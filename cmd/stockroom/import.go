package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import items or requests from an XLSX workbook",
		Long: `Import inventory items or requests from an XLSX workbook.

Item sheets need Name, Category and Quantity columns and may carry ID and
Location. Request sheets need Item Name and Quantity and may carry ID,
Priority, Status, Requester and Created Date. Invalid rows are skipped and
listed after the import.`,
	}

	cmd.AddCommand(importKindCmd("items", "Import inventory items", (*importer.Importer).ImportItemsFile))
	cmd.AddCommand(importKindCmd("requests", "Import item requests", (*importer.Importer).ImportRequestsFile))

	return cmd
}

type importFunc func(*importer.Importer, context.Context, string) (*importer.Result, error)

func importKindCmd(kind, short string, fn importFunc) *cobra.Command {
	var (
		sheet      string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   kind + " <file.xlsx>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			interruptHandler := cli.NewInterruptHandler(out, "Import").
				WithHint("Rows saved before the interrupt were kept.")
			ctx := interruptHandler.HandleInterrupts(cmd.Context())

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			opts := []importer.Option{importer.WithLogger(slog.Default())}
			if sheet != "" {
				opts = append(opts, importer.WithSheet(sheet))
			}
			progress := cli.NewRowProgress(out, "Importing "+kind)
			if !noProgress {
				opts = append(opts, importer.WithProgress(progress.Update))
			}

			result, err := fn(importer.New(store, store, opts...), ctx, args[0])
			progress.Finish()
			if err != nil {
				if interruptHandler.WasInterrupted() {
					return nil
				}
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d %s from sheet %q", result.Imported, kind, result.Sheet)))
			if len(result.Skipped) > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %d rows:", len(result.Skipped))))
				printSkippedRows(out, result.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read (default: first sheet)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")

	return cmd
}

func printSkippedRows(out io.Writer, skipped []importer.SkippedRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\n", cli.HeaderStyle.Render("Row"), cli.HeaderStyle.Render("Reason"))
	for _, s := range skipped {
		fmt.Fprintf(w, "%d\t%s\n", s.Row, s.Reason)
	}
}
