package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/requests"
	"github.com/Veraticus/stockroom/internal/service"
)

func requestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Create and review item requests",
		Long: `Create item requests and move them through their lifecycle:

  pending -> approved -> completed
  pending -> rejected`,
	}

	cmd.AddCommand(listRequestsCmd())
	cmd.AddCommand(createRequestCmd())
	cmd.AddCommand(transitionRequestCmd("approve", "Approve a pending request", (*requests.Service).Approve))
	cmd.AddCommand(transitionRequestCmd("reject", "Reject a pending request", (*requests.Service).Reject))
	cmd.AddCommand(transitionRequestCmd("complete", "Mark an approved request as completed", (*requests.Service).Complete))
	cmd.AddCommand(cancelRequestCmd())

	return cmd
}

func listRequestsCmd() *cobra.Command {
	var (
		status string
		period string
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requests, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.RequestFilter{Limit: limit}
			if status != "" {
				st, err := model.ParseRequestStatus(status)
				if err != nil {
					return err
				}
				filter.Status = st
			}
			if period != "" {
				p, err := parsePeriodArg([]string{period})
				if err != nil {
					return err
				}
				from, to := p.Start(), p.End()
				filter.From = &from
				filter.To = &to
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := requests.NewService(store).List(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list requests: %w", err)
			}

			out := cmd.OutOrStdout()
			if format != "table" {
				if records == nil {
					records = []model.Request{}
				}
				return printStructured(out, format, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No requests found."))
				return nil
			}
			printRequestTable(out, records)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (pending, approved, rejected, completed)")
	cmd.Flags().StringVarP(&period, "period", "p", "", "filter by month (YYYY-MM)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of requests")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml)")

	return cmd
}

func createRequestCmd() *cobra.Command {
	var in requests.NewRequest

	cmd := &cobra.Command{
		Use:   "create <item>",
		Short: "Create a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in.ItemName = args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			req, err := requests.NewService(store).Create(ctx, in)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Created request %s: %d x %s (%s)", req.ID, req.Quantity, req.ItemName, req.Priority)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&in.Quantity, "quantity", "q", 1, "quantity requested")
	cmd.Flags().StringVarP(&in.Priority, "priority", "p", "", "priority (high, medium, low; default medium)")
	cmd.Flags().StringVarP(&in.RequesterName, "requester", "r", "", "requester name")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free-text notes")

	return cmd
}

type transitionFunc func(*requests.Service, context.Context, string) (*model.Request, error)

func transitionRequestCmd(use, short string, fn transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			req, err := fn(requests.NewService(store), ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Request %s is now %s", req.ID, cli.StatusStyle(string(req.Status)).Render(string(req.Status)))))
			return nil
		},
	}
}

func cancelRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel and remove a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := requests.NewService(store).Cancel(ctx, args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Canceled request %s", args[0])))
			return nil
		},
	}
}

func printRequestTable(out io.Writer, records []model.Request) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("ID"),
		cli.HeaderStyle.Render("Item"),
		cli.HeaderStyle.Render("Qty"),
		cli.HeaderStyle.Render("Priority"),
		cli.HeaderStyle.Render("Status"),
		cli.HeaderStyle.Render("Requester"),
		cli.HeaderStyle.Render("Created"))
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.ItemName,
			r.Quantity,
			cli.PriorityStyle(string(r.Priority)).Render(string(r.Priority)),
			cli.StatusStyle(string(r.Status)).Render(string(r.Status)),
			r.RequesterName,
			r.CreatedAt.Format("2006-01-02"))
	}
}
