package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/metrics"
	"github.com/Veraticus/stockroom/internal/model"
)

func itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage inventory items",
	}

	cmd.AddCommand(listItemsCmd())
	cmd.AddCommand(addItemCmd())

	return cmd
}

func listItemsCmd() *cobra.Command {
	var categoryFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		Long: `List inventory items. --category accepts any spelling of a category
("Office Supplies", "stationery", "office-supplies") or "all".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			items, err := store.ListItems(ctx, categoryFilter)
			if err != nil {
				return fmt.Errorf("failed to list items: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No items found."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Qty"),
				cli.HeaderStyle.Render("Location"))
			for _, item := range items {
				label := item.CategoryLabel
				if label == "" {
					label = string(item.Category)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", shortID(item.ID), item.Name, label, item.Quantity, item.Location)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryFilter, "category", "c", "", "filter by category")

	return cmd
}

func addItemCmd() *cobra.Command {
	var (
		categoryLabel string
		location      string
		quantity      int
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			item := model.Item{
				ID:            uuid.NewString(),
				Name:          strings.TrimSpace(args[0]),
				CategoryLabel: strings.TrimSpace(categoryLabel),
				Location:      strings.TrimSpace(location),
				Quantity:      quantity,
				CreatedAt:     time.Now().UTC(),
			}
			if err := store.SaveItem(ctx, &item); err != nil {
				return fmt.Errorf("failed to save item: %w", err)
			}
			metrics.RecordNormalization(string(item.Category))

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Added %s (%s) as %s", item.Name, item.ID, item.Category)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryLabel, "category", "c", "", "category label")
	cmd.Flags().StringVarP(&location, "location", "l", "", "storage location")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "quantity on hand")

	return cmd
}

// shortID trims UUIDs for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
