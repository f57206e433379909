package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Beka01247/food-ordering/internal/domain"
)

func NewMigrateCatalogCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-catalog",
		Short: "Seed or migrate the stored menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.catalog().Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "menu has %d items\n", len(items))
			return nil
		},
	}
}

func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print order statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := opts.orders().Stats(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func NewOrdersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and update orders",
	}

	var (
		query  string
		status string
		sortBy string
		dir    string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := opts.orders().FilterAndSort(
				cmd.Context(),
				domain.OrderFilter{Query: query, Status: domain.OrderStatus(status)},
				domain.OrderSortKey(sortBy),
				domain.SortDirection(dir),
			)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tTOTAL\tCUSTOMER\tCREATED")
			for _, o := range orders {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", o.ID, o.Status, o.Total, o.UserName, o.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "match id, name, email or phone")
	list.Flags().StringVar(&status, "status", "", "pending|processing|completed|cancelled")
	list.Flags().StringVar(&sortBy, "sort", string(domain.SortByCreatedAt), "createdAt|total|status")
	list.Flags().StringVar(&dir, "dir", string(domain.SortDesc), "asc|desc")

	setStatus := &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Move an order to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			next := domain.OrderStatus(args[1])
			if !next.Valid() {
				return fmt.Errorf("unknown status %q", args[1])
			}

			order, err := opts.orders().UpdateStatus(cmd.Context(), args[0], next, "foodctl")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s is now %s\n", order.ID, order.Status)
			return nil
		},
	}

	cmd.AddCommand(list, setStatus)
	return cmd
}

func NewUsersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := opts.users().Load(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tROLE\tNAME\tEMAIL")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Role, u.Name, u.Email)
			}
			return tw.Flush()
		},
	}

	del := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a non-admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.users().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
