package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fieldline/labportal/internal/model"
)

// NewOrdersCommand creates the orders command group.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List and update service orders",
	}
	cmd.AddCommand(newOrdersListCommand(rootOpts))
	cmd.AddCommand(newOrdersUpdateCommand(rootOpts))
	return cmd
}

func newOrdersListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List service orders",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			orders := env.store.Orders()

			var b strings.Builder
			w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRODUCT\tSERVICE\tSTATUS\tTOTAL")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.ProductName, o.Service, o.Status, formatMoney(o.Total))
			}
			w.Flush()

			return formatter(rootOpts, cmd).Success(strings.TrimRight(b.String(), "\n"), orders)
		},
	}
}

func newOrdersUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:           "update <order-id>",
		Short:         "Update an order's status",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			id := args[0]
			ok := env.store.UpdateOrder(id, func(o *model.Order) {
				if cmd.Flags().Changed("status") {
					o.Status = model.OrderStatus(status)
				}
			})
			if !ok {
				out := formatter(rootOpts, cmd)
				out.Error("E404", fmt.Sprintf("order %s not found", id), nil)
				return NewExitError(ExitFailure, "order not found")
			}

			o, _ := env.store.Order(id)
			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("%s: status=%s total=%s", o.ID, o.Status, formatMoney(o.Total)), o)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "new status (Awaiting|Completed|Cancelled)")

	return cmd
}
