package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fieldline/labportal/internal/model"
)

// NewProductsCommand creates the products command group.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List and update products under test",
	}
	cmd.AddCommand(newProductsListCommand(rootOpts))
	cmd.AddCommand(newProductsUpdateCommand(rootOpts))
	return cmd
}

func newProductsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List products under test",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			products := env.store.Products()

			var b strings.Builder
			w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSERVICE\tSTATUS\tPROGRESS")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\n", p.ID, p.Name, p.Service, p.Status, p.Progress)
			}
			w.Flush()

			return formatter(rootOpts, cmd).Success(strings.TrimRight(b.String(), "\n"), products)
		},
	}
}

func newProductsUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		status   string
		progress int
	)

	cmd := &cobra.Command{
		Use:           "update <product-id>",
		Short:         "Update a product's status or progress",
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
			ok := env.store.UpdateProduct(id, func(p *model.Product) {
				if cmd.Flags().Changed("status") {
					p.Status = model.ProductStatus(status)
				}
				if cmd.Flags().Changed("progress") {
					p.Progress = progress
				}
			})
			if !ok {
				out := formatter(rootOpts, cmd)
				out.Error("E404", fmt.Sprintf("product %s not found", id), nil)
				return NewExitError(ExitFailure, "product not found")
			}

			p, _ := env.store.Product(id)
			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("%s: status=%s progress=%d%%", p.ID, p.Status, p.Progress), p)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "new status (Awaiting|Testing|Complete|Cancelled)")
	cmd.Flags().IntVar(&progress, "progress", 0, "new progress percentage (0-100)")

	return cmd
}
