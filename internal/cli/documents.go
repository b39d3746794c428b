package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fieldline/labportal/internal/model"
)

// NewDocumentsCommand creates the documents command group.
func NewDocumentsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List uploaded documents",
	}
	cmd.AddCommand(newDocumentsListCommand(rootOpts))
	return cmd
}

func newDocumentsListCommand(rootOpts *RootOptions) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List documents, optionally for one product",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			var documents []model.Document
			if productID != "" {
				documents = env.store.DocumentsForProduct(productID)
			} else {
				documents = env.store.Documents()
			}

			var b strings.Builder
			w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRODUCT\tTITLE\tTYPE\tSIZE")
			for _, d := range documents {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.ProductID, d.Title, d.Type, d.Size)
			}
			w.Flush()

			return formatter(rootOpts, cmd).Success(strings.TrimRight(b.String(), "\n"), documents)
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "only documents attached to this product")

	return cmd
}
