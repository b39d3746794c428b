package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fieldline/labportal/internal/estimate"
)

// NewEstimateCommand creates the estimate command. It is pure arithmetic
// over its inputs and never touches the portal database.
func NewEstimateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file     string
		items    []string
		margin   float64
		discount float64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Price an ad-hoc work estimate",
		Long: `Price an ad-hoc work estimate from a YAML file or --item flags.
Each item is "description:hours:rate:units". Margin marks the subtotal
up and discount marks the margined amount down; both are percentages.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var est estimate.Estimate

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read estimate file", err)
				}
				if err := yaml.Unmarshal(data, &est); err != nil {
					return WrapExitError(ExitCommandError, "failed to parse estimate file", err)
				}
			}

			for _, raw := range items {
				li, err := parseLineItem(raw)
				if err != nil {
					return WrapExitError(ExitFailure, "invalid --item", err)
				}
				est.Items = append(est.Items, li)
			}

			if cmd.Flags().Changed("margin") {
				est.MarginPct = margin
			}
			if cmd.Flags().Changed("discount") {
				est.DiscountPct = discount
			}

			if len(est.Items) == 0 {
				return NewExitError(ExitFailure, "no line items: pass --file or --item")
			}

			var b strings.Builder
			for _, li := range est.Items {
				fmt.Fprintf(&b, "%-40s %s\n", li.Description, formatMoney(li.Cost()))
			}
			fmt.Fprintf(&b, "%-40s %s\n", "Subtotal", formatMoney(est.Subtotal()))
			fmt.Fprintf(&b, "%-40s %s", fmt.Sprintf("Total (+%.0f%% / -%.0f%%)", est.MarginPct, est.DiscountPct),
				formatMoney(est.Total()))

			return formatter(rootOpts, cmd).Success(b.String(), map[string]any{
				"estimate": est,
				"subtotal": est.Subtotal(),
				"total":    est.Total(),
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML estimate file")
	cmd.Flags().StringArrayVar(&items, "item", nil, `line item as "description:hours:rate:units" (repeatable)`)
	cmd.Flags().Float64Var(&margin, "margin", 0, "margin percentage applied to the subtotal")
	cmd.Flags().Float64Var(&discount, "discount", 0, "discount percentage applied after margin")

	return cmd
}

// parseLineItem parses "description:hours:rate:units".
func parseLineItem(raw string) (estimate.LineItem, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 4 {
		return estimate.LineItem{}, fmt.Errorf("want description:hours:rate:units, got %q", raw)
	}
	hours, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return estimate.LineItem{}, fmt.Errorf("bad hours %q: %w", parts[1], err)
	}
	rate, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return estimate.LineItem{}, fmt.Errorf("bad rate %q: %w", parts[2], err)
	}
	units, err := strconv.Atoi(parts[3])
	if err != nil {
		return estimate.LineItem{}, fmt.Errorf("bad units %q: %w", parts[3], err)
	}
	return estimate.LineItem{
		Description: parts[0],
		Hours:       hours,
		Rate:        rate,
		Units:       units,
	}, nil
}
