package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldline/labportal/internal/model"
)

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and update the account profile",
	}
	cmd.AddCommand(newProfileShowCommand(rootOpts))
	cmd.AddCommand(newProfileSetCommand(rootOpts))
	return cmd
}

func newProfileShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the account profile",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			p := env.store.Profile()

			var b strings.Builder
			fmt.Fprintf(&b, "Name:    %s\n", p.FullName)
			fmt.Fprintf(&b, "Company: %s\n", p.Company)
			fmt.Fprintf(&b, "Phone:   %s\n", p.Phone)
			fmt.Fprintf(&b, "Address: %s\n", p.Address)
			for i, e := range p.Emails {
				label := e.Label
				if i == 0 {
					label = "primary"
				}
				fmt.Fprintf(&b, "Email:   %s (%s)\n", e.Address, label)
			}

			return formatter(rootOpts, cmd).Success(strings.TrimRight(b.String(), "\n"), p)
		},
	}
}

func newProfileSetCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name    string
		emails  []string
		phone   string
		address string
		company string
	)

	cmd := &cobra.Command{
		Use:           "set",
		Short:         "Replace the account profile",
		Long:          "Replace the account profile in full. Unset flags clear their fields; at least one email is required.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			p := model.Profile{
				FullName: name,
				Phone:    phone,
				Address:  address,
				Company:  company,
			}
			for _, addr := range emails {
				p.Emails = append(p.Emails, model.Email{Address: addr})
			}

			if err := env.store.SetProfile(p); err != nil {
				out := formatter(rootOpts, cmd)
				out.Error("E400", err.Error(), nil)
				return WrapExitError(ExitFailure, "profile rejected", err)
			}

			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("profile updated for %s", p.FullName), p)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringSliceVar(&emails, "email", nil, "email address (repeatable, first is primary)")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&address, "address", "", "postal address")
	cmd.Flags().StringVar(&company, "company", "", "company name")

	return cmd
}
