package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and update portal preferences",
	}
	cmd.AddCommand(newSettingsShowCommand(rootOpts))
	cmd.AddCommand(newSettingsSetCommand(rootOpts))
	return cmd
}

func newSettingsShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show portal preferences",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			v := env.store.Settings()

			var b strings.Builder
			fmt.Fprintf(&b, "Notifications:     %t\n", v.Notifications)
			fmt.Fprintf(&b, "Dark mode:         %t\n", v.DarkMode)
			fmt.Fprintf(&b, "Email updates:     %t\n", v.EmailUpdates)
			fmt.Fprintf(&b, "SMS notifications: %t\n", v.SMSNotifications)

			return formatter(rootOpts, cmd).Success(strings.TrimRight(b.String(), "\n"), v)
		},
	}
}

func newSettingsSetCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		notifications bool
		darkMode      bool
		emailUpdates  bool
		smsAlerts     bool
	)

	cmd := &cobra.Command{
		Use:           "set",
		Short:         "Update portal preferences",
		Long:          "Update portal preferences. Flags left unset keep their stored value.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			// Start from the stored record so untouched flags carry over,
			// then hand the store a full replacement.
			v := env.store.Settings()
			if cmd.Flags().Changed("notifications") {
				v.Notifications = notifications
			}
			if cmd.Flags().Changed("dark-mode") {
				v.DarkMode = darkMode
			}
			if cmd.Flags().Changed("email-updates") {
				v.EmailUpdates = emailUpdates
			}
			if cmd.Flags().Changed("sms") {
				v.SMSNotifications = smsAlerts
			}
			env.store.SetSettings(v)

			return formatter(rootOpts, cmd).Success("settings updated", v)
		},
	}

	cmd.Flags().BoolVar(&notifications, "notifications", false, "enable in-portal notifications")
	cmd.Flags().BoolVar(&darkMode, "dark-mode", false, "enable dark mode")
	cmd.Flags().BoolVar(&emailUpdates, "email-updates", false, "enable email updates")
	cmd.Flags().BoolVar(&smsAlerts, "sms", false, "enable SMS notifications")

	return cmd
}
