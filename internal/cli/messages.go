package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewMessagesCommand creates the messages command group.
func NewMessagesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Read the portal inbox",
	}
	cmd.AddCommand(newMessagesListCommand(rootOpts))
	cmd.AddCommand(newMessagesReadCommand(rootOpts))
	return cmd
}

func newMessagesListCommand(rootOpts *RootOptions) *cobra.Command {
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List inbox messages",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			messages := env.store.Messages()

			var b strings.Builder
			w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFROM\tSUBJECT\tTYPE\tREAD")
			for _, m := range messages {
				if unreadOnly && m.Read {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", m.ID, m.From, m.Subject, m.Type, m.Read)
			}
			fmt.Fprintf(w, "\n%d unread\n", env.store.UnreadMessages())
			w.Flush()

			return formatter(rootOpts, cmd).Success(strings.TrimRight(b.String(), "\n"), messages)
		},
	}

	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "show unread messages only")

	return cmd
}

func newMessagesReadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "read <message-id>",
		Short:         "Mark a message as read",
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
			if !env.store.MarkMessageRead(id) {
				out := formatter(rootOpts, cmd)
				out.Error("E404", fmt.Sprintf("message %s not found", id), nil)
				return NewExitError(ExitFailure, "message not found")
			}

			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("%s marked as read", id),
				map[string]any{"id": id, "read": true})
		},
	}
}
