package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/fieldline/labportal/internal/flow"
)

// NewRequestCommand creates the request command group. Each invocation
// resumes the flow's saved draft, applies one mutation and saves the
// draft back, so a multi-step request survives across process runs.
func NewRequestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Drive a multi-step service request",
		Long: `Drive a multi-step service request flow (simulation or debugging).
State is kept in a draft between invocations: start a flow, fill its
fields with set/toggle, move with next/back, and the final next submits
the request as one atomic write.`,
	}
	cmd.AddCommand(newRequestStartCommand(rootOpts))
	cmd.AddCommand(newRequestStatusCommand(rootOpts))
	cmd.AddCommand(newRequestSetCommand(rootOpts))
	cmd.AddCommand(newRequestToggleCommand(rootOpts))
	cmd.AddCommand(newRequestNextCommand(rootOpts))
	cmd.AddCommand(newRequestBackCommand(rootOpts))
	cmd.AddCommand(newRequestSaveCommand(rootOpts))
	cmd.AddCommand(newRequestPriceCommand(rootOpts))
	cmd.AddCommand(newRequestDiscardCommand(rootOpts))
	return cmd
}

// lookupFlow resolves a flow name against the loaded definitions.
func lookupFlow(env *portalEnv, name string) (*flow.Definition, error) {
	def, ok := env.defs[name]
	if !ok {
		names := lo.Keys(env.defs)
		return nil, NewExitError(ExitFailure,
			fmt.Sprintf("unknown flow %q: known flows are %s", name, strings.Join(names, ", ")))
	}
	return def, nil
}

// sessionStatus renders the resumed session for text output.
func sessionStatus(s *flow.Session, def *flow.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Flow:  %s\n", def.Name)
	fmt.Fprintf(&b, "Token: %s\n", s.Token())
	fmt.Fprintf(&b, "Step:  %d/%d (%s)\n", s.StepIndex()+1, len(def.Steps), s.StepName())
	fmt.Fprintf(&b, "Price: %s", formatMoney(s.Price()))
	return b.String()
}

// sessionData renders the resumed session for JSON output.
func sessionData(s *flow.Session, def *flow.Definition) map[string]any {
	return map[string]any{
		"flow":  def.Name,
		"token": s.Token(),
		"step":  s.StepIndex(),
		"name":  s.StepName(),
		"price": s.Price(),
		"state": s.State(),
	}
}

func newRequestStartCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "start <flow>",
		Short:         "Start a flow, discarding any saved draft",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			def, err := lookupFlow(env, args[0])
			if err != nil {
				return err
			}

			env.drafts.Clear(def)
			s := flow.NewSession(def, env.store, env.drafts, flow.WithLogger(env.logger))
			if err := s.SaveDraft(); err != nil {
				return WrapExitError(ExitFailure, "failed to save draft", err)
			}

			return formatter(rootOpts, cmd).Success(sessionStatus(s, def), sessionData(s, def))
		},
	}
}

func newRequestStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status <flow>",
		Short:         "Show the flow's current step, state and price",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			def, err := lookupFlow(env, args[0])
			if err != nil {
				return err
			}

			s := flow.Resume(def, env.store, env.drafts, flow.WithLogger(env.logger))

			var b strings.Builder
			b.WriteString(sessionStatus(s, def))
			b.WriteString("\n")
			for k, v := range s.State() {
				fmt.Fprintf(&b, "  %s = %v\n", k, v)
			}

			return formatter(rootOpts, cmd).Success(strings.TrimRight(b.String(), "\n"), sessionData(s, def))
		},
	}
}

func newRequestSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <flow> <field> <value>",
		Short:         "Set a form field and save the draft",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			def, err := lookupFlow(env, args[0])
			if err != nil {
				return err
			}

			s := flow.Resume(def, env.store, env.drafts, flow.WithLogger(env.logger))
			if err := s.UpdateField(args[1], args[2]); err != nil {
				return WrapExitError(ExitFailure, "field update rejected", err)
			}
			if err := s.SaveDraft(); err != nil {
				return WrapExitError(ExitFailure, "failed to save draft", err)
			}

			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("%s = %s", args[1], args[2]), sessionData(s, def))
		},
	}
}

func newRequestToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "toggle <flow> <field> <value>",
		Short:         "Toggle a value in a list field and save the draft",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			def, err := lookupFlow(env, args[0])
			if err != nil {
				return err
			}

			s := flow.Resume(def, env.store, env.drafts, flow.WithLogger(env.logger))
			if err := s.ToggleArrayField(args[1], args[2]); err != nil {
				return WrapExitError(ExitFailure, "field toggle rejected", err)
			}
			if err := s.SaveDraft(); err != nil {
				return WrapExitError(ExitFailure, "failed to save draft", err)
			}

			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("%s = %v (price %s)", args[1], s.State().Strs(args[1]), formatMoney(s.Price())),
				sessionData(s, def))
		},
	}
}

func newRequestNextCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "next <flow>",
		Short:         "Validate the current step and advance (final step submits)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			def, err := lookupFlow(env, args[0])
			if err != nil {
				return err
			}

			s := flow.Resume(def, env.store, env.drafts, flow.WithLogger(env.logger))
			out := formatter(rootOpts, cmd)

			sub, err := s.Advance()
			if err != nil {
				if stepErr, ok := flow.IsStepError(err); ok {
					out.Error("E422", stepErr.Error(), map[string]any{
						"step":  stepErr.Step,
						"field": stepErr.Field,
					})
					return NewExitError(ExitFailure, "validation failed")
				}
				return WrapExitError(ExitFailure, "advance failed", err)
			}

			if sub != nil {
				// Terminal advance: the request is committed and the draft
				// is already cleared.
				text := fmt.Sprintf("Request submitted.\nProduct: %s (%s)\nOrder:   %s (%s)\nTotal:   %s",
					sub.Product.ID, sub.Product.Name,
					sub.Order.ID, sub.Order.Status,
					formatMoney(sub.Order.Total))
				return out.Success(text, sub)
			}

			if err := s.SaveDraft(); err != nil {
				return WrapExitError(ExitFailure, "failed to save draft", err)
			}
			return out.Success(sessionStatus(s, def), sessionData(s, def))
		},
	}
}

func newRequestBackCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "back <flow>",
		Short:         "Move back one step and save the draft",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			def, err := lookupFlow(env, args[0])
			if err != nil {
				return err
			}

			s := flow.Resume(def, env.store, env.drafts, flow.WithLogger(env.logger))
			if err := s.Retreat(); err != nil {
				return WrapExitError(ExitFailure, "cannot move back", err)
			}
			if err := s.SaveDraft(); err != nil {
				return WrapExitError(ExitFailure, "failed to save draft", err)
			}

			return formatter(rootOpts, cmd).Success(sessionStatus(s, def), sessionData(s, def))
		},
	}
}

func newRequestSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "save <flow>",
		Short:         "Save the flow's draft without changing anything",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			def, err := lookupFlow(env, args[0])
			if err != nil {
				return err
			}

			s := flow.Resume(def, env.store, env.drafts, flow.WithLogger(env.logger))
			if err := s.SaveDraft(); err != nil {
				return WrapExitError(ExitFailure, "failed to save draft", err)
			}

			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("draft for %s saved at step %d (%s)", def.Name, s.StepIndex()+1, s.StepName()),
				sessionData(s, def))
		},
	}
}

func newRequestPriceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "price <flow>",
		Short:         "Show the derived price for the current form state",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			def, err := lookupFlow(env, args[0])
			if err != nil {
				return err
			}

			s := flow.Resume(def, env.store, env.drafts, flow.WithLogger(env.logger))
			return formatter(rootOpts, cmd).Success(
				formatMoney(s.Price()),
				map[string]any{"flow": def.Name, "price": s.Price()})
		},
	}
}

func newRequestDiscardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "discard <flow>",
		Short:         "Delete the flow's saved draft",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer env.Close()

			def, err := lookupFlow(env, args[0])
			if err != nil {
				return err
			}

			env.drafts.Clear(def)
			return formatter(rootOpts, cmd).Success(
				fmt.Sprintf("draft for %s discarded", def.Name),
				map[string]any{"flow": def.Name})
		},
	}
}
