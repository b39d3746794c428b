package harness

import (
	"fmt"

	"github.com/fieldline/labportal/internal/flow"
	"github.com/fieldline/labportal/internal/testutil"
)

// Run executes a scenario and returns its result.
//
// Each scenario runs against a fresh seeded in-memory store with a frozen
// clock and a fixed session token, so the same scenario always produces
// the same trace.
func Run(scenario *Scenario) (*Result, error) {
	env := testutil.NewEnv()

	defs := flow.Definitions(flow.DefaultCatalog())
	def, ok := defs[scenario.Flow]
	if !ok {
		return nil, fmt.Errorf("%w: %q", flow.ErrUnknownFlow, scenario.Flow)
	}

	opts := []flow.SessionOption{
		flow.WithTokenGenerator(flow.NewFixedTokenGenerator(scenario.Token)),
		flow.WithClock(env.Clock.Now),
		flow.WithLogger(testutil.DiscardLogger()),
	}
	if len(scenario.Seed) > 0 {
		opts = append(opts, flow.WithSeed(flow.State(scenario.Seed)))
	}

	drafts := flow.NewDraftStore(env.Codec)
	session := flow.NewSession(def, env.Store, drafts, opts...)

	result := NewResult()
	if err := executeSteps(scenario, session, result); err != nil {
		return nil, err
	}

	if session.Completed() {
		result.Price = session.Result().Order.Total
	} else {
		result.Price = session.Price()
	}

	actx := &AssertionContext{Store: env.Store, Price: result.Price}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// executeSteps applies the scenario's steps in order, recording trace
// events and checking per-step expectations. Only genuinely broken
// scenarios (an op after submission, retreat at step 0) abort the run;
// expectation mismatches are recorded as failures and execution stops.
func executeSteps(scenario *Scenario, session *flow.Session, result *Result) error {
	for i, step := range scenario.Steps {
		switch step.Op {
		case OpSet:
			if err := session.UpdateField(step.Field, step.Value); err != nil {
				return fmt.Errorf("steps[%d]: set %s: %w", i, step.Field, err)
			}
			result.addOp(OpSet, step.Field, step.Value)

		case OpToggle:
			value, ok := step.Value.(string)
			if !ok {
				return fmt.Errorf("steps[%d]: toggle value must be a string, got %T", i, step.Value)
			}
			if err := session.ToggleArrayField(step.Field, value); err != nil {
				return fmt.Errorf("steps[%d]: toggle %s: %w", i, step.Field, err)
			}
			result.addOp(OpToggle, step.Field, value)

		case OpSave:
			if err := session.SaveDraft(); err != nil {
				return fmt.Errorf("steps[%d]: save: %w", i, err)
			}
			result.addOp(OpSave, "", nil)

		case OpBack:
			if err := session.Retreat(); err != nil {
				return fmt.Errorf("steps[%d]: back: %w", i, err)
			}
			result.addOp(OpBack, "", nil)
			result.addTransition(session.StepIndex(), session.StepName())

		case OpNext:
			result.addOp(OpNext, "", nil)
			outcome, done := applyNext(session, result)
			if step.Expect != nil && outcome != step.Expect.Outcome {
				result.AddError(fmt.Sprintf(
					"steps[%d]: expected outcome %q, got %q", i, step.Expect.Outcome, outcome))
				return nil
			}
			if step.Expect != nil && step.Expect.Field != "" && outcome == OutcomeRejected {
				last := result.Trace[len(result.Trace)-1]
				if last.Field != step.Expect.Field {
					result.AddError(fmt.Sprintf(
						"steps[%d]: expected rejection on field %q, got %q", i, step.Expect.Field, last.Field))
					return nil
				}
			}
			if done {
				// Submitted; any remaining steps would be mutations on a
				// frozen session.
				if i != len(scenario.Steps)-1 {
					return fmt.Errorf("steps[%d]: submission must be the last step", i)
				}
			}
		}
	}
	return nil
}

// applyNext advances the session once and records the trace event for
// whatever happened. Returns the outcome and whether the flow submitted.
func applyNext(session *flow.Session, result *Result) (string, bool) {
	sub, err := session.Advance()
	if err != nil {
		if stepErr, ok := flow.IsStepError(err); ok {
			result.addRejection(session.StepIndex(), session.StepName(), stepErr.Field, stepErr.Reason)
			return OutcomeRejected, false
		}
		// Submission transaction failure surfaces as a rejection of the
		// terminal step with the raw error text.
		result.addRejection(session.StepIndex(), session.StepName(), "", err.Error())
		return OutcomeRejected, false
	}
	if sub != nil {
		result.addSubmission(sub.Product.ID, sub.Order.ID, sub.Message.ID, sub.Order.Total)
		return OutcomeSubmitted, true
	}
	result.addTransition(session.StepIndex(), session.StepName())
	return OutcomeAdvanced, false
}
