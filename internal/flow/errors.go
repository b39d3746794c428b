package flow

import (
	"errors"
	"fmt"
)

var (
	// ErrFlowComplete is returned by any mutation attempted after the
	// session reached Success. The form state is frozen at that point.
	ErrFlowComplete = errors.New("flow: session already complete")

	// ErrAtFirstStep is returned by Retreat at step 0. Leaving the flow
	// from its first step is external navigation, not a session state.
	ErrAtFirstStep = errors.New("flow: already at first step")

	// ErrUnknownFlow is returned when a flow name matches no definition.
	ErrUnknownFlow = errors.New("flow: unknown flow")
)

// StepError is a rejected step advance: the named step's validation
// predicate failed for the given field. Recoverable: the session index
// is unchanged and nothing was written.
type StepError struct {
	Step   string
	Field  string
	Reason string
}

func (e *StepError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("step %s: %s (field=%s)", e.Step, e.Reason, e.Field)
	}
	return fmt.Sprintf("step %s: %s", e.Step, e.Reason)
}

// IsStepError reports whether err is a validation rejection, and returns
// it if so. Uses errors.As to handle wrapped errors.
func IsStepError(err error) (*StepError, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
