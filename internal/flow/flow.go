package flow

import (
	"github.com/samber/lo"

	"github.com/fieldline/labportal/internal/entity"
	"github.com/fieldline/labportal/internal/model"
)

// State is the flow's form state: a flat bag of field values mutated by
// the UI between step advances. Values are JSON-serializable (drafts are
// persisted as JSON), so list fields may come back as []any after a
// resume; the accessors normalize that.
type State map[string]any

// Str returns the string value of a field, or "" when absent or not a
// string.
func (s State) Str(key string) string {
	v, _ := s[key].(string)
	return v
}

// Strs returns the string-list value of a field. Tolerates []any as
// produced by JSON decoding of a saved draft.
func (s State) Strs(key string) []string {
	switch v := s[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Clone returns a shallow copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Step is one named stage of a flow. Validate inspects the form state and
// returns nil to admit the advance or a *StepError naming what failed.
type Step struct {
	Name     string
	Validate func(State) error
}

// Submission is the result of a committed submission transaction: the
// three mutually consistent records the terminal step created.
type Submission struct {
	Product model.Product
	Order   model.Order
	Message model.Message
}

// Definition declares a flow: its steps in order, the defaults for a new
// session's form state, the derived-pricing function, and the submission
// builder that runs inside the entity store transaction on the terminal
// advance.
//
// Version tags the form-state schema; drafts saved under a different
// version are discarded on resume rather than blindly merged.
type Definition struct {
	Name     string
	Version  int
	Steps    []Step
	Defaults State
	Price    func(State) float64
	Submit   func(tx *entity.Tx, state State, total float64) (Submission, error)
}

// StepNames returns the ordered step names.
func (d *Definition) StepNames() []string {
	return lo.Map(d.Steps, func(s Step, _ int) string { return s.Name })
}

// Definitions returns the portal's flow definitions keyed by name,
// priced from the given catalog.
func Definitions(catalog Catalog) map[string]*Definition {
	sim := SimulationFlow(catalog)
	dbg := DebuggingFlow(catalog)
	return map[string]*Definition{
		sim.Name: sim,
		dbg.Name: dbg,
	}
}
