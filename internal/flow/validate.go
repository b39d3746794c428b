package flow

import "strings"

// Validation predicate helpers shared by the concrete flows. Each returns
// a Step.Validate function; the first failing rule wins.

// requireFields admits the state only when every named field is a
// non-blank string.
func requireFields(step string, fields ...string) func(State) error {
	return func(s State) error {
		for _, field := range fields {
			if strings.TrimSpace(s.Str(field)) == "" {
				return &StepError{Step: step, Field: field, Reason: "required field missing"}
			}
		}
		return nil
	}
}

// requireSelection admits the state only when the named list field has at
// least one entry. reason names what is missing ("no document attached").
func requireSelection(step, field, reason string) func(State) error {
	return func(s State) error {
		if len(s.Strs(field)) == 0 {
			return &StepError{Step: step, Field: field, Reason: reason}
		}
		return nil
	}
}

// all combines predicates; the first rejection is returned.
func all(predicates ...func(State) error) func(State) error {
	return func(s State) error {
		for _, p := range predicates {
			if err := p(s); err != nil {
				return err
			}
		}
		return nil
	}
}
