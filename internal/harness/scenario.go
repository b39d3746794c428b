package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario: a flow driven step by step
// against a fresh seeded store, with expectations on individual advances
// and assertions on the resulting trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Flow is the flow definition to drive ("simulation" or "debugging").
	Flow string `yaml:"flow"`

	// Token is an optional fixed session token. Defaults to
	// "test-session-default" so golden traces stay stable.
	Token string `yaml:"token,omitempty"`

	// Seed pre-populates form-state fields before the first step.
	Seed map[string]any `yaml:"seed,omitempty"`

	// Steps is the ordered list of operations to apply.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final store state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation applied to the session.
type Step struct {
	// Op is one of "set", "toggle", "next", "back", "save".
	Op string `yaml:"op"`

	// Field and Value parameterize set and toggle.
	Field string `yaml:"field,omitempty"`
	Value any    `yaml:"value,omitempty"`

	// Expect optionally pins down the outcome of a next step.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause is the expected outcome of a next step.
type ExpectClause struct {
	// Outcome is "advanced", "rejected" or "submitted".
	Outcome string `yaml:"outcome"`

	// Field names the field a rejection must blame. Optional.
	Field string `yaml:"field,omitempty"`
}

// Step operations.
const (
	OpSet    = "set"
	OpToggle = "toggle"
	OpNext   = "next"
	OpBack   = "back"
	OpSave   = "save"
)

// Expected next outcomes.
const (
	OutcomeAdvanced  = "advanced"
	OutcomeRejected  = "rejected"
	OutcomeSubmitted = "submitted"
)

// Assertion validates the trace or the final store state.
type Assertion struct {
	// Type selects the assertion: trace_contains, trace_order,
	// trace_count, entity_count, entity_field, unread_count, price.
	Type string `yaml:"type"`

	// Op and Field select trace events (trace_contains, trace_count).
	Op    string `yaml:"op,omitempty"`
	Field string `yaml:"field,omitempty"`

	// Ops is the expected operation order (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Collection names an entity collection (entity_count, entity_field):
	// products, orders, messages or documents.
	Collection string `yaml:"collection,omitempty"`

	// ID selects one record (entity_field).
	ID string `yaml:"id,omitempty"`

	// Expect holds expected field values, subset match (entity_field).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Count is the expected number (trace_count, entity_count,
	// unread_count).
	Count int `yaml:"count,omitempty"`

	// Amount is the expected price (price).
	Amount float64 `yaml:"amount,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertEntityCount   = "entity_count"
	AssertEntityField   = "entity_field"
	AssertUnreadCount   = "unread_count"
	AssertPrice         = "price"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently skipping assertions.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Flow == "" {
		return fmt.Errorf("flow is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch step.Op {
		case OpSet, OpToggle:
			if step.Field == "" {
				return fmt.Errorf("steps[%d]: field is required for %s", i, step.Op)
			}
		case OpNext:
			if step.Expect != nil {
				switch step.Expect.Outcome {
				case OutcomeAdvanced, OutcomeRejected, OutcomeSubmitted:
				default:
					return fmt.Errorf("steps[%d].expect: unknown outcome %q", i, step.Expect.Outcome)
				}
			}
		case OpBack, OpSave:
		case "":
			return fmt.Errorf("steps[%d]: op is required", i)
		default:
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Expect != nil && step.Op != OpNext {
			return fmt.Errorf("steps[%d]: expect is only valid on next", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertEntityCount:
		if a.Collection == "" {
			return fmt.Errorf("assertions[%d]: collection is required for entity_count", index)
		}
	case AssertEntityField:
		if a.Collection == "" || a.ID == "" {
			return fmt.Errorf("assertions[%d]: collection and id are required for entity_field", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for entity_field", index)
		}
	case AssertUnreadCount, AssertPrice:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
