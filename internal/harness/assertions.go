package harness

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/fieldline/labportal/internal/entity"
)

// AssertionContext carries what assertions evaluate against beyond the
// trace itself: the final store state and the final derived price.
type AssertionContext struct {
	Store *entity.Store
	Price float64
}

// AssertionError is returned when an assertion fails. It includes the
// trace so the failure message is debuggable on its own.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		switch event.Kind {
		case "op":
			fmt.Fprintf(&buf, "  [%d] %s %s %v\n", i+1, event.Op, event.Field, event.Value)
		case "transition":
			fmt.Fprintf(&buf, "  [%d] -> step %d (%s)\n", i+1, event.Step, event.Name)
		case "rejection":
			fmt.Fprintf(&buf, "  [%d] rejected at %s: %s\n", i+1, event.Name, event.Reason)
		case "submission":
			fmt.Fprintf(&buf, "  [%d] submitted %s / %s\n", i+1, event.ProductID, event.OrderID)
		}
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure
// messages. An empty slice means all assertions held.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertEntityCount:
			err = assertEntityCount(actx.Store, a, result.Trace)
		case AssertEntityField:
			err = assertEntityField(actx.Store, a, result.Trace)
		case AssertUnreadCount:
			err = assertUnreadCount(actx.Store, a, result.Trace)
		case AssertPrice:
			err = assertPrice(actx.Price, a, result.Trace)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// assertTraceContains checks that an op event matching the assertion's
// op and (optionally) field appears in the trace.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Kind != "op" || event.Op != a.Op {
			continue
		}
		if a.Field == "" || event.Field == a.Field {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s field %q in trace", a.Op, a.Field),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that ops appear in the given order. They need
// not be consecutive.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if event.Kind != "op" {
			continue
		}
		if _, seen := positions[event.Op]; !seen {
			positions[event.Op] = i + 1
		}
	}

	for _, op := range a.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", a.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that an op appears exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Kind == "op" && event.Op == a.Op {
			if a.Field == "" || event.Field == a.Field {
				count++
			}
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("op %s appears %d times", a.Op, a.Count),
			Actual:   fmt.Sprintf("appears %d times", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertEntityCount checks the size of a collection in the final state.
func assertEntityCount(store *entity.Store, a Assertion, trace []TraceEvent) error {
	records, err := collectionRecords(store, a.Collection)
	if err != nil {
		return err
	}
	if len(records) != a.Count {
		return &AssertionError{
			Type:     AssertEntityCount,
			Expected: fmt.Sprintf("%d records in %s", a.Count, a.Collection),
			Actual:   fmt.Sprintf("%d records", len(records)),
			Trace:    trace,
		}
	}
	return nil
}

// assertEntityField checks that the record with the given ID exists and
// its fields match the expected values (subset match on JSON field names).
func assertEntityField(store *entity.Store, a Assertion, trace []TraceEvent) error {
	records, err := collectionRecords(store, a.Collection)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec["id"] != a.ID {
			continue
		}
		for key, want := range a.Expect {
			got, present := rec[key]
			if !present || !looselyEqual(got, want) {
				return &AssertionError{
					Type:     AssertEntityField,
					Expected: fmt.Sprintf("%s %s: %s = %v", a.Collection, a.ID, key, want),
					Actual:   fmt.Sprintf("%s = %v", key, got),
					Trace:    trace,
				}
			}
		}
		return nil
	}

	return &AssertionError{
		Type:     AssertEntityField,
		Expected: fmt.Sprintf("record %s in %s", a.ID, a.Collection),
		Actual:   "not found",
		Trace:    trace,
	}
}

// assertUnreadCount checks the final unread message count.
func assertUnreadCount(store *entity.Store, a Assertion, trace []TraceEvent) error {
	unread := store.UnreadMessages()
	if unread != a.Count {
		return &AssertionError{
			Type:     AssertUnreadCount,
			Expected: fmt.Sprintf("%d unread messages", a.Count),
			Actual:   fmt.Sprintf("%d unread messages", unread),
			Trace:    trace,
		}
	}
	return nil
}

// assertPrice checks the final derived price.
func assertPrice(price float64, a Assertion, trace []TraceEvent) error {
	if math.Abs(price-a.Amount) > 1e-9 {
		return &AssertionError{
			Type:     AssertPrice,
			Expected: fmt.Sprintf("price %v", a.Amount),
			Actual:   fmt.Sprintf("price %v", price),
			Trace:    trace,
		}
	}
	return nil
}

// collectionRecords returns a collection's records as generic maps keyed
// by JSON field name, so assertions are written in wire terms.
func collectionRecords(store *entity.Store, collection string) ([]map[string]any, error) {
	var v any
	switch collection {
	case "products":
		v = store.Products()
	case "orders":
		v = store.Orders()
	case "messages":
		v = store.Messages()
	case "documents":
		v = store.Documents()
	default:
		return nil, fmt.Errorf("unknown collection %q", collection)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s: %w", collection, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s snapshot: %w", collection, err)
	}
	return records, nil
}

// looselyEqual compares a decoded-JSON value against a decoded-YAML one.
// Both sides are normalized through a JSON round trip first, so YAML
// integers compare equal to JSON numbers.
func looselyEqual(got, want any) bool {
	return reflect.DeepEqual(jsonNormalize(got), jsonNormalize(want))
}

func jsonNormalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
