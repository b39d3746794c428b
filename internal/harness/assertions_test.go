package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/labportal/internal/model"
	"github.com/fieldline/labportal/internal/testutil"
)

func opEvent(op, field string, value any) TraceEvent {
	return TraceEvent{Kind: "op", Op: op, Field: field, Value: value}
}

func TestAssertTraceContains(t *testing.T) {
	trace := []TraceEvent{
		opEvent(OpSet, "eutName", "Router X1"),
		opEvent(OpNext, "", nil),
	}

	assert.NoError(t, assertTraceContains(trace, Assertion{Op: OpSet, Field: "eutName"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Op: OpNext}))

	err := assertTraceContains(trace, Assertion{Op: OpToggle, Field: "reports"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in trace")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := []TraceEvent{
		opEvent(OpSet, "eutName", "x"),
		opEvent(OpNext, "", nil),
		opEvent(OpToggle, "reports", "preliminary"),
	}

	assert.NoError(t, assertTraceOrder(trace, Assertion{Ops: []string{OpSet, OpNext, OpToggle}}))

	err := assertTraceOrder(trace, Assertion{Ops: []string{OpToggle, OpSet}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should be before")

	err = assertTraceOrder(trace, Assertion{Ops: []string{OpSet, OpBack}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing op: back")
}

func TestAssertTraceCount(t *testing.T) {
	trace := []TraceEvent{
		opEvent(OpNext, "", nil),
		opEvent(OpNext, "", nil),
		opEvent(OpSet, "eutName", "x"),
	}

	assert.NoError(t, assertTraceCount(trace, Assertion{Op: OpNext, Count: 2}))

	err := assertTraceCount(trace, Assertion{Op: OpNext, Count: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appears 2 times")
}

func TestAssertEntityCount(t *testing.T) {
	env := testutil.NewEnv()

	assert.NoError(t, assertEntityCount(env.Store, Assertion{Collection: "products", Count: 3}, nil))

	err := assertEntityCount(env.Store, Assertion{Collection: "products", Count: 5}, nil)
	require.Error(t, err)

	err = assertEntityCount(env.Store, Assertion{Collection: "widgets", Count: 1}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown collection "widgets"`)
}

func TestAssertEntityField(t *testing.T) {
	env := testutil.NewEnv()

	assert.NoError(t, assertEntityField(env.Store, Assertion{
		Collection: "orders",
		ID:         "ORD-2024-001",
		Expect:     map[string]any{"status": "Completed", "total": 5200},
	}, nil))

	err := assertEntityField(env.Store, Assertion{
		Collection: "orders",
		ID:         "ORD-2024-001",
		Expect:     map[string]any{"total": 9999},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total")

	err = assertEntityField(env.Store, Assertion{
		Collection: "orders",
		ID:         "ORD-2024-099",
		Expect:     map[string]any{"total": 1},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAssertUnreadCount(t *testing.T) {
	env := testutil.NewEnv()

	assert.NoError(t, assertUnreadCount(env.Store, Assertion{Count: 1}, nil))

	env.Store.CreateMessage(model.Message{From: "Lab", Subject: "Update"})
	assert.NoError(t, assertUnreadCount(env.Store, Assertion{Count: 2}, nil))
	require.Error(t, assertUnreadCount(env.Store, Assertion{Count: 1}, nil))
}

func TestEvaluateAssertions_CollectsAllFailures(t *testing.T) {
	env := testutil.NewEnv()
	result := NewResult()
	result.addOp(OpSet, "eutName", "x")

	// One passing assertion and three failing ones.
	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceContains, Op: OpSet},
		{Type: AssertTraceContains, Op: OpToggle},
		{Type: AssertEntityCount, Collection: "products", Count: 99},
		{Type: AssertPrice, Amount: 4000},
	}, &AssertionContext{Store: env.Store, Price: 0})

	assert.Len(t, errs, 3)
}

func TestLooselyEqual(t *testing.T) {
	// YAML integers must compare equal to JSON numbers.
	assert.True(t, looselyEqual(float64(4500), 4500))
	assert.True(t, looselyEqual("Awaiting", "Awaiting"))
	assert.False(t, looselyEqual(float64(4500), 4000))
}
