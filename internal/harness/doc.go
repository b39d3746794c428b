// Package harness provides conformance testing for the portal's
// service-request flows.
//
// Scenarios are YAML files that drive a flow session step by step against
// a fresh seeded in-memory store, producing a deterministic trace of
// operations, transitions, rejections and the final submission. Traces
// are compared against golden files; final store state is checked with
// declarative assertions.
//
// # Scenario Format
//
//	name: simulation_submit
//	description: "Happy path through the simulation flow"
//	flow: simulation
//	token: "test-session-0001"
//	seed:
//	  projectId: BP-2024-001
//	steps:
//	  - op: set
//	    field: eutName
//	    value: "Router X1"
//	  - op: toggle
//	    field: additionalSimulations
//	    value: pcbEmi
//	  - op: next
//	    expect:
//	      outcome: advanced
//	assertions:
//	  - type: trace_contains
//	    op: set
//	    field: eutName
//	  - type: entity_count
//	    collection: products
//	    count: 4
//	  - type: entity_field
//	    collection: orders
//	    id: ORD-2024-004
//	    expect: { status: Awaiting, total: 4500 }
//
// # Step Operations
//
//   - set: update a form field (field, value)
//   - toggle: toggle a value in a list field (field, value)
//   - next: validate and advance; the final next submits
//   - back: move back one step
//   - save: save the draft
//
// A next step may carry an expect clause with outcome "advanced",
// "rejected" or "submitted". A rejected expectation may also name the
// offending field. A step whose actual outcome differs fails the
// scenario.
//
// # Assertion Types
//
//   - trace_contains: an operation appears in the trace (subset match)
//   - trace_order: operations appear in the given order
//   - trace_count: an operation appears exactly N times
//   - entity_count: a collection holds exactly N records
//   - entity_field: a record's fields match expected values (subset)
//   - unread_count: the inbox holds exactly N unread messages
//   - price: the session's final derived price
//
// # Deterministic Testing
//
// Every scenario runs with a frozen clock, a fixed session token and a
// fresh in-memory backend, so the same scenario always produces a
// byte-identical trace for golden comparison.
package harness
