// Package flow implements the multi-step service-request workflow engine.
//
// A Definition is an ordered list of named steps, each with a validation
// predicate over the flow's form state, plus a derived-pricing function and
// a submission builder. A Session is one in-progress run of a definition:
// it holds the mutable form state, gates Advance on the current step's
// predicate, supports draft save/resume through the kv backing store, and
// on the terminal step materializes the request as related entity records
// inside a single store transaction.
//
// The state machine has one state per step index plus a terminal Success
// state. Retreat from the first step is the caller's concern (external
// navigation); the session reports ErrAtFirstStep and stays put. Once a
// session reaches Success its form state is frozen.
//
// The two concrete flows of the portal, the simulation request and the
// debugging request, live in simulation.go and debugging.go, with their
// price tables in an embedded YAML catalog (catalog.go).
package flow
