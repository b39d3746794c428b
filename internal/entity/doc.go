// Package entity implements the portal's in-memory, persisted entity store.
//
// The store owns six named collections: products, orders, messages,
// documents, plus the profile and settings singletons. Each collection is
// hydrated once from the kv backing store at construction (falling back to
// the seed dataset) and mirrored back in full after every mutation.
// Persistence is fire-and-forget: storage failures are swallowed by the kv
// codec and never surface through store operations.
//
// # Identifiers
//
// Non-singleton records get collection-scoped sequential IDs of the form
// PREFIX-YEAR-NNN (BP-2024-004). The sequence comes from a monotonic
// counter persisted alongside each collection, so deletions never free a
// number and a reopened store continues where it left off.
//
// # Transactions
//
// Atomic stages creates against copied collections and commits them in one
// step: either every staged record becomes visible and persisted, or none
// does. The workflow submission path uses this to keep its product, order
// and message mutually consistent.
//
// All access is assumed single-threaded; the store takes no locks.
package entity
