// Package kv provides the synchronous key-value backing store underneath
// the entity store.
//
// Two layers live here:
//
//   - Backend: raw string-keyed byte storage. SQLiteBackend is the durable
//     implementation (single kv table, WAL mode); MemoryBackend serves tests
//     and ephemeral runs.
//   - Codec: the JSON contract the rest of the core programs against.
//     ReadJSON falls back to a caller-supplied default on absence or decode
//     failure; WriteJSON swallows storage errors after logging them. Callers
//     must not depend on write success.
//
// All stored values are UTF-8 JSON text. Access is assumed single-threaded;
// the backends take no locks beyond what SQLite itself requires.
package kv
