package kv

// MemoryBackend is a map-backed Backend for tests and ephemeral runs.
// Not safe for concurrent use; the core assumes single-threaded access.
type MemoryBackend struct {
	values map[string][]byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// Read returns the value stored at key, or ErrKeyNotFound.
func (b *MemoryBackend) Read(key string) ([]byte, error) {
	v, ok := b.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	// Copy so callers cannot mutate stored bytes.
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Write stores value at key, replacing any existing value.
func (b *MemoryBackend) Write(key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	b.values[key] = v
	return nil
}

// Delete removes the value at key. Deleting an absent key is a no-op.
func (b *MemoryBackend) Delete(key string) error {
	delete(b.values, key)
	return nil
}

// Close is a no-op for the memory backend.
func (b *MemoryBackend) Close() error { return nil }

// Len returns the number of stored keys. Test helper.
func (b *MemoryBackend) Len() int { return len(b.values) }
