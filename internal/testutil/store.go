package testutil

import (
	"io"
	"log/slog"

	"github.com/fieldline/labportal/internal/entity"
	"github.com/fieldline/labportal/internal/kv"
)

// Env is a fully deterministic portal stack for tests: a memory backend,
// the codec over it, an entity store hydrated from the seed data and the
// frozen clock driving it.
type Env struct {
	Backend *kv.MemoryBackend
	Codec   *kv.Codec
	Store   *entity.Store
	Clock   *FrozenClock
}

// NewEnv builds a seeded in-memory store at the shared test epoch with a
// silent logger.
func NewEnv() *Env {
	backend := kv.NewMemory()
	return NewEnvWith(backend)
}

// NewEnvWith builds the deterministic stack over an existing backend,
// which lets a test reopen the same backing data.
func NewEnvWith(backend *kv.MemoryBackend) *Env {
	clock := NewTestClock()
	codec := kv.NewCodec(backend, DiscardLogger())
	return &Env{
		Backend: backend,
		Codec:   codec,
		Store: entity.New(codec,
			entity.WithClock(clock.Now),
			entity.WithLogger(DiscardLogger()),
		),
		Clock: clock,
	}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
