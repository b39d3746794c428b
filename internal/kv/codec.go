package kv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
)

// Codec is the JSON contract over a Backend that the entity store and the
// workflow engine program against.
//
// Reads fall back to a default on absence or decode failure; writes swallow
// backend errors after logging. Either failure kind flips the degraded flag
// so an outer surface (the CLI) can warn that persistence is best-effort
// rather than silently losing data.
type Codec struct {
	backend  Backend
	logger   *slog.Logger
	degraded bool
}

// NewCodec wraps a backend. A nil logger defaults to slog.Default().
func NewCodec(backend Backend, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{backend: backend, logger: logger}
}

// ReadJSON decodes the value at key into out (a non-nil pointer). On
// absence the value is left untouched (callers pre-populate out with the
// default); on backend or decode failure the default is kept and the
// failure is logged. Returns true if a stored value was decoded into out.
func (c *Codec) ReadJSON(key string, out any) bool {
	data, err := c.backend.Read(key)
	if errors.Is(err, ErrKeyNotFound) {
		return false
	}
	if err != nil {
		c.degraded = true
		c.logger.Warn("kv read failed, using default", "key", key, "error", err)
		return false
	}
	// Decode into a scratch value of the target type. json.Unmarshal
	// populates fields as it goes, so decoding straight into out would
	// leave a half-written default behind a mid-value type error.
	target := reflect.ValueOf(out).Elem()
	scratch := reflect.New(target.Type())
	if err := json.Unmarshal(data, scratch.Interface()); err != nil {
		c.degraded = true
		c.logger.Warn("kv value undecodable, using default", "key", key, "error", err)
		return false
	}
	target.Set(scratch.Elem())
	return true
}

// WriteJSON encodes v and stores it at key. Failures are swallowed and
// logged; callers must not depend on write success.
func (c *Codec) WriteJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		// Programmer error (unmarshalable type), but the contract is the
		// same: log, degrade, carry on.
		c.degraded = true
		c.logger.Error("kv encode failed, dropping write", "key", key, "error", err)
		return
	}
	if err := c.backend.Write(key, data); err != nil {
		c.degraded = true
		c.logger.Warn("kv write failed, dropping write", "key", key, "error", err)
	}
}

// Delete removes key. Failures are swallowed and logged.
func (c *Codec) Delete(key string) {
	if err := c.backend.Delete(key); err != nil {
		c.degraded = true
		c.logger.Warn("kv delete failed", "key", key, "error", err)
	}
}

// Degraded reports whether any read or write has failed since construction.
func (c *Codec) Degraded() bool { return c.degraded }
