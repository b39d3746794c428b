package kv

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

// failingBackend returns errors from every operation.
type failingBackend struct{}

func (failingBackend) Read(string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (failingBackend) Write(string, []byte) error  { return errors.New("quota exceeded") }
func (failingBackend) Delete(string) error         { return errors.New("quota exceeded") }
func (failingBackend) Close() error                { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCodec_ReadMissingKeepsDefault(t *testing.T) {
	c := NewCodec(NewMemory(), discardLogger())

	got := []string{"default"}
	for i := 0; i < 3; i++ {
		if ok := c.ReadJSON("absent", &got); ok {
			t.Fatalf("ReadJSON(absent) = true on call %d, want false", i)
		}
	}
	if len(got) != 1 || got[0] != "default" {
		t.Errorf("default mutated: %v", got)
	}
	if c.Degraded() {
		t.Error("absence must not flip the degraded flag")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec(NewMemory(), discardLogger())

	in := map[string]any{"name": "Charger", "progress": float64(40)}
	c.WriteJSON("product", in)

	out := map[string]any{}
	if ok := c.ReadJSON("product", &out); !ok {
		t.Fatal("ReadJSON() = false, want stored value")
	}
	if out["name"] != "Charger" || out["progress"] != float64(40) {
		t.Errorf("round trip mismatch: %v", out)
	}
}

func TestCodec_UndecodableValueFallsBack(t *testing.T) {
	backend := NewMemory()
	if err := backend.Write("orders", []byte("{not json")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	c := NewCodec(backend, discardLogger())

	out := []int{7}
	if ok := c.ReadJSON("orders", &out); ok {
		t.Fatal("ReadJSON() = true for undecodable value")
	}
	if len(out) != 1 || out[0] != 7 {
		t.Errorf("default mutated: %v", out)
	}
	if !c.Degraded() {
		t.Error("decode failure must flip the degraded flag")
	}
}

func TestCodec_PartialDecodeKeepsDefaultIntact(t *testing.T) {
	backend := NewMemory()
	// "a" decodes cleanly before the type error on "b"; none of it may
	// reach the caller's default.
	if err := backend.Write("envelope", []byte(`{"a":99,"b":"bogus"}`)); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	c := NewCodec(backend, discardLogger())

	type payload struct {
		A int      `json:"a"`
		B []string `json:"b"`
	}
	out := payload{A: 4, B: []string{"seed"}}
	if ok := c.ReadJSON("envelope", &out); ok {
		t.Fatal("ReadJSON() = true for undecodable value")
	}
	if out.A != 4 {
		t.Errorf("out.A = %d, want untouched default 4", out.A)
	}
	if len(out.B) != 1 || out.B[0] != "seed" {
		t.Errorf("out.B = %v, want untouched default", out.B)
	}
	if !c.Degraded() {
		t.Error("decode failure must flip the degraded flag")
	}
}

func TestCodec_WriteFailureSwallowed(t *testing.T) {
	c := NewCodec(failingBackend{}, discardLogger())

	// Must not panic or surface an error.
	c.WriteJSON("anything", []string{"v"})

	if !c.Degraded() {
		t.Error("write failure must flip the degraded flag")
	}
}

func TestCodec_NilLoggerDefaults(t *testing.T) {
	c := NewCodec(NewMemory(), nil)
	c.WriteJSON("k", 1)

	var got int
	if ok := c.ReadJSON("k", &got); !ok || got != 1 {
		t.Errorf("round trip with default logger: ok=%v got=%d", ok, got)
	}
}
