package testutil

import (
	"fmt"
	"sync"
)

// SequenceTokenGenerator returns session tokens in a fixed sequence:
// "tok-001", "tok-002", and so on. Unlike flow.FixedTokenGenerator it
// distinguishes sessions started in the same test while staying fully
// deterministic.
//
// Thread-safe.
type SequenceTokenGenerator struct {
	mu   sync.Mutex
	next int
}

// NewSequenceTokenGenerator creates a generator whose first token is
// "tok-001".
func NewSequenceTokenGenerator() *SequenceTokenGenerator {
	return &SequenceTokenGenerator{next: 1}
}

// Generate returns the next token in the sequence.
//
// Implements flow.TokenGenerator.
func (g *SequenceTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	tok := fmt.Sprintf("tok-%03d", g.next)
	g.next++
	return tok
}
