package flow

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/fieldline/labportal/internal/entity"
)

// Session is one in-progress run of a flow definition: a state machine
// with one state per step index plus a terminal Success state.
//
// All mutations are rejected once the session reaches Success. Storage
// failures never surface here; drafts and the submission write path both
// sit on the swallowing kv codec.
type Session struct {
	def    *Definition
	store  *entity.Store
	drafts *DraftStore
	logger *slog.Logger
	now    func() time.Time

	token  string
	index  int
	state  State
	done   bool
	result *Submission
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTokenGenerator overrides the session token generator (for tests).
func WithTokenGenerator(gen TokenGenerator) SessionOption {
	return func(s *Session) { s.token = gen.Generate() }
}

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithClock overrides the wall clock used for draft timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithSeed pre-populates form-state fields from the caller's context
// (e.g. a project ID carried in from the page that mounted the flow).
// Seeded fields overwrite the definition's defaults.
func WithSeed(seed State) SessionOption {
	return func(s *Session) {
		for k, v := range seed {
			s.state[k] = v
		}
	}
}

// NewSession starts a fresh session at step 0 with the definition's
// default form state.
func NewSession(def *Definition, store *entity.Store, drafts *DraftStore, opts ...SessionOption) *Session {
	s := &Session{
		def:    def,
		store:  store,
		drafts: drafts,
		logger: slog.Default(),
		now:    time.Now,
		state:  def.Defaults.Clone(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.token == "" {
		s.token = UUIDv7Generator{}.Generate()
	}
	return s
}

// Resume restores a session from the flow's saved draft, or starts a
// fresh one when no usable draft exists. Stale-schema drafts are
// discarded by the draft store, never merged.
func Resume(def *Definition, store *entity.Store, drafts *DraftStore, opts ...SessionOption) *Session {
	s := NewSession(def, store, drafts, opts...)
	state, token, step, ok := drafts.Load(def)
	if !ok {
		return s
	}
	// Draft state overlays the defaults so fields added since the draft
	// was written keep their default values.
	for k, v := range state {
		s.state[k] = v
	}
	if token != "" {
		s.token = token
	}
	s.index = step
	s.logger.Debug("resumed flow from draft",
		slog.String("flow", def.Name),
		slog.String("token", s.token),
		slog.Int("step", s.index),
	)
	return s
}

// Token returns the session token.
func (s *Session) Token() string { return s.token }

// StepIndex returns the current step index.
func (s *Session) StepIndex() int { return s.index }

// StepName returns the current step's name, or "Success" once terminal.
func (s *Session) StepName() string {
	if s.done {
		return "Success"
	}
	return s.def.Steps[s.index].Name
}

// Completed reports whether the session reached the terminal Success state.
func (s *Session) Completed() bool { return s.done }

// Result returns the committed submission, or nil before Success.
func (s *Session) Result() *Submission { return s.result }

// State returns a copy of the form state. The session's own state is
// only mutated through UpdateField and ToggleArrayField.
func (s *Session) State() State { return s.state.Clone() }

// Price evaluates the flow's derived-pricing function against the
// current form state. Pure: no state is mutated.
func (s *Session) Price() float64 { return s.def.Price(s.state) }

// UpdateField sets a form-state field. Rejected after Success.
func (s *Session) UpdateField(name string, value any) error {
	if s.done {
		return ErrFlowComplete
	}
	s.state[name] = value
	return nil
}

// ToggleArrayField adds value to a list field if absent and removes it
// if present. Idempotent toggle, not append-only.
func (s *Session) ToggleArrayField(name, value string) error {
	if s.done {
		return ErrFlowComplete
	}
	cur := s.state.Strs(name)
	if lo.Contains(cur, value) {
		s.state[name] = lo.Without(cur, value)
	} else {
		s.state[name] = append(append([]string(nil), cur...), value)
	}
	return nil
}

// SaveDraft serializes the full form state under the flow's draft key.
// Available from any non-terminal state; does not change the step index.
func (s *Session) SaveDraft() error {
	if s.done {
		return ErrFlowComplete
	}
	s.drafts.Save(s.def, s.token, s.index, s.state, s.now())
	s.logger.Debug("saved draft",
		slog.String("flow", s.def.Name),
		slog.String("token", s.token),
		slog.Int("step", s.index),
	)
	return nil
}

// Retreat moves back one step. No validation runs on retreat. At step 0
// it returns ErrAtFirstStep; exiting the flow is external navigation.
func (s *Session) Retreat() error {
	if s.done {
		return ErrFlowComplete
	}
	if s.index == 0 {
		return ErrAtFirstStep
	}
	s.index--
	return nil
}

// Advance validates the current step and moves forward. A failed
// predicate rejects the transition: the index is unchanged, the entity
// store untouched, and the *StepError says which rule failed.
//
// On the last step Advance instead runs the submission transaction and,
// on success, enters the terminal Success state, freezes the form state
// and clears the flow's draft. The returned Submission is non-nil only
// for that terminal advance.
func (s *Session) Advance() (*Submission, error) {
	if s.done {
		return nil, ErrFlowComplete
	}

	step := s.def.Steps[s.index]
	if step.Validate != nil {
		if err := step.Validate(s.state); err != nil {
			return nil, err
		}
	}

	if s.index < len(s.def.Steps)-1 {
		s.index++
		return nil, nil
	}

	// Terminal step: price authoritatively and materialize the request
	// as one atomic multi-entity write.
	total := s.def.Price(s.state)
	var sub Submission
	err := s.store.Atomic(func(tx *entity.Tx) error {
		var txErr error
		sub, txErr = s.def.Submit(tx, s.state, total)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("flow %s: submit: %w", s.def.Name, err)
	}

	s.done = true
	s.result = &sub
	s.drafts.Clear(s.def)
	s.logger.Info("flow submitted",
		slog.String("flow", s.def.Name),
		slog.String("token", s.token),
		slog.String("product_id", sub.Product.ID),
		slog.String("order_id", sub.Order.ID),
		slog.Float64("total", total),
	)
	return s.result, nil
}
