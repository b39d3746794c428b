package flow

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/labportal/internal/entity"
	"github.com/fieldline/labportal/internal/kv"
	"github.com/fieldline/labportal/internal/model"
)

func testClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

type fixture struct {
	backend *kv.MemoryBackend
	codec   *kv.Codec
	store   *entity.Store
	drafts  *DraftStore
	logger  *slog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := kv.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec := kv.NewCodec(backend, logger)
	return &fixture{
		backend: backend,
		codec:   codec,
		store:   entity.New(codec, entity.WithClock(testClock()), entity.WithLogger(logger)),
		drafts:  NewDraftStore(codec),
		logger:  logger,
	}
}

func (f *fixture) session(def *Definition, opts ...SessionOption) *Session {
	opts = append([]SessionOption{
		WithLogger(f.logger),
		WithClock(testClock()),
		WithTokenGenerator(NewFixedTokenGenerator("")),
	}, opts...)
	return NewSession(def, f.store, f.drafts, opts...)
}

func fillProductDetails(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.UpdateField("eutName", "Charger"))
	require.NoError(t, s.UpdateField("modelNo", "V2"))
}

func TestAdvance_RejectedByValidation(t *testing.T) {
	f := newFixture(t)
	s := f.session(SimulationFlow(DefaultCatalog()))

	require.NoError(t, s.UpdateField("eutName", ""))
	_, err := s.Advance()

	se, ok := IsStepError(err)
	require.True(t, ok, "want StepError, got %v", err)
	assert.Equal(t, "ProductDetails", se.Step)
	assert.Equal(t, "eutName", se.Field)
	assert.Equal(t, "required field missing", se.Reason)

	assert.Equal(t, 0, s.StepIndex(), "rejected advance must not move")
	assert.Len(t, f.store.Products(), 3, "rejected advance must not touch the store")
}

func TestAdvance_MovesThroughSteps(t *testing.T) {
	f := newFixture(t)
	s := f.session(SimulationFlow(DefaultCatalog()))

	fillProductDetails(t, s)
	sub, err := s.Advance()
	require.NoError(t, err)
	assert.Nil(t, sub, "non-terminal advance returns no submission")
	assert.Equal(t, 1, s.StepIndex())
	assert.Equal(t, "Simulations", s.StepName())
}

func TestAdvance_SecondStepNeedsCategoryAndReport(t *testing.T) {
	f := newFixture(t)
	s := f.session(SimulationFlow(DefaultCatalog()))
	fillProductDetails(t, s)
	_, err := s.Advance()
	require.NoError(t, err)

	require.NoError(t, s.ToggleArrayField("testCategories", "radiatedEmissions"))
	_, err = s.Advance()
	se, ok := IsStepError(err)
	require.True(t, ok)
	assert.Equal(t, "reports", se.Field)

	require.NoError(t, s.ToggleArrayField("reports", "pre-compliance"))
	_, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, "Documents", s.StepName())
}

func submitSimulation(t *testing.T, f *fixture, opts ...SessionOption) (*Session, *Submission) {
	t.Helper()
	s := f.session(SimulationFlow(DefaultCatalog()), opts...)
	fillProductDetails(t, s)
	require.NoError(t, s.UpdateField("description", "65W GaN charger"))

	_, err := s.Advance()
	require.NoError(t, err)
	require.NoError(t, s.ToggleArrayField("testCategories", "radiatedEmissions"))
	require.NoError(t, s.ToggleArrayField("reports", "pre-compliance"))
	_, err = s.Advance()
	require.NoError(t, err)
	require.NoError(t, s.ToggleArrayField("documents", "schematic.pdf"))
	_, err = s.Advance()
	require.NoError(t, err)
	require.Equal(t, "Review", s.StepName())

	sub, err := s.Advance()
	require.NoError(t, err)
	require.NotNil(t, sub)
	return s, sub
}

func TestAdvance_TerminalSubmission(t *testing.T) {
	f := newFixture(t)
	s, sub := submitSimulation(t, f)

	assert.True(t, s.Completed())
	assert.Equal(t, "Success", s.StepName())

	assert.Equal(t, "BP-2024-004", sub.Product.ID)
	assert.Equal(t, "Charger", sub.Product.Name)
	assert.Equal(t, model.ProductAwaiting, sub.Product.Status)

	assert.Equal(t, "ORD-2024-004", sub.Order.ID)
	assert.Equal(t, sub.Product.ID, sub.Order.ProductID)
	assert.Equal(t, "Charger", sub.Order.ProductName)
	assert.Equal(t, float64(4000), sub.Order.Total, "authoritative price at submission time")

	assert.Equal(t, model.MessageNotification, sub.Message.Type)
	assert.False(t, sub.Message.Read)
	assert.Equal(t, "Simulation Team", sub.Message.From)

	// Exactly one of each landed in the store.
	assert.Len(t, f.store.Products(), 4)
	assert.Len(t, f.store.Orders(), 4)
	assert.Len(t, f.store.Messages(), 3)
}

func TestAdvance_FrozenAfterSuccess(t *testing.T) {
	f := newFixture(t)
	s, _ := submitSimulation(t, f)

	assert.ErrorIs(t, s.UpdateField("eutName", "other"), ErrFlowComplete)
	assert.ErrorIs(t, s.ToggleArrayField("documents", "x"), ErrFlowComplete)
	assert.ErrorIs(t, s.SaveDraft(), ErrFlowComplete)
	assert.ErrorIs(t, s.Retreat(), ErrFlowComplete)
	_, err := s.Advance()
	assert.ErrorIs(t, err, ErrFlowComplete)
}

func TestSubmit_FailureLeavesStoreUntouched(t *testing.T) {
	f := newFixture(t)
	def := SimulationFlow(DefaultCatalog())
	boom := errors.New("boom")
	def.Submit = func(tx *entity.Tx, s State, total float64) (Submission, error) {
		tx.CreateProduct(model.Product{Name: "Doomed"})
		return Submission{}, boom
	}

	s := f.session(def)
	fillProductDetails(t, s)
	require.NoError(t, s.ToggleArrayField("testCategories", "c"))
	require.NoError(t, s.ToggleArrayField("reports", "r"))
	require.NoError(t, s.ToggleArrayField("documents", "d"))
	for i := 0; i < 3; i++ {
		_, err := s.Advance()
		require.NoError(t, err)
	}

	_, err := s.Advance()
	require.ErrorIs(t, err, boom)

	assert.False(t, s.Completed(), "failed submit must not reach Success")
	assert.Len(t, f.store.Products(), 3, "zero of the three records may exist")
	assert.Len(t, f.store.Orders(), 3)
	assert.Len(t, f.store.Messages(), 2)
}

func TestRetreat(t *testing.T) {
	f := newFixture(t)
	s := f.session(SimulationFlow(DefaultCatalog()))

	assert.ErrorIs(t, s.Retreat(), ErrAtFirstStep)

	fillProductDetails(t, s)
	_, err := s.Advance()
	require.NoError(t, err)

	// Retreat runs no validation: invalidate the first step, then go back.
	require.NoError(t, s.UpdateField("eutName", ""))
	require.NoError(t, s.Retreat())
	assert.Equal(t, 0, s.StepIndex())
}

func TestToggleArrayField_Idempotent(t *testing.T) {
	f := newFixture(t)
	s := f.session(SimulationFlow(DefaultCatalog()))

	require.NoError(t, s.ToggleArrayField("additionalSimulations", "pcbEmi"))
	assert.Equal(t, []string{"pcbEmi"}, s.State().Strs("additionalSimulations"))

	require.NoError(t, s.ToggleArrayField("additionalSimulations", "pcbEmi"))
	assert.Empty(t, s.State().Strs("additionalSimulations"))
}

func TestPrice_BasePlusIncrements(t *testing.T) {
	f := newFixture(t)
	s := f.session(SimulationFlow(DefaultCatalog()))

	assert.Equal(t, float64(4000), s.Price())

	require.NoError(t, s.ToggleArrayField("additionalSimulations", "pcbEmi"))
	assert.Equal(t, float64(4500), s.Price())
	assert.Equal(t, float64(4500), s.Price(), "pricing is pure")

	require.NoError(t, s.ToggleArrayField("additionalSimulations", "pcbEmi"))
	assert.Equal(t, float64(4000), s.Price(), "toggle off restores the original price")
}

func TestWithSeed_PrepopulatesContext(t *testing.T) {
	f := newFixture(t)
	s := f.session(SimulationFlow(DefaultCatalog()), WithSeed(State{"projectId": "BP-2024-002"}))

	assert.Equal(t, "BP-2024-002", s.State().Str("projectId"))
}

func TestSaveDraft_AndResume(t *testing.T) {
	f := newFixture(t)
	def := SimulationFlow(DefaultCatalog())

	s := f.session(def, WithTokenGenerator(NewFixedTokenGenerator("tok-1")))
	fillProductDetails(t, s)
	require.NoError(t, s.ToggleArrayField("additionalSimulations", "pcbEmi"))
	_, err := s.Advance()
	require.NoError(t, err)
	require.NoError(t, s.SaveDraft())

	resumed := Resume(def, f.store, f.drafts, WithLogger(f.logger), WithClock(testClock()))
	assert.Equal(t, "tok-1", resumed.Token())
	assert.Equal(t, 1, resumed.StepIndex())
	assert.Equal(t, "Charger", resumed.State().Str("eutName"))
	assert.Equal(t, []string{"pcbEmi"}, resumed.State().Strs("additionalSimulations"))
	assert.Equal(t, float64(4500), resumed.Price(), "draft lists survive the JSON round trip")
}

func TestResume_NoDraftStartsFresh(t *testing.T) {
	f := newFixture(t)
	s := Resume(SimulationFlow(DefaultCatalog()), f.store, f.drafts, WithLogger(f.logger))

	assert.Equal(t, 0, s.StepIndex())
	assert.Equal(t, "", s.State().Str("eutName"))
}

func TestResume_StaleSchemaDraftDiscarded(t *testing.T) {
	f := newFixture(t)
	def := SimulationFlow(DefaultCatalog())

	// A draft written by an older form-state schema.
	f.codec.WriteJSON("simulation_draft", map[string]any{
		"version": def.Version - 1,
		"flow":    def.Name,
		"token":   "old-tok",
		"step":    2,
		"state":   map[string]any{"eutName": "Stale"},
	})

	s := Resume(def, f.store, f.drafts, WithLogger(f.logger))
	assert.Equal(t, 0, s.StepIndex())
	assert.Equal(t, "", s.State().Str("eutName"), "stale draft must be discarded, not merged")

	_, _, _, ok := f.drafts.Load(def)
	assert.False(t, ok, "stale draft must be deleted")
}

func TestSubmit_ClearsDraft(t *testing.T) {
	f := newFixture(t)
	def := SimulationFlow(DefaultCatalog())

	s := f.session(def)
	fillProductDetails(t, s)
	require.NoError(t, s.SaveDraft())

	_, _, _, ok := f.drafts.Load(def)
	require.True(t, ok)

	// Any session submitting this flow clears its draft key.
	submitSimulation(t, f)
	_, _, _, ok = f.drafts.Load(def)
	assert.False(t, ok, "draft must be cleared after submission")
}
