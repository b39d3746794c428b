package entity

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/labportal/internal/kv"
	"github.com/fieldline/labportal/internal/model"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

func newTestStore(t *testing.T) (*Store, *kv.MemoryBackend) {
	t.Helper()
	backend := kv.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec := kv.NewCodec(backend, logger)
	return New(codec, WithClock(fixedClock()), WithLogger(logger)), backend
}

func reopenStore(backend *kv.MemoryBackend) *Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(kv.NewCodec(backend, logger), WithClock(fixedClock()), WithLogger(logger))
}

func TestNew_SeedsFreshStore(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Len(t, s.Products(), 3)
	assert.Len(t, s.Orders(), 3)
	assert.Len(t, s.Messages(), 2)
	assert.Len(t, s.Documents(), 2)
	assert.Equal(t, "Dana Whitfield", s.Profile().FullName)
	assert.True(t, s.Settings().Notifications)
}

func TestCreateProduct_GeneratedFields(t *testing.T) {
	s, _ := newTestStore(t)

	p := s.CreateProduct(model.Product{Name: "X", Service: "EMC Testing", Progress: 55})

	assert.Equal(t, "BP-2024-004", p.ID)
	assert.Equal(t, model.ProductAwaiting, p.Status)
	assert.Equal(t, 0, p.Progress, "progress always starts at zero")
	assert.Equal(t, fixedClock()(), p.CreatedAt)
	assert.Len(t, s.Products(), 4)
}

func TestCreate_SequentialIDsStrictlyIncreasing(t *testing.T) {
	s, _ := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		p := s.CreateProduct(model.Product{Name: "P"})
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.Equal(t, fmt.Sprintf("BP-2024-%03d", 4+i), p.ID)
	}
}

func TestDelete_DoesNotReuseIDs(t *testing.T) {
	s, _ := newTestStore(t)

	p4 := s.CreateProduct(model.Product{Name: "A"})
	require.True(t, s.DeleteProduct(p4.ID))

	p5 := s.CreateProduct(model.Product{Name: "B"})
	assert.Equal(t, "BP-2024-005", p5.ID, "deleted numbers are never reissued")
}

func TestCounter_SurvivesReopen(t *testing.T) {
	s1, backend := newTestStore(t)
	s1.CreateOrder(model.Order{ProductID: "BP-2024-001", Service: "EMC Testing"})
	s1.DeleteOrder("ORD-2024-004")

	s2 := reopenStore(backend)
	o := s2.CreateOrder(model.Order{ProductID: "BP-2024-001"})
	assert.Equal(t, "ORD-2024-005", o.ID)
}

func TestCorruptEnvelope_FallsBackToSeedAndCounter(t *testing.T) {
	backend := kv.NewMemory()
	// Decodable counter ahead of an undecodable records field. A partial
	// decode must not carry the counter into the hydrated store.
	require.NoError(t, backend.Write("products", []byte(`{"next_seq":99,"records":"bogus"}`)))

	s := reopenStore(backend)
	assert.Len(t, s.Products(), 3)

	p := s.CreateProduct(model.Product{Name: "X"})
	assert.Equal(t, "BP-2024-004", p.ID)
}

func TestCorruptEnvelope_CannotRegressCounter(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Write("products", []byte(`{"next_seq":1,"records":"bogus"}`)))

	s := reopenStore(backend)
	p := s.CreateProduct(model.Product{Name: "X"})

	assert.Equal(t, "BP-2024-004", p.ID)
	seen := map[string]bool{}
	for _, rec := range s.Products() {
		require.False(t, seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
}

func TestUpdateProduct_PreservesIdentity(t *testing.T) {
	s, _ := newTestStore(t)

	ok := s.UpdateProduct("BP-2024-002", func(p *model.Product) {
		p.Progress = 80
		p.Status = model.ProductTesting
		p.ID = "HACKED"
		p.CreatedAt = time.Time{}
	})
	require.True(t, ok)

	p, found := s.Product("BP-2024-002")
	require.True(t, found)
	assert.Equal(t, 80, p.Progress)
	assert.Equal(t, "BP-2024-002", p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestUpdateProduct_MissingIsNoop(t *testing.T) {
	s, _ := newTestStore(t)

	called := false
	ok := s.UpdateProduct("BP-2024-999", func(*model.Product) { called = true })

	assert.False(t, ok)
	assert.False(t, called)
	assert.Len(t, s.Products(), 3)
}

func TestUpdateOrder_TotalIsImmutable(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.UpdateOrder("ORD-2024-002", func(o *model.Order) {
		o.Status = model.OrderCompleted
		o.Total = 1
	}))

	o, found := s.Order("ORD-2024-002")
	require.True(t, found)
	assert.Equal(t, model.OrderCompleted, o.Status)
	assert.Equal(t, float64(3150), o.Total, "total is fixed at submission time")
}

func TestCreateMessage_AlwaysUnread(t *testing.T) {
	s, _ := newTestStore(t)

	m := s.CreateMessage(model.Message{From: "Lab", Subject: "hi", Read: true})
	assert.False(t, m.Read)
	assert.Equal(t, model.MessageInfo, m.Type)
	assert.Equal(t, "MSG-2024-003", m.ID)
	assert.Equal(t, 2, s.UnreadMessages())
}

func TestMarkMessageRead(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.MarkMessageRead("MSG-2024-002"))
	assert.Equal(t, 0, s.UnreadMessages())
	assert.False(t, s.MarkMessageRead("MSG-2024-099"))
}

func TestUpdateMessage_PreservesIdentity(t *testing.T) {
	s, _ := newTestStore(t)

	ok := s.UpdateMessage("MSG-2024-001", func(m *model.Message) {
		m.Subject = "Amended schedule"
		m.ID = "HACKED"
		m.Timestamp = time.Time{}
	})
	require.True(t, ok)

	m := s.Messages()[0]
	assert.Equal(t, "Amended schedule", m.Subject)
	assert.Equal(t, "MSG-2024-001", m.ID)
	assert.False(t, m.Timestamp.IsZero())

	assert.False(t, s.UpdateMessage("MSG-2024-099", func(*model.Message) {}))
}

func TestUpdateDocument_PreservesIdentity(t *testing.T) {
	s, _ := newTestStore(t)

	ok := s.UpdateDocument("DOC-2024-001", func(d *model.Document) {
		d.Title = "EMC Test Report Rev 2"
		d.ID = "HACKED"
		d.UploadedAt = time.Time{}
	})
	require.True(t, ok)

	d := s.Documents()[0]
	assert.Equal(t, "EMC Test Report Rev 2", d.Title)
	assert.Equal(t, "DOC-2024-001", d.ID)
	assert.False(t, d.UploadedAt.IsZero())

	assert.False(t, s.UpdateDocument("DOC-2024-099", func(*model.Document) {}))
}

func TestSetProfile_RequiresPrimaryEmail(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.SetProfile(model.Profile{FullName: "Nobody"})
	assert.ErrorIs(t, err, model.ErrNoPrimaryEmail)

	err = s.SetProfile(model.Profile{
		FullName: "Somebody",
		Emails:   []model.Email{{Address: "   "}},
	})
	assert.ErrorIs(t, err, model.ErrNoPrimaryEmail)

	err = s.SetProfile(model.Profile{
		FullName: "Somebody",
		Emails:   []model.Email{{Address: "s@example.com"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Somebody", s.Profile().FullName)
}

func TestSettings_FullReplace(t *testing.T) {
	s, _ := newTestStore(t)

	s.SetSettings(model.Settings{DarkMode: true})
	got := s.Settings()
	assert.True(t, got.DarkMode)
	assert.False(t, got.Notifications, "set is a full replace, not a merge")
}

func TestMutations_PersistAcrossReopen(t *testing.T) {
	s1, backend := newTestStore(t)
	s1.CreateProduct(model.Product{Name: "Charger", Service: "EMC Simulation"})
	s1.SetSettings(model.Settings{DarkMode: true})

	s2 := reopenStore(backend)
	assert.Len(t, s2.Products(), 4)
	assert.True(t, s2.Settings().DarkMode)
}

func TestSubscribe_NotifiedPerMutation(t *testing.T) {
	s, _ := newTestStore(t)

	var notified []string
	s.Subscribe(func(collection string) { notified = append(notified, collection) })

	s.CreateProduct(model.Product{Name: "X"})
	s.MarkMessageRead("MSG-2024-002")

	assert.Equal(t, []string{"products", "messages"}, notified)
}

func TestDocumentsForProduct(t *testing.T) {
	s, _ := newTestStore(t)

	docs := s.DocumentsForProduct("BP-2024-001")
	require.Len(t, docs, 1)
	assert.Equal(t, "DOC-2024-001", docs[0].ID)

	assert.Empty(t, s.DocumentsForProduct("BP-2024-003"))
}
