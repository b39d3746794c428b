package entity

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fieldline/labportal/internal/kv"
	"github.com/fieldline/labportal/internal/model"
)

// Storage keys, one per collection.
const (
	keyProducts  = "products"
	keyOrders    = "orders"
	keyMessages  = "messages"
	keyDocuments = "documents"
	keyProfile   = "profile"
	keySettings  = "settings"
)

// ID prefixes, one per non-singleton collection.
const (
	prefixProduct  = "BP"
	prefixOrder    = "ORD"
	prefixMessage  = "MSG"
	prefixDocument = "DOC"
)

// envelope is the persisted shape of one collection: the records plus the
// monotonic counter that survives deletes and reopens.
type envelope[T any] struct {
	NextSeq int `json:"next_seq"`
	Records []T `json:"records"`
}

// Store owns every entity instance. Construct with New; all mutations go
// through Store (or Tx) methods so the counter, persistence and subscriber
// notification stay consistent.
type Store struct {
	codec  *kv.Codec
	logger *slog.Logger
	now    func() time.Time

	products  envelope[model.Product]
	orders    envelope[model.Order]
	messages  envelope[model.Message]
	documents envelope[model.Document]
	profile   model.Profile
	settings  model.Settings

	subscribers []func(collection string)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for CreatedAt stamps and the
// year segment of generated IDs. Used by deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New hydrates a store from the backing codec. Collections absent from the
// backing store start from the seed dataset.
func New(codec *kv.Codec, opts ...Option) *Store {
	s := &Store{
		codec:  codec,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.products = loadCollection(codec, keyProducts, model.SeedProducts())
	s.orders = loadCollection(codec, keyOrders, model.SeedOrders())
	s.messages = loadCollection(codec, keyMessages, model.SeedMessages())
	s.documents = loadCollection(codec, keyDocuments, model.SeedDocuments())

	s.profile = model.SeedProfile()
	codec.ReadJSON(keyProfile, &s.profile)
	s.settings = model.SeedSettings()
	codec.ReadJSON(keySettings, &s.settings)

	return s
}

// loadCollection hydrates one collection envelope, seeding on absence.
// The seed's counter starts just past the seeded records.
func loadCollection[T any](codec *kv.Codec, key string, seed []T) envelope[T] {
	env := envelope[T]{NextSeq: len(seed) + 1, Records: seed}
	codec.ReadJSON(key, &env)
	return env
}

// Subscribe registers fn to run after every committed mutation, with the
// name of the mutated collection. Views use this to re-render.
func (s *Store) Subscribe(fn func(collection string)) {
	s.subscribers = append(s.subscribers, fn)
}

// Degraded reports whether the backing store has dropped any read or write.
func (s *Store) Degraded() bool { return s.codec.Degraded() }

// nextID formats a collection-scoped sequential ID and advances the
// counter: PREFIX-YEAR-NNN.
func nextID[T any](env *envelope[T], prefix string, now time.Time) string {
	id := fmt.Sprintf("%s-%d-%03d", prefix, now.Year(), env.NextSeq)
	env.NextSeq++
	return id
}

// persist mirrors one collection back to the backing store and notifies
// subscribers. Fire-and-forget: the codec swallows storage failures.
func (s *Store) persist(collection string, v any) {
	s.codec.WriteJSON(collection, v)
	s.notify(collection)
}

func (s *Store) notify(collection string) {
	for _, fn := range s.subscribers {
		fn(collection)
	}
}
