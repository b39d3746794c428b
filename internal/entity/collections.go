package entity

import (
	"strings"

	"github.com/samber/lo"

	"github.com/fieldline/labportal/internal/model"
)

// Products

// Products returns the product collection in insertion order.
// The returned slice is a copy; mutating it does not touch the store.
func (s *Store) Products() []model.Product {
	return append([]model.Product(nil), s.products.Records...)
}

// Product returns the product with the given ID.
func (s *Store) Product(id string) (model.Product, bool) {
	return lo.Find(s.products.Records, func(p model.Product) bool { return p.ID == id })
}

// CreateProduct merges p with generated fields (ID, CreatedAt, defaults)
// and appends it. Returns the created record.
func (s *Store) CreateProduct(p model.Product) model.Product {
	now := s.now()
	p.ID = nextID(&s.products, prefixProduct, now)
	p.CreatedAt = now
	p.Progress = 0
	if p.Status == "" {
		p.Status = model.ProductAwaiting
	}
	s.products.Records = append(s.products.Records, p)
	s.persist(keyProducts, s.products)
	return p
}

// UpdateProduct applies mutate to the product with the given ID.
// No-op (returns false) if not found. ID and CreatedAt are preserved.
func (s *Store) UpdateProduct(id string, mutate func(*model.Product)) bool {
	_, i, ok := lo.FindIndexOf(s.products.Records, func(p model.Product) bool { return p.ID == id })
	if !ok {
		return false
	}
	rec := &s.products.Records[i]
	created := rec.CreatedAt
	mutate(rec)
	rec.ID = id
	rec.CreatedAt = created
	s.persist(keyProducts, s.products)
	return true
}

// DeleteProduct removes the product with the given ID. No referential
// check is made against orders or documents that reference it.
func (s *Store) DeleteProduct(id string) bool {
	return deleteByID(s, &s.products, keyProducts, func(p model.Product) string { return p.ID }, id)
}

// Orders

// Orders returns the order collection in insertion order.
func (s *Store) Orders() []model.Order {
	return append([]model.Order(nil), s.orders.Records...)
}

// Order returns the order with the given ID.
func (s *Store) Order(id string) (model.Order, bool) {
	return lo.Find(s.orders.Records, func(o model.Order) bool { return o.ID == id })
}

// CreateOrder merges o with generated fields and appends it.
// CreatedAt is set once here and never mutated afterwards.
func (s *Store) CreateOrder(o model.Order) model.Order {
	now := s.now()
	o.ID = nextID(&s.orders, prefixOrder, now)
	o.CreatedAt = now
	if o.Status == "" {
		o.Status = model.OrderAwaiting
	}
	s.orders.Records = append(s.orders.Records, o)
	s.persist(keyOrders, s.orders)
	return o
}

// UpdateOrder applies mutate to the order with the given ID.
// No-op (returns false) if not found. ID, CreatedAt and Total are
// preserved: the total is fixed at submission time.
func (s *Store) UpdateOrder(id string, mutate func(*model.Order)) bool {
	_, i, ok := lo.FindIndexOf(s.orders.Records, func(o model.Order) bool { return o.ID == id })
	if !ok {
		return false
	}
	rec := &s.orders.Records[i]
	created, total := rec.CreatedAt, rec.Total
	mutate(rec)
	rec.ID = id
	rec.CreatedAt = created
	rec.Total = total
	s.persist(keyOrders, s.orders)
	return true
}

// DeleteOrder removes the order with the given ID.
func (s *Store) DeleteOrder(id string) bool {
	return deleteByID(s, &s.orders, keyOrders, func(o model.Order) string { return o.ID }, id)
}

// Messages

// Messages returns the message collection in insertion order.
func (s *Store) Messages() []model.Message {
	return append([]model.Message(nil), s.messages.Records...)
}

// UnreadMessages returns the number of unread messages.
func (s *Store) UnreadMessages() int {
	return lo.CountBy(s.messages.Records, func(m model.Message) bool { return !m.Read })
}

// CreateMessage merges m with generated fields and appends it.
// Newly created messages are always unread.
func (s *Store) CreateMessage(m model.Message) model.Message {
	now := s.now()
	m.ID = nextID(&s.messages, prefixMessage, now)
	m.Timestamp = now
	m.Read = false
	if m.Type == "" {
		m.Type = model.MessageInfo
	}
	s.messages.Records = append(s.messages.Records, m)
	s.persist(keyMessages, s.messages)
	return m
}

// UpdateMessage applies mutate to the message with the given ID.
// No-op (returns false) if not found. ID and Timestamp are preserved.
func (s *Store) UpdateMessage(id string, mutate func(*model.Message)) bool {
	_, i, ok := lo.FindIndexOf(s.messages.Records, func(m model.Message) bool { return m.ID == id })
	if !ok {
		return false
	}
	rec := &s.messages.Records[i]
	ts := rec.Timestamp
	mutate(rec)
	rec.ID = id
	rec.Timestamp = ts
	s.persist(keyMessages, s.messages)
	return true
}

// MarkMessageRead marks the message with the given ID as read.
func (s *Store) MarkMessageRead(id string) bool {
	return s.UpdateMessage(id, func(m *model.Message) { m.Read = true })
}

// DeleteMessage removes the message with the given ID.
func (s *Store) DeleteMessage(id string) bool {
	return deleteByID(s, &s.messages, keyMessages, func(m model.Message) string { return m.ID }, id)
}

// Documents

// Documents returns the document collection in insertion order.
func (s *Store) Documents() []model.Document {
	return append([]model.Document(nil), s.documents.Records...)
}

// DocumentsForProduct returns the documents attached to one product.
func (s *Store) DocumentsForProduct(productID string) []model.Document {
	return lo.Filter(s.documents.Records, func(d model.Document, _ int) bool {
		return d.ProductID == productID
	})
}

// CreateDocument merges d with generated fields and appends it.
func (s *Store) CreateDocument(d model.Document) model.Document {
	now := s.now()
	d.ID = nextID(&s.documents, prefixDocument, now)
	d.UploadedAt = now
	s.documents.Records = append(s.documents.Records, d)
	s.persist(keyDocuments, s.documents)
	return d
}

// UpdateDocument applies mutate to the document with the given ID.
// No-op (returns false) if not found. ID and UploadedAt are preserved.
func (s *Store) UpdateDocument(id string, mutate func(*model.Document)) bool {
	_, i, ok := lo.FindIndexOf(s.documents.Records, func(d model.Document) bool { return d.ID == id })
	if !ok {
		return false
	}
	rec := &s.documents.Records[i]
	uploaded := rec.UploadedAt
	mutate(rec)
	rec.ID = id
	rec.UploadedAt = uploaded
	s.persist(keyDocuments, s.documents)
	return true
}

// DeleteDocument removes the document with the given ID.
func (s *Store) DeleteDocument(id string) bool {
	return deleteByID(s, &s.documents, keyDocuments, func(d model.Document) string { return d.ID }, id)
}

// Singletons

// Profile returns the profile singleton.
func (s *Store) Profile() model.Profile { return s.profile }

// SetProfile replaces the profile singleton (full replace, not merge).
// Rejects profiles without at least one non-empty email address.
func (s *Store) SetProfile(p model.Profile) error {
	if strings.TrimSpace(p.Primary()) == "" {
		return model.ErrNoPrimaryEmail
	}
	s.profile = p
	s.persist(keyProfile, s.profile)
	return nil
}

// Settings returns the settings singleton.
func (s *Store) Settings() model.Settings { return s.settings }

// SetSettings replaces the settings singleton (full replace, not merge).
func (s *Store) SetSettings(v model.Settings) {
	s.settings = v
	s.persist(keySettings, s.settings)
}

// deleteByID removes the record whose ID matches and persists the
// collection. The counter is untouched: deletes never free a number.
func deleteByID[T any](s *Store, env *envelope[T], key string, idOf func(T) string, id string) bool {
	_, i, ok := lo.FindIndexOf(env.Records, func(r T) bool { return idOf(r) == id })
	if !ok {
		return false
	}
	env.Records = append(env.Records[:i], env.Records[i+1:]...)
	s.persist(key, *env)
	return true
}
