package entity

import (
	"github.com/samber/lo"

	"github.com/fieldline/labportal/internal/model"
)

// Tx stages creates against copied collections. Nothing a Tx does is
// visible or persisted until Atomic commits it; if the transaction
// function fails, the staging (counters included) is discarded.
//
// Only creates are staged: the submission transaction is the sole
// multi-entity write in the portal and it never updates or deletes.
type Tx struct {
	s *Store

	products envelope[model.Product]
	orders   envelope[model.Order]
	messages envelope[model.Message]

	touched []string
}

// Atomic runs fn against a staged view of the store. On success every
// staged create becomes visible at once and each touched collection is
// persisted exactly once. On error the store is left exactly as it was:
// zero staged records visible, zero writes issued.
func (s *Store) Atomic(fn func(tx *Tx) error) error {
	tx := &Tx{
		s:        s,
		products: copyEnvelope(s.products),
		orders:   copyEnvelope(s.orders),
		messages: copyEnvelope(s.messages),
	}

	if err := fn(tx); err != nil {
		return err
	}

	s.products = tx.products
	s.orders = tx.orders
	s.messages = tx.messages

	for _, key := range tx.touched {
		switch key {
		case keyProducts:
			s.persist(keyProducts, s.products)
		case keyOrders:
			s.persist(keyOrders, s.orders)
		case keyMessages:
			s.persist(keyMessages, s.messages)
		}
	}
	return nil
}

// CreateProduct stages a product create. Same defaulting as
// Store.CreateProduct.
func (tx *Tx) CreateProduct(p model.Product) model.Product {
	now := tx.s.now()
	p.ID = nextID(&tx.products, prefixProduct, now)
	p.CreatedAt = now
	p.Progress = 0
	if p.Status == "" {
		p.Status = model.ProductAwaiting
	}
	tx.products.Records = append(tx.products.Records, p)
	tx.touch(keyProducts)
	return p
}

// CreateOrder stages an order create. Same defaulting as Store.CreateOrder.
func (tx *Tx) CreateOrder(o model.Order) model.Order {
	now := tx.s.now()
	o.ID = nextID(&tx.orders, prefixOrder, now)
	o.CreatedAt = now
	if o.Status == "" {
		o.Status = model.OrderAwaiting
	}
	tx.orders.Records = append(tx.orders.Records, o)
	tx.touch(keyOrders)
	return o
}

// CreateMessage stages a message create. Same defaulting as
// Store.CreateMessage.
func (tx *Tx) CreateMessage(m model.Message) model.Message {
	now := tx.s.now()
	m.ID = nextID(&tx.messages, prefixMessage, now)
	m.Timestamp = now
	m.Read = false
	if m.Type == "" {
		m.Type = model.MessageInfo
	}
	tx.messages.Records = append(tx.messages.Records, m)
	tx.touch(keyMessages)
	return m
}

func (tx *Tx) touch(key string) {
	if !lo.Contains(tx.touched, key) {
		tx.touched = append(tx.touched, key)
	}
}

func copyEnvelope[T any](env envelope[T]) envelope[T] {
	return envelope[T]{
		NextSeq: env.NextSeq,
		Records: append([]T(nil), env.Records...),
	}
}
