package model

import "time"

// ProductStatus describes where a product under test sits in the lab pipeline.
type ProductStatus string

const (
	ProductAwaiting  ProductStatus = "Awaiting"
	ProductTesting   ProductStatus = "Testing"
	ProductComplete  ProductStatus = "Complete"
	ProductCancelled ProductStatus = "Cancelled"
)

// OrderStatus describes the billing state of an order.
type OrderStatus string

const (
	OrderAwaiting  OrderStatus = "Awaiting"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

// MessageType distinguishes workflow notifications from plain inbox mail.
type MessageType string

const (
	MessageNotification MessageType = "notification"
	MessageInfo         MessageType = "info"
)

// Product is a customer device registered for testing.
// Progress is a 0-100 percentage and is expected to be non-decreasing
// in the normal flow; this is not enforced by the store.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Service     string        `json:"service"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	Progress    int           `json:"progress"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Order is a billing record for a service performed on a product.
// ProductName is a denormalized snapshot taken at creation time; it does
// not track later renames of the product. Total is fixed at submission
// and CreatedAt is set once, never mutated.
type Order struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	Service     string      `json:"service"`
	Status      OrderStatus `json:"status"`
	Total       float64     `json:"total"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Message is an inbox entry. Newly created messages are unread.
type Message struct {
	ID        string      `json:"id"`
	From      string      `json:"from"`
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	Timestamp time.Time   `json:"timestamp"`
	Read      bool        `json:"read"`
	Type      MessageType `json:"type"`
}

// Document is an uploaded file attached to a product.
type Document struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
	Size       string    `json:"size"`
}

// Email is one address on a profile. The first entry in Profile.Emails
// is the primary address.
type Email struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
}

// Profile is the singleton account record.
type Profile struct {
	FullName string  `json:"full_name"`
	Emails   []Email `json:"emails"`
	Phone    string  `json:"phone,omitempty"`
	Address  string  `json:"address,omitempty"`
	Company  string  `json:"company,omitempty"`
}

// Primary returns the primary email address, or "" if none is set.
func (p Profile) Primary() string {
	if len(p.Emails) == 0 {
		return ""
	}
	return p.Emails[0].Address
}

// Settings is the singleton preference record.
type Settings struct {
	Notifications    bool `json:"notifications"`
	DarkMode         bool `json:"dark_mode"`
	EmailUpdates     bool `json:"email_updates"`
	SMSNotifications bool `json:"sms_notifications"`
}
