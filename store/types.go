// Package store holds a small shop domain used by tests and the README
// walkthrough.
package store

import (
	"time"
)

// Audit carries bookkeeping shared by versioned records.
type Audit struct {
	CreatedAt time.Time
	Revision  int32 `meta:",version"`
}

// Product is an item available for sale. Prices are in cents.
type Product struct {
	Audit
	ID          int64  `meta:",id"`
	SKU         string `meta:"sku,notempty,pattern=^[A-Z]{3}-[0-9]+$"`
	Name        string `meta:",required,minlen=2"`
	Description string `meta:",maxlen=200"`
	PriceCents  int64  `meta:",min=0"`
	Inventory   int    `meta:"inventoryCount,min=0"`
}

// Customer places orders. Unknown attributes are kept in Extra.
type Customer struct {
	ID       int64  `meta:",id"`
	Email    string `meta:",notempty,pattern=^[^@]+@[^@]+$,alias=mail"`
	FullName string `meta:",alias=name"`
	Address  *string
	IsActive bool
	Extra    map[string]any `meta:",sparse"`
}

// Order is a transaction made by a customer.
type Order struct {
	ID         int64       `meta:",id"`
	CustomerID int64       `meta:",required"`
	Status     OrderStatus `meta:",oneof=PENDING|PAID|SHIPPED|CANCELLED"`
	TotalCents int64       `meta:",min=0"`
	Items      []OrderItem `meta:",notempty"`
	OrderedAt  time.Time
	Notes      map[string]string
	Session    string `meta:",transient"`
}

// Total sums the item lines.
func (o Order) Total() int64 {
	var total int64
	for _, it := range o.Items {
		total += int64(it.Quantity) * it.UnitPrice
	}

	return total
}

// OrderItem snapshots a product line at purchase time.
type OrderItem struct {
	ProductID int64  `meta:",required"`
	Name      string `meta:",notempty"`
	Quantity  int    `meta:",range=1..1000"`
	UnitPrice int64  `meta:",min=0,codec=varint"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)
