// Package warehouse is a denormalized order graph with back references,
// exercising recursive models.
package warehouse

import (
	"time"
)

// Address is a physical or billing address.
type Address struct {
	ID         uint `meta:",id"`
	Street     string
	City       string `meta:",required"`
	PostalCode string `meta:",alias=zip|postcode"`
	Country    string `meta:",minlen=2,maxlen=2"`
	IsDefault  bool
}

// Customer references its orders, which reference it back.
type Customer struct {
	ID           uint `meta:",id"`
	FirstName    string
	LastName     string
	Email        string `meta:",notempty"`
	PasswordHash string `meta:",transient"`
	DateOfBirth  *time.Time
	Addresses    []Address
	Orders       []Order
}

// Product is a sellable item.
type Product struct {
	ID     uint   `meta:",id"`
	SKU    string `meta:"sku"`
	Price  int64  `meta:",min=0"`
	Weight float64
}

// Order embeds address snapshots and the customer.
type Order struct {
	ID              uint   `meta:",id"`
	OrderNumber     string `meta:",required"`
	Currency        string `meta:",oneof=USD|EUR|GBP"`
	ShippingAddress Address
	BillingAddress  Address
	Customer        Customer
	Items           []OrderItem
	PlacedAt        *time.Time
	Revision        uint32 `meta:",version"`
}

// OrderItem is a line of an order.
type OrderItem struct {
	ID        uint `meta:",id"`
	Order     *Order
	Product   Product
	Quantity  int   `meta:",min=1"`
	UnitPrice int64 `meta:",min=0"`
}
