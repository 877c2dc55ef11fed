package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// TaxRate is the fixed sales tax applied at checkout (8.25%).
const TaxRate = 0.0825

type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentCashOnPickup PaymentMethod = "cash_on_pickup"
)

// Label is the human-readable payment method used in emails and receipts.
func (m PaymentMethod) Label() string {
	if m == PaymentCard {
		return "Card"
	}
	return "Cash on Pickup"
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// OrderStatusPending is the only status an order ever has.
const OrderStatusPending = "pending"

// OrderItem is a line of a placed order.
type OrderItem struct {
	ProductID   string   `json:"product_id" bson:"product_id"`
	ProductName string   `json:"product_name" bson:"product_name"`
	Quantity    int      `json:"quantity" bson:"quantity"`
	Price       *float64 `json:"price" bson:"price"`
	LineTotal   float64  `json:"line_total" bson:"line_total"`
	Extra       Extra    `json:"-" bson:",inline"`
}

// Order is an append-only record of a checkout submission.
type Order struct {
	OrderNumber   string        `json:"order_number" bson:"order_number"`
	CustomerName  string        `json:"customer_name" bson:"customer_name"`
	CustomerEmail string        `json:"customer_email" bson:"customer_email"`
	CustomerPhone string        `json:"customer_phone" bson:"customer_phone"`
	Items         []OrderItem   `json:"items" bson:"items"`
	Subtotal      float64       `json:"subtotal" bson:"subtotal"`
	Tax           float64       `json:"tax" bson:"tax"`
	Total         float64       `json:"total" bson:"total"`
	PaymentMethod PaymentMethod `json:"payment_method" bson:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`
	PickupDate    string        `json:"pickup_date" bson:"pickup_date"`
	Notes         string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Status        string        `json:"status" bson:"status"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	// Extra keeps submitted fields not listed above.
	Extra Extra `json:"-" bson:",inline"`
}

var (
	orderKeys     = jsonKeys(reflect.TypeOf(Order{}))
	orderItemKeys = jsonKeys(reflect.TypeOf(OrderItem{}))
)

func (o *Order) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	type fields Order
	if err := json.Unmarshal(data, (*fields)(o)); err != nil {
		return err
	}
	extra, err := splitExtra(data, orderKeys)
	if err != nil {
		return err
	}
	o.Extra = extra
	return nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	type fields Order
	b, err := json.Marshal(fields(o))
	if err != nil {
		return nil, err
	}
	return appendExtra(b, o.Extra)
}

func (it *OrderItem) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	type fields OrderItem
	if err := json.Unmarshal(data, (*fields)(it)); err != nil {
		return err
	}
	extra, err := splitExtra(data, orderItemKeys)
	if err != nil {
		return err
	}
	it.Extra = extra
	return nil
}

func (it OrderItem) MarshalJSON() ([]byte, error) {
	type fields OrderItem
	b, err := json.Marshal(fields(it))
	if err != nil {
		return nil, err
	}
	return appendExtra(b, it.Extra)
}

// Email is the payload accepted by the notification stub.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Money formats an amount for display. Stored amounts are never rounded;
// rounding to cents happens here only.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
