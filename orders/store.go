package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"lakecity/models"
)

// ErrNotFound is returned by Get for unknown order numbers.
var ErrNotFound = errors.New("order not found")

// OrderNumberPrefix starts every generated order number.
const OrderNumberPrefix = "LCF-"

// Store persists orders. Orders are append-only: never updated or deleted.
type Store interface {
	Create(ctx context.Context, order models.Order) (models.Order, error)
	Get(ctx context.Context, orderNumber string) (models.Order, error)
}

// NewOrderNumber returns "LCF-" followed by a random number in [100000, 999999].
// Uniqueness is left to chance.
func NewOrderNumber() string {
	return fmt.Sprintf("%s%d", OrderNumberPrefix, 100000+rand.Intn(900000))
}

// Prepare fills the fields a caller may omit: order number, status and creation time.
func Prepare(order models.Order, now time.Time) models.Order {
	if order.OrderNumber == "" {
		order.OrderNumber = NewOrderNumber()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now.UTC()
	}
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	return order
}
