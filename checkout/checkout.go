package checkout

import (
	"context"
	"errors"
	"fmt"

	"lakecity/cart"
	"lakecity/models"
	"lakecity/notify"
	"lakecity/orders"

	"go.uber.org/zap"
)

// ErrCheckoutFailed wraps any storage or notification failure.
var ErrCheckoutFailed = errors.New("failed to place order")

// Service turns a session cart into a stored order.
type Service struct {
	Orders orders.Store
	Mailer notify.Sender
	Log    *zap.Logger
}

func NewService(store orders.Store, mailer notify.Sender, log *zap.Logger) *Service {
	return &Service{Orders: store, Mailer: mailer, Log: log}
}

// Checkout validates the submission, stores the order, sends the
// confirmation and then clears the cart. The cart is left untouched on any
// error so the customer can retry.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, form Form) (models.Order, error) {
	items := c.Items()
	if err := Validate(items, &form); err != nil {
		return models.Order{}, err
	}

	stored, err := s.Orders.Create(ctx, BuildOrder(items, form))
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: store order: %w", ErrCheckoutFailed, err)
	}

	email, err := ConfirmationEmail(stored)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}
	if err := s.Mailer.Send(ctx, email); err != nil {
		return models.Order{}, fmt.Errorf("%w: send confirmation: %w", ErrCheckoutFailed, err)
	}

	c.Clear()
	s.Log.Info("checkout complete",
		zap.String("order_number", stored.OrderNumber),
		zap.String("payment_method", string(stored.PaymentMethod)),
		zap.Int("items", len(stored.Items)),
	)
	return stored, nil
}

// BuildOrder prices the cart lines. Market-price lines get a nil price and
// contribute nothing to the subtotal.
func BuildOrder(items []models.CartItem, form Form) models.Order {
	lines := make([]models.OrderItem, 0, len(items))
	var subtotal float64
	for _, it := range items {
		line := models.OrderItem{
			ProductID:   it.Product.ID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
		}
		if it.Product.Priced() {
			line.Price = it.Product.Price
			line.LineTotal = it.LineTotal()
			subtotal += line.LineTotal
		}
		lines = append(lines, line)
	}

	tax := subtotal * models.TaxRate
	status := models.PaymentPending
	if form.PaymentMethod == models.PaymentCard {
		status = models.PaymentPaid
	}

	return models.Order{
		CustomerName:  form.CustomerName,
		CustomerEmail: form.CustomerEmail,
		CustomerPhone: form.CustomerPhone,
		Items:         lines,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		PaymentMethod: form.PaymentMethod,
		PaymentStatus: status,
		PickupDate:    form.PickupDate,
		Notes:         form.Notes,
		Status:        models.OrderStatusPending,
	}
}
