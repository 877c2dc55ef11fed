package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lakecity/cart"
	"lakecity/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	created []models.Order
	err     error
}

func (s *fakeStore) Create(_ context.Context, o models.Order) (models.Order, error) {
	if s.err != nil {
		return models.Order{}, s.err
	}
	o.OrderNumber = "LCF-123456"
	s.created = append(s.created, o)
	return o, nil
}

func (s *fakeStore) Get(_ context.Context, number string) (models.Order, error) {
	for _, o := range s.created {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return models.Order{}, errors.New("not found")
}

type fakeMailer struct {
	sent []models.Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, e models.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func price(v float64) *float64 { return &v }

// 2×10.00 + 3×5.00 and one market-price item.
func filledCart() *cart.Cart {
	c := cart.New()
	c.Add(models.Product{ID: "cf", Name: "Catfish Fillet", Price: price(10)}, 2)
	c.Add(models.Product{ID: "jack", Name: "Jack Salmon", Price: price(5)}, 3)
	c.Add(models.Product{ID: "shrimp", Name: "Jumbo Shrimp"}, 1)
	return c
}

func newService() (*Service, *fakeStore, *fakeMailer) {
	store := &fakeStore{}
	mailer := &fakeMailer{}
	return NewService(store, mailer, zap.NewNop()), store, mailer
}

func TestCheckoutCard(t *testing.T) {
	svc, store, mailer := newService()
	c := filledCart()

	order, err := svc.Checkout(context.Background(), c, validForm())
	require.NoError(t, err)

	assert.Equal(t, "LCF-123456", order.OrderNumber)
	assert.InDelta(t, 35.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 2.8875, order.Tax, 1e-9)
	assert.InDelta(t, 37.8875, order.Total, 1e-9)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	require.Len(t, order.Items, 3)
	assert.InDelta(t, 20.0, order.Items[0].LineTotal, 1e-9)
	assert.Nil(t, order.Items[2].Price)
	assert.Zero(t, order.Items[2].LineTotal)

	require.Len(t, store.created, 1)
	require.Len(t, mailer.sent, 1)
	email := mailer.sent[0]
	assert.Equal(t, "ada@example.com", email.To)
	assert.Equal(t, ConfirmationSubject, email.Subject)
	assert.Contains(t, email.Body, "$35.00")
	assert.Contains(t, email.Body, "$2.89")
	assert.Contains(t, email.Body, "$37.89")
	assert.Contains(t, email.Body, "Card")
	assert.Contains(t, email.Body, "Market price")

	assert.True(t, c.IsEmpty())
}

func TestCheckoutCashIsPending(t *testing.T) {
	svc, _, mailer := newService()
	f := validForm()
	f.PaymentMethod = models.PaymentCashOnPickup

	order, err := svc.Checkout(context.Background(), filledCart(), f)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Contains(t, mailer.sent[0].Body, "Cash on Pickup")
}

func TestCheckoutEmptyCartNeverStores(t *testing.T) {
	svc, store, mailer := newService()

	_, err := svc.Checkout(context.Background(), cart.New(), validForm())
	assert.Equal(t, ReasonEmptyCart, reasonOf(t, err))
	assert.Empty(t, store.created)
	assert.Empty(t, mailer.sent)
}

func TestCheckoutStoreFailureKeepsCart(t *testing.T) {
	svc, store, mailer := newService()
	store.err = errors.New("disk full")
	c := filledCart()

	_, err := svc.Checkout(context.Background(), c, validForm())
	require.ErrorIs(t, err, ErrCheckoutFailed)
	assert.ErrorIs(t, err, store.err)
	assert.Empty(t, mailer.sent)
	assert.Equal(t, 6, c.Count())
}

func TestCheckoutMailerFailureKeepsCart(t *testing.T) {
	svc, store, mailer := newService()
	mailer.err = errors.New("smtp down")
	c := filledCart()

	_, err := svc.Checkout(context.Background(), c, validForm())
	require.ErrorIs(t, err, ErrCheckoutFailed)
	assert.Len(t, store.created, 1)
	assert.Equal(t, 6, c.Count())
}

func TestConfirmationEmailEscapesHTML(t *testing.T) {
	email, err := ConfirmationEmail(models.Order{CustomerName: "<script>x</script>", CustomerEmail: "a@b.c"})
	require.NoError(t, err)
	assert.False(t, strings.Contains(email.Body, "<script>"))
}

func TestBuildOrderZeroPriceIsMarketPrice(t *testing.T) {
	items := []models.CartItem{
		{Product: models.Product{ID: "cf", Name: "Catfish Fillet", Price: price(10)}, Quantity: 1},
		{Product: models.Product{ID: "oysters", Name: "Oysters", Price: price(0)}, Quantity: 2},
	}

	order := BuildOrder(items, validForm())
	require.Len(t, order.Items, 2)
	assert.Nil(t, order.Items[1].Price)
	assert.Zero(t, order.Items[1].LineTotal)
	assert.InDelta(t, 10.0, order.Subtotal, 1e-9)

	email, err := ConfirmationEmail(order)
	require.NoError(t, err)
	assert.Contains(t, email.Body, "2x Oysters - Market price")
}
