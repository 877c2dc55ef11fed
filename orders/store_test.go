package orders

import (
	"regexp"
	"testing"
	"time"

	"lakecity/models"

	"github.com/stretchr/testify/assert"
)

var orderNumberRe = regexp.MustCompile(`^LCF-\d{6}$`)

func TestNewOrderNumberFormat(t *testing.T) {
	for i := 0; i < 500; i++ {
		n := NewOrderNumber()
		assert.Regexp(t, orderNumberRe, n)
	}
}

func TestPrepareFillsDefaults(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.FixedZone("CST", -6*3600))

	got := Prepare(models.Order{CustomerName: "Ada"}, now)

	assert.Regexp(t, orderNumberRe, got.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, now.UTC(), got.CreatedAt)
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
	assert.NotNil(t, got.Items)
	assert.Equal(t, "Ada", got.CustomerName)
}

func TestPrepareKeepsProvidedFields(t *testing.T) {
	created := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	in := models.Order{OrderNumber: "LCF-123456", Status: "custom", CreatedAt: created}

	got := Prepare(in, time.Now())

	assert.Equal(t, "LCF-123456", got.OrderNumber)
	assert.Equal(t, "custom", got.Status)
	assert.Equal(t, created, got.CreatedAt)
}
