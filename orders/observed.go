package orders

import (
	"context"

	"lakecity/metrics"
	"lakecity/models"
	"lakecity/mq"
)

// Observed wraps a Store so every successful Create is counted and
// announced as an order.created event.
type Observed struct {
	Store
	Events mq.Emitter
	Kind   string
}

func (o Observed) Create(ctx context.Context, order models.Order) (models.Order, error) {
	stored, err := o.Store.Create(ctx, order)
	if err != nil {
		return stored, err
	}
	metrics.OrdersCreated.WithLabelValues(o.Kind).Inc()
	o.Events.Emit(ctx, mq.EventOrderCreated, stored)
	return stored, nil
}
