package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OrderEventsChannel is the redis channel order events are published on.
const OrderEventsChannel = "order-events"

// EventOrderCreated fires after an order has been persisted.
const EventOrderCreated = "order.created"

// Event is the envelope published for every emitted event.
type Event struct {
	Name      string      `json:"name"`
	Payload   interface{} `json:"payload"`
	EmittedAt time.Time   `json:"emitted_at"`
}

// Emitter broadcasts domain events. Emission is best effort: failures are
// logged by the implementation and never returned to the caller.
type Emitter interface {
	Emit(ctx context.Context, eventName string, payload interface{})
}

// RedisEmitter publishes events over redis pub/sub.
type RedisEmitter struct {
	conn    *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisEmitter(conn *redis.Client, log *zap.Logger) *RedisEmitter {
	return &RedisEmitter{conn: conn, channel: OrderEventsChannel, log: log}
}

func (e *RedisEmitter) Emit(ctx context.Context, eventName string, payload interface{}) {
	data, err := json.Marshal(Event{Name: eventName, Payload: payload, EmittedAt: time.Now().UTC()})
	if err != nil {
		e.log.Error("failed to marshal event", zap.String("event", eventName), zap.Error(err))
		return
	}

	if err := e.conn.Publish(ctx, e.channel, data).Err(); err != nil {
		e.log.Error("failed to publish event", zap.String("event", eventName), zap.String("channel", e.channel), zap.Error(err))
		return
	}
	e.log.Debug("event published", zap.String("event", eventName), zap.String("channel", e.channel))
}

// LogEmitter only records events in the log. Used when redis is not configured.
type LogEmitter struct {
	Log *zap.Logger
}

func (e LogEmitter) Emit(_ context.Context, eventName string, payload interface{}) {
	e.Log.Info("event", zap.String("event", eventName), zap.Any("payload", payload))
}
