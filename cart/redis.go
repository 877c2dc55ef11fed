package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSessions stores cart snapshots in redis so carts survive restarts and
// can be shared between instances. Save publishes the snapshot so watchers on
// any instance see the change.
type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisSessions(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisSessions {
	return &RedisSessions{client: client, ttl: ttl, log: log}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func updatesChannel(sessionID string) string {
	return cartKey(sessionID) + ":updates"
}

func (s *RedisSessions) Get(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return FromItems(snap.Items), nil
}

func (s *RedisSessions) Save(ctx context.Context, sessionID string, c *Cart) error {
	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store cart: %w", err)
	}
	if err := s.client.Publish(ctx, updatesChannel(sessionID), data).Err(); err != nil {
		s.log.Warn("cart update publish failed", zap.String("session", sessionID), zap.Error(err))
	}
	return nil
}

func (s *RedisSessions) Watch(ctx context.Context, sessionID string) (<-chan Snapshot, error) {
	// Subscribe before reading so no update between the read and the
	// subscription is lost.
	pubsub := s.client.Subscribe(ctx, updatesChannel(sessionID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe cart updates: %w", err)
	}
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		pubsub.Close()
		return nil, err
	}

	ch := make(chan Snapshot, watchBuffer)
	ch <- current.Snapshot()

	go func() {
		defer close(ch)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var snap Snapshot
				if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
					s.log.Warn("bad cart update payload", zap.String("session", sessionID), zap.Error(err))
					continue
				}
				select {
				case ch <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
