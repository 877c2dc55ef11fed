package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lakecity/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore writes each order as its own document, so concurrent
// submissions never overwrite one another.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, now: time.Now}
}

// EnsureIndexes creates the unique order number index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"order_number": 1},
		Options: options.Index().SetUnique(true).SetName("unique_order_number"),
	})
	return err
}

func (s *MongoStore) Create(ctx context.Context, order models.Order) (models.Order, error) {
	stored := Prepare(order, s.now())
	if _, err := s.coll.InsertOne(ctx, stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Order{}, fmt.Errorf("order number %s already used: %w", stored.OrderNumber, err)
		}
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return stored, nil
}

func (s *MongoStore) Get(ctx context.Context, orderNumber string) (models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"order_number": orderNumber}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find order: %w", err)
	}
	delete(order.Extra, "_id")
	return order, nil
}
