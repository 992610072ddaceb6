package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/appetiteclub/brew/internal/ordering"
)

type OrderLineRepo struct {
	collection *mongo.Collection
}

func NewOrderLineRepo(db *mongo.Database) *OrderLineRepo {
	return &OrderLineRepo{
		collection: db.Collection("order_lines"),
	}
}

func (r *OrderLineRepo) Create(ctx context.Context, line *ordering.OrderLine) error {
	if line == nil {
		return fmt.Errorf("order line is nil")
	}

	if _, err := r.collection.InsertOne(ctx, line); err != nil {
		return fmt.Errorf("cannot create order line: %w", err)
	}

	return nil
}

func (r *OrderLineRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*ordering.OrderLine, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("cannot list order lines: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*ordering.OrderLine
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode order lines: %w", err)
	}

	return result, nil
}

func (r *OrderLineRepo) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"order_id": orderID}); err != nil {
		return fmt.Errorf("cannot delete order lines: %w", err)
	}
	return nil
}
