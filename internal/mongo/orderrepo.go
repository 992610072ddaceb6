package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/brew/internal/ordering"
)

type OrderRepo struct {
	collection *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{
		collection: db.Collection("orders"),
	}
}

func (r *OrderRepo) Create(ctx context.Context, o *ordering.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("cannot create order: %w", err)
	}

	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var o ordering.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context, statuses []ordering.FulfillmentStatus) ([]*ordering.Order, error) {
	return r.list(ctx, statusFilter(statuses))
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, statuses []ordering.FulfillmentStatus) ([]*ordering.Order, error) {
	filter := statusFilter(statuses)
	filter["customer_id"] = customerID
	return r.list(ctx, filter)
}

func (r *OrderRepo) list(ctx context.Context, filter bson.M) ([]*ordering.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "pickup_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*ordering.Order
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode orders: %w", err)
	}

	return result, nil
}

func statusFilter(statuses []ordering.FulfillmentStatus) bson.M {
	if len(statuses) == 0 {
		return bson.M{}
	}
	return bson.M{"status": bson.M{"$in": statuses}}
}

// SetFulfillmentStatus reads the current status, validates the move and
// writes only the status field. The narrow $set keeps a concurrent
// customer-status write from being clobbered.
func (r *OrderRepo) SetFulfillmentStatus(ctx context.Context, id uuid.UUID, status ordering.FulfillmentStatus) error {
	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("order not found")
	}

	if err := ordering.CheckTransition(current.Status, status); err != nil {
		return err
	}

	return r.setFields(ctx, id, bson.M{"status": status})
}

func (r *OrderRepo) SetCustomerStatus(ctx context.Context, id uuid.UUID, status ordering.CustomerStatus) error {
	if !status.Valid() {
		return &ordering.ValidationError{Reason: "unknown customer status " + string(status)}
	}
	return r.setFields(ctx, id, bson.M{"customer_status": status})
}

func (r *OrderRepo) SetPickupTime(ctx context.Context, id uuid.UUID, pickup time.Time) error {
	return r.setFields(ctx, id, bson.M{"pickup_time": pickup})
}

func (r *OrderRepo) setFields(ctx context.Context, id uuid.UUID, fields bson.M) error {
	fields["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("cannot update order: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("order not found")
	}

	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete order: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("order not found")
	}

	return nil
}
