package payments

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
)

// ErrDuplicateOrderID is returned by Insert when the unique orderId
// index rejects the write. The verification flow re-reads on this
// error instead of failing, which closes the concurrent-verify race.
var ErrDuplicateOrderID = errors.New("order with this orderId already exists")

// OrderStore is the persistence surface of the verification flow.
type OrderStore interface {
	// FindByOrderID returns nil, nil when no order exists.
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	Insert(ctx context.Context, order *models.Order) error
	// AppendUserOrder pushes the order snapshot onto the owning
	// user's embedded history.
	AppendUserOrder(ctx context.Context, userID primitive.ObjectID, order *models.Order) error
	EmptyCart(ctx context.Context, userID primitive.ObjectID) error
}

// MongoOrderStore backs OrderStore with the orders and users
// collections.
type MongoOrderStore struct {
	orders *mongo.Collection
	users  *mongo.Collection
}

func NewMongoOrderStore(orders, users *mongo.Collection) *MongoOrderStore {
	return &MongoOrderStore{orders: orders, users: users}
}

func (s *MongoOrderStore) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoOrderStore) Insert(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := s.orders.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateOrderID
	}
	return err
}

func (s *MongoOrderStore) AppendUserOrder(ctx context.Context, userID primitive.ObjectID, order *models.Order) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"orders": order}},
	)
	return err
}

func (s *MongoOrderStore) EmptyCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"cart": []models.CartItem{}}},
	)
	return err
}
