package otp

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
)

// MongoRepo stores OTP records in the otps collection. Expiry is
// enforced by the TTL index created at startup.
type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(collection *mongo.Collection) *MongoRepo {
	return &MongoRepo{collection: collection}
}

func (r *MongoRepo) Insert(ctx context.Context, rec *models.OTP) error {
	_, err := r.collection.InsertOne(ctx, rec)
	return err
}

func (r *MongoRepo) LatestUnused(ctx context.Context, email, purpose string) (*models.OTP, error) {
	filter := bson.M{"email": email, "purpose": purpose, "used": false}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var rec models.OTP
	err := r.collection.FindOne(ctx, filter, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MongoRepo) MarkUsed(ctx context.Context, rec *models.OTP) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": rec.Id},
		bson.M{"$set": bson.M{"used": true}},
	)
	return err
}

func (r *MongoRepo) IncrementAttempts(ctx context.Context, rec *models.OTP) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": rec.Id},
		bson.M{"$inc": bson.M{"attempts": 1}},
	)
	return err
}
