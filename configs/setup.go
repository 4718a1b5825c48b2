package configs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectDB() *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(EnvMongoURI()))
	if err != nil {
		log.Fatal(err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Connected to MongoDB")

	return client
}

var (
	dbClient *mongo.Client
	dbOnce   sync.Once
)

// DB returns the shared Mongo client, connecting on first use. Lazy so
// importing this package (middleware, tests) costs nothing until a
// collection is actually touched.
func DB() *mongo.Client {
	dbOnce.Do(func() {
		dbClient = ConnectDB()
	})
	return dbClient
}

func GetCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(EnvMongoDatabase()).Collection(collectionName)
}

// EnsureIndexes creates the indexes the handlers rely on:
// a unique orderId so a verification race cannot create two orders
// for the same payment, a TTL index that expires OTP records, and
// a unique user email.
func EnsureIndexes(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orders := GetCollection(client, "orders")
	_, err := orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatal("Error creating orders.orderId index: ", err)
	}

	otps := GetCollection(client, "otps")
	_, err = otps.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		log.Fatal("Error creating otps TTL index: ", err)
	}

	users := GetCollection(client, "users")
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatal("Error creating users.email index: ", err)
	}
}
