package database

import (
	"context"
	"log"
	"time"

	"github.com/weavewear/weavewear-backend-go/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

func ConnectDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoURI := config.GetEnv("MONGODB_URI", "mongodb://localhost:27017")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return err
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return err
	}

	Client = client
	DB = client.Database(config.GetEnv("MONGODB_DB", "weavewear"))
	log.Println("Connected to MongoDB")
	return nil
}

// WithTransaction runs fn inside a single session so multi-document side effects
// (registration: user+cart+wishlist, checkout: order insert + cart clear) either
// all land or none do.
func WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
