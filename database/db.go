package database

import (
	"context"
	"log"
	"time"

	"driveline/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the global MongoDB client instance. Bookings, notifications
// and directory profiles all live in the same database.
var MongoClient *mongo.Client

// InitDB connects to MongoDB. The scheduler cannot run without its stores,
// so a failed connection is fatal.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("driveline: mongo connect failed: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("driveline: mongo ping failed: %v", err)
	}
	MongoClient = client
	log.Println("driveline: connected to MongoDB")
}
