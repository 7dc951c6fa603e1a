package directoryRepo

import (
	"context"
	"fmt"
	"time"

	"driveline/database"
	"driveline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserDirectory implements UserDirectory against the users collection
// maintained by the user domain.
type MongoUserDirectory struct {
	coll *mongo.Collection
}

// NewMongoUserDirectory creates a read-only directory over the users collection.
func NewMongoUserDirectory() UserDirectory {
	return &MongoUserDirectory{
		coll: database.MongoClient.Database("driveline").Collection("users"),
	}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetUserByID retrieves a user's display profile. Only the fields the engine
// needs are projected.
func (d *MongoUserDirectory) GetUserByID(id string) (*models.UserProfile, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var profile models.UserProfile
	err := d.coll.FindOne(ctx, bson.M{"id": id}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &profile, nil
}

// MongoFleetDirectory implements FleetDirectory against the cars collection
// maintained by the fleet domain.
type MongoFleetDirectory struct {
	coll *mongo.Collection
}

// NewMongoFleetDirectory creates a read-only directory over the cars collection.
func NewMongoFleetDirectory() FleetDirectory {
	return &MongoFleetDirectory{
		coll: database.MongoClient.Database("driveline").Collection("cars"),
	}
}

// GetCarByID retrieves a car's display data.
func (d *MongoFleetDirectory) GetCarByID(id string) (*models.CarInfo, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var car models.CarInfo
	err := d.coll.FindOne(ctx, bson.M{"id": id}).Decode(&car)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("car with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get car %s: %w", id, err)
	}
	return &car, nil
}
