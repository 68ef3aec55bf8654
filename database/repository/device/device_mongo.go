package deviceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bondigoo/database"
	"bondigoo/models"
)

// DeviceRepository stores push tokens for clients and coaches.
type DeviceRepository interface {
	SaveToken(ctx context.Context, token models.DeviceToken) error
	GetToken(ctx context.Context, principalID, role string) (string, error)
}

// MongoDeviceRepo implements DeviceRepository on the devices collection.
type MongoDeviceRepo struct {
	deviceColl *mongo.Collection
}

// NewMongoDeviceRepo constructs a new instance of MongoDeviceRepo.
func NewMongoDeviceRepo() *MongoDeviceRepo {
	db := database.MongoClient.Database("bondigoo")
	return &MongoDeviceRepo{
		deviceColl: db.Collection("devices"),
	}
}

func (repo *MongoDeviceRepo) SaveToken(ctx context.Context, token models.DeviceToken) error {
	token.UpdatedAt = time.Now().UTC()
	filter := bson.M{"principalId": token.PrincipalID, "role": token.Role}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.deviceColl.ReplaceOne(ctx, filter, token, opts); err != nil {
		return fmt.Errorf("save device token failed: %w", err)
	}
	return nil
}

func (repo *MongoDeviceRepo) GetToken(ctx context.Context, principalID, role string) (string, error) {
	var token models.DeviceToken
	filter := bson.M{"principalId": principalID, "role": role}
	if err := repo.deviceColl.FindOne(ctx, filter).Decode(&token); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", fmt.Errorf("no device token for %s %s", role, principalID)
		}
		return "", fmt.Errorf("error fetching device token: %w", err)
	}
	return token.FCMToken, nil
}
