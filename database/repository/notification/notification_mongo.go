package notificationRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bondigoo/database"
	"bondigoo/models"
)

// NotificationRepository is the in-app inbox: one entry per recipient
// per lifecycle event, newest first.
type NotificationRepository interface {
	Save(ctx context.Context, n *models.Notification) error
	ListByPrincipal(ctx context.Context, principalID, role string, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
}

// MongoNotificationRepo implements NotificationRepository on the
// notifications collection.
type MongoNotificationRepo struct {
	notificationColl *mongo.Collection
}

// NewMongoNotificationRepo constructs a new instance of MongoNotificationRepo.
func NewMongoNotificationRepo() *MongoNotificationRepo {
	db := database.MongoClient.Database("bondigoo")
	return &MongoNotificationRepo{
		notificationColl: db.Collection("notifications"),
	}
}

func (repo *MongoNotificationRepo) Save(ctx context.Context, n *models.Notification) error {
	if _, err := repo.notificationColl.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("save notification failed: %w", err)
	}
	return nil
}

func (repo *MongoNotificationRepo) ListByPrincipal(ctx context.Context, principalID, role string, limit int64) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	filter := bson.M{"principalId": principalID, "role": role}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := repo.notificationColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("error decoding notifications: %w", err)
	}
	return notifications, nil
}

func (repo *MongoNotificationRepo) MarkRead(ctx context.Context, notificationID string) error {
	update := bson.M{"$set": bson.M{"read": true}}
	res, err := repo.notificationColl.UpdateOne(ctx, bson.M{"id": notificationID}, update)
	if err != nil {
		return fmt.Errorf("mark notification read failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("notification %s not found", notificationID)
	}
	return nil
}
