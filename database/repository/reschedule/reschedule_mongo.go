package rescheduleRepo

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

// MongoRescheduleRepo implements RescheduleRepository on two
// collections: reschedule_requests and reschedule_history.
type MongoRescheduleRepo struct {
	requestColl *mongo.Collection
	historyColl *mongo.Collection
}

// NewMongoRescheduleRepo constructs a new instance of MongoRescheduleRepo.
func NewMongoRescheduleRepo() *MongoRescheduleRepo {
	db := database.MongoClient.Database("bondigoo")
	return &MongoRescheduleRepo{
		requestColl: db.Collection("reschedule_requests"),
		historyColl: db.Collection("reschedule_history"),
	}
}

func (repo *MongoRescheduleRepo) AppendRequest(ctx context.Context, req *models.RescheduleRequest) error {
	if _, err := repo.requestColl.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("append reschedule request failed: %w", err)
	}
	return nil
}

func (repo *MongoRescheduleRepo) FindPendingByBooking(ctx context.Context, bookingID string) (*models.RescheduleRequest, error) {
	filter := bson.M{
		"bookingId": bookingID,
		"status": bson.M{"$in": bson.A{
			models.ReschedulePendingCoach,
			models.ReschedulePendingClient,
		}},
	}
	var req models.RescheduleRequest
	if err := repo.requestColl.FindOne(ctx, filter).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching pending reschedule request: %w", err)
	}
	return &req, nil
}

func (repo *MongoRescheduleRepo) CloseRequest(ctx context.Context, requestID string, status models.RescheduleStatus, resolvedAt time.Time) error {
	update := bson.M{"$set": bson.M{"status": status, "resolvedAt": resolvedAt}}
	res, err := repo.requestColl.UpdateOne(ctx, bson.M{"id": requestID}, update)
	if err != nil {
		return fmt.Errorf("close reschedule request %s failed: %w", requestID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("reschedule request %s not found", requestID)
	}
	return nil
}

func (repo *MongoRescheduleRepo) ListRequestsByBooking(ctx context.Context, bookingID string) ([]models.RescheduleRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := repo.requestColl.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing reschedule requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.RescheduleRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("error decoding reschedule requests: %w", err)
	}
	return requests, nil
}

func (repo *MongoRescheduleRepo) AppendHistory(ctx context.Context, entry *models.RescheduleHistoryEntry) error {
	if _, err := repo.historyColl.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("append reschedule history failed: %w", err)
	}
	return nil
}

func (repo *MongoRescheduleRepo) ListHistoryByBooking(ctx context.Context, bookingID string) ([]models.RescheduleHistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurredAt", Value: 1}})
	cursor, err := repo.historyColl.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing reschedule history: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.RescheduleHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding reschedule history: %w", err)
	}
	return entries, nil
}
