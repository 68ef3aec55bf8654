package sessionRepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bondigoo/database"
	"bondigoo/models"
)

// MongoSessionRepo implements SessionRepository on the sessions
// collection.
type MongoSessionRepo struct {
	sessionColl *mongo.Collection
}

// NewMongoSessionRepo constructs a new instance of MongoSessionRepo.
func NewMongoSessionRepo() *MongoSessionRepo {
	db := database.MongoClient.Database("bondigoo")
	return &MongoSessionRepo{
		sessionColl: db.Collection("sessions"),
	}
}

// Upsert rebuilds the projection document; creation is lazy, on the
// first transition that needs one.
func (repo *MongoSessionRepo) Upsert(ctx context.Context, p *models.SessionProjection) error {
	filter := bson.M{"bookingId": p.BookingID}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.sessionColl.ReplaceOne(ctx, filter, p, opts); err != nil {
		return fmt.Errorf("upsert session projection %s failed: %w", p.BookingID, err)
	}
	return nil
}

func (repo *MongoSessionRepo) Get(ctx context.Context, bookingID string) (*models.SessionProjection, error) {
	var p models.SessionProjection
	if err := repo.sessionColl.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching session projection %s: %w", bookingID, err)
	}
	return &p, nil
}
