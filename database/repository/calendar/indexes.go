package calendarRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes backing the calendar query patterns.
// Overlap exclusion is enforced transactionally, not by index; these
// only serve lookup speed.
func (repo *MongoCalendarRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary range scan: a coach's records intersecting a window.
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("coach_start_end_idx"),
		},
		// Containment lookups against open availability.
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "isAvailability", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("coach_availability_idx"),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("coach_status_idx"),
		},
	}

	_, err := repo.bookingColl.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create calendar indexes: %w", err)
	}
	return nil
}
