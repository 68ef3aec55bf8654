package calendarRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bondigoo/database"
	"bondigoo/models"
)

// MongoCalendarRepo implements CalendarRepository on the bookings
// collection.
type MongoCalendarRepo struct {
	bookingColl *mongo.Collection
}

// NewMongoCalendarRepo constructs a new instance of MongoCalendarRepo.
func NewMongoCalendarRepo() *MongoCalendarRepo {
	db := database.MongoClient.Database("bondigoo")
	return &MongoCalendarRepo{
		bookingColl: db.Collection("bookings"),
	}
}

func (repo *MongoCalendarRepo) InsertBooking(ctx context.Context, b *models.BookingRecord) error {
	if _, err := repo.bookingColl.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert booking record failed: %w", err)
	}
	return nil
}

func (repo *MongoCalendarRepo) GetBooking(ctx context.Context, id string) (*models.BookingRecord, error) {
	var b models.BookingRecord
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking record %s: %w", id, err)
	}
	return &b, nil
}

// ReplaceBooking writes the record guarded by the version it was read
// at. MatchedCount == 0 means a concurrent transaction moved the
// document; surfaced as ErrVersionConflict for the retry policy.
func (repo *MongoCalendarRepo) ReplaceBooking(ctx context.Context, b *models.BookingRecord) error {
	filter := bson.M{"id": b.ID, "version": b.Version}
	b.Version++
	b.UpdatedAt = time.Now().UTC()
	res, err := repo.bookingColl.ReplaceOne(ctx, filter, b)
	if err != nil {
		b.Version--
		return fmt.Errorf("replace booking record %s failed: %w", b.ID, err)
	}
	if res.MatchedCount == 0 {
		b.Version--
		return ErrVersionConflict
	}
	return nil
}

func (repo *MongoCalendarRepo) DeleteAvailability(ctx context.Context, id string, version int) error {
	filter := bson.M{"id": id, "isAvailability": true, "version": version}
	res, err := repo.bookingColl.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete availability %s failed: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (repo *MongoCalendarRepo) FindAvailabilityContaining(ctx context.Context, coachID string, iv models.Interval) (*models.BookingRecord, error) {
	filter := bson.M{
		"coachId":        coachID,
		"isAvailability": true,
		"start":          bson.M{"$lte": iv.Start},
		"end":            bson.M{"$gte": iv.End},
	}
	var b models.BookingRecord
	if err := repo.bookingColl.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding containing availability: %w", err)
	}
	return &b, nil
}

func (repo *MongoCalendarRepo) FindAdjacentAvailability(ctx context.Context, coachID string, iv models.Interval) ([]*models.BookingRecord, error) {
	filter := bson.M{
		"coachId":        coachID,
		"isAvailability": true,
		"$or": bson.A{
			bson.M{"end": iv.Start},
			bson.M{"start": iv.End},
		},
	}
	return repo.findRecords(ctx, filter)
}

var terminalStatuses = bson.A{
	models.StatusDeclined,
	models.StatusCancelledClient,
	models.StatusCancelledCoach,
	models.StatusCancelledAdmin,
	models.StatusCompleted,
	models.StatusNoShow,
}

func (repo *MongoCalendarRepo) FindOverlapping(ctx context.Context, coachID string, iv models.Interval, excludeID string) ([]*models.BookingRecord, error) {
	filter := bson.M{
		"coachId":        coachID,
		"isAvailability": false,
		"status":         bson.M{"$nin": terminalStatuses},
		"start":          bson.M{"$lt": iv.End},
		"end":            bson.M{"$gt": iv.Start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return repo.findRecords(ctx, filter)
}

func (repo *MongoCalendarRepo) ListCalendar(ctx context.Context, coachID string, from, to time.Time) ([]*models.BookingRecord, error) {
	filter := bson.M{
		"coachId": coachID,
		"start":   bson.M{"$lt": to},
		"end":     bson.M{"$gt": from},
	}
	return repo.findRecords(ctx, filter)
}

func (repo *MongoCalendarRepo) findRecords(ctx context.Context, filter bson.M) ([]*models.BookingRecord, error) {
	cursor, err := repo.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding booking records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*models.BookingRecord
	for cursor.Next(ctx) {
		var b models.BookingRecord
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking record: %w", err)
		}
		records = append(records, &b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return records, nil
}
