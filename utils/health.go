package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus reports reachability of the engine's external stores:
// mongo, the calendar-view cache and the reminder-queue redis.
type HealthStatus struct {
	Mongo         bool      `json:"mongo"`
	Cache         bool      `json:"cache"`
	ReminderQueue bool      `json:"reminderQueue"`
	CheckedAt     time.Time `json:"checkedAt"`
}

// Healthy reports whether every dependency answered its last ping.
func (h HealthStatus) Healthy() bool {
	return h.Mongo && h.Cache && h.ReminderQueue
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

func checkHealth(cache, reminderQueue *redis.Client, mongoClient *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Mongo:         mongoClient.Ping(ctx, nil) == nil,
		Cache:         cache.Ping(ctx).Err() == nil,
		ReminderQueue: reminderQueue.Ping(ctx).Err() == nil,
		CheckedAt:     time.Now().UTC(),
	}

	healthMu.Lock()
	currentHealth = status
	healthMu.Unlock()
}

// StartHealthMonitor pings each dependency once immediately and then
// every minute, updating the in-memory snapshot served by /health.
func StartHealthMonitor(cache, reminderQueue *redis.Client, mongoClient *mongo.Client) {
	go func() {
		checkHealth(cache, reminderQueue, mongoClient)

		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			checkHealth(cache, reminderQueue, mongoClient)
		}
	}()
}
