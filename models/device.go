package models

import "time"

// DeviceToken maps a principal (client or coach) to their push token.
type DeviceToken struct {
	PrincipalID string    `bson:"principalId" json:"principalId"`
	Role        string    `bson:"role" json:"role"` // "client" or "coach"
	FCMToken    string    `bson:"fcmToken" json:"fcmToken"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
