package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Subscription links a subscriber to a channel (both users).
// Uniqueness of the pair is enforced by a compound index.
type Subscription struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Subscriber bson.ObjectID `bson:"subscriber" json:"subscriber"`
	Channel    bson.ObjectID `bson:"channel" json:"channel"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}
