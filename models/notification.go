package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotificationType string

const (
	NotificationSubscription NotificationType = "SUBSCRIPTION"
	NotificationComment      NotificationType = "COMMENT"
	NotificationReply        NotificationType = "REPLY"
	NotificationVideo        NotificationType = "VIDEO"
)

type Notification struct {
	ID        bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	Recipient bson.ObjectID    `bson:"recipient" json:"recipient"`
	Sender    bson.ObjectID    `bson:"sender" json:"sender"`
	Type      NotificationType `bson:"type" json:"type"`
	Content   string           `bson:"content" json:"content"`
	Read      bool             `bson:"read" json:"read"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updatedAt"`
}
