package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Video struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	VideoFile   MediaRef      `bson:"videoFile" json:"videoFile"`
	Thumbnail   MediaRef      `bson:"thumbnail" json:"thumbnail"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Duration    float64       `bson:"duration" json:"duration"`
	Views       int64         `bson:"views" json:"views"`
	Shares      int64         `bson:"shares" json:"shares"`
	IsPublished bool          `bson:"isPublished" json:"isPublished"`
	Owner       bson.ObjectID `bson:"owner" json:"owner"`
	Category    string        `bson:"category" json:"category"`
	Tags        []string      `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}
