package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Like targets either a video or a comment, never both. Sparse unique
// indexes keep one like per user per target.
type Like struct {
	ID        bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Video     *bson.ObjectID `bson:"video,omitempty" json:"video,omitempty"`
	Comment   *bson.ObjectID `bson:"comment,omitempty" json:"comment,omitempty"`
	LikedBy   bson.ObjectID  `bson:"likedBy" json:"likedBy"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt" json:"updatedAt"`
}
