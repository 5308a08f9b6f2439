package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ChannelAnalytics struct {
	ID               bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Channel          bson.ObjectID `bson:"channel" json:"channel"`
	TotalViews       int64         `bson:"totalViews" json:"totalViews"`
	TotalSubscribers int64         `bson:"totalSubscribers" json:"totalSubscribers"`
	TotalVideos      int64         `bson:"totalVideos" json:"totalVideos"`
	TotalLikes       int64         `bson:"totalLikes" json:"totalLikes"`
	UpdatedAt        time.Time     `bson:"updatedAt" json:"updatedAt"`
}
