package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streamhive/streamhive-backend/database"
	"github.com/streamhive/streamhive-backend/middleware"
	"github.com/streamhive/streamhive-backend/models"
	"github.com/streamhive/streamhive-backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GET /api/v1/analytics/c/:channelId
// Recomputes the channel totals and stores the snapshot.
func GetChannelAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		channelID, err := bson.ObjectIDFromHex(c.Param("channelId"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid channel id"))
			return
		}

		if _, err := findSanitizedUser(ctx, bson.M{"_id": channelID}); err != nil {
			middleware.Fail(c, utils.NotFound("Channel not found"))
			return
		}

		videosCol := database.OpenCollection("videos")
		subsCol := database.OpenCollection("subscriptions")
		likesCol := database.OpenCollection("likes")

		totalVideos, err := videosCol.CountDocuments(ctx, bson.M{"owner": channelID})
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		totalSubscribers, err := subsCol.CountDocuments(ctx, bson.M{"channel": channelID})
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		// Sum of views plus the video ids in one pass.
		cursor, err := videosCol.Find(ctx, bson.M{"owner": channelID},
			options.Find().SetProjection(bson.M{"_id": 1, "views": 1}))
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		defer cursor.Close(ctx)

		var totalViews int64
		videoIDs := make([]bson.ObjectID, 0)
		for cursor.Next(ctx) {
			var v models.Video
			if err := cursor.Decode(&v); err != nil {
				middleware.Fail(c, err)
				return
			}
			totalViews += v.Views
			videoIDs = append(videoIDs, v.ID)
		}
		if err := cursor.Err(); err != nil {
			middleware.Fail(c, err)
			return
		}

		var totalLikes int64
		if len(videoIDs) > 0 {
			totalLikes, err = likesCol.CountDocuments(ctx, bson.M{"video": bson.M{"$in": videoIDs}})
			if err != nil {
				middleware.Fail(c, err)
				return
			}
		}

		now := time.Now().UTC()
		analytics := models.ChannelAnalytics{
			Channel:          channelID,
			TotalViews:       totalViews,
			TotalSubscribers: totalSubscribers,
			TotalVideos:      totalVideos,
			TotalLikes:       totalLikes,
			UpdatedAt:        now,
		}

		analyticsCol := database.OpenCollection("channel_analytics")
		_, err = analyticsCol.UpdateOne(ctx,
			bson.M{"channel": channelID},
			bson.M{"$set": bson.M{
				"totalViews":       totalViews,
				"totalSubscribers": totalSubscribers,
				"totalVideos":      totalVideos,
				"totalLikes":       totalLikes,
				"updatedAt":        now,
			}},
			options.UpdateOne().SetUpsert(true))
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(analytics, "Channel analytics fetched successfully"))
	}
}
