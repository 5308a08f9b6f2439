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

// GET /api/v1/notifications
func GetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if limit < 1 {
			limit = defaultLimit
		}
		if limit > maxLimit {
			limit = maxLimit
		}

		filter := bson.M{"recipient": user.ID}
		if unread, err := utils.ParseBoolQuery(c.Query("unread")); err == nil && unread != nil && *unread {
			filter["read"] = false
		}

		notifCol := database.OpenCollection("notifications")
		cursor, err := notifCol.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "read", Value: 1}, {Key: "createdAt", Value: -1}}).
			SetLimit(int64(limit)))
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		defer cursor.Close(ctx)

		notifications := make([]models.Notification, 0)
		for cursor.Next(ctx) {
			var n models.Notification
			if err := cursor.Decode(&n); err != nil {
				middleware.Fail(c, err)
				return
			}
			notifications = append(notifications, n)
		}
		if err := cursor.Err(); err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(notifications, "Notifications fetched successfully"))
	}
}

// PATCH /api/v1/notifications/:id/read
func MarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		notifID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid notification id"))
			return
		}

		notifCol := database.OpenCollection("notifications")
		result, err := notifCol.UpdateOne(ctx,
			bson.M{"_id": notifID, "recipient": user.ID},
			bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC()}})
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		if result.MatchedCount == 0 {
			middleware.Fail(c, utils.NotFound("Notification not found"))
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(nil, "Notification marked as read"))
	}
}

// PATCH /api/v1/notifications/read-all
func MarkAllNotificationsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		notifCol := database.OpenCollection("notifications")
		result, err := notifCol.UpdateMany(ctx,
			bson.M{"recipient": user.ID, "read": false},
			bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC()}})
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(gin.H{
			"updated": result.ModifiedCount,
		}, "Notifications marked as read"))
	}
}
