package controllers

import (
	"fmt"
	"log"
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

// POST /api/v1/subscriptions/c/:channelId
func ToggleSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		channelID, err := bson.ObjectIDFromHex(c.Param("channelId"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid channel id"))
			return
		}
		if channelID == user.ID {
			middleware.Fail(c, utils.BadRequest("Cannot subscribe to your own channel"))
			return
		}

		channel, err := findSanitizedUser(ctx, bson.M{"_id": channelID})
		if err != nil {
			middleware.Fail(c, utils.NotFound("Channel not found"))
			return
		}

		subsCol := database.OpenCollection("subscriptions")
		filter := bson.M{"subscriber": user.ID, "channel": channelID}

		result, err := subsCol.DeleteOne(ctx, filter)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		if result.DeletedCount > 0 {
			c.JSON(http.StatusOK, utils.NewApiResponse(gin.H{"subscribed": false}, "Unsubscribed"))
			return
		}

		now := time.Now().UTC()
		_, err = subsCol.InsertOne(ctx, models.Subscription{
			ID:         bson.NewObjectID(),
			Subscriber: user.ID,
			Channel:    channelID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil && !utils.IsDuplicateKey(err) {
			middleware.Fail(c, err)
			return
		}

		// Fan out a notification unless the channel opted out.
		if channel.Notifications.SubscriptionActivity {
			notifCol := database.OpenCollection("notifications")
			_, err := notifCol.InsertOne(ctx, models.Notification{
				ID:        bson.NewObjectID(),
				Recipient: channelID,
				Sender:    user.ID,
				Type:      models.NotificationSubscription,
				Content:   fmt.Sprintf("%s subscribed to your channel", user.Username),
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				log.Printf("subscription notification for %s: %v", channelID.Hex(), err)
			}
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(gin.H{"subscribed": true}, "Subscribed"))
	}
}

func listSubscriptionUsers(c *gin.Context, match bson.M, project string) ([]models.User, error) {
	ctx := c.Request.Context()

	subsCol := database.OpenCollection("subscriptions")
	cursor, err := subsCol.Find(ctx, match, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ids := make([]bson.ObjectID, 0)
	for cursor.Next(ctx) {
		var sub models.Subscription
		if err := cursor.Decode(&sub); err != nil {
			return nil, err
		}
		switch project {
		case "subscriber":
			ids = append(ids, sub.Subscriber)
		case "channel":
			ids = append(ids, sub.Channel)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	usersCol := database.OpenCollection("users")
	userCursor, err := usersCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(sanitizedProjection))
	if err != nil {
		return nil, err
	}
	defer userCursor.Close(ctx)

	for userCursor.Next(ctx) {
		var u models.User
		if err := userCursor.Decode(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, userCursor.Err()
}

// GET /api/v1/subscriptions/c/:channelId
func GetChannelSubscribers() gin.HandlerFunc {
	return func(c *gin.Context) {
		channelID, err := bson.ObjectIDFromHex(c.Param("channelId"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid channel id"))
			return
		}

		users, err := listSubscriptionUsers(c, bson.M{"channel": channelID}, "subscriber")
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(users, "Subscribers fetched successfully"))
	}
}

// GET /api/v1/subscriptions/u/:subscriberId
func GetSubscribedChannels() gin.HandlerFunc {
	return func(c *gin.Context) {
		subscriberID, err := bson.ObjectIDFromHex(c.Param("subscriberId"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid subscriber id"))
			return
		}

		users, err := listSubscriptionUsers(c, bson.M{"subscriber": subscriberID}, "channel")
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(users, "Subscribed channels fetched successfully"))
	}
}
