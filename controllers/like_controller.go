package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streamhive/streamhive-backend/database"
	"github.com/streamhive/streamhive-backend/dto"
	"github.com/streamhive/streamhive-backend/middleware"
	"github.com/streamhive/streamhive-backend/models"
	"github.com/streamhive/streamhive-backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// POST /api/v1/likes/toggle
// A like targets exactly one of a video or a comment.
func ToggleLike() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		var body dto.ToggleLikeDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			middleware.Fail(c, utils.BadRequest(err.Error()))
			return
		}

		if body.Video == "" && body.Comment == "" {
			middleware.Fail(c, utils.BadRequest("Like must refer to either a video or a comment"))
			return
		}
		if body.Video != "" && body.Comment != "" {
			middleware.Fail(c, utils.BadRequest("Like cannot refer to both a video and a comment"))
			return
		}

		filter := bson.M{"likedBy": user.ID}
		like := models.Like{
			ID:      bson.NewObjectID(),
			LikedBy: user.ID,
		}

		if body.Video != "" {
			videoID, err := bson.ObjectIDFromHex(body.Video)
			if err != nil {
				middleware.Fail(c, utils.BadRequest("Invalid video id"))
				return
			}
			videosCol := database.OpenCollection("videos")
			if err := videosCol.FindOne(ctx, bson.M{"_id": videoID}).Err(); err != nil {
				middleware.Fail(c, utils.NotFound("Video not found"))
				return
			}
			filter["video"] = videoID
			like.Video = &videoID
		} else {
			commentID, err := bson.ObjectIDFromHex(body.Comment)
			if err != nil {
				middleware.Fail(c, utils.BadRequest("Invalid comment id"))
				return
			}
			filter["comment"] = commentID
			like.Comment = &commentID
		}

		likesCol := database.OpenCollection("likes")
		result, err := likesCol.DeleteOne(ctx, filter)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		if result.DeletedCount > 0 {
			c.JSON(http.StatusOK, utils.NewApiResponse(gin.H{"liked": false}, "Like removed"))
			return
		}

		now := time.Now().UTC()
		like.CreatedAt = now
		like.UpdatedAt = now
		if _, err := likesCol.InsertOne(ctx, like); err != nil && !utils.IsDuplicateKey(err) {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(gin.H{"liked": true}, "Like added"))
	}
}
