package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streamhive/streamhive-backend/database"
	"github.com/streamhive/streamhive-backend/dto"
	"github.com/streamhive/streamhive-backend/middleware"
	"github.com/streamhive/streamhive-backend/models"
	"github.com/streamhive/streamhive-backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	videoFolder     = "videos"
	thumbnailFolder = "thumbnails"

	watchHistoryLimit = 200
)

// POST /api/v1/videos
func PublishVideo(store utils.MediaStore, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		var body dto.PublishVideoDTO
		if err := c.ShouldBind(&body); err != nil {
			middleware.Fail(c, utils.BadRequest(err.Error()))
			return
		}

		videoFile, err := c.FormFile("videoFile")
		if err != nil || videoFile == nil {
			middleware.Fail(c, utils.BadRequest("Video file is required"))
			return
		}
		thumbnail, err := c.FormFile("thumbnail")
		if err != nil || thumbnail == nil {
			middleware.Fail(c, utils.BadRequest("Thumbnail is required"))
			return
		}
		if _, err := v.ValidateFile(videoFile); err != nil {
			middleware.Fail(c, utils.BadRequest(err.Error()))
			return
		}
		if _, err := v.ValidateFile(thumbnail); err != nil {
			middleware.Fail(c, utils.BadRequest(err.Error()))
			return
		}

		uploadedVideo, err := store.Upload(ctx, videoFile, videoFolder)
		if err != nil || uploadedVideo == nil {
			middleware.Fail(c, utils.InternalError("Failed to upload video"))
			return
		}
		uploadedThumb, err := store.Upload(ctx, thumbnail, thumbnailFolder)
		if err != nil || uploadedThumb == nil {
			middleware.Fail(c, utils.InternalError("Failed to upload thumbnail"))
			return
		}

		isPublished := true
		if body.IsPublished != nil {
			isPublished = *body.IsPublished
		}

		now := time.Now().UTC()
		video := models.Video{
			ID:          bson.NewObjectID(),
			VideoFile:   *uploadedVideo,
			Thumbnail:   *uploadedThumb,
			Title:       strings.TrimSpace(body.Title),
			Description: body.Description,
			Duration:    body.Duration,
			IsPublished: isPublished,
			Owner:       user.ID,
			Category:    body.Category,
			Tags:        body.Tags,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		videosCol := database.OpenCollection("videos")
		if _, err := videosCol.InsertOne(ctx, video); err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusCreated, utils.NewApiResponse(video, "Video published successfully"))
	}
}

// GET /api/v1/videos
func GetVideos() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()
		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = defaultLimit
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		skip := int64((page - 1) * limit)

		sortDoc := bson.D{{Key: "createdAt", Value: -1}}
		switch strings.TrimSpace(c.Query("sort")) {
		case "views_desc":
			sortDoc = bson.D{{Key: "views", Value: -1}}
		case "oldest":
			sortDoc = bson.D{{Key: "createdAt", Value: 1}}
		}

		filter := bson.M{"isPublished": true}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}
		if owner := strings.TrimSpace(c.Query("owner")); owner != "" {
			ownerID, err := bson.ObjectIDFromHex(owner)
			if err != nil {
				middleware.Fail(c, utils.BadRequest("Invalid owner id"))
				return
			}
			filter["owner"] = ownerID
		}

		videosCol := database.OpenCollection("videos")
		findOpts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(sortDoc)

		cursor, err := videosCol.Find(ctx, filter, findOpts)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		defer cursor.Close(ctx)

		videos := make([]models.Video, 0)
		for cursor.Next(ctx) {
			var video models.Video
			if err := cursor.Decode(&video); err != nil {
				middleware.Fail(c, err)
				return
			}
			videos = append(videos, video)
		}
		if err := cursor.Err(); err != nil {
			middleware.Fail(c, err)
			return
		}

		total, err := videosCol.CountDocuments(ctx, filter)
		if err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(gin.H{
			"items": videos,
			"page":  page,
			"limit": limit,
			"total": total,
		}, "Videos fetched successfully"))
	}
}

// GET /api/v1/videos/:id
func GetVideo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		videoID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid video id"))
			return
		}

		videosCol := database.OpenCollection("videos")
		var video models.Video
		if err := videosCol.FindOne(ctx, bson.M{"_id": videoID}).Decode(&video); err != nil {
			middleware.Fail(c, utils.NotFound("Video not found"))
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(video, "Video fetched successfully"))
	}
}

// POST /api/v1/videos/:id/watch
// Counts a view and records the video in the viewer's watch history.
func WatchVideo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		videoID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid video id"))
			return
		}

		videosCol := database.OpenCollection("videos")
		var video models.Video
		err = videosCol.FindOneAndUpdate(ctx,
			bson.M{"_id": videoID, "isPublished": true},
			bson.M{"$inc": bson.M{"views": 1}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&video)
		if err != nil {
			middleware.Fail(c, utils.NotFound("Video not found"))
			return
		}

		// Re-watching moves the entry to the front instead of duplicating it.
		usersCol := database.OpenCollection("users")
		_, err = usersCol.UpdateByID(ctx, user.ID, bson.M{
			"$pull": bson.M{"watchHistory": bson.M{"videoId": videoID}},
		})
		if err == nil {
			_, err = usersCol.UpdateByID(ctx, user.ID, bson.M{
				"$push": bson.M{"watchHistory": bson.M{
					"$each":  bson.A{models.WatchHistoryEntry{VideoID: videoID, WatchedAt: time.Now().UTC()}},
					"$slice": -watchHistoryLimit,
				}},
			})
		}
		if err != nil {
			log.Printf("record watch history for %s: %v", user.ID.Hex(), err)
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(video, "View recorded"))
	}
}

// PATCH /api/v1/videos/:id
func UpdateVideo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		videoID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid video id"))
			return
		}

		var body dto.UpdateVideoDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			middleware.Fail(c, utils.BadRequest(err.Error()))
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Title != nil {
			set["title"] = strings.TrimSpace(*body.Title)
		}
		if body.Description != nil {
			set["description"] = *body.Description
		}
		if body.Category != nil {
			set["category"] = *body.Category
		}
		if body.Tags != nil {
			set["tags"] = *body.Tags
		}
		if body.IsPublished != nil {
			set["isPublished"] = *body.IsPublished
		}
		if len(set) == 1 {
			middleware.Fail(c, utils.BadRequest("No fields to update"))
			return
		}

		videosCol := database.OpenCollection("videos")
		var video models.Video
		err = videosCol.FindOneAndUpdate(ctx,
			bson.M{"_id": videoID, "owner": user.ID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&video)
		if err != nil {
			middleware.Fail(c, utils.NotFound("Video not found"))
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(video, "Video updated successfully"))
	}
}

// DELETE /api/v1/videos/:id
func DeleteVideo(store utils.MediaStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		videoID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid video id"))
			return
		}

		videosCol := database.OpenCollection("videos")
		var video models.Video
		err = videosCol.FindOneAndDelete(ctx, bson.M{"_id": videoID, "owner": user.ID}).Decode(&video)
		if err != nil {
			middleware.Fail(c, utils.NotFound("Video not found"))
			return
		}

		// Best-effort cleanup of the stored objects and dependent records.
		for _, publicID := range []string{video.VideoFile.PublicID, video.Thumbnail.PublicID} {
			if err := store.Delete(ctx, publicID); err != nil {
				log.Printf("delete video object %s: %v", publicID, err)
			}
		}
		likesCol := database.OpenCollection("likes")
		if _, err := likesCol.DeleteMany(ctx, bson.M{"video": videoID}); err != nil {
			log.Printf("delete likes for video %s: %v", videoID.Hex(), err)
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(nil, "Video deleted successfully"))
	}
}
