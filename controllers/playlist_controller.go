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
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// POST /api/v1/playlists
func CreatePlaylist() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		var body dto.CreatePlaylistDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			middleware.Fail(c, utils.BadRequest(err.Error()))
			return
		}

		isPublic := true
		if body.IsPublic != nil {
			isPublic = *body.IsPublic
		}

		now := time.Now().UTC()
		playlist := models.Playlist{
			ID:          bson.NewObjectID(),
			Name:        body.Name,
			Description: body.Description,
			Videos:      []bson.ObjectID{},
			Owner:       user.ID,
			IsPublic:    isPublic,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		playlistsCol := database.OpenCollection("playlists")
		if _, err := playlistsCol.InsertOne(ctx, playlist); err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusCreated, utils.NewApiResponse(playlist, "Playlist created successfully"))
	}
}

// GET /api/v1/playlists
func GetMyPlaylists() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		playlistsCol := database.OpenCollection("playlists")
		cursor, err := playlistsCol.Find(ctx, bson.M{"owner": user.ID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		defer cursor.Close(ctx)

		playlists := make([]models.Playlist, 0)
		for cursor.Next(ctx) {
			var p models.Playlist
			if err := cursor.Decode(&p); err != nil {
				middleware.Fail(c, err)
				return
			}
			playlists = append(playlists, p)
		}
		if err := cursor.Err(); err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(playlists, "Playlists fetched successfully"))
	}
}

func playlistVideoUpdate(c *gin.Context, update func(videoID bson.ObjectID) bson.M, message string) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
		return
	}

	playlistID, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		middleware.Fail(c, utils.BadRequest("Invalid playlist id"))
		return
	}
	videoID, err := bson.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		middleware.Fail(c, utils.BadRequest("Invalid video id"))
		return
	}

	playlistsCol := database.OpenCollection("playlists")
	var playlist models.Playlist
	err = playlistsCol.FindOneAndUpdate(ctx,
		bson.M{"_id": playlistID, "owner": user.ID},
		update(videoID),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&playlist)
	if err != nil {
		middleware.Fail(c, utils.NotFound("Playlist not found"))
		return
	}

	c.JSON(http.StatusOK, utils.NewApiResponse(playlist, message))
}

// PATCH /api/v1/playlists/:id/videos/:videoId
func AddVideoToPlaylist() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		videoID, err := bson.ObjectIDFromHex(c.Param("videoId"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid video id"))
			return
		}
		videosCol := database.OpenCollection("videos")
		if err := videosCol.FindOne(ctx, bson.M{"_id": videoID}).Err(); err != nil {
			middleware.Fail(c, utils.NotFound("Video not found"))
			return
		}

		playlistVideoUpdate(c, func(id bson.ObjectID) bson.M {
			return bson.M{
				"$addToSet": bson.M{"videos": id},
				"$set":      bson.M{"updatedAt": time.Now().UTC()},
			}
		}, "Video added to playlist")
	}
}

// DELETE /api/v1/playlists/:id/videos/:videoId
func RemoveVideoFromPlaylist() gin.HandlerFunc {
	return func(c *gin.Context) {
		playlistVideoUpdate(c, func(id bson.ObjectID) bson.M {
			return bson.M{
				"$pull": bson.M{"videos": id},
				"$set":  bson.M{"updatedAt": time.Now().UTC()},
			}
		}, "Video removed from playlist")
	}
}

// DELETE /api/v1/playlists/:id
func DeletePlaylist() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, ok := middleware.CurrentUser(c)
		if !ok {
			middleware.Fail(c, utils.Unauthorized("Unauthorized access"))
			return
		}

		playlistID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			middleware.Fail(c, utils.BadRequest("Invalid playlist id"))
			return
		}

		playlistsCol := database.OpenCollection("playlists")
		result, err := playlistsCol.DeleteOne(ctx, bson.M{"_id": playlistID, "owner": user.ID})
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		if result.DeletedCount == 0 {
			middleware.Fail(c, utils.NotFound("Playlist not found"))
			return
		}

		c.JSON(http.StatusOK, utils.NewApiResponse(nil, "Playlist deleted successfully"))
	}
}
