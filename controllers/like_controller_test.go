package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/streamhive/streamhive-backend/middleware"
	"github.com/streamhive/streamhive-backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func likeRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/toggle", func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.User{ID: bson.NewObjectID()})
	}, ToggleLike())
	return r
}

func TestToggleLikeRequiresExactlyOneTarget(t *testing.T) {
	r := likeRouter()

	w := postJSON(r, "/toggle", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Like must refer to either a video or a comment", envelopeMessage(t, w))

	w = postJSON(r, "/toggle", map[string]string{
		"video":   bson.NewObjectID().Hex(),
		"comment": bson.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Like cannot refer to both a video and a comment", envelopeMessage(t, w))
}

func TestToggleLikeInvalidVideoID(t *testing.T) {
	r := likeRouter()

	w := postJSON(r, "/toggle", map[string]string{"video": "not-an-object-id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
