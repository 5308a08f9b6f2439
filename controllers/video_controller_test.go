package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/streamhive/streamhive-backend/middleware"
	"github.com/streamhive/streamhive-backend/models"
	"github.com/streamhive/streamhive-backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func videoRouter(store utils.MediaStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	v := utils.NewImageOrVideoValidator()

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/videos", func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.User{ID: bson.NewObjectID()})
	}, PublishVideo(store, v))
	return r
}

func publishForm(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func validPublishFields() map[string]string {
	return map[string]string{
		"title":       "My first video",
		"description": "A description",
		"duration":    "12.5",
		"category":    "music",
	}
}

func TestPublishVideoRequiresVideoFile(t *testing.T) {
	r := videoRouter(&fakeMediaStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, publishForm(t, validPublishFields(), nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Video file is required", envelopeMessage(t, w))
}

func TestPublishVideoRequiresThumbnail(t *testing.T) {
	r := videoRouter(&fakeMediaStore{})

	pngSig := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, publishForm(t, validPublishFields(), map[string][]byte{"videoFile": pngSig}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Thumbnail is required", envelopeMessage(t, w))
}

func TestPublishVideoRejectsMissingMetadata(t *testing.T) {
	r := videoRouter(&fakeMediaStore{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, publishForm(t, map[string]string{"title": "My first video"}, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
