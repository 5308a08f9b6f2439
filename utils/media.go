package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/streamhive/streamhive-backend/models"
)

// MediaStore relays binary assets to an external object store. Upload
// returns a stable {publicId, url} pair; Delete removes by publicId.
// Failures propagate to callers, which translate them to 500s.
type MediaStore interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*models.MediaRef, error)
	Delete(ctx context.Context, publicID string) error
}

// NewMediaStoreFromEnv picks the provider via MEDIA_PROVIDER ("r2" or
// "gcs"); R2 is the default.
func NewMediaStoreFromEnv(ctx context.Context) (MediaStore, error) {
	switch strings.ToLower(os.Getenv("MEDIA_PROVIDER")) {
	case "", "r2":
		return NewR2MediaStore(ctx)
	case "gcs":
		return NewGCSMediaStore(ctx)
	default:
		return nil, fmt.Errorf("unknown MEDIA_PROVIDER %q", os.Getenv("MEDIA_PROVIDER"))
	}
}

type FileValidator struct {
	allowedExt  map[string]bool
	mimePrefix  []string
	allowedMime map[string]bool
	maxSize     int64
}

// NewImageOrVideoValidator accepts image/* and video/* uploads up to
// MAX_UPLOAD_SIZE_MB (default 100). ALLOWED_FILE_EXTENSIONS and
// ALLOWED_FILE_MIME_TYPES narrow the defaults when set; a mime entry
// ending in "/" matches as a prefix.
func NewImageOrVideoValidator() *FileValidator {
	allowedExt := make(map[string]bool)
	for _, ext := range strings.Split(os.Getenv("ALLOWED_FILE_EXTENSIONS"), ",") {
		if ext = strings.TrimSpace(strings.ToLower(ext)); ext != "" {
			allowedExt[ext] = true
		}
	}
	if len(allowedExt) == 0 {
		for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".mp4", ".webm", ".mov"} {
			allowedExt[ext] = true
		}
	}

	allowedMime := make(map[string]bool)
	var mimePrefix []string
	for _, m := range strings.Split(os.Getenv("ALLOWED_FILE_MIME_TYPES"), ",") {
		if m = strings.TrimSpace(strings.ToLower(m)); m != "" {
			if strings.HasSuffix(m, "/") {
				mimePrefix = append(mimePrefix, m)
			} else {
				allowedMime[m] = true
			}
		}
	}
	if len(allowedMime) == 0 && len(mimePrefix) == 0 {
		mimePrefix = []string{"image/", "video/"}
	}

	sizeMB := 100
	if v := os.Getenv("MAX_UPLOAD_SIZE_MB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			sizeMB = parsed
		}
	}

	return &FileValidator{
		allowedExt:  allowedExt,
		allowedMime: allowedMime,
		mimePrefix:  mimePrefix,
		maxSize:     int64(sizeMB) << 20,
	}
}

func (v *FileValidator) ValidateFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > v.maxSize {
		return "", fmt.Errorf("file too large (max %d MB)", v.maxSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !v.allowedExt[ext] {
		return "", fmt.Errorf("invalid file extension")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	if _, err = file.Read(buffer); err != nil {
		return "", fmt.Errorf("failed to read file header")
	}
	if _, err = file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("failed to reset file reader")
	}

	detectedMime := strings.ToLower(http.DetectContentType(buffer))
	if v.allowedMime[detectedMime] {
		return detectedMime, nil
	}
	for _, prefix := range v.mimePrefix {
		if strings.HasPrefix(detectedMime, prefix) {
			return detectedMime, nil
		}
	}
	return "", fmt.Errorf("invalid file type")
}
