package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/streamhive/streamhive-backend/models"
	"google.golang.org/api/option"
)

// GCSMediaStore stores assets in a Google Cloud Storage bucket.
type GCSMediaStore struct {
	client *storage.Client
	bucket string
}

func NewGCSMediaStore(ctx context.Context) (*GCSMediaStore, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET env var")
	}

	var opts []option.ClientOption
	if credentialsPath := os.Getenv("CREDENTIALS_FILE_LOCATION"); credentialsPath != "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}

	return &GCSMediaStore{client: client, bucket: bucket}, nil
}

func (g *GCSMediaStore) Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*models.MediaRef, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	objectName := buildObjectName(folder, fileHeader.Filename)

	w := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentTypeFor(fileHeader)
	w.CacheControl = "no-cache"

	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("upload close: %w", err)
	}

	return &models.MediaRef{
		PublicID: objectName,
		URL:      fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, objectName),
	}, nil
}

func (g *GCSMediaStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	// Older records stored the public URL instead of the object name.
	if strings.HasPrefix(publicID, "http://") || strings.HasPrefix(publicID, "https://") {
		name, err := ObjectNameFromGCSPublicURL(g.bucket, publicID)
		if err != nil {
			return err
		}
		publicID = name
	}
	if err := g.client.Bucket(g.bucket).Object(publicID).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

// ObjectNameFromGCSPublicURL recovers the object name from either public
// URL style GCS produces.
func ObjectNameFromGCSPublicURL(bucket string, raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimPrefix(u.Path, "/")

	// style 1: storage.googleapis.com/<bucket>/<object>
	if host == "storage.googleapis.com" {
		prefix := bucket + "/"
		if !strings.HasPrefix(path, prefix) {
			return "", fmt.Errorf("url bucket mismatch")
		}
		return strings.TrimPrefix(path, prefix), nil
	}

	// style 2: <bucket>.storage.googleapis.com/<object>
	if host == strings.ToLower(bucket)+".storage.googleapis.com" {
		if path == "" {
			return "", fmt.Errorf("missing object path")
		}
		return path, nil
	}

	return "", fmt.Errorf("not a gcs public url")
}
