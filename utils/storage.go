package utils

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/streamhive/streamhive-backend/models"
)

// R2MediaStore stores assets in a Cloudflare R2 bucket through the S3 API.
// The object name doubles as the public id.
type R2MediaStore struct {
	s3     *s3.Client
	bucket string
	domain string
}

func NewR2MediaStore(ctx context.Context) (*R2MediaStore, error) {
	bucket := os.Getenv("R2_BUCKET")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
	endpoint := os.Getenv("R2_ENDPOINT") // https://<account-id>.r2.cloudflarestorage.com

	if bucket == "" || accessKey == "" || secretKey == "" || endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2MediaStore{
		s3:     client,
		bucket: bucket,
		domain: strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/"),
	}, nil
}

func (r *R2MediaStore) Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*models.MediaRef, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	objectName := buildObjectName(folder, fileHeader.Filename)

	_, err = r.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectName),
		Body:        file,
		ContentType: aws.String(contentTypeFor(fileHeader)),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", fileHeader.Filename, err)
	}

	return &models.MediaRef{
		PublicID: objectName,
		URL:      fmt.Sprintf("%s/%s/%s", r.domain, r.bucket, objectName),
	}, nil
}

func (r *R2MediaStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := r.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

// buildObjectName keeps names unique per folder: <folder>/<unix>-<uuid><ext>.
func buildObjectName(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%d-%s%s", folder, time.Now().UTC().Unix(), uuid.New().String(), ext)
}

func contentTypeFor(fileHeader *multipart.FileHeader) string {
	ct := fileHeader.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(fileHeader.Filename)))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}
