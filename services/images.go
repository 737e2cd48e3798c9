package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const (
	MaxImageSize = 5 << 20
	MaxImages    = 10
)

// allowedImageTypes maps sniffed content types to the extension stored in the key.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Upload is an image received from a client, fully read into memory.
type Upload struct {
	Filename string
	Data     []byte
}

// ContentType sniffs the upload rather than trusting the client header.
func (u Upload) ContentType() string {
	return http.DetectContentType(u.Data)
}

// ValidateImage enforces the size limit and the jpg/png/webp allow-list.
func ValidateImage(u Upload) error {
	if len(u.Data) == 0 {
		return errs.NewInvalidFieldError("images", fmt.Sprintf("File %q is empty", u.Filename))
	}
	if len(u.Data) > MaxImageSize {
		return errs.NewMaxBodySizeExceededError(MaxImageSize)
	}
	if _, ok := allowedImageTypes[u.ContentType()]; !ok {
		return errs.NewUnsupportedMediaTypeError(u.ContentType(), []string{"jpg", "jpeg", "png", "webp"})
	}
	return nil
}

type ImageStore interface {
	Store(ctx context.Context, folder string, upload Upload) (models.Image, error)
	Delete(ctx context.Context, key string) error
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps uploads in an S3 compatible bucket.
type S3ImageStore struct {
	client  objectAPI
	bucket  string
	baseURL string
}

// NewS3ImageStore builds a store from cfg. Without a bucket the store is still returned, and
// every call fails with a configuration error.
func NewS3ImageStore(ctx context.Context, cfg config.StorageConfig) (*S3ImageStore, error) {
	if !cfg.Enabled() {
		return &S3ImageStore{}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ImageStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
	}, nil
}

func publicBaseURL(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func imageKey(folder string, upload Upload, now time.Time) string {
	ext := allowedImageTypes[upload.ContentType()]
	if ext == "" {
		ext = strings.ToLower(path.Ext(upload.Filename))
	}
	return fmt.Sprintf("portfolio/%s/%d/%02d/%s%s", folder, now.Year(), now.Month(), uuid.New(), ext)
}

func (s *S3ImageStore) Store(ctx context.Context, folder string, upload Upload) (models.Image, error) {
	if s.client == nil {
		return models.Image{}, errs.NewConfigError("S3_BUCKET is not set", nil)
	}

	key := imageKey(folder, upload, time.Now())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(upload.Data),
		ContentType: aws.String(upload.ContentType()),
	})
	if err != nil {
		return models.Image{}, errs.NewStorageError("upload image", err)
	}

	return models.Image{URL: s.baseURL + "/" + key, Key: key}, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	if s.client == nil {
		return errs.NewConfigError("S3_BUCKET is not set", nil)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewStorageError("delete image", err)
	}
	return nil
}

// StoreImages stores every upload in order. If one fails, the images already stored in this
// call are cleaned up and the error is returned.
func StoreImages(ctx context.Context, store ImageStore, folder string, uploads []Upload, logger zerolog.Logger) ([]models.Image, error) {
	images := make([]models.Image, 0, len(uploads))
	for _, upload := range uploads {
		img, err := store.Store(ctx, folder, upload)
		if err != nil {
			CleanupImages(ctx, store, images, logger)
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// CleanupImages deletes stored images on a best-effort basis: each failure is logged as a
// warning and skipped. It returns how many deletions failed.
func CleanupImages(ctx context.Context, store ImageStore, images []models.Image, logger zerolog.Logger) int {
	failed := 0
	for _, key := range models.ImageKeys(images) {
		if err := store.Delete(ctx, key); err != nil {
			failed++
			logger.Warn().Err(err).Str("key", key).Msg("could not delete stored image, leaving it orphaned")
		}
	}
	return failed
}
