package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	jpegBytes = append([]byte("\xff\xd8\xff\xe0"), make([]byte, 32)...)
	gifBytes  = append([]byte("GIF89a"), make([]byte, 32)...)
)

type fakeObjects struct {
	puts      []string
	deletes   []string
	putErr    error
	deleteErr error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(Upload{Filename: "a.png", Data: pngBytes}))
	assert.NoError(t, ValidateImage(Upload{Filename: "a.jpg", Data: jpegBytes}))

	err := ValidateImage(Upload{Filename: "a.gif", Data: gifBytes})
	assert.Equal(t, 415, errs.StatusCode(err))

	err = ValidateImage(Upload{Filename: "big.png", Data: append(pngBytes, make([]byte, MaxImageSize)...)})
	assert.Equal(t, 413, errs.StatusCode(err))

	assert.True(t, errs.IsInvalidFieldError(ValidateImage(Upload{Filename: "empty.png"})))
}

func TestS3ImageStoreStore(t *testing.T) {
	objects := &fakeObjects{}
	store := &S3ImageStore{client: objects, bucket: "media", baseURL: "https://cdn.example.com"}

	img, err := store.Store(context.Background(), "projects", Upload{Filename: "shot.png", Data: pngBytes})
	require.NoError(t, err)

	require.Len(t, objects.puts, 1)
	assert.Equal(t, objects.puts[0], img.Key)
	assert.True(t, strings.HasPrefix(img.Key, "portfolio/projects/"))
	assert.True(t, strings.HasSuffix(img.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+img.Key, img.URL)
}

func TestS3ImageStoreWithoutBucket(t *testing.T) {
	store, err := NewS3ImageStore(context.Background(), config.StorageConfig{})
	require.NoError(t, err)

	_, err = store.Store(context.Background(), "blogs", Upload{Data: pngBytes})
	assert.True(t, errs.IsConfigError(err))
	assert.True(t, errs.IsConfigError(store.Delete(context.Background(), "k")))
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(config.StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com"}))
	assert.Equal(t, "http://localhost:9000/b", publicBaseURL(config.StorageConfig{Bucket: "b", Endpoint: "http://localhost:9000/"}))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", publicBaseURL(config.StorageConfig{Bucket: "b", Region: "eu-west-1"}))
}

// memoryStore is an ImageStore whose deletes can be made to fail per key.
type memoryStore struct {
	stored    []models.Image
	deleted   []string
	failStore int
	failKeys  map[string]bool
}

func (m *memoryStore) Store(_ context.Context, folder string, u Upload) (models.Image, error) {
	if m.failStore > 0 && len(m.stored)+1 == m.failStore {
		return models.Image{}, errs.NewStorageError("upload image", errors.New("bucket full"))
	}
	img := models.Image{URL: "https://cdn/" + folder + "/" + u.Filename, Key: folder + "/" + u.Filename}
	m.stored = append(m.stored, img)
	return img, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	if m.failKeys[key] {
		return errs.NewStorageError("delete image", errors.New("denied"))
	}
	m.deleted = append(m.deleted, key)
	return nil
}

func TestCleanupImagesIsBestEffort(t *testing.T) {
	store := &memoryStore{failKeys: map[string]bool{"p/2.png": true}}
	images := []models.Image{{Key: "p/1.png"}, {Key: "p/2.png"}, {Key: "p/3.png"}, {URL: "no-key"}}

	failed := CleanupImages(context.Background(), store, images, zerolog.Nop())

	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"p/1.png", "p/3.png"}, store.deleted)
}

func TestStoreImagesRollsBackOnFailure(t *testing.T) {
	store := &memoryStore{failStore: 3}
	uploads := []Upload{{Filename: "1.png"}, {Filename: "2.png"}, {Filename: "3.png"}}

	_, err := StoreImages(context.Background(), store, "projects", uploads, zerolog.Nop())

	assert.True(t, errs.IsStorageError(err))
	assert.Equal(t, []string{"projects/1.png", "projects/2.png"}, store.deleted)
}
