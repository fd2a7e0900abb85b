package aws

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	objects   map[string][]byte
	deleteErr error
}

func (b *fakeBucket) Set(key string, val []byte, _ time.Duration) error {
	b.objects[key] = val
	return nil
}

func (b *fakeBucket) Delete(key string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.objects, key)
	return nil
}

func TestUploadBuildsPathAndURL(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	store := NewObjectStorage(bucket, Config{Endpoint: "http://minio:9000/", Bucket: "henalis"})

	path, url, err := store.Upload(context.Background(), "items", ".png", []byte("png"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "items/"))
	assert.True(t, strings.HasSuffix(path, ".png"))
	assert.Equal(t, "http://minio:9000/henalis/"+path, url)
	assert.Equal(t, []byte("png"), bucket.objects[path])
}

func TestURLFallsBackToRegionalHost(t *testing.T) {
	store := NewObjectStorage(&fakeBucket{}, Config{Bucket: "henalis", Region: "eu-west-1"})
	assert.Equal(t, "https://henalis.s3.eu-west-1.amazonaws.com/blog/a.jpg", store.URL("blog/a.jpg"))
}

func TestDeleteTreatsMissingObjectAsSuccess(t *testing.T) {
	bucket := &fakeBucket{deleteErr: &smithy.GenericAPIError{Code: "NoSuchKey", Message: "gone"}}
	store := NewObjectStorage(bucket, Config{})
	assert.NoError(t, store.Delete(context.Background(), "items/missing.jpg"))

	bucket.deleteErr = errors.New("connection refused")
	assert.Error(t, store.Delete(context.Background(), "items/missing.jpg"))
}
