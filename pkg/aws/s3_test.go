package aws

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPutter struct {
	bucket, key, contentType string
	body                     []byte
}

func (r *recordingPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	r.bucket = *in.Bucket
	r.key = *in.Key
	r.contentType = *in.ContentType
	r.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestObjectStore_Put(t *testing.T) {
	rec := &recordingPutter{}
	store := NewObjectStore(rec, "catalog-images", "ap-south-1", "")

	url, err := store.Put(context.Background(), "products/kaju-katli.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "https://catalog-images.s3.ap-south-1.amazonaws.com/products/kaju-katli.jpg", url)
	assert.Equal(t, "catalog-images", rec.bucket)
	assert.Equal(t, "products/kaju-katli.jpg", rec.key)
	assert.Equal(t, "image/jpeg", rec.contentType)
	assert.Equal(t, []byte("jpeg"), rec.body)
}

func TestObjectStore_CustomBaseURL(t *testing.T) {
	store := NewObjectStore(&recordingPutter{}, "b", "r", "http://localhost:4566/b/")
	assert.Equal(t, "http://localhost:4566/b/x.png", store.URL("/x.png"))
}

func TestObjectStore_MissingBucket(t *testing.T) {
	store := NewObjectStore(&recordingPutter{}, "", "r", "http://cdn")
	_, err := store.Put(context.Background(), "k", "image/png", nil)
	assert.Error(t, err)
}
