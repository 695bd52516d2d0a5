package aws

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the subset of the S3 API used to store catalog images.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client creates a new S3 client from AWS config. Path-style addressing is
// forced when a local endpoint is configured.
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if LocalEndpoint() != "" {
			o.UsePathStyle = true
		}
	})
}

// ObjectStore writes objects to a single bucket and builds their public URLs.
type ObjectStore struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

// NewObjectStore returns a store for bucket. baseURL is the public prefix
// objects are served from; when empty the virtual-hosted S3 URL is used.
func NewObjectStore(client ObjectPutter, bucket, region, baseURL string) *ObjectStore {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &ObjectStore{client: client, bucket: bucket, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Put uploads data under key and returns the public URL of the object.
func (s *ObjectStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("s3 bucket not configured")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(s.bucket),
		Key:         sdkaws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: sdkaws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s/%s failed: %w", s.bucket, key, err)
	}
	return s.URL(key), nil
}

// URL returns the public URL for key.
func (s *ObjectStore) URL(key string) string {
	return s.baseURL + "/" + strings.TrimPrefix(key, "/")
}
