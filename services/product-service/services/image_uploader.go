package services

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// S3ImageUploader writes product images under prefix in the catalog bucket.
type S3ImageUploader struct {
	store  *awspkg.ObjectStore
	prefix string
}

func NewS3ImageUploader(store *awspkg.ObjectStore, prefix string) *S3ImageUploader {
	return &S3ImageUploader{store: store, prefix: prefix}
}

func (u *S3ImageUploader) Upload(ctx context.Context, productName string, img models.ImageFile) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("image %s is empty", img.Filename)
	}
	contentType := img.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(img.Data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("image %s has unsupported type %s", img.Filename, contentType)
	}

	key := fmt.Sprintf("%sproduct_img_%s_%s%s", u.prefix, Slug(productName), uuid.NewString()[:8], strings.ToLower(filepath.Ext(img.Filename)))
	return u.store.Put(ctx, key, contentType, img.Data)
}

// Slug lowercases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
