package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/services"
)

const (
	MaxUploadSize = 50 * 1024 * 1024 // 50MB
	MaxImageSize  = 5 * 1024 * 1024
)

var (
	feedExtensions = map[string]string{
		".csv":  services.FormatCSV,
		".txt":  services.FormatCSV,
		".xlsx": services.FormatXLSX,
	}

	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
)

// CreateProductRequest is the JSON body for creating one product.
type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"gt=0"`
	Category      string  `json:"category"`
	Image         string  `json:"image" validate:"omitempty,url"`
	Stock         int     `json:"stock" validate:"gte=0"`
	Featured      bool    `json:"featured"`
	DefaultWeight string  `json:"defaultWeight"`
	ShelfLife     string  `json:"shelfLife"`
	DeliveryTime  string  `json:"deliveryTime"`
}

func (r CreateProductRequest) record() models.ProductRecord {
	return models.ProductRecord{
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		Price:         r.Price,
		Category:      r.Category,
		Image:         r.Image,
		Stock:         r.Stock,
		Featured:      r.Featured,
		DefaultWeight: r.DefaultWeight,
		ShelfLife:     r.ShelfLife,
		DeliveryTime:  r.DeliveryTime,
	}
}

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Struct runs the struct tags and flattens failures to field: tag pairs.
func (rv *RequestValidator) Struct(v interface{}) map[string]string {
	err := rv.validate.Struct(v)
	if err == nil {
		return nil
	}
	out := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			out[strings.ToLower(fe.Field()[:1])+fe.Field()[1:]] = fe.Tag()
		}
		return out
	}
	out["_"] = err.Error()
	return out
}

// FeedFormat returns the catalog format for an uploaded file.
func (rv *RequestValidator) FeedFormat(file *multipart.FileHeader) (string, error) {
	format, ok := feedExtensions[strings.ToLower(filepath.Ext(file.Filename))]
	if !ok {
		return "", fmt.Errorf("invalid file type. Only CSV or XLSX files are allowed")
	}
	if file.Size > MaxUploadSize {
		return "", fmt.Errorf("file too large (max %dMB)", MaxUploadSize/(1024*1024))
	}
	return format, nil
}

// IsValidImageType checks the declared content type, then the extension.
func (rv *RequestValidator) IsValidImageType(file *multipart.FileHeader) bool {
	if allowedImageTypes[file.Header.Get("Content-Type")] {
		return true
	}
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return true
	}
	return false
}

// ReadImages loads uploaded images into memory.
func (rv *RequestValidator) ReadImages(files []*multipart.FileHeader) ([]models.ImageFile, error) {
	images := make([]models.ImageFile, 0, len(files))
	for _, fh := range files {
		if !rv.IsValidImageType(fh) {
			return nil, fmt.Errorf("invalid image type for file %s. Allowed: jpeg, jpg, png, webp, gif", fh.Filename)
		}
		if fh.Size > MaxImageSize {
			return nil, fmt.Errorf("image %s too large (max %dMB)", fh.Filename, MaxImageSize/(1024*1024))
		}
		data, err := readFileHeader(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, models.ImageFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s", fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s", fh.Filename)
	}
	return data, nil
}
