package services

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	awspkg "github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/pkg/aws"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/catalogcsv"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	DefaultWeight = "500g"
)

// ImageUploader stores a product image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, productName string, img models.ImageFile) (string, error)
}

// ProductCreator creates one catalog product. A business rejection comes back
// as Success=false with a message; err is reserved for unexpected failures.
type ProductCreator interface {
	CreateProduct(ctx context.Context, rec models.ProductRecord) (models.CreateResult, error)
}

// BulkImporter creates products from parsed feed rows, one row at a time.
type BulkImporter struct {
	images   ImageUploader
	products ProductCreator
	metrics  *awspkg.MetricsClient
	log      *zap.Logger
}

func NewBulkImporter(images ImageUploader, products ProductCreator, metrics *awspkg.MetricsClient, log *zap.Logger) *BulkImporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &BulkImporter{images: images, products: products, metrics: metrics, log: log}
}

// ParseCatalog decodes a feed in the given format. The only errors are
// structural: unreadable data or no data rows.
func ParseCatalog(format string, data []byte) ([]catalogcsv.Row, error) {
	switch format {
	case FormatXLSX:
		return catalogcsv.ParseXLSX(bytes.NewReader(data), int64(len(data)))
	case FormatCSV, "":
		return catalogcsv.Parse(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

// ImagesByName keys uploaded images by file name without extension. The key
// must equal the product name exactly for a row to pick the image up.
func ImagesByName(files []models.ImageFile) map[string]models.ImageFile {
	out := make(map[string]models.ImageFile, len(files))
	for _, f := range files {
		base := filepath.Base(f.Filename)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		out[name] = f
	}
	return out
}

// ToProduct coerces a row into a product record. Image is left for the
// caller. featured is always false for imported rows.
func ToProduct(row catalogcsv.Row) (models.ProductRecord, error) {
	name := row.Get("name")
	if name == "" {
		return models.ProductRecord{}, fmt.Errorf("name is required")
	}
	price, err := strconv.ParseFloat(row.Get("price"), 64)
	if err != nil || price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return models.ProductRecord{}, fmt.Errorf("price must be a positive number")
	}
	stock, err := strconv.Atoi(row.Get("stock"))
	if err != nil || stock < 0 {
		stock = 0
	}
	weight := row.Get("defaultWeight")
	if weight == "" {
		weight = DefaultWeight
	}
	return models.ProductRecord{
		Name:          name,
		Description:   row.Get("description"),
		Price:         price,
		Category:      row.Get("category"),
		Stock:         stock,
		Featured:      false,
		DefaultWeight: weight,
		ShelfLife:     row.Get("shelfLife"),
		DeliveryTime:  row.Get("deliveryTime"),
	}, nil
}

// Import runs every row in order and never stops on a row failure. When ctx
// is cancelled between rows it returns the partial result with ctx.Err();
// products already created stay created.
func (b *BulkImporter) Import(ctx context.Context, rows []catalogcsv.Row, images map[string]models.ImageFile) (*models.ImportResult, error) {
	res := &models.ImportResult{Errors: []string{}}
	defer b.record(res)

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			b.log.Warn("Bulk import interrupted",
				zap.Int("processed", res.Success+res.Failed),
				zap.Int("total", len(rows)),
				zap.Error(err))
			return res, err
		}
		b.importRow(ctx, row, images, res)
	}
	return res, nil
}

func (b *BulkImporter) importRow(ctx context.Context, row catalogcsv.Row, images map[string]models.ImageFile, res *models.ImportResult) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Panic while importing row", zap.Int("row", row.Line), zap.Any("panic", r))
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: unexpected error while importing", row.Line))
		}
	}()

	rec, err := ToProduct(row)
	if err != nil {
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", row.Line, err))
		return
	}

	image, warning := b.resolveImage(ctx, rec.Name, row.Get("image"), images)
	rec.Image = image
	if warning != "" {
		res.Warnings++
		res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", row.Line, warning))
	}

	out, err := b.products.CreateProduct(ctx, rec)
	switch {
	case err != nil:
		b.log.Error("Product creation failed", zap.Int("row", row.Line), zap.String("name", rec.Name), zap.Error(err))
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("Row %d: failed to create product", row.Line))
	case !out.Success:
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", row.Line, out.Error))
	default:
		res.Success++
	}
}

// resolveImage prefers an uploaded file for the product, then an http(s) URL
// from the feed. Anything else leaves the image blank with a warning.
func (b *BulkImporter) resolveImage(ctx context.Context, name, feedImage string, images map[string]models.ImageFile) (string, string) {
	if img, ok := images[name]; ok && b.images != nil {
		url, err := b.images.Upload(ctx, name, img)
		if err != nil {
			b.log.Warn("Image upload failed", zap.String("product", name), zap.Error(err))
			return "", fmt.Sprintf("image upload failed for %q, add the image manually", name)
		}
		return url, ""
	}
	if strings.HasPrefix(feedImage, "http") {
		return feedImage, ""
	}
	return "", fmt.Sprintf("no image for %q, add it manually later", name)
}

func (b *BulkImporter) record(res *models.ImportResult) {
	importRowsTotal.WithLabelValues("created").Add(float64(res.Success))
	importRowsTotal.WithLabelValues("failed").Add(float64(res.Failed))
	importImageWarnings.Add(float64(res.Warnings))

	if !b.metrics.IsEnabled() {
		return
	}
	dims := map[string]string{"Service": "product-service"}
	if err := b.metrics.Put(context.Background(),
		b.metrics.Datum(awspkg.MetricImportRowsOK, float64(res.Success), types.StandardUnitCount, dims),
		b.metrics.Datum(awspkg.MetricImportRowsFailed, float64(res.Failed), types.StandardUnitCount, dims),
		b.metrics.Datum(awspkg.MetricImportWarnings, float64(res.Warnings), types.StandardUnitCount, dims),
	); err != nil {
		b.log.Debug("import metrics not sent", zap.Error(err))
	}
}
