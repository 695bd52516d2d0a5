package controllers

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/catalogcsv"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductController serves the catalog: listing, creation and export.
type ProductController struct {
	catalog   CatalogAPI
	cache     *CacheManager
	validator *RequestValidator
	timeout   time.Duration
}

func NewProductController(catalog CatalogAPI, cache *CacheManager, validator *RequestValidator) *ProductController {
	return &ProductController{
		catalog:   catalog,
		cache:     cache,
		validator: validator,
		timeout:   DefaultContextTimeout,
	}
}

// GetProducts lists the catalog, served from cache when possible.
func (pc *ProductController) GetProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	if products, ok := pc.cache.GetProductList(ctx); ok {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
		return
	}

	products, err := pc.catalog.ListAll(ctx)
	if err != nil {
		logger.FromGin(c).Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}
	if products == nil {
		products = []models.ProductRecord{}
	}
	pc.cache.SetProductListAsync(products)
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	product, serr := pc.catalog.GetProduct(ctx, c.Param("id"))
	if serr != nil {
		c.JSON(serr.StatusCode, gin.H{"error": serr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct answers {success, data | error}. Rejections are 422.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.CreateResult{Error: "Invalid request body"})
		return
	}
	if fields := pc.validator.Struct(req); fields != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "Validation failed", "fields": fields})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	res, err := pc.catalog.CreateProduct(ctx, req.record())
	if err != nil {
		logger.FromGin(c).Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.CreateResult{Error: "Failed to create product"})
		return
	}
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	if err := pc.cache.Invalidate(ctx); err != nil {
		logger.FromGin(c).Error("CRITICAL: Failed to invalidate cache", zap.Error(err))
	}
	c.JSON(http.StatusCreated, res)
}

// ExportProducts downloads the catalog as CSV (default) or XLSX.
func (pc *ProductController) ExportProducts(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", services.FormatCSV))
	if format != services.FormatCSV && format != services.FormatXLSX {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pc.timeout)
	defer cancel()

	products, err := pc.catalog.ListAll(ctx)
	if err != nil {
		logger.FromGin(c).Error("Failed to load products for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export products"})
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == services.FormatXLSX {
		contentType = xlsxContentType
		err = catalogcsv.WriteXLSX(&buf, products)
	} else {
		err = catalogcsv.Write(&buf, products)
	}
	if err != nil {
		logger.FromGin(c).Error("Failed to encode export", zap.String("format", format), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export products"})
		return
	}

	filename := "products_" + time.Now().UTC().Format("20060102") + "." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
