package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/auth"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/controllers"
)

// RegisterRoutes wires catalog reads publicly and catalog writes, bulk
// import and export behind an admin token.
func RegisterRoutes(r *gin.Engine, pc *controllers.ProductController, bh *controllers.BulkImportHandler, verifier *auth.Verifier) {
	products := r.Group("/products")
	{
		products.GET("", pc.GetProducts)
		products.GET("/:id", pc.GetProductByID)
	}

	admin := r.Group("/products", middleware.RequireAuth(verifier), middleware.AdminOnly())
	{
		admin.POST("", pc.CreateProduct)
		admin.GET("/export", pc.ExportProducts)
		admin.POST("/bulk", bh.CreateBulkProducts)
		admin.GET("/bulk/jobs/:id", bh.GetBulkImportJobStatus)
	}
}
