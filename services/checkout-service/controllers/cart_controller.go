package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/middleware"
)

func (cc *CheckoutController) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cart, svcErr := cc.service.GetCart(c.Request.Context(), userID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CheckoutController) AddItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	var line models.CartLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid cart item", "details": err.Error()})
		return
	}
	cart, svcErr := cc.service.AddItem(c.Request.Context(), userID, line)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/:productId?weight=250g.
func (cc *CheckoutController) RemoveItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cart, svcErr := cc.service.RemoveItem(c.Request.Context(), userID, c.Param("productId"), c.Query("weight"))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (cc *CheckoutController) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	if svcErr := cc.service.ClearCart(c.Request.Context(), userID); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
