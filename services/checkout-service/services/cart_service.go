package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
)

// GetCart returns the shopper's cart, empty when none is stored.
func (s *CheckoutService) GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		s.log.Error("failed to get cart", zap.String("user_id", userID), zap.Error(err))
		return nil, internal("Failed to get cart")
	}
	return cart, nil
}

// AddItem merges line into the cart.
func (s *CheckoutService) AddItem(ctx context.Context, userID string, line models.CartLine) (*models.Cart, *ServiceError) {
	line.ProductID = strings.TrimSpace(line.ProductID)
	if line.ProductID == "" || line.Quantity < 1 || line.Price < 0 {
		return nil, badRequest("Invalid cart item")
	}
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	cart.UserID = userID
	cart.Upsert(line)
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		s.log.Error("failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return nil, internal("Failed to save cart")
	}
	return cart, nil
}

// RemoveItem drops productID (optionally one weight variant) from the cart.
func (s *CheckoutService) RemoveItem(ctx context.Context, userID, productID, weight string) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	cart.UserID = userID
	cart.Remove(productID, weight)
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		s.log.Error("failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return nil, internal("Failed to update cart")
	}
	return cart, nil
}

func (s *CheckoutService) ClearCart(ctx context.Context, userID string) *ServiceError {
	if err := s.carts.DeleteCart(ctx, userID); err != nil {
		s.log.Error("failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return internal("Failed to clear cart")
	}
	return nil
}
