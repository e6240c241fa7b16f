// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// SetupCartRoutes sets up cart related routes. Carts work for both guest
// sessions and authenticated users, so auth is optional everywhere except
// the merge endpoint.
func SetupCartRoutes(rg *gin.RouterGroup, carts *cart.Manager, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(carts)

	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.GET("/count", cartHandler.GetCartCount)

		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)

		cartGroup.POST("/coupons", cartHandler.ApplyCoupon)
		cartGroup.DELETE("/coupons/:code", cartHandler.RemoveCoupon)
	}

	// Merge requires a real user to merge into
	merge := rg.Group("/cart/merge")
	merge.Use(middleware.AuthMiddleware(cfg))
	{
		merge.POST("", cartHandler.MergeGuestCart)
	}
}

// SetupCouponRoutes sets up coupon catalog routes
func SetupCouponRoutes(rg *gin.RouterGroup, coupons *coupon.Service, cfg *config.Config) {
	couponHandler := handlers.NewCouponHandler(coupons)

	// Public coupon preview
	rg.GET("/coupons/:code", couponHandler.GetCoupon)

	// Admin coupon management
	admin := rg.Group("/admin/coupons")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("", couponHandler.ListCoupons)
		admin.POST("", couponHandler.CreateCoupon)
		admin.DELETE("/:code", couponHandler.DeactivateCoupon)
	}
}

// SetupRoutes sets up all application routes
func SetupRoutes(rg *gin.RouterGroup, carts *cart.Manager, coupons *coupon.Service, cfg *config.Config) {
	SetupCartRoutes(rg, carts, cfg)
	SetupCouponRoutes(rg, coupons, cfg)
}
