package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prakruthi/storefront/internal/domain/identity"
	"github.com/prakruthi/storefront/internal/infrastructure/config"
	"github.com/prakruthi/storefront/internal/interfaces/http/handler"
	"github.com/prakruthi/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds the HTTP handlers of the storefront API
type Handlers struct {
	Product   *handler.ProductHandler
	Cart      *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	Order     *handler.OrderHandler
	Store     *handler.StoreHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

// Guards holds what the route-level middleware needs
type Guards struct {
	Tokens        middleware.TokenValidator
	Profiles      identity.ProfileRepository
	Cart          config.CartConfig
	MaxBodySize   int64
	MaxUploadSize int64
	Logger        *zap.Logger
}

// Register mounts the health check and the versioned storefront API
func Register(engine *gin.Engine, h Handlers, g Guards) {
	if g.Logger == nil {
		g.Logger = zap.NewNop()
	}

	engine.GET("/health", h.Health.Health)

	NewRouter(engine, WithAPIVersion("v1")).
		Register(
			CatalogRoutes(h, g),
			ShopRoutes(h, g),
			AdminRoutes(h, g),
		).
		Setup()
}

// CatalogRoutes are the public read-only routes
func CatalogRoutes(h Handlers, g Guards) *DomainGroup {
	catalog := NewDomainGroup("catalog", "")
	catalog.GET("/products", h.Product.List)
	catalog.GET("/products/:id", h.Product.GetByID)
	catalog.GET("/store", h.Store.Get)
	return catalog
}

// ShopRoutes are the session cart and checkout routes
func ShopRoutes(h Handlers, g Guards) *DomainGroup {
	shop := NewDomainGroup("shop", "").
		Use(middleware.BodyLimit(g.MaxBodySize), middleware.CartSession(g.Cart))

	shop.GET("/cart", h.Cart.Get)
	shop.DELETE("/cart", h.Cart.Clear)
	shop.POST("/cart/items", h.Cart.AddItem)
	shop.PUT("/cart/items/:key", h.Cart.UpdateQuantity)
	shop.DELETE("/cart/items/:key", h.Cart.RemoveItem)
	shop.POST("/cart/open", h.Cart.Open)
	shop.POST("/cart/close", h.Cart.Close)
	shop.POST("/cart/toggle", h.Cart.Toggle)

	shop.POST("/checkout", middleware.OptionalJWTAuth(g.Tokens), h.Checkout.PlaceOrder)
	return shop
}

// AdminRoutes require a signed-in administrator
func AdminRoutes(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").
		Use(middleware.JWTAuth(g.Tokens, g.Logger), middleware.RequireAdmin(g.Profiles, g.Logger))

	api := admin.Group("admin-api", "").Use(middleware.BodyLimit(g.MaxBodySize))
	api.GET("/dashboard", h.Dashboard.Get)

	api.GET("/orders", h.Order.List)
	api.GET("/orders/:id", h.Order.GetByID)
	api.PATCH("/orders/:id", h.Order.Update)
	api.DELETE("/orders/:id", h.Order.Delete)
	api.POST("/orders/:id/paid", h.Order.MarkPaid)
	api.POST("/orders/:id/deliver", h.Order.Deliver)
	api.POST("/orders/:id/cancel", h.Order.Cancel)
	api.PUT("/orders/:id/items", h.Order.SaveItems)
	api.PATCH("/orders/:id/items/:key", h.Order.UpdateItemQuantity)
	api.DELETE("/orders/:id/items/:key", h.Order.RemoveItem)

	api.POST("/products", h.Product.Create)
	api.PUT("/products/:id", h.Product.Update)
	api.DELETE("/products/:id", h.Product.Delete)
	api.PUT("/products/:id/variants/:variantId/stock", h.Product.UpdateVariantStock)

	api.PUT("/store", h.Store.Update)

	uploads := admin.Group("admin-uploads", "").Use(middleware.BodyLimit(g.MaxUploadSize))
	uploads.POST("/products/:id/image", h.Product.UploadImage)

	return admin
}
