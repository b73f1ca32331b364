package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"go-commerce-api/internal/container"
	handlers "go-commerce-api/internal/interface/http"
	"go-commerce-api/internal/interface/middleware"
	"go-commerce-api/pkg/helpers"
)

// CatalogModule wires product, category and brand routes. Listing, reads and
// search are public; every write requires an authenticated session.
type CatalogModule struct {
	Products   *handlers.ProductHandler
	Categories *handlers.CollectionHandler
	Brands     *handlers.CollectionHandler
	JWT        *helpers.JWTManager
}

func NewCatalogModule(products *handlers.ProductHandler, categories, brands *handlers.CollectionHandler, jwt *helpers.JWTManager) *CatalogModule {
	return &CatalogModule{Products: products, Categories: categories, Brands: brands, JWT: jwt}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	publicLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP())

	rg.GET("/products", publicLimiter, m.Products.List)
	rg.GET("/products/search", publicLimiter, m.Products.Search)
	rg.GET("/products/:id", publicLimiter, m.Products.Get)
	rg.GET("/categories", publicLimiter, m.Categories.List)
	rg.GET("/brands", publicLimiter, m.Brands.List)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/products", m.Products.Create)
		auth.PUT("/products/:id", m.Products.Update)
		auth.DELETE("/products/:id", m.Products.Delete)

		auth.POST("/categories", m.Categories.Create)
		auth.PUT("/categories/:id", m.Categories.Update)
		auth.DELETE("/categories/:id", m.Categories.Delete)

		auth.POST("/brands", m.Brands.Create)
		auth.PUT("/brands/:id", m.Brands.Update)
		auth.DELETE("/brands/:id", m.Brands.Delete)
	}
}
