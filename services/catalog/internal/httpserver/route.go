package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/little_lovely/pkg/middleware/auth"
	"github.com/Skotchmaster/little_lovely/pkg/tokens"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	JWTSecret      []byte
	AuthClient     middleware.TokenRefresher
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)
	staffOnly := authMW.RequireRole(tokens.RoleAdmin, tokens.RoleStaff)

	products := e.Group("/catalog/products")
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/active", d.CatalogHandler.GetActiveProducts)
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	manage := products.Group("", staffOnly)
	manage.POST("", d.CatalogHandler.CreateProduct)
	manage.PATCH("/:id", d.CatalogHandler.PatchProduct)
	manage.POST("/:id/activate", d.CatalogHandler.ActivateProduct)
	manage.POST("/:id/deactivate", d.CatalogHandler.DeactivateProduct)
	manage.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	brands := e.Group("/catalog/brands")
	brands.GET("", d.CatalogHandler.GetBrands)
	brands.POST("", d.CatalogHandler.CreateBrand, staffOnly)

	categories := e.Group("/catalog/categories")
	categories.GET("", d.CatalogHandler.GetCategories)
	categories.POST("", d.CatalogHandler.CreateCategory, staffOnly)
}
