package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lovely/pkg/logging"
	"github.com/Skotchmaster/little_lovely/services/catalog/internal/service"
	"github.com/Skotchmaster/little_lovely/services/catalog/internal/transport"
)

func (h *CatalogHTTP) GetBrands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand.get_brands")

	brands, err := h.Svc.GetBrands(ctx)
	if err != nil {
		l.Error("get_brands_error", "status", 500, "reason", "cannot get brands", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get brands")
	}
	return c.JSON(http.StatusOK, brands)
}

func (h *CatalogHTTP) CreateBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand.create_brand")

	var req transport.CreateBrandRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("brand_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	brand, err := h.Svc.CreateBrand(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("brand_create_error", "status", 400, "reason", "validation failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("brand_create_error", "status", 500, "reason", "cannot add brand to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add brand to db")
	}

	l.Info("create_brand_success", "brand_id", brand.ID)
	return c.JSON(http.StatusCreated, brand)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	categories, err := h.Svc.GetCategories(ctx)
	if err != nil {
		l.Error("get_categories_error", "status", 500, "reason", "cannot get categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get categories")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("category_create_error", "status", 400, "reason", "validation failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("category_create_error", "status", 500, "reason", "cannot add category to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add category to db")
	}

	l.Info("create_category_success", "category_id", category.ID)
	return c.JSON(http.StatusCreated, category)
}
