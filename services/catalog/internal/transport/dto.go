package transport

import "github.com/google/uuid"

type CreateProductRequest struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	ListedPrice  float64     `json:"listed_price"`
	SellingPrice float64     `json:"selling_price"`
	Stock        int         `json:"stock"`
	Active       bool        `json:"active"`
	BrandID      uuid.UUID   `json:"brand_id"`
	CategoryIDs  []uuid.UUID `json:"category_ids"`
	ImagePaths   []string    `json:"image_paths"`
}

// PatchProductRequest leaves a field untouched when it is nil.
type PatchProductRequest struct {
	Name         *string      `json:"name"`
	Description  *string      `json:"description"`
	ListedPrice  *float64     `json:"listed_price"`
	SellingPrice *float64     `json:"selling_price"`
	Stock        *int         `json:"stock"`
	Active       *bool        `json:"active"`
	BrandID      *uuid.UUID   `json:"brand_id"`
	CategoryIDs  *[]uuid.UUID `json:"category_ids"`
	ImagePaths   *[]string    `json:"image_paths"`
}

type CreateBrandRequest struct {
	Name string `json:"name"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}
