package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Brand struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"unique;not null"      json:"name"`
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"unique;not null"      json:"name"`
}

type Product struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"               json:"id"`
	Name         string     `gorm:"not null"                           json:"name"`
	Description  string     `gorm:"not null"                           json:"description"`
	ListedPrice  float64    `gorm:"not null"                           json:"listed_price"`
	SellingPrice float64    `gorm:"not null"                           json:"selling_price"`
	NoSold       int        `gorm:"not null"                           json:"no_sold"`
	Stock        int        `gorm:"not null"                           json:"stock"`
	Active       bool       `gorm:"not null;index"                     json:"active"`
	BrandID      uuid.UUID  `gorm:"type:uuid;not null;index"           json:"brand_id"`
	Brand        Brand      `json:"brand"`
	Categories   []Category `gorm:"many2many:product_categories"       json:"categories"`
	ImagePaths   ImagePaths `json:"image_paths"`
	CreatedAt    time.Time  `gorm:"index"                              json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (b *Brand) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ImagePaths is a Postgres text[] column; other dialects keep the array literal in a text column.
type ImagePaths []string

func (p ImagePaths) Value() (driver.Value, error) {
	return pq.StringArray(p).Value()
}

func (p *ImagePaths) Scan(src any) error {
	return (*pq.StringArray)(p).Scan(src)
}

func (ImagePaths) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func All() []any {
	return []any{&Brand{}, &Category{}, &Product{}}
}
