package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product statuses.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
	ProductArchived = "archived"
)

type Product struct {
	BaseModel
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Brand         string          `json:"brand"`
	SKU           string          `gorm:"uniqueIndex" json:"sku"`
	Price         float64         `json:"price"`
	Discount      float64         `json:"discount"`
	Stock         int             `json:"stock"`
	Tags          pq.StringArray  `gorm:"type:text[]" json:"tags"`
	Status        string          `gorm:"default:active" json:"status"`
	AverageRating float64         `json:"average_rating"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category      *Category       `json:"category,omitempty"`
	StoreID       *uuid.UUID      `gorm:"type:uuid;index" json:"store_id"`
	Store         *Store          `json:"store,omitempty"`
	Images        []ProductImage  `json:"images,omitempty"`
	Ratings       []ProductRating `json:"ratings,omitempty"`
}

type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
}

type ProductRating struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
}
