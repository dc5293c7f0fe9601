package models

import "github.com/google/uuid"

// Category groups products inside a store. Categories may nest one
// level through ParentCategoryID.
type Category struct {
	BaseModel
	Name             string     `gorm:"uniqueIndex" json:"name"`
	Description      string     `json:"description"`
	ParentCategoryID *uuid.UUID `gorm:"type:uuid" json:"parent_category_id"`
	ParentCategory   *Category  `json:"parent_category,omitempty"`
	StoreID          *uuid.UUID `gorm:"type:uuid;index" json:"store_id"`
	Products         []Product  `json:"products,omitempty"`
}
