package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Store is a merchant storefront owned by a user.
type Store struct {
	BaseModel
	UserID            uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	StoreName         string         `json:"store_name"`
	Address           string         `json:"address"`
	StoreFrontImage   string         `json:"store_front_image"`
	StoreLogo         string         `json:"store_logo"`
	StoreBannerImages pq.StringArray `gorm:"type:text[]" json:"store_banner_images"`
	BankName          string         `json:"bank_name"`
	IFSC              string         `json:"ifsc"`
	AccountNumber     string         `json:"account_number"`
	UPIID             string         `json:"upi_id"`
	GSTNumber         string         `json:"gst_number"`
	Products          []Product      `json:"products,omitempty"`
	Categories        []Category     `json:"categories,omitempty"`
}
