package models

import (
	"strings"
	"time"
)

// Product is a row in the gateway's products table. Deletes are hard
// deletes, so the model carries explicit timestamp columns instead of
// gorm.Model.
type Product struct {
	ID                 uint      `gorm:"primaryKey"             json:"id"`
	Title              string    `gorm:"size:255;not null"      json:"title"`
	Price              float64   `gorm:"not null;default:0"     json:"price"`
	OriginalPrice      *float64  `json:"original_price,omitempty"`
	DiscountPercentage float64   `gorm:"default:0"              json:"discount_percentage"`
	Image              string    `gorm:"size:2048"              json:"image"`
	Rating             float64   `gorm:"default:0"              json:"rating"`
	RatingCount        int       `gorm:"default:0"              json:"rating_count"`
	Category           string    `gorm:"size:255;not null;index" json:"category"`
	Description        string    `gorm:"type:text"              json:"description"`
	Stock              int       `gorm:"not null;default:0"     json:"stock"`
	SKU                string    `gorm:"size:100"               json:"sku"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ProductDraft is the client-side input for creating a product. The
// gateway assigns ID and timestamps on insert.
type ProductDraft struct {
	Title              string   `json:"title"               validate:"required"`
	Price              float64  `json:"price"               validate:"required,numeric,gte=0"`
	OriginalPrice      *float64 `json:"original_price"      validate:"nullable,gte=0"`
	DiscountPercentage float64  `json:"discount_percentage" validate:"between=0,100"`
	Image              string   `json:"image"               validate:"nullable,url"`
	Category           string   `json:"category"            validate:"required"`
	Description        string   `json:"description"         validate:"nullable"`
	Stock              int      `json:"stock"               validate:"gte=0"`
	SKU                string   `json:"sku"                 validate:"nullable"`
}

// NormalizeCategory trims and lowercases a category at the write
// boundary so near-duplicate categories never accumulate.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// Row converts the draft into an unsaved Product with the category
// normalized.
func (d ProductDraft) Row() Product {
	return Product{
		Title:              strings.TrimSpace(d.Title),
		Price:              d.Price,
		OriginalPrice:      d.OriginalPrice,
		DiscountPercentage: d.DiscountPercentage,
		Image:              d.Image,
		Category:           NormalizeCategory(d.Category),
		Description:        d.Description,
		Stock:              d.Stock,
		SKU:                d.SKU,
	}
}
