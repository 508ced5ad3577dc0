package seeders

import (
	"gorm.io/gorm"

	"shopstream/app/models"
)

func init() {
	Register("products", SeedProducts)
}

func ptr(f float64) *float64 { return &f }

// SeedProducts fills an empty catalog with a browsable starter set.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // never stomp an existing catalog
	}

	rows := []models.Product{
		{Title: "Classic Cotton Tee", Price: 19.99, OriginalPrice: ptr(24.99), DiscountPercentage: 20, Category: "tshirts", Stock: 120, Rating: 4.3, RatingCount: 212, SKU: "TEE-001", Description: "Everyday crew neck in heavyweight cotton."},
		{Title: "Oversized Graphic Tee", Price: 24.99, Category: "tshirts", Stock: 80, Rating: 4.1, RatingCount: 96, SKU: "TEE-002", Description: "Boxy fit with a back print."},
		{Title: "Selvedge Denim Jacket", Price: 129.00, Category: "jackets", Stock: 25, Rating: 4.7, RatingCount: 58, SKU: "JKT-001", Description: "Raw denim trucker jacket."},
		{Title: "Hooded Windbreaker", Price: 89.00, OriginalPrice: ptr(110), DiscountPercentage: 19, Category: "jackets", Stock: 40, Rating: 4.4, RatingCount: 131, SKU: "JKT-002", Description: "Packable ripstop shell."},
		{Title: "Merino Wool Scarf", Price: 34.50, Category: "accessories", Stock: 60, Rating: 4.8, RatingCount: 44, SKU: "ACC-001", Description: "Lightweight merino in a herringbone weave."},
		{Title: "Canvas Tote", Price: 22.00, Category: "accessories", Stock: 150, Rating: 4.0, RatingCount: 310, SKU: "ACC-002", Description: "18oz canvas with an interior pocket."},
	}

	return db.Create(&rows).Error
}
