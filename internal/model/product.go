package model

import (
	"time"

	"gorm.io/gorm"
)

// Product types
const (
	ProductTypeJar = "jar"
	ProductTypeBox = "box"
)

// Product represents a supplier-scoped catalog item
type Product struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	SupplierID    uint           `json:"supplier_id" gorm:"index;not null"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null"`
	Description   string         `json:"description" gorm:"type:text"`
	Type          string         `json:"type" gorm:"type:varchar(10);not null"` // jar or box
	Size          string         `json:"size" gorm:"type:varchar(50)"`          // e.g. '20L', '250ml'
	Brand         string         `json:"brand" gorm:"type:varchar(100)"`
	Price         float64        `json:"price" gorm:"not null"`
	StockQuantity int            `json:"stock_quantity" gorm:"default:0"`
	MinStockLevel int            `json:"min_stock_level" gorm:"default:10"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsLowStock reports whether stock has fallen to or below the minimum level
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// IsOutOfStock reports whether the product has no stock left
func (p *Product) IsOutOfStock() bool {
	return p.StockQuantity <= 0
}
