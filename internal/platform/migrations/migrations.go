package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the catalog schema. Adapters do not automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&productRecord{})
}

// Product schema mirrors the products Postgres adapter.
type productRecord struct {
	ID              int64           `gorm:"primaryKey;autoIncrement;column:id"`
	Name            string          `gorm:"column:name;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric;not null"`
	QuantityInStock int64           `gorm:"column:quantity_in_stock;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }
