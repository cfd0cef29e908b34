package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/product-catalog-gateway/internal/domains/products/domain"
	"github.com/Apurer/product-catalog-gateway/internal/domains/products/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM. Identifiers come from the table sequence.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product aggregate to a relational table. Price is an unconstrained
// numeric so any decimal the domain accepts is stored without rounding.
type productRecord struct {
	ID              int64           `gorm:"primaryKey;autoIncrement;column:id"`
	Name            string          `gorm:"column:name;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric;not null"`
	QuantityInStock int64           `gorm:"column:quantity_in_stock;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Create inserts a product, letting the database assign the identifier. The returned product is
// read back from the inserted row.
func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	record.ID = 0
	if err := r.db.WithContext(ctx).Clauses(clause.Returning{}).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// Update rewrites the mutable columns in a single statement.
func (r *Repository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":              product.Name,
			"price":             product.Price,
			"quantity_in_stock": product.QuantityInStock,
			"updated_at":        gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, product.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all products ordered by identifier, which matches insertion order.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:              product.ID,
		Name:            product.Name,
		Price:           product.Price,
		QuantityInStock: product.QuantityInStock,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:              r.ID,
		Name:            r.Name,
		Price:           r.Price,
		QuantityInStock: r.QuantityInStock,
	}
}
