package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/services"
	"gorm.io/gorm"
)

// ProductRepo reads and seeds products
type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

// UpsertProduct inserts a product or updates it by SKU
func (r *ProductRepo) UpsertProduct(ctx context.Context, p *models.Product) error {
	var existing models.Product
	err := r.db.WithContext(ctx).Where("sku = ?", p.SKU).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(p).Error
	}
	if err != nil {
		return err
	}
	p.ID = existing.ID
	return r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"name":      p.Name,
		"slug":      p.Slug,
		"category":  p.Category,
		"image_url": p.ImageURL,
		"price":     p.Price,
		"price_old": p.PriceOld,
		"quantity":  p.Quantity,
	}).Error
}
