// Package store funnels every product and sale query through a Scope
// bound to one owning user, so the row-ownership filter lives in one
// place instead of being repeated per handler.
package store

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/thogaimadan/home_ledger/internal/models"
)

type Scope struct {
	db     *gorm.DB
	userID uint
}

// ForUser binds db access to rows owned by userID. db may be a
// transaction handle.
func ForUser(db *gorm.DB, userID uint) Scope {
	return Scope{db: db, userID: userID}
}

func (s Scope) UserID() uint {
	return s.userID
}

func (s Scope) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ?", s.userID).
		Order("updated_at DESC").
		Find(&products).Error
	return products, err
}

func (s Scope) ProductsPage(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{}).Where("user_id = ?", s.userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var products []models.Product
	if err := q.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return 0, nil, err
	}
	return total, products, nil
}

func (s Scope) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, s.userID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductMap loads the owner's full catalog in one read, keyed by id.
// The sale engine validates carts against this snapshot.
func (s Scope) ProductMap(ctx context.Context) (map[uint]models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[uint]models.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m, nil
}

func (s Scope) CreateProduct(ctx context.Context, product *models.Product) error {
	product.UserID = s.userID
	return s.db.WithContext(ctx).Create(product).Error
}

// UpdateProduct reports false when no owned row matched; the caller
// must not distinguish that from a nonexistent product.
func (s Scope) UpdateProduct(ctx context.Context, id uint, name string, price decimal.Decimal, quantity int) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND user_id = ?", id, s.userID).
		Updates(map[string]interface{}{
			"name":     name,
			"price":    price,
			"quantity": quantity,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s Scope) DeleteProduct(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, s.userID).
		Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecrementStock is the conditional decrement: it only fires when the
// remaining quantity stays non-negative, re-asserting ownership on the
// write. Zero rows affected means insufficient stock at commit time.
func (s Scope) DecrementStock(ctx context.Context, productID uint, quantity int) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND user_id = ? AND quantity >= ?", productID, s.userID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s Scope) CreateSale(ctx context.Context, sale *models.Sale) error {
	sale.UserID = s.userID
	return s.db.WithContext(ctx).Create(sale).Error
}

func (s Scope) CreateSaleItem(ctx context.Context, item *models.SaleItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s Scope) Sales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.WithContext(ctx).
		Where("user_id = ?", s.userID).
		Order("sale_date DESC, id DESC").
		Find(&sales).Error
	return sales, err
}
