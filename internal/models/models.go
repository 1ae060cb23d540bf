package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Product struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	UserID    uint            `gorm:"index;not null"               json:"user_id"`
	Name      string          `gorm:"not null"                     json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"price"`
	Quantity  int             `gorm:"not null;check:quantity >= 0" json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SaleDate holds the ISO calendar date (YYYY-MM-DD) the sale is booked
// under, kept textual so month bucketing works the same on postgres and
// the sqlite test database.
type Sale struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID      uint            `gorm:"index;not null"              json:"user_id"`
	SaleDate    string          `gorm:"not null;index"              json:"sale_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
}

type SaleItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	SaleID    uint            `gorm:"index;not null"              json:"sale_id"`
	ProductID uint            `gorm:"not null"                    json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceEach decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_each"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
