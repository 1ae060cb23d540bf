// Package reports contains the read-only projections over committed
// sales and sale items. Nothing here writes or feeds back into the
// sale engine.
package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/thogaimadan/home_ledger/internal/store"
)

type MonthTotal struct {
	Month    string          `json:"month"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity int64           `json:"quantity"`
}

type ProductMonthTotal struct {
	Month  string          `json:"month"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type LeaderboardRow struct {
	UserID uint            `json:"user_id"`
	Name   string          `json:"name"`
	Total  decimal.Decimal `json:"total"`
}

type SaleSummary struct {
	SaleID      uint            `json:"sale_id"`
	SaleDate    string          `json:"sale_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []string        `json:"items"`
}

func LifetimeTotal(ctx context.Context, db *gorm.DB, userID uint) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total_amount), 0) AS total FROM sales WHERE user_id = ?`,
		userID,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func MonthlyTotals(ctx context.Context, db *gorm.DB, userID uint) ([]MonthTotal, error) {
	var rows []MonthTotal
	err := db.WithContext(ctx).Raw(
		`SELECT substr(s.sale_date, 1, 7) AS month,
		        SUM(si.quantity * si.price_each) AS amount,
		        SUM(si.quantity) AS quantity
		 FROM sales s
		 JOIN sale_items si ON si.sale_id = s.id
		 WHERE s.user_id = ?
		 GROUP BY substr(s.sale_date, 1, 7)
		 ORDER BY month DESC`,
		userID,
	).Scan(&rows).Error
	return rows, err
}

func MonthlyByProduct(ctx context.Context, db *gorm.DB, userID uint) ([]ProductMonthTotal, error) {
	var rows []ProductMonthTotal
	err := db.WithContext(ctx).Raw(
		`SELECT substr(s.sale_date, 1, 7) AS month,
		        p.name AS name,
		        SUM(si.quantity * si.price_each) AS amount
		 FROM sales s
		 JOIN sale_items si ON si.sale_id = s.id
		 JOIN products p ON p.id = si.product_id
		 WHERE s.user_id = ?
		 GROUP BY substr(s.sale_date, 1, 7), p.name
		 ORDER BY month DESC, name ASC`,
		userID,
	).Scan(&rows).Error
	return rows, err
}

// Leaderboard exposes every user's name and lifetime total, nothing
// more. Users with no sales appear with a zero total.
func Leaderboard(ctx context.Context, db *gorm.DB) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := db.WithContext(ctx).Raw(
		`SELECT u.id AS user_id,
		        u.name AS name,
		        COALESCE(SUM(s.total_amount), 0) AS total
		 FROM users u
		 LEFT JOIN sales s ON s.user_id = u.id
		 GROUP BY u.id, u.name
		 ORDER BY total DESC, name ASC`,
	).Scan(&rows).Error
	return rows, err
}

// PreviousSales lists the caller's sales newest first, each with its
// "Name xQty" line summaries.
func PreviousSales(ctx context.Context, db *gorm.DB, userID uint) ([]SaleSummary, error) {
	sales, err := store.ForUser(db, userID).Sales(ctx)
	if err != nil {
		return nil, err
	}

	var lines []struct {
		SaleID   uint
		Name     string
		Quantity int
	}
	if err := db.WithContext(ctx).Raw(
		`SELECT si.sale_id AS sale_id, p.name AS name, si.quantity AS quantity
		 FROM sale_items si
		 JOIN sales s ON s.id = si.sale_id
		 JOIN products p ON p.id = si.product_id
		 WHERE s.user_id = ?
		 ORDER BY si.id ASC`,
		userID,
	).Scan(&lines).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint][]string, len(sales))
	for _, line := range lines {
		byID[line.SaleID] = append(byID[line.SaleID], fmt.Sprintf("%s x%d", line.Name, line.Quantity))
	}

	out := make([]SaleSummary, 0, len(sales))
	for _, s := range sales {
		out = append(out, SaleSummary{
			SaleID:      s.ID,
			SaleDate:    s.SaleDate,
			TotalAmount: s.TotalAmount,
			Items:       byID[s.ID],
		})
	}
	return out, nil
}
