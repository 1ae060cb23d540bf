// Package sales holds the sale transaction engine: cart validation,
// decimal total computation and the atomic persist of a sale, its
// line items and the matching stock decrements.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/thogaimadan/home_ledger/internal/models"
	"github.com/thogaimadan/home_ledger/internal/store"
)

var (
	ErrEmptyCart         = errors.New("empty cart")         // 400
	ErrUnknownProduct    = errors.New("unknown product")    // 400
	ErrInsufficientStock = errors.New("insufficient stock") // 400
	ErrInvalidDate       = errors.New("invalid sale date")  // 400
	ErrTransactionFailed = errors.New("transaction failed") // 500
)

type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type Receipt struct {
	SaleID uint            `json:"sale_id"`
	Total  decimal.Decimal `json:"total"`
}

const dateLayout = "2006-01-02"

// RecordSale validates the cart against a single snapshot of the
// owner's catalog, then persists the sale, its items and the stock
// decrements in one transaction. The decrement re-checks stock at
// write time, so two racing sales can never drive quantity negative:
// the loser's whole transaction rolls back.
func RecordSale(ctx context.Context, db *gorm.DB, userID uint, saleDate string, lines []CartLine) (*Receipt, error) {
	if saleDate == "" {
		saleDate = time.Now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, saleDate); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, saleDate)
	}

	// Zero and negative quantities are dropped, not rejected.
	cart := make([]CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity > 0 {
			cart = append(cart, line)
		}
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot, err := store.ForUser(db, userID).ProductMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	total := decimal.Zero
	for _, line := range cart {
		p, ok := snapshot[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownProduct, line.ProductID)
		}
		if p.Quantity < line.Quantity {
			return nil, fmt.Errorf("%w: not enough stock for %s", ErrInsufficientStock, p.Name)
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	sale := models.Sale{
		SaleDate:    saleDate,
		TotalAmount: total,
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		scope := store.ForUser(tx, userID)

		if err := scope.CreateSale(ctx, &sale); err != nil {
			return err
		}

		for _, line := range cart {
			p := snapshot[line.ProductID]
			item := models.SaleItem{
				SaleID:    sale.ID,
				ProductID: p.ID,
				Quantity:  line.Quantity,
				PriceEach: p.Price,
			}
			if err := scope.CreateSaleItem(ctx, &item); err != nil {
				return err
			}

			ok, err := scope.DecrementStock(ctx, p.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Stock moved between snapshot and commit.
				return fmt.Errorf("%w: not enough stock for %s", ErrInsufficientStock, p.Name)
			}
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrInsufficientStock) {
			return nil, txErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, txErr)
	}

	return &Receipt{SaleID: sale.ID, Total: total}, nil
}

// PreviewTotal prices a cart against current unit prices without
// touching stock or writing anything. Unknown products and
// non-positive quantities contribute nothing.
func PreviewTotal(ctx context.Context, db *gorm.DB, userID uint, lines []CartLine) (decimal.Decimal, error) {
	snapshot, err := store.ForUser(db, userID).ProductMap(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	total := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if p, ok := snapshot[line.ProductID]; ok {
			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}
	return total, nil
}
