package reports

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thogaimadan/home_ledger/internal/config"
	"github.com/thogaimadan/home_ledger/internal/models"
	"github.com/thogaimadan/home_ledger/internal/sales"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

// seedLedger builds two sellers' books through the sale engine so the
// reports only ever see committed rows: asha sells jam and tea across
// two months, bina sells soap once, chitra never sells.
func seedLedger(t *testing.T, db *gorm.DB) (asha, bina, chitra uint) {
	t.Helper()
	ctx := context.Background()

	newUser := func(name, email string) uint {
		u := models.User{Name: name, Email: email, PasswordHash: "x"}
		require.NoError(t, db.Create(&u).Error)
		return u.ID
	}
	newProduct := func(userID uint, name, price string, qty int) uint {
		p := models.Product{UserID: userID, Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
		require.NoError(t, db.Create(&p).Error)
		return p.ID
	}

	asha = newUser("asha", "asha@example.com")
	bina = newUser("bina", "bina@example.com")
	chitra = newUser("chitra", "chitra@example.com")

	jam := newProduct(asha, "Jam", "2.50", 100)
	tea := newProduct(asha, "Tea", "1.00", 100)
	soap := newProduct(bina, "Soap", "3.00", 100)

	mustSale := func(userID uint, date string, lines []sales.CartLine) {
		_, err := sales.RecordSale(ctx, db, userID, date, lines)
		require.NoError(t, err)
	}

	// 2024-02: jam 4x2.50 = 10.00
	mustSale(asha, "2024-02-10", []sales.CartLine{{ProductID: jam, Quantity: 4}})
	// 2024-03: jam 2x2.50 + tea 3x1.00 = 8.00, then tea 1x1.00
	mustSale(asha, "2024-03-05", []sales.CartLine{
		{ProductID: jam, Quantity: 2},
		{ProductID: tea, Quantity: 3},
	})
	mustSale(asha, "2024-03-20", []sales.CartLine{{ProductID: tea, Quantity: 1}})
	// bina: 2024-03: soap 2x3.00 = 6.00
	mustSale(bina, "2024-03-11", []sales.CartLine{{ProductID: soap, Quantity: 2}})

	return asha, bina, chitra
}

func TestLifetimeTotal(t *testing.T) {
	db := initTestDB(t)
	asha, bina, chitra := seedLedger(t, db)
	ctx := context.Background()

	total, err := LifetimeTotal(ctx, db, asha)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.RequireFromString("19.00")), "total = %s", total)

	total, err = LifetimeTotal(ctx, db, bina)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.RequireFromString("6.00")))

	total, err = LifetimeTotal(ctx, db, chitra)
	require.NoError(t, err)
	require.True(t, total.IsZero())
}

func TestMonthlyTotals(t *testing.T) {
	db := initTestDB(t)
	asha, _, _ := seedLedger(t, db)

	rows, err := MonthlyTotals(context.Background(), db, asha)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "2024-03", rows[0].Month)
	require.True(t, rows[0].Amount.Equal(decimal.RequireFromString("9.00")), "amount = %s", rows[0].Amount)
	require.Equal(t, int64(6), rows[0].Quantity)

	require.Equal(t, "2024-02", rows[1].Month)
	require.True(t, rows[1].Amount.Equal(decimal.RequireFromString("10.00")))
	require.Equal(t, int64(4), rows[1].Quantity)
}

func TestMonthlyByProduct(t *testing.T) {
	db := initTestDB(t)
	asha, _, _ := seedLedger(t, db)

	rows, err := MonthlyByProduct(context.Background(), db, asha)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Newest month first, product names ascending within a month.
	require.Equal(t, "2024-03", rows[0].Month)
	require.Equal(t, "Jam", rows[0].Name)
	require.True(t, rows[0].Amount.Equal(decimal.RequireFromString("5.00")))

	require.Equal(t, "2024-03", rows[1].Month)
	require.Equal(t, "Tea", rows[1].Name)
	require.True(t, rows[1].Amount.Equal(decimal.RequireFromString("4.00")))

	require.Equal(t, "2024-02", rows[2].Month)
	require.Equal(t, "Jam", rows[2].Name)
	require.True(t, rows[2].Amount.Equal(decimal.RequireFromString("10.00")))
}

func TestLeaderboard(t *testing.T) {
	db := initTestDB(t)
	asha, bina, chitra := seedLedger(t, db)

	rows, err := Leaderboard(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, asha, rows[0].UserID)
	require.True(t, rows[0].Total.Equal(decimal.RequireFromString("19.00")))

	require.Equal(t, bina, rows[1].UserID)
	require.True(t, rows[1].Total.Equal(decimal.RequireFromString("6.00")))

	// Sellers with no sales still appear, at zero.
	require.Equal(t, chitra, rows[2].UserID)
	require.True(t, rows[2].Total.IsZero())
}

func TestPreviousSales(t *testing.T) {
	db := initTestDB(t)
	asha, _, _ := seedLedger(t, db)

	rows, err := PreviousSales(context.Background(), db, asha)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Newest first.
	require.Equal(t, "2024-03-20", rows[0].SaleDate)
	require.Equal(t, []string{"Tea x1"}, rows[0].Items)

	require.Equal(t, "2024-03-05", rows[1].SaleDate)
	require.Equal(t, []string{"Jam x2", "Tea x3"}, rows[1].Items)

	require.Equal(t, "2024-02-10", rows[2].SaleDate)
	require.Equal(t, []string{"Jam x4"}, rows[2].Items)
	require.True(t, rows[2].TotalAmount.Equal(decimal.RequireFromString("10.00")))
}
