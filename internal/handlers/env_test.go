package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thogaimadan/home_ledger/internal/config"
	"github.com/thogaimadan/home_ledger/internal/models"
	"github.com/thogaimadan/home_ledger/internal/service"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Auth     *AuthHandler
	Products *ProductHandler
	Sales    *SalesHandler
	Earnings *EarningsHandler
	Tokens   *service.TokenService
}

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

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)

	tokens := &service.TokenService{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Auth:     &AuthHandler{DB: db, Tokens: tokens},
		Products: &ProductHandler{DB: db},
		Sales:    &SalesHandler{DB: db},
		Earnings: &EarningsHandler{DB: db},
		Tokens:   tokens,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedUser(name, email string) uint {
	env.T.Helper()
	user := models.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user.ID
}

func (env *testEnv) seedProduct(userID uint, name, price string, quantity int) uint {
	env.T.Helper()
	product := models.Product{
		UserID:   userID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return product.ID
}
