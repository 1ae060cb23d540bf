package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/thogaimadan/home_ledger/internal/models"
)

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser("Asha", "asha@example.com")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/products", map[string]any{
		"name":     "Jam",
		"price":    "2.50",
		"quantity": 10,
	})
	c.Set("userID", userID)
	require.NoError(t, env.Products.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	require.NotZero(t, prod.ID)
	require.Equal(t, userID, prod.UserID)
	require.Equal(t, "Jam", prod.Name)
	require.True(t, prod.Price.Equal(decimal.RequireFromString("2.50")))
	require.Equal(t, 10, prod.Quantity)
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser("Asha", "asha@example.com")

	for _, payload := range []map[string]any{
		{"name": "", "price": "2.50", "quantity": 1},
		{"name": "Jam", "price": "-1.00", "quantity": 1},
		{"name": "Jam", "price": "2.50", "quantity": -1},
	} {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/products", payload)
		c.Set("userID", userID)
		require.NoError(t, env.Products.CreateProduct(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetProducts_OwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser("Asha", "asha@example.com")
	bina := env.seedUser("Bina", "bina@example.com")
	env.seedProduct(asha, "Jam", "2.50", 10)
	env.seedProduct(asha, "Tea", "1.00", 4)
	env.seedProduct(bina, "Soap", "3.00", 7)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/products", nil)
	c.Set("userID", asha)
	require.NoError(t, env.Products.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(2), resp.Meta.Total)
	for _, p := range resp.Data {
		require.Equal(t, asha, p.UserID)
	}
}

func TestPatchProduct(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser("Asha", "asha@example.com")
	productID := env.seedProduct(userID, "Jam", "2.50", 10)

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/products/1", map[string]any{
		"name":     "Plum Jam",
		"price":    "3.25",
		"quantity": 12,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("userID", userID)
	require.NoError(t, env.Products.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var prod models.Product
	require.NoError(t, env.DB.First(&prod, productID).Error)
	require.Equal(t, "Plum Jam", prod.Name)
	require.True(t, prod.Price.Equal(decimal.RequireFromString("3.25")))
	require.Equal(t, 12, prod.Quantity)
}

// A foreign product and a nonexistent one must be indistinguishable
// to the caller.
func TestPatchProduct_ForeignLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser("Asha", "asha@example.com")
	bina := env.seedUser("Bina", "bina@example.com")
	soap := env.seedProduct(bina, "Soap", "3.00", 7)

	patch := func(id string) *echo.HTTPError {
		_, c := env.doJSONRequest(http.MethodPatch, "/api/v1/products/"+id, map[string]any{
			"name":     "Hijacked",
			"price":    "0.01",
			"quantity": 0,
		})
		c.SetParamNames("id")
		c.SetParamValues(id)
		c.Set("userID", asha)
		err := env.Products.PatchProduct(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected HTTPError, got %v", err)
		return he
	}

	foreign := patch("1")
	missing := patch("9999")
	require.Equal(t, http.StatusNotFound, foreign.Code)
	require.Equal(t, foreign.Code, missing.Code)
	require.Equal(t, foreign.Message, missing.Message)

	// And nothing changed.
	var prod models.Product
	require.NoError(t, env.DB.First(&prod, soap).Error)
	require.Equal(t, "Soap", prod.Name)
	require.Equal(t, 7, prod.Quantity)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser("Asha", "asha@example.com")
	productID := env.seedProduct(userID, "Jam", "2.50", 10)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("userID", userID)
	require.NoError(t, env.Products.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error)
	require.Zero(t, count)
}

func TestDeleteProduct_ForeignLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser("Asha", "asha@example.com")
	bina := env.seedUser("Bina", "bina@example.com")
	soap := env.seedProduct(bina, "Soap", "3.00", 7)

	del := func(id string) *echo.HTTPError {
		_, c := env.doJSONRequest(http.MethodDelete, "/api/v1/products/"+id, nil)
		c.SetParamNames("id")
		c.SetParamValues(id)
		c.Set("userID", asha)
		err := env.Products.DeleteProduct(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected HTTPError, got %v", err)
		return he
	}

	foreign := del("1")
	missing := del("9999")
	require.Equal(t, http.StatusNotFound, foreign.Code)
	require.Equal(t, foreign.Code, missing.Code)
	require.Equal(t, foreign.Message, missing.Message)

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Where("id = ?", soap).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
