package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/thogaimadan/home_ledger/internal/logging"
	"github.com/thogaimadan/home_ledger/internal/mykafka"
	"github.com/thogaimadan/home_ledger/internal/reports"
	"github.com/thogaimadan/home_ledger/internal/sales"
)

type SalesHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type recordSaleRequest struct {
	SaleDate string           `json:"sale_date"`
	Items    []sales.CartLine `json:"items"`
}

func (h *SalesHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "sale_events", fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

// RecordSale converts a cart into a committed sale. All engine
// failures arrive as the {"ok": false} envelope; nothing partial is
// ever persisted.
func (h *SalesHandler) RecordSale(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sales.record_sale")

	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req recordSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "invalid body"})
	}

	receipt, err := sales.RecordSale(ctx, h.DB, userID, req.SaleDate, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, sales.ErrEmptyCart),
			errors.Is(err, sales.ErrUnknownProduct),
			errors.Is(err, sales.ErrInsufficientStock),
			errors.Is(err, sales.ErrInvalidDate):
			l.Warn("record_sale_rejected", "user_id", userID, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": err.Error()})
		default:
			l.Error("record_sale_failed", "user_id", userID, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": err.Error()})
		}
	}

	h.publish(c, map[string]any{
		"type":   "sale_recorded",
		"userID": userID,
		"saleID": receipt.SaleID,
		"total":  receipt.Total,
	})

	l.Info("record_sale_success", "user_id", userID, "sale_id", receipt.SaleID)
	return c.JSON(http.StatusCreated, echo.Map{
		"ok":      true,
		"sale_id": receipt.SaleID,
		"total":   receipt.Total,
	})
}

// PreviewTotal prices a cart without committing anything.
func (h *SalesHandler) PreviewTotal(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Items []sales.CartLine `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	total, err := sales.PreviewTotal(c.Request().Context(), h.DB, userID, req.Items)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total})
}

func (h *SalesHandler) GetSales(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	rows, err := reports.PreviousSales(c.Request().Context(), h.DB, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}

func (h *SalesHandler) GetMonthly(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	rows, err := reports.MonthlyTotals(c.Request().Context(), h.DB, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}
