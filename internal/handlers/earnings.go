package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/thogaimadan/home_ledger/internal/reports"
)

type EarningsHandler struct {
	DB *gorm.DB
}

func (h *EarningsHandler) GetEarnings(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	total, err := reports.LifetimeTotal(ctx, h.DB, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	perProduct, err := reports.MonthlyByProduct(ctx, h.DB, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total":       total,
		"per_product": perProduct,
	})
}

// GetLeaderboard shows every seller's name and lifetime total only;
// line items stay private.
func (h *EarningsHandler) GetLeaderboard(c echo.Context) error {
	if _, err := CurrentUserID(c); err != nil {
		return err
	}

	rows, err := reports.Leaderboard(c.Request().Context(), h.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}
