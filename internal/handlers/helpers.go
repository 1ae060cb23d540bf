package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

// CurrentUserID reads the identity the session middleware resolved.
// Handlers trust this value; ownership is enforced by row filters.
func CurrentUserID(c echo.Context) (uint, error) {
	if id, ok := c.Get("userID").(uint); ok && id != 0 {
		return id, nil
	}
	return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}
