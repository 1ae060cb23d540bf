package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/thogaimadan/home_ledger/internal/handlers"
	"github.com/thogaimadan/home_ledger/internal/service"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	SalesHandler    *handlers.SalesHandler
	EarningsHandler *handlers.EarningsHandler
	TokenService    *service.TokenService
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)

	products := v1.Group("/products", d.TokenService.AutoRefreshMiddleware)
	products.GET("", d.ProductHandler.GetProducts)
	products.POST("", d.ProductHandler.CreateProduct)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.PATCH("/:id", d.ProductHandler.PatchProduct)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)

	sales := v1.Group("/sales", d.TokenService.AutoRefreshMiddleware)
	sales.POST("", d.SalesHandler.RecordSale)
	sales.POST("/preview", d.SalesHandler.PreviewTotal)
	sales.GET("", d.SalesHandler.GetSales)
	sales.GET("/monthly", d.SalesHandler.GetMonthly)

	earnings := v1.Group("/earnings", d.TokenService.AutoRefreshMiddleware)
	earnings.GET("", d.EarningsHandler.GetEarnings)
	earnings.GET("/leaderboard", d.EarningsHandler.GetLeaderboard)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search, d.TokenService.AutoRefreshMiddleware)
	}
}
