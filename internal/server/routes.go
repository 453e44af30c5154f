package server

import (
	"github.com/labstack/echo/v4"

	"easybuy/internal/config"
	"easybuy/internal/handler"
)

// アプリの全ハンドラ
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Address      *handler.AddressHandler
	Order        *handler.OrderHandler
	Payment      *handler.PaymentHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminPayment *handler.AdminPaymentHandler
	AdminUser    *handler.AdminUserHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)

	h.User.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Address.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Payment.RegisterRoutes(e, cfg)

	h.AdminProduct.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminPayment.RegisterRoutes(e, cfg)
	h.AdminUser.RegisterRoutes(e, cfg)
}
