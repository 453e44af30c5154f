package handler

import (
	"net/http"

	"easybuy/internal/config"
	"easybuy/internal/middleware"
	"easybuy/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/payments のHTTP
type AdminPaymentHandler struct {
	uc *usecase.AdminPaymentUsecase
}

// DI
func NewAdminPaymentHandler(uc *usecase.AdminPaymentUsecase) *AdminPaymentHandler {
	return &AdminPaymentHandler{uc: uc}
}

func (h *AdminPaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin/payments")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("", h.list)
	admin.PUT("/:id/confirm", h.confirm)
}

func (h *AdminPaymentHandler) list(c echo.Context) error {
	page, limit, ok := pageLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	out, err := h.uc.ListPayments(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminPaymentHandler) confirm(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.ConfirmPayment(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
