package handler

import (
	"net/http"
	"path/filepath"

	"easybuy/internal/config"
	"easybuy/internal/middleware"
	"easybuy/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 証憑画像の上限サイズ
const maxEvidenceSize = 5 << 20

// /orders/:id/payment のHTTP（顧客側）
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders/:id/payment")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.instructions)
	g.POST("/evidence", h.submitEvidence)
}

// 振込案内（口座情報 + QR画像URL + payment_code）を返す
func (h *PaymentHandler) instructions(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ProcessPayment(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 振込証憑画像をmultipartで受け取る
func (h *PaymentHandler) submitEvidence(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image required"})
	}
	if fh.Size > maxEvidenceSize {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "image too large"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid image"})
	}
	defer f.Close()

	out, err := h.uc.SubmitEvidence(c.Request().Context(), userID, id, filepath.Ext(fh.Filename), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
