package handler

import (
	"net/http"

	"partth/internal/apierror"
	"partth/internal/dto"
	"partth/internal/middleware"
	"partth/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WalletsHandler struct{ svc service.WalletService }

func NewWalletsHandler(svc service.WalletService) *WalletsHandler { return &WalletsHandler{svc: svc} }

// ObtenerWallet godoc
// @Summary      Wallet del usuario autenticado
// @Description  Saldos por bucket (disponible, escrow, hold, disputa) más el nivel de fidelidad.
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.WalletResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/wallet [get]
func (h *WalletsHandler) ObtenerWallet(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ObtenerWallet(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos godoc
// @Summary      Ledger del wallet
// @Description  Movimientos inmutables, paginados, más reciente primero.
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200   {object} dto.MovimientosListResponse
// @Failure      404   {object} apierror.APIError
// @Router       /v1/wallet/movimientos [get]
func (h *WalletsHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientosFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ListarMovimientos(c.Request.Context(), usuarioID, filter)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
