package handler

import (
	"net/http"

	"partth/internal/apierror"
	"partth/internal/middleware"
	"partth/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReferidosHandler struct{ svc service.ReferidoService }

func NewReferidosHandler(svc service.ReferidoService) *ReferidosHandler {
	return &ReferidosHandler{svc: svc}
}

// GenerarCodigo godoc
// @Summary      Generar (u obtener) el código de referido propio
// @Tags         referidos
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object} dto.CodigoReferidoResponse
// @Failure      500  {object} apierror.APIError
// @Router       /v1/referidos/codigo [post]
func (h *ReferidosHandler) GenerarCodigo(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.GenerarCodigo(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerStats godoc
// @Summary      Estadísticas de referidos del usuario
// @Description  Usos del código, ganancias acumuladas y detalle por referido.
// @Tags         referidos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.ReferidoStatsResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/referidos/stats [get]
func (h *ReferidosHandler) ObtenerStats(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ObtenerStats(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
