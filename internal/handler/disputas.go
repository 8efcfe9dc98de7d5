package handler

import (
	"errors"
	"net/http"

	"partth/internal/apierror"
	"partth/internal/dto"
	"partth/internal/infra"
	"partth/internal/middleware"
	"partth/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DisputasHandler struct {
	svc     service.DisputaService
	salaSvc service.SalaService
}

func NewDisputasHandler(svc service.DisputaService, salaSvc service.SalaService) *DisputasHandler {
	return &DisputasHandler{svc: svc, salaSvc: salaSvc}
}

// AbrirDisputa godoc
// @Summary      Abrir una disputa sobre una sala
// @Description  Cualquiera de las dos partes. Congela los fondos de la sala hasta la resolución.
// @Tags         disputas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirDisputaRequest true "Sala y motivo"
// @Success      201  {object} dto.DisputaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/disputas [post]
func (h *DisputasHandler) AbrirDisputa(c *gin.Context) {
	var req dto.AbrirDisputaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.salaSvc.AbrirDisputa(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeSalaError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ResolverDisputa godoc
// @Summary      Disparar la resolución automática
// @Description  Corre los tres scorers y aplica el veredicto cuando la confianza alcanza, o escala a mediación humana. Idempotente: una disputa ya decidida devuelve su resultado almacenado.
// @Tags         disputas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ResolverDisputaRequest true "Sala y disputa"
// @Success      200  {object} dto.ResolucionResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      500  {object} apierror.APIError
// @Router       /v1/disputas/resolver [post]
func (h *DisputasHandler) ResolverDisputa(c *gin.Context) {
	var req dto.ResolverDisputaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.ResolverAutomatica(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSalaNoEncontrada), errors.Is(err, service.ErrDisputaNoEncontrada):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrDisputaNoPertenece):
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		case errors.Is(err, infra.ErrLockBusy):
			c.JSON(http.StatusConflict, apierror.New("Otra resolucion sobre la misma sala esta en curso"))
		case errors.Is(err, service.ErrDisputaYaResuelta):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("Error al resolver la disputa"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResolverMediacion godoc
// @Summary      Aplicar un veredicto de mediación (admin)
// @Tags         disputas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ResolverMediacionRequest true "Veredicto"
// @Success      200  {object} dto.ResolucionResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/disputas/mediacion [post]
func (h *DisputasHandler) ResolverMediacion(c *gin.Context) {
	var req dto.ResolverMediacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ResolverMediacion(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDisputaNoEncontrada):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrDisputaYaResuelta), errors.Is(err, infra.ErrLockBusy):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerDisputa godoc
// @Summary      Detalle de una disputa
// @Tags         disputas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la disputa"
// @Success      200  {object} dto.DisputaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/disputas/{id} [get]
func (h *DisputasHandler) ObtenerDisputa(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerDisputa(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
