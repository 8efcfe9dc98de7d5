package handler

import (
	"errors"
	"net/http"

	"partth/internal/apierror"
	"partth/internal/dto"
	"partth/internal/middleware"
	"partth/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalasHandler struct{ svc service.SalaService }

func NewSalasHandler(svc service.SalaService) *SalasHandler { return &SalasHandler{svc: svc} }

// CrearSala godoc
// @Summary      Abrir una sala de escrow
// @Description  La marca fondea el monto del producto; la ganancia del socio queda en hold hasta completar o resolver la sala.
// @Tags         salas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearSalaRequest true "Socio y montos"
// @Success      201  {object} dto.SalaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/salas [post]
func (h *SalasHandler) CrearSala(c *gin.Context) {
	var req dto.CrearSalaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	marcaID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CrearSala(c.Request.Context(), marcaID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerSala godoc
// @Summary      Detalle de una sala
// @Tags         salas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sala"
// @Success      200  {object} dto.SalaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/salas/{id} [get]
func (h *SalasHandler) ObtenerSala(c *gin.Context) {
	salaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ObtenerSala(c.Request.Context(), usuarioID, salaID)
	if err != nil {
		writeSalaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarSalas godoc
// @Summary      Listar las salas del usuario
// @Tags         salas
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200   {object} dto.SalaListResponse
// @Router       /v1/salas [get]
func (h *SalasHandler) ListarSalas(c *gin.Context) {
	var filter dto.SalaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.ListarSalas(c.Request.Context(), usuarioID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar salas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EntregarEvidencia godoc
// @Summary      Registrar evidencia de entrega
// @Description  Solo el socio de la sala. Archivos y notas alimentan al motor de resolución si hay disputa.
// @Tags         salas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                      true "UUID de la sala"
// @Param        body body dto.EntregarEvidenciaRequest true "Evidencia"
// @Success      200  {object} dto.SalaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/salas/{id}/evidencia [post]
func (h *SalasHandler) EntregarEvidencia(c *gin.Context) {
	salaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.EntregarEvidenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	socioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.EntregarEvidencia(c.Request.Context(), socioID, salaID, req)
	if err != nil {
		writeSalaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarEvento godoc
// @Summary      Agregar un mensaje o actualización al timeline
// @Tags         salas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID de la sala"
// @Param        body body dto.AgregarEventoRequest true "Evento"
// @Success      200  {object} dto.SalaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/salas/{id}/eventos [post]
func (h *SalasHandler) AgregarEvento(c *gin.Context) {
	salaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AgregarEventoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AgregarEvento(c.Request.Context(), usuarioID, claims.Username, salaID, req)
	if err != nil {
		writeSalaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompletarSala godoc
// @Summary      Completar la sala y liberar fondos
// @Description  Solo la marca. Libera la ganancia del socio, cobra la comisión y acredita la participación recurrente del referidor.
// @Tags         salas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sala"
// @Success      200  {object} dto.SalaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/salas/{id}/completar [post]
func (h *SalasHandler) CompletarSala(c *gin.Context) {
	salaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	marcaID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CompletarSala(c.Request.Context(), marcaID, salaID)
	if err != nil {
		writeSalaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeSalaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSalaNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoEsParte):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
