package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/usecase"
	"github.com/esap/parafiscales-api/pkg/logger"
)

// AportanteHandler sesiones de archivos de aportantes y sus consultas.
type AportanteHandler struct {
	handlerBase
	uc *usecase.AportanteUseCase
}

// NewAportanteHandler construye el handler de aportantes.
func NewAportanteHandler(uc *usecase.AportanteUseCase, log *logger.Logger, maxUpload int) *AportanteHandler {
	return &AportanteHandler{handlerBase: handlerBase{log: log, maxUpload: maxUpload}, uc: uc}
}

// CreateSession godoc
// @Summary      Cargar archivo de aportantes
// @Description  Acepta xlsx, xls o csv en el campo "file" y crea una sesión temporal.
// @Tags         aportantes
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "archivo de aportantes"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      413   {object}  dto.ErrorResponse
// @Router       /api/aportantes/sesiones [post]
func (h *AportanteHandler) CreateSession(c *fiber.Ctx) error {
	f, err := formFile(c, "file", h.maxUpload)
	if err != nil {
		return h.uploadError(c, err)
	}
	out, err := h.uc.CreateSession(c.UserContext(), f, GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSession godoc
// @Summary      Consultar sesión
// @Tags         aportantes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/aportantes/sesiones/{id} [get]
func (h *AportanteHandler) GetSession(c *fiber.Ctx) error {
	out, err := h.uc.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteSession godoc
// @Summary      Invalidar sesión
// @Tags         aportantes
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/aportantes/sesiones/{id} [delete]
func (h *AportanteHandler) DeleteSession(c *fiber.Ctx) error {
	if err := h.uc.DeleteSession(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "sesión eliminada"})
}

// ListNITs godoc
// @Summary      NITs únicos de la sesión
// @Tags         aportantes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.NITListResponse
// @Router       /api/aportantes/sesiones/{id}/nits [get]
func (h *AportanteHandler) ListNITs(c *fiber.Ctx) error {
	out, err := h.uc.ListNITs(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Filtros godoc
// @Summary      Departamentos y municipios de la sesión
// @Tags         aportantes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.FiltrosResponse
// @Router       /api/aportantes/sesiones/{id}/filtros [get]
func (h *AportanteHandler) Filtros(c *fiber.Ctx) error {
	out, err := h.uc.Filtros(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Municipios godoc
// @Summary      Municipios de un departamento en la sesión
// @Tags         aportantes
// @Produce      json
// @Security     BearerAuth
// @Param        id            path   string  true   "ID de sesión"
// @Param        departamento  query  string  false  "departamento"
// @Success      200  {object}  dto.MunicipiosResponse
// @Router       /api/aportantes/sesiones/{id}/municipios [get]
func (h *AportanteHandler) Municipios(c *fiber.Ctx) error {
	out, err := h.uc.Municipios(c.UserContext(), c.Params("id"), c.Query("departamento"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Filtrar godoc
// @Summary      NITs filtrados por departamento, municipio o fragmento de NIT
// @Tags         aportantes
// @Produce      json
// @Security     BearerAuth
// @Param        id            path   string  true   "ID de sesión"
// @Param        departamento  query  string  false  "departamento"
// @Param        municipio     query  string  false  "municipio"
// @Param        nit           query  string  false  "fragmento de NIT"
// @Success      200  {object}  dto.NITListResponse
// @Router       /api/aportantes/sesiones/{id}/filtrar [get]
func (h *AportanteHandler) Filtrar(c *fiber.Ctx) error {
	var in dto.FiltrarRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	out, err := h.uc.Filtrar(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Detalle godoc
// @Summary      Filas y estadísticas de un NIT
// @Tags         aportantes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de sesión"
// @Param        nit  path  string  true  "NIT"
// @Success      200  {object}  dto.DetalleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/aportantes/sesiones/{id}/detalle/{nit} [get]
func (h *AportanteHandler) Detalle(c *fiber.Ctx) error {
	out, err := h.uc.Detalle(c.UserContext(), c.Params("id"), c.Params("nit"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DetalleCSV godoc
// @Summary      Exportar filas de un NIT a CSV
// @Tags         aportantes
// @Produce      text/csv
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de sesión"
// @Param        nit  path  string  true  "NIT"
// @Success      200  {file}  file
// @Router       /api/aportantes/sesiones/{id}/detalle/{nit}/csv [get]
func (h *AportanteHandler) DetalleCSV(c *fiber.Ctx) error {
	d, err := h.uc.DetalleCSV(c.UserContext(), c.Params("id"), c.Params("nit"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendDownload(c, d)
}

// Datos godoc
// @Summary      Todas las filas de la sesión
// @Tags         aportantes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.DatosResponse
// @Router       /api/aportantes/sesiones/{id}/datos [get]
func (h *AportanteHandler) Datos(c *fiber.Ctx) error {
	out, err := h.uc.Datos(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Mapa godoc
// @Summary      Agregación por departamento
// @Tags         aportantes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de sesión"
// @Success      200  {object}  dto.MapaResponse
// @Router       /api/aportantes/sesiones/{id}/mapa [get]
func (h *AportanteHandler) Mapa(c *fiber.Ctx) error {
	out, err := h.uc.Mapa(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
