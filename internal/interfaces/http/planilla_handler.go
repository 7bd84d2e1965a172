package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/usecase"
	"github.com/esap/parafiscales-api/pkg/logger"
)

// PlanillaHandler consultas de planillas PILA por NIT.
type PlanillaHandler struct {
	uc  *usecase.PlanillaUseCase
	log *logger.Logger
}

// NewPlanillaHandler construye el handler de planillas.
func NewPlanillaHandler(uc *usecase.PlanillaUseCase, log *logger.Logger) *PlanillaHandler {
	return &PlanillaHandler{uc: uc, log: log}
}

func planillaQuery(c *fiber.Ctx) (dto.PlanillaQuery, error) {
	var q dto.PlanillaQuery
	err := c.QueryParser(&q)
	return q, err
}

// List godoc
// @Summary      Planillas normalizadas de un NIT
// @Tags         planillas
// @Produce      json
// @Security     BearerAuth
// @Param        nit   path   string  true   "NIT"
// @Param        tipo  query  string  false  "tipo de planilla"
// @Param        q     query  string  false  "búsqueda libre"
// @Success      200  {object}  dto.PlanillasResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/planillas/{nit} [get]
func (h *PlanillaHandler) List(c *fiber.Ctx) error {
	q, err := planillaQuery(c)
	if err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.UserContext(), c.Params("nit"), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Matriz godoc
// @Summary      Matriz año/mes de planillas
// @Tags         planillas
// @Produce      json
// @Security     BearerAuth
// @Param        nit   path   string  true   "NIT"
// @Param        tipo  query  string  false  "tipo de planilla"
// @Param        q     query  string  false  "búsqueda libre"
// @Success      200  {object}  dto.MatrizResponse
// @Router       /api/planillas/{nit}/matriz [get]
func (h *PlanillaHandler) Matriz(c *fiber.Ctx) error {
	q, err := planillaQuery(c)
	if err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	out, err := h.uc.Matriz(c.UserContext(), c.Params("nit"), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Disponibles godoc
// @Summary      Indica si el NIT tiene planillas
// @Tags         planillas
// @Produce      json
// @Security     BearerAuth
// @Param        nit  path  string  true  "NIT"
// @Success      200  {object}  dto.DisponiblesResponse
// @Router       /api/planillas/{nit}/disponibles [get]
func (h *PlanillaHandler) Disponibles(c *fiber.Ctx) error {
	out, err := h.uc.Disponibles(c.UserContext(), c.Params("nit"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CSV godoc
// @Summary      Exportar planillas a CSV
// @Tags         planillas
// @Produce      text/csv
// @Security     BearerAuth
// @Param        nit   path   string  true   "NIT"
// @Param        tipo  query  string  false  "tipo de planilla"
// @Param        q     query  string  false  "búsqueda libre"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/planillas/{nit}/csv [get]
func (h *PlanillaHandler) CSV(c *fiber.Ctx) error {
	q, err := planillaQuery(c)
	if err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	d, err := h.uc.CSV(c.UserContext(), c.Params("nit"), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendDownload(c, d)
}

// ReportPDF godoc
// @Summary      Reporte PDF de planillas
// @Tags         planillas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        nit   path   string  true   "NIT"
// @Param        tipo  query  string  false  "tipo de planilla"
// @Param        q     query  string  false  "búsqueda libre"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/planillas/{nit}/reporte.pdf [get]
func (h *PlanillaHandler) ReportPDF(c *fiber.Ctx) error {
	q, err := planillaQuery(c)
	if err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de consulta inválidos")
	}
	d, err := h.uc.ReportPDF(c.UserContext(), c.Params("nit"), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendDownload(c, d)
}
