package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/esap/parafiscales-api/internal/application/usecase"
	"github.com/esap/parafiscales-api/pkg/logger"
)

// CatalogoHandler catálogos DIVIPOLA.
type CatalogoHandler struct {
	uc  *usecase.CatalogoUseCase
	log *logger.Logger
}

// NewCatalogoHandler construye el handler de catálogos.
func NewCatalogoHandler(uc *usecase.CatalogoUseCase, log *logger.Logger) *CatalogoHandler {
	return &CatalogoHandler{uc: uc, log: log}
}

// Departamentos godoc
// @Summary      Departamentos de Colombia
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.DepartamentoItem
// @Router       /api/catalogos/departamentos [get]
func (h *CatalogoHandler) Departamentos(c *fiber.Ctx) error {
	return c.JSON(h.uc.Departamentos())
}

// Municipios godoc
// @Summary      Municipios DIVIPOLA de un departamento
// @Tags         catalogos
// @Produce      json
// @Security     BearerAuth
// @Param        departamento  query  string  true  "código o nombre del departamento"
// @Success      200  {array}  dto.MunicipioItem
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/catalogos/municipios [get]
func (h *CatalogoHandler) Municipios(c *fiber.Ctx) error {
	dep := c.Query("departamento")
	if dep == "" {
		return badRequest(c, "VALIDATION", "departamento es requerido")
	}
	out, err := h.uc.Municipios(c.UserContext(), dep)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
