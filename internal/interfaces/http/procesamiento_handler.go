package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/esap/parafiscales-api/internal/application/usecase"
	"github.com/esap/parafiscales-api/pkg/logger"
)

// ProcesamientoHandler inspección de ZIP y reenvío al motor de procesamiento y cruce.
type ProcesamientoHandler struct {
	handlerBase
	uc *usecase.ProcesamientoUseCase
}

// NewProcesamientoHandler construye el handler de procesamiento.
func NewProcesamientoHandler(uc *usecase.ProcesamientoUseCase, log *logger.Logger, maxUpload int) *ProcesamientoHandler {
	return &ProcesamientoHandler{handlerBase: handlerBase{log: log, maxUpload: maxUpload}, uc: uc}
}

// InfoZip godoc
// @Summary      Inspeccionar ZIP de planillas
// @Tags         procesamiento
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        archivo  formData  file  true  "ZIP"
// @Success      200  {object}  dto.ZipInfoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/procesamiento/info-zip [post]
func (h *ProcesamientoHandler) InfoZip(c *fiber.Ctx) error {
	f, err := formFile(c, "archivo", h.maxUpload)
	if err != nil {
		return h.uploadError(c, err)
	}
	out, err := h.uc.InfoZip(f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Procesar godoc
// @Summary      Procesar ZIP de planillas en el motor
// @Tags         procesamiento
// @Accept       multipart/form-data
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        archivo  formData  file  true  "ZIP"
// @Success      200  {file}  file
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/procesamiento/procesar [post]
func (h *ProcesamientoHandler) Procesar(c *fiber.Ctx) error {
	f, err := formFile(c, "archivo", h.maxUpload)
	if err != nil {
		return h.uploadError(c, err)
	}
	d, err := h.uc.Procesar(c.UserContext(), f)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendDownload(c, d)
}

// ValidarCruce godoc
// @Summary      Validar archivos del cruce de LOG
// @Tags         cruce-log
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        archivo_log   formData  file  true  "LOG bancario"
// @Param        archivos_txt  formData  file  true  "planillas txt o zip (repetible)"
// @Success      200  {object}  object
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/cruce-log/validar [post]
func (h *ProcesamientoHandler) ValidarCruce(c *fiber.Ctx) error {
	logFile, err := formFile(c, "archivo_log", h.maxUpload)
	if err != nil {
		return h.uploadError(c, err)
	}
	planillas, err := formFiles(c, "archivos_txt", h.maxUpload)
	if err != nil {
		return h.uploadError(c, err)
	}
	out, err := h.uc.ValidarCruce(c.UserContext(), logFile, planillas)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(out)
}

// ProcesarCruce godoc
// @Summary      Ejecutar cruce de LOG
// @Description  Devuelve un ZIP; las métricas viajan en los encabezados X-*.
// @Tags         cruce-log
// @Accept       multipart/form-data
// @Produce      application/zip
// @Security     BearerAuth
// @Param        archivo_log       formData  file     true   "LOG bancario"
// @Param        archivos_txt      formData  file     true   "planillas txt o zip (repetible)"
// @Param        meses_referencia  formData  integer  false  "meses de referencia (default 2)"
// @Success      200  {file}  file
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/cruce-log/procesar [post]
func (h *ProcesamientoHandler) ProcesarCruce(c *fiber.Ctx) error {
	logFile, err := formFile(c, "archivo_log", h.maxUpload)
	if err != nil {
		return h.uploadError(c, err)
	}
	planillas, err := formFiles(c, "archivos_txt", h.maxUpload)
	if err != nil {
		return h.uploadError(c, err)
	}
	meses := 0
	if v := c.FormValue("meses_referencia"); v != "" {
		meses, err = strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "VALIDATION", "meses_referencia debe ser un entero")
		}
	}

	res, err := h.uc.ProcesarCruce(c.UserContext(), logFile, planillas, meses)
	if err != nil {
		return respondError(c, h.log, err)
	}
	s := res.Stats
	c.Set("X-Matches-Encontrados", strconv.Itoa(s.MatchesEncontrados))
	c.Set("X-Capital-Actual", s.CapitalActual)
	c.Set("X-Capital-Anterior", s.CapitalAnterior)
	c.Set("X-Interes-Actual", s.InteresActual)
	c.Set("X-Interes-Anterior", s.InteresAnterior)
	c.Set("X-Total-Archivos-I", strconv.Itoa(s.TotalArchivosI))
	c.Set("X-Errores", strconv.Itoa(s.Errores))
	return sendDownload(c, &res.Download)
}
