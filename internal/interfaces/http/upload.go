package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/pkg/logger"
)

var errFileTooLarge = errors.New("archivo demasiado grande")

// handlerBase dependencias comunes de los handlers con carga de archivos.
type handlerBase struct {
	log       *logger.Logger
	maxUpload int
}

// formFile lee un archivo del multipart respetando maxBytes.
func formFile(c *fiber.Ctx, field string, maxBytes int) (ports.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return ports.File{}, fmt.Errorf("%w: falta el archivo en el campo %q", domain.ErrInvalidInput, field)
	}
	return readFileHeader(fh, maxBytes)
}

// formFiles lee todos los archivos de un campo repetido.
func formFiles(c *fiber.Ctx, field string, maxBytes int) ([]ports.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: formulario multipart inválido", domain.ErrInvalidInput)
	}
	out := make([]ports.File, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		f, err := readFileHeader(fh, maxBytes)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func readFileHeader(fh *multipart.FileHeader, maxBytes int) (ports.File, error) {
	if maxBytes > 0 && fh.Size > int64(maxBytes) {
		return ports.File{}, fmt.Errorf("%w: %s", errFileTooLarge, fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return ports.File{}, fmt.Errorf("abrir %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ports.File{}, fmt.Errorf("leer %s: %w", fh.Filename, err)
	}
	return ports.File{Name: fh.Filename, Data: data}, nil
}

// uploadError responde 413 para archivos grandes y delega el resto.
func (h *handlerBase) uploadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errFileTooLarge) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("%s (máximo %d MB)", err.Error(), h.maxUpload/(1024*1024)),
		})
	}
	return respondError(c, h.log, err)
}

// sendDownload responde un archivo como adjunto.
func sendDownload(c *fiber.Ctx, d *ports.Download) error {
	if d.ContentType != "" {
		c.Set(fiber.HeaderContentType, d.ContentType)
	}
	c.Attachment(d.FileName)
	return c.Send(d.Data)
}
