// Package engine es el cliente HTTP del motor externo de procesamiento PILA y cruce
// de LOG bancario.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/pkg/logger"
)

var _ ports.ProcessingEngine = (*Client)(nil)

const (
	pathProcesar      = "/procesar/"
	pathValidarCruce  = "/cruce-log/validar-archivos/"
	pathProcesarCruce = "/cruce-log/procesar/"

	// límite de lectura de respuestas de error y JSON
	maxErrorBody = 64 * 1024
)

// Client adaptador de ProcessingEngine sobre la API REST del motor.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// NewClient construye el cliente. timeout acota cada llamada completa, incluida la
// descarga del resultado, y se aplica como deadline del contexto: vencerlo devuelve
// context.DeadlineExceeded y no motor caído.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
		log:        log.Named("engine"),
		now:        time.Now,
	}
}

// withDeadline acota ctx con el timeout del cliente. El cancel debe diferirse hasta
// terminar de leer el cuerpo.
func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

type part struct {
	field string
	file  *ports.File
	value string
}

// ProcesarPlanillas envía el ZIP de planillas y devuelve el Excel consolidado.
func (c *Client) ProcesarPlanillas(ctx context.Context, zip ports.File) (*ports.Download, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	resp, err := c.post(ctx, pathProcesar, []part{{field: "archivo", file: &zip}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.readError(ctx, err)
	}
	if len(data) == 0 {
		return nil, domain.ErrNoData
	}
	return &ports.Download{
		FileName:    fileName(resp.Header, "planillas_generadas.xlsx"),
		ContentType: contentType(resp.Header, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
		Data:        data,
	}, nil
}

// ValidarCruce devuelve el resumen JSON de validación tal como lo entrega el motor.
func (c *Client) ValidarCruce(ctx context.Context, logFile ports.File, planillas []ports.File) (json.RawMessage, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	parts := append([]part{{field: "archivo_log", file: &logFile}}, filesAs("archivos_txt", planillas)...)
	resp, err := c.post(ctx, pathValidarCruce, parts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, c.readError(ctx, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, domain.ErrNoData
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: respuesta de validación no es JSON", domain.ErrUpstreamRejected)
	}
	return json.RawMessage(data), nil
}

// ProcesarCruce ejecuta el cruce. Las métricas llegan en encabezados X-*.
func (c *Client) ProcesarCruce(ctx context.Context, logFile ports.File, planillas []ports.File, mesesReferencia int) (*ports.CruceResult, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	parts := []part{
		{field: "archivo_log", file: &logFile},
		{field: "meses_referencia", value: strconv.Itoa(mesesReferencia)},
	}
	parts = append(parts, filesAs("archivos_txt", planillas)...)
	resp, err := c.post(ctx, pathProcesarCruce, parts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.readError(ctx, err)
	}
	if len(data) == 0 {
		return nil, domain.ErrNoData
	}
	def := fmt.Sprintf("cruce_log_resultado_%d.zip", c.now().UnixMilli())
	return &ports.CruceResult{
		Download: ports.Download{
			FileName:    fileName(resp.Header, def),
			ContentType: contentType(resp.Header, "application/zip"),
			Data:        data,
		},
		Stats: StatsFromHeaders(resp.Header),
	}, nil
}

// post arma el multipart, llama al motor y traduce los fallos. Con respuesta 2xx
// el cuerpo queda abierto para quien llama.
func (c *Client) post(ctx context.Context, path string, parts []part) (*http.Response, error) {
	body, ctype, err := encodeMultipart(parts)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("motor: crear request: %w", err)
	}
	req.Header.Set("Content-Type", ctype)

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if cerr := contextErr(ctx, err); cerr != nil {
			return nil, fmt.Errorf("motor %s: %w", path, cerr)
		}
		c.log.Error().Err(err).Str("ruta", path).Msg("motor no disponible")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	c.log.Debug().
		Str("ruta", path).
		Int("status", resp.StatusCode).
		Dur("duracion", c.now().Sub(start)).
		Msg("respuesta del motor")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := upstreamDetail(raw)
		if resp.StatusCode >= 500 {
			c.log.Warn().Str("ruta", path).Int("status", resp.StatusCode).Str("detalle", detail).Msg("error interno del motor")
		}
		return nil, &RejectedError{Status: resp.StatusCode, Detail: detail}
	}
	return resp, nil
}

func (c *Client) readError(ctx context.Context, err error) error {
	if cerr := contextErr(ctx, err); cerr != nil {
		return fmt.Errorf("motor: lectura interrumpida: %w", cerr)
	}
	return fmt.Errorf("%w: lectura interrumpida: %v", domain.ErrUpstreamUnavailable, err)
}

// contextErr distingue cancelación y vencimiento de un fallo de red. Un timeout del
// transporte cuenta como context.DeadlineExceeded.
func contextErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return context.DeadlineExceeded
	}
	return nil
}

// RejectedError respuesta no 2xx del motor. Detail es el campo "detail" del cuerpo
// si existe, o el cuerpo recortado.
type RejectedError struct {
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("motor respondió %d: %s", e.Status, e.Detail)
}

// Unwrap permite errors.Is(err, domain.ErrUpstreamRejected).
func (e *RejectedError) Unwrap() error { return domain.ErrUpstreamRejected }

// UpstreamDetail mensaje del motor para mostrar al usuario.
func (e *RejectedError) UpstreamDetail() string { return e.Detail }

func upstreamDetail(raw []byte) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != nil {
		if s, ok := body.Detail.(string); ok {
			return s
		}
		b, _ := json.Marshal(body.Detail)
		return string(b)
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 500 {
		s = s[:500]
	}
	return s
}

func encodeMultipart(parts []part) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.file == nil {
			if err := w.WriteField(p.field, p.value); err != nil {
				return nil, "", fmt.Errorf("motor: campo %s: %w", p.field, err)
			}
			continue
		}
		fw, err := w.CreateFormFile(p.field, p.file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("motor: archivo %s: %w", p.file.Name, err)
		}
		if _, err := fw.Write(p.file.Data); err != nil {
			return nil, "", fmt.Errorf("motor: archivo %s: %w", p.file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("motor: cerrar multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func filesAs(field string, files []ports.File) []part {
	out := make([]part, 0, len(files))
	for i := range files {
		out = append(out, part{field: field, file: &files[i]})
	}
	return out
}

// StatsFromHeaders lee las métricas X-* del cruce. Los valores ausentes o
// ilegibles quedan en cero.
func StatsFromHeaders(h http.Header) dto.CruceStats {
	return dto.CruceStats{
		MatchesEncontrados: headerInt(h, "X-Matches-Encontrados"),
		CapitalActual:      headerDecimal(h, "X-Capital-Actual"),
		CapitalAnterior:    headerDecimal(h, "X-Capital-Anterior"),
		InteresActual:      headerDecimal(h, "X-Interes-Actual"),
		InteresAnterior:    headerDecimal(h, "X-Interes-Anterior"),
		TotalArchivosI:     headerInt(h, "X-Total-Archivos-I"),
		Errores:            headerInt(h, "X-Errores"),
	}
}

func headerInt(h http.Header, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get(key)))
	if err != nil {
		return 0
	}
	return n
}

func headerDecimal(h http.Header, key string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(h.Get(key)))
	if err != nil {
		return "0"
	}
	return d.String()
}

func fileName(h http.Header, def string) string {
	if _, params, err := mime.ParseMediaType(h.Get("Content-Disposition")); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	return def
}

func contentType(h http.Header, def string) string {
	if ct := h.Get("Content-Type"); ct != "" {
		return ct
	}
	return def
}
