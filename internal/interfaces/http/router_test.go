package http_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/application/usecase"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/internal/infrastructure/archive"
	apphttp "github.com/esap/parafiscales-api/internal/interfaces/http"
	"github.com/esap/parafiscales-api/pkg/logger"
)

type fakeEngine struct {
	err   error
	meses int
	// lento espera a que venza el contexto de la petición
	lento bool
}

func (e *fakeEngine) ProcesarPlanillas(ctx context.Context, _ ports.File) (*ports.Download, error) {
	if e.lento {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}
	return &ports.Download{FileName: "planillas_generadas.xlsx", Data: []byte("xlsx")}, nil
}

func (e *fakeEngine) ValidarCruce(context.Context, ports.File, []ports.File) (json.RawMessage, error) {
	if e.err != nil {
		return nil, e.err
	}
	return json.RawMessage(`{"valido":true}`), nil
}

func (e *fakeEngine) ProcesarCruce(_ context.Context, _ ports.File, _ []ports.File, meses int) (*ports.CruceResult, error) {
	e.meses = meses
	if e.err != nil {
		return nil, e.err
	}
	return &ports.CruceResult{
		Download: ports.Download{FileName: "cruce.zip", ContentType: "application/zip", Data: []byte("PK")},
		Stats:    dto.CruceStats{MatchesEncontrados: 4, CapitalActual: "1500.50", Errores: 1},
	}, nil
}

func newRouterApp(t *testing.T, engine *fakeEngine, maxUpload int, opts ...func(*apphttp.RouterDeps)) *fiber.App {
	t.Helper()
	authz, err := apphttp.NewAuthorizer()
	require.NoError(t, err)
	deps := apphttp.RouterDeps{
		ProcesamientoUC: usecase.NewProcesamientoUseCase(engine, archive.ZipInspector{}, logger.Nop()),
		Authorizer:      authz,
		Tokens:          testSigner(t),
		MaxUploadBytes:  maxUpload,
		Log:             logger.Nop(),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app
}

type upload struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, path string, files []upload, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func zipBytes(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range names {
		w, err := zw.Create(n)
		require.NoError(t, err)
		_, err = w.Write([]byte("contenido"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestRouter_RutaProtegidaSinToken(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{}, 0)
	req := multipartRequest(t, "/api/procesamiento/info-zip", []upload{{"archivo", "p.zip", zipBytes(t, "a.txt")}}, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_LoginEsPublico(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{}, 0)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_RegisterSoloAdmin(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{}, 0)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "analista"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_InfoZip(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{}, 0)
	req := multipartRequest(t, "/api/procesamiento/info-zip",
		[]upload{{"archivo", "planillas.zip", zipBytes(t, "a.txt", "b.TXT", "leeme.pdf")}}, nil)
	req.Header.Set("Authorization", tokenForRole(t, "analista"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ZipInfoResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "planillas.zip", out.Nombre)
	assert.Equal(t, 3, out.TotalArchivos)
	assert.Equal(t, 2, out.ArchivosTxt)
}

func TestRouter_ArchivoDemasiadoGrande(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{}, 8)
	req := multipartRequest(t, "/api/procesamiento/procesar", []upload{{"archivo", "p.zip", zipBytes(t, "a.txt")}}, nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FILE_TOO_LARGE")
}

func TestRouter_FaltaArchivo(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{}, 0)
	req := multipartRequest(t, "/api/procesamiento/procesar", nil, map[string]string{"x": "y"})
	req.Header.Set("Authorization", tokenForRole(t, "admin"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ProcesarMotorCaido(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{err: domain.ErrUpstreamUnavailable}, 0)
	req := multipartRequest(t, "/api/procesamiento/procesar", []upload{{"archivo", "p.zip", zipBytes(t, "a.txt")}}, nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRouter_ProcesarMotorLentoVenceTimeout(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{lento: true}, 0, func(d *apphttp.RouterDeps) {
		d.RequestTimeout = 50 * time.Millisecond
	})
	req := multipartRequest(t, "/api/procesamiento/procesar", []upload{{"archivo", "p.zip", zipBytes(t, "a.txt")}}, nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "TIMEOUT")
}

func TestRouter_ProcesarCruceEncabezados(t *testing.T) {
	engine := &fakeEngine{}
	app := newRouterApp(t, engine, 0)
	req := multipartRequest(t, "/api/cruce-log/procesar",
		[]upload{
			{"archivo_log", "log.txt", []byte("LOG")},
			{"archivos_txt", "p1.txt", []byte("uno")},
			{"archivos_txt", "p2.txt", []byte("dos")},
		},
		map[string]string{"meses_referencia": "3"})
	req.Header.Set("Authorization", tokenForRole(t, "analista"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 3, engine.meses)
	assert.Equal(t, "4", resp.Header.Get("X-Matches-Encontrados"))
	assert.Equal(t, "1500.50", resp.Header.Get("X-Capital-Actual"))
	assert.Equal(t, "1", resp.Header.Get("X-Errores"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cruce.zip")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "PK", string(body))
}

func TestRouter_ValidarCruceReenviaJSON(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{}, 0)
	req := multipartRequest(t, "/api/cruce-log/validar",
		[]upload{{"archivo_log", "log.txt", []byte("LOG")}, {"archivos_txt", "p.zip", []byte("PK")}}, nil)
	req.Header.Set("Authorization", tokenForRole(t, "analista"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"valido":true}`, string(body))
}

func TestRouter_MesesReferenciaInvalido(t *testing.T) {
	app := newRouterApp(t, &fakeEngine{}, 0)
	req := multipartRequest(t, "/api/cruce-log/procesar",
		[]upload{{"archivo_log", "log.txt", []byte("LOG")}, {"archivos_txt", "p.txt", []byte("x")}},
		map[string]string{"meses_referencia": "dos"})
	req.Header.Set("Authorization", tokenForRole(t, "analista"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
