package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/application/usecase"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/planilla"
	"github.com/esap/parafiscales-api/internal/domain/repository"
	"github.com/esap/parafiscales-api/internal/infrastructure/export"
	apphttp "github.com/esap/parafiscales-api/internal/interfaces/http"
	"github.com/esap/parafiscales-api/pkg/logger"
)

const (
	sesionVencida = "6f1c1b7e-2f0a-4c4e-9a51-0c7d3c1e8a01"
	sesionActiva  = "6f1c1b7e-2f0a-4c4e-9a51-0c7d3c1e8a02"
	nitConDatos   = "899999034"
	nitSinDatos   = "800197268"
)

// sesionesFijas SessionRepository en memoria con una sesión vencida y otra activa.
type sesionesFijas struct {
	sessions map[string]*entity.Session
	rows     []entity.AportanteRow
	deleted  []string
}

func newSesionesFijas() *sesionesFijas {
	now := time.Now()
	return &sesionesFijas{
		sessions: map[string]*entity.Session{
			sesionVencida: {ID: sesionVencida, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)},
			sesionActiva:  {ID: sesionActiva, CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
		},
		rows: []entity.AportanteRow{
			{Position: 1, NIT: "899999034", Departamento: "META", Municipio: "GRANADA"},
			{Position: 2, NIT: "800197268", Departamento: "META", Municipio: "ACACIAS"},
			{Position: 3, NIT: "900123456", Departamento: "ANTIOQUIA", Municipio: "MEDELLIN"},
		},
	}
}

func (m *sesionesFijas) Create(context.Context, *entity.Session, []entity.AportanteRow) error {
	return nil
}

func (m *sesionesFijas) GetByID(_ context.Context, id string) (*entity.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *sesionesFijas) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *sesionesFijas) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

func (m *sesionesFijas) ListRows(_ context.Context, _ string, f repository.RowFilter) ([]entity.AportanteRow, error) {
	var out []entity.AportanteRow
	for _, r := range m.rows {
		if (f.NIT == "" || r.NIT == f.NIT) &&
			(f.Departamento == "" || r.Departamento == f.Departamento) &&
			(f.Municipio == "" || r.Municipio == f.Municipio) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *sesionesFijas) DistinctNITs(ctx context.Context, id string, f repository.RowFilter) ([]string, error) {
	rows, _ := m.ListRows(ctx, id, f)
	return distinctOf(rows, func(r entity.AportanteRow) string { return r.NIT }), nil
}

func (m *sesionesFijas) DistinctDepartamentos(ctx context.Context, id string) ([]string, error) {
	rows, _ := m.ListRows(ctx, id, repository.RowFilter{})
	return distinctOf(rows, func(r entity.AportanteRow) string { return r.Departamento }), nil
}

func (m *sesionesFijas) DistinctMunicipios(ctx context.Context, id, departamento string) ([]string, error) {
	rows, _ := m.ListRows(ctx, id, repository.RowFilter{Departamento: departamento})
	return distinctOf(rows, func(r entity.AportanteRow) string { return r.Municipio }), nil
}

func distinctOf(rows []entity.AportanteRow, pick func(entity.AportanteRow) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		if v := pick(r); !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// planillasFijas PlanillaRepository con dos planillas para nitConDatos.
type planillasFijas struct{}

func strp(s string) *string { return &s }

func (planillasFijas) ListByNIT(_ context.Context, nit string) ([]entity.PlanillaRaw, error) {
	if nit != nitConDatos {
		return nil, nil
	}
	return []entity.PlanillaRaw{
		{NIT: nit, PeriodoPago: strp("2023-08"), TipoPlanilla: strp("M"), ArchivoOrigen: strp("mora_agosto.txt")},
		{NIT: nit, PeriodoPago: strp("2023-09"), TipoPlanilla: strp("E"), ArchivoOrigen: strp("nomina_septiembre.txt")},
	}, nil
}

func (p planillasFijas) CountByNIT(ctx context.Context, nit string) (int, error) {
	raws, _ := p.ListByNIT(ctx, nit)
	return len(raws), nil
}

func (planillasFijas) NITsWithPlanillas(_ context.Context, nits []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, n := range nits {
		if n == nitConDatos {
			out[n] = true
		}
	}
	return out, nil
}

type pdfFijo struct{}

func (pdfFijo) Generate(ports.PlanillaReport) ([]byte, error) { return []byte("%PDF-1.7"), nil }

func newConsultasApp(t *testing.T) (*fiber.App, *sesionesFijas) {
	t.Helper()
	sessions := newSesionesFijas()
	csv := export.NewCSVExporter()
	app := newRouterApp(t, &fakeEngine{}, 0, func(d *apphttp.RouterDeps) {
		d.AportanteUC = usecase.NewAportanteUseCase(sessions, planillasFijas{}, nil, csv, logger.Nop(), time.Hour)
		d.PlanillaUC = usecase.NewPlanillaUseCase(planillasFijas{}, csv, pdfFijo{},
			planilla.YearRange{Min: 2020, Max: 2025}, logger.Nop())
	})
	return app, sessions
}

func getAs(t *testing.T, app *fiber.App, path, role string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestRouter_SesionVencida(t *testing.T) {
	app, sessions := newConsultasApp(t)

	status, body := getAs(t, app, "/api/aportantes/sesiones/"+sesionVencida, "analista")
	assert.Equal(t, http.StatusGone, status)
	assert.Contains(t, string(body), "SESSION_EXPIRED")
	assert.Equal(t, []string{sesionVencida}, sessions.deleted)

	// ya eliminada: la siguiente consulta no la encuentra
	status, body = getAs(t, app, "/api/aportantes/sesiones/"+sesionVencida+"/nits", "analista")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "SESSION_NOT_FOUND")
}

func TestRouter_SesionIDInvalido(t *testing.T) {
	app, _ := newConsultasApp(t)
	status, body := getAs(t, app, "/api/aportantes/sesiones/no-es-uuid", "analista")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "SESSION_NOT_FOUND")
}

func TestRouter_MunicipiosPorDepartamento(t *testing.T) {
	app, _ := newConsultasApp(t)
	status, body := getAs(t, app, "/api/aportantes/sesiones/"+sesionActiva+"/municipios?departamento=META", "analista")
	require.Equal(t, http.StatusOK, status)

	var out dto.MunicipiosResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "META", out.Departamento)
	assert.Equal(t, []string{"ACACIAS", "GRANADA"}, out.Municipios)
}

func TestRouter_FiltrarPorDepartamento(t *testing.T) {
	app, _ := newConsultasApp(t)
	status, body := getAs(t, app, "/api/aportantes/sesiones/"+sesionActiva+"/filtrar?departamento=ANTIOQUIA", "analista")
	require.Equal(t, http.StatusOK, status)

	var out dto.NITListResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 1, out.Total)
}

func TestRouter_PlanillasFiltroTipoYBusqueda(t *testing.T) {
	app, _ := newConsultasApp(t)
	cases := []struct {
		query string
		total int
		tipo  string
	}{
		{"", 2, ""},
		{"?tipo=M", 1, "M"},
		{"?tipo=todas", 2, ""},
		{"?q=septiembre", 1, "E"},
		{"?tipo=M&q=septiembre", 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			status, body := getAs(t, app, "/api/planillas/"+nitConDatos+tc.query, "analista")
			require.Equal(t, http.StatusOK, status)

			var out dto.PlanillasResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.False(t, out.SinDatos)
			assert.Equal(t, tc.total, out.Stats.TotalPlanillas)
			assert.Len(t, out.Planillas, tc.total)
			if tc.tipo != "" {
				assert.Equal(t, tc.tipo, out.Planillas[0].TipoPlanilla)
			}
		})
	}
}

func TestRouter_MatrizSinDatos(t *testing.T) {
	app, _ := newConsultasApp(t)
	status, body := getAs(t, app, "/api/planillas/"+nitSinDatos+"/matriz", "analista")
	require.Equal(t, http.StatusOK, status)

	var out dto.MatrizResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.SinDatos)
	assert.Equal(t, nitSinDatos, out.NIT)
	assert.Len(t, out.Filas, 6)
}

func TestRouter_DescargasSinDatos(t *testing.T) {
	app, _ := newConsultasApp(t)
	for _, path := range []string{
		"/api/planillas/" + nitSinDatos + "/csv",
		"/api/planillas/" + nitSinDatos + "/reporte.pdf",
		"/api/planillas/" + nitConDatos + "/csv?tipo=N",
	} {
		status, body := getAs(t, app, path, "analista")
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Contains(t, string(body), "NO_DATA", path)
	}
}

func TestRouter_DescargasConDatos(t *testing.T) {
	app, _ := newConsultasApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/planillas/"+nitConDatos+"/reporte.pdf?tipo=M", nil)
	req.Header.Set("Authorization", tokenForRole(t, "analista"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "planillas_"+nitConDatos+".pdf")

	status, body := getAs(t, app, "/api/planillas/"+nitConDatos+"/csv?tipo=M", "analista")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "mora_agosto.txt")
	assert.NotContains(t, string(body), "nomina_septiembre.txt")
}

func TestRouter_PlanillasNITInvalido(t *testing.T) {
	app, _ := newConsultasApp(t)
	status, body := getAs(t, app, "/api/planillas/12/matriz", "analista")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "VALIDATION")
}
