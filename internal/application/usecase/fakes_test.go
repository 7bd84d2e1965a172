package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/repository"
)

// memSessions SessionRepository en memoria.
type memSessions struct {
	sessions map[string]*entity.Session
	rows     map[string][]entity.AportanteRow
	deleted  []string
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]*entity.Session{}, rows: map[string][]entity.AportanteRow{}}
}

func (m *memSessions) Create(_ context.Context, s *entity.Session, rows []entity.AportanteRow) error {
	cp := *s
	m.sessions[s.ID] = &cp
	m.rows[s.ID] = rows
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id string) (*entity.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	delete(m.rows, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *memSessions) match(r entity.AportanteRow, f repository.RowFilter) bool {
	return (f.NIT == "" || r.NIT == f.NIT) &&
		(f.NITContains == "" || strings.Contains(r.NIT, f.NITContains)) &&
		(f.Departamento == "" || r.Departamento == f.Departamento) &&
		(f.Municipio == "" || r.Municipio == f.Municipio)
}

func (m *memSessions) ListRows(_ context.Context, id string, f repository.RowFilter) ([]entity.AportanteRow, error) {
	var out []entity.AportanteRow
	for _, r := range m.rows[id] {
		if m.match(r, f) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memSessions) distinct(id string, f repository.RowFilter, pick func(entity.AportanteRow) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range m.rows[id] {
		v := pick(r)
		if v == "-" || seen[v] || !m.match(r, f) {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (m *memSessions) DistinctNITs(_ context.Context, id string, f repository.RowFilter) ([]string, error) {
	return m.distinct(id, f, func(r entity.AportanteRow) string { return r.NIT }), nil
}

func (m *memSessions) DistinctDepartamentos(_ context.Context, id string) ([]string, error) {
	return m.distinct(id, repository.RowFilter{}, func(r entity.AportanteRow) string { return r.Departamento }), nil
}

func (m *memSessions) DistinctMunicipios(_ context.Context, id, dep string) ([]string, error) {
	return m.distinct(id, repository.RowFilter{Departamento: dep}, func(r entity.AportanteRow) string { return r.Municipio }), nil
}

// memPlanillas PlanillaRepository en memoria.
type memPlanillas struct {
	byNIT map[string][]entity.PlanillaRaw
	err   error
}

func (m *memPlanillas) ListByNIT(_ context.Context, nit string) ([]entity.PlanillaRaw, error) {
	return m.byNIT[nit], m.err
}

func (m *memPlanillas) CountByNIT(_ context.Context, nit string) (int, error) {
	return len(m.byNIT[nit]), m.err
}

func (m *memPlanillas) NITsWithPlanillas(_ context.Context, nits []string) (map[string]bool, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]bool{}
	for _, n := range nits {
		if len(m.byNIT[n]) > 0 {
			out[n] = true
		}
	}
	return out, nil
}

// stubParser devuelve siempre los mismos registros.
type stubParser struct {
	records []entity.Record
	err     error
}

func (p stubParser) Parse(context.Context, string, []byte) ([]entity.Record, error) {
	return p.records, p.err
}

// stubExporter codifica como JSON para poder inspeccionar lo exportado.
type stubExporter struct{}

func (stubExporter) Records(rows []entity.Record) ([]byte, error) { return json.Marshal(rows) }
func (stubExporter) Planillas(ps []entity.Planilla) ([]byte, error) {
	return []byte(strings.Repeat("x", len(ps))), nil
}

type stubPDF struct{ last *ports.PlanillaReport }

func (s *stubPDF) Generate(r ports.PlanillaReport) ([]byte, error) {
	s.last = &r
	return []byte("%PDF-stub"), nil
}

type stubEngine struct {
	meses int
	err   error
}

func (e *stubEngine) ProcesarPlanillas(context.Context, ports.File) (*ports.Download, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &ports.Download{FileName: "planillas.xlsx", Data: []byte("xlsx")}, nil
}

func (e *stubEngine) ValidarCruce(context.Context, ports.File, []ports.File) (json.RawMessage, error) {
	if e.err != nil {
		return nil, e.err
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func (e *stubEngine) ProcesarCruce(_ context.Context, _ ports.File, _ []ports.File, meses int) (*ports.CruceResult, error) {
	e.meses = meses
	if e.err != nil {
		return nil, e.err
	}
	return &ports.CruceResult{Stats: dto.CruceStats{MatchesEncontrados: 3}}, nil
}

type stubZips struct{}

func (stubZips) Inspect(name string, data []byte) (*dto.ZipInfoResponse, error) {
	return &dto.ZipInfoResponse{Nombre: name, TamanoBytes: int64(len(data))}, nil
}
