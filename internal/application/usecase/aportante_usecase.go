package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/internal/domain/aportante"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/repository"
	"github.com/esap/parafiscales-api/pkg/checksum"
	"github.com/esap/parafiscales-api/pkg/logger"
	"github.com/esap/parafiscales-api/pkg/pila"
)

// AportanteUseCase carga del archivo de aportantes y consultas sobre la sesión resultante.
type AportanteUseCase struct {
	sessions  repository.SessionRepository
	planillas repository.PlanillaRepository
	parser    ports.SpreadsheetParser
	exporter  ports.CSVExporter
	log       *logger.Logger
	ttl       time.Duration
	now       func() time.Time
}

// NewAportanteUseCase construye el caso de uso. ttl es la vigencia de cada sesión.
func NewAportanteUseCase(
	sessions repository.SessionRepository,
	planillas repository.PlanillaRepository,
	parser ports.SpreadsheetParser,
	exporter ports.CSVExporter,
	log *logger.Logger,
	ttl time.Duration,
) *AportanteUseCase {
	return &AportanteUseCase{
		sessions:  sessions,
		planillas: planillas,
		parser:    parser,
		exporter:  exporter,
		log:       log.Named("aportantes"),
		ttl:       ttl,
		now:       time.Now,
	}
}

// CreateSession lee el archivo, resuelve NIT, entidad, departamento y municipio de
// cada fila y guarda todo como una sesión nueva.
func (uc *AportanteUseCase) CreateSession(ctx context.Context, file ports.File, userID string) (*dto.SessionResponse, error) {
	records, err := uc.parser.Parse(ctx, file.Name, file.Data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyFile
	}

	rows := make([]entity.AportanteRow, 0, len(records))
	nits := map[string]struct{}{}
	sinNIT := 0
	for i, rec := range records {
		r := aportante.ResolveRow(rec)
		nit := normalizeResolvedNIT(r.NIT)
		if nit == aportante.Sentinel {
			sinNIT++
		} else {
			nits[nit] = struct{}{}
		}
		rows = append(rows, entity.AportanteRow{
			Position:     i,
			NIT:          nit,
			Entidad:      r.Entidad,
			Departamento: r.Departamento,
			Municipio:    r.Municipio,
			Record:       rec,
		})
	}

	now := uc.now()
	s := &entity.Session{
		ID:        uuid.New().String(),
		FileName:  file.Name,
		FileSize:  int64(len(file.Data)),
		RowCount:  len(rows),
		NITCount:  len(nits),
		CreatedBy: userID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Create(ctx, s, rows); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("session_id", s.ID).
		Str("archivo", s.FileName).
		Str("checksum", checksum.Bytes(file.Data)).
		Int("filas", s.RowCount).
		Int("nits", s.NITCount).
		Int("sin_nit", sinNIT).
		Msg("sesión de aportantes creada")
	return toSessionResponse(s), nil
}

func normalizeResolvedNIT(raw string) string {
	if raw == aportante.Sentinel {
		return raw
	}
	nit := pila.NormalizeNIT(raw)
	if nit == "" {
		return aportante.Sentinel
	}
	return nit
}

// GetSession devuelve la sesión vigente. ErrSessionNotFound si no existe y
// ErrSessionExpired si venció (en ese caso también se elimina).
func (uc *AportanteUseCase) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	s, err := uc.activeSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(s), nil
}

func (uc *AportanteUseCase) activeSession(ctx context.Context, id string) (*entity.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrSessionNotFound
	}
	s, err := uc.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrSessionNotFound
	}
	if s.Expired(uc.now()) {
		if err := uc.sessions.Delete(ctx, id); err != nil {
			uc.log.Warn().Err(err).Str("session_id", id).Msg("no se pudo eliminar la sesión vencida")
		}
		return nil, domain.ErrSessionExpired
	}
	return s, nil
}

// DeleteSession invalida la sesión. Eliminar una sesión inexistente no es error.
func (uc *AportanteUseCase) DeleteSession(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrSessionNotFound
	}
	return uc.sessions.Delete(ctx, id)
}

// ListNITs NITs únicos de la sesión, marcando cuáles tienen planillas.
func (uc *AportanteUseCase) ListNITs(ctx context.Context, sessionID string) (*dto.NITListResponse, error) {
	return uc.nits(ctx, sessionID, repository.RowFilter{})
}

// Filtrar NITs que cumplen los filtros geográficos y la búsqueda parcial por NIT.
func (uc *AportanteUseCase) Filtrar(ctx context.Context, sessionID string, in dto.FiltrarRequest) (*dto.NITListResponse, error) {
	f := repository.RowFilter{
		Departamento: strings.TrimSpace(in.Departamento),
		Municipio:    strings.TrimSpace(in.Municipio),
		NITContains:  pila.NormalizeNIT(in.NIT),
	}
	return uc.nits(ctx, sessionID, f)
}

func (uc *AportanteUseCase) nits(ctx context.Context, sessionID string, f repository.RowFilter) (*dto.NITListResponse, error) {
	if _, err := uc.activeSession(ctx, sessionID); err != nil {
		return nil, err
	}
	nits, err := uc.sessions.DistinctNITs(ctx, sessionID, f)
	if err != nil {
		return nil, err
	}
	con, err := uc.planillas.NITsWithPlanillas(ctx, nits)
	if err != nil {
		// Sin la marca de planillas la lista sigue siendo útil.
		uc.log.Warn().Err(err).Msg("no se pudo consultar qué NITs tienen planillas")
		con = map[string]bool{}
	}
	out := &dto.NITListResponse{Total: len(nits), NITs: make([]dto.NITItem, 0, len(nits))}
	for _, n := range nits {
		out.NITs = append(out.NITs, dto.NITItem{NIT: n, NITFormateado: pila.FormatNIT(n), ConPlanillas: con[n]})
	}
	return out, nil
}

// Filtros departamentos y municipios presentes en la sesión.
func (uc *AportanteUseCase) Filtros(ctx context.Context, sessionID string) (*dto.FiltrosResponse, error) {
	if _, err := uc.activeSession(ctx, sessionID); err != nil {
		return nil, err
	}
	deps, err := uc.sessions.DistinctDepartamentos(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	muns, err := uc.sessions.DistinctMunicipios(ctx, sessionID, "")
	if err != nil {
		return nil, err
	}
	return &dto.FiltrosResponse{Departamentos: nonNil(deps), Municipios: nonNil(muns)}, nil
}

// Municipios municipios de un departamento de la sesión.
func (uc *AportanteUseCase) Municipios(ctx context.Context, sessionID, departamento string) (*dto.MunicipiosResponse, error) {
	if _, err := uc.activeSession(ctx, sessionID); err != nil {
		return nil, err
	}
	departamento = strings.TrimSpace(departamento)
	muns, err := uc.sessions.DistinctMunicipios(ctx, sessionID, departamento)
	if err != nil {
		return nil, err
	}
	return &dto.MunicipiosResponse{Departamento: departamento, Municipios: nonNil(muns)}, nil
}

// Detalle filas de un NIT con sus estadísticas. ErrNotFound si el NIT no está en la sesión.
func (uc *AportanteUseCase) Detalle(ctx context.Context, sessionID, nit string) (*dto.DetalleResponse, error) {
	rows, nit, err := uc.rowsOf(ctx, sessionID, nit)
	if err != nil {
		return nil, err
	}
	records := make([]entity.Record, 0, len(rows))
	entidad := aportante.Sentinel
	for _, r := range rows {
		records = append(records, r.Record)
		if entidad == aportante.Sentinel && r.Entidad != aportante.Sentinel {
			entidad = r.Entidad
		}
	}
	stats := aportante.SummarizeDetail(records)
	out := &dto.DetalleResponse{
		NIT:           nit,
		NITFormateado: pila.FormatNIT(nit),
		Entidad:       entidad,
		Columnas:      columnsOf(records),
		Registros:     records,
		Stats: dto.DetalleStats{
			TotalRegistros:  stats.TotalRegistros,
			EntidadesUnicas: stats.EntidadesUnicas,
			Departamentos:   stats.Departamentos,
			Municipios:      stats.Municipios,
		},
	}
	if dv, err := pila.ComputeVerificationDigit(nit); err == nil {
		out.DV = &dv
	}
	return out, nil
}

// DetalleCSV filas de un NIT como CSV.
func (uc *AportanteUseCase) DetalleCSV(ctx context.Context, sessionID, nit string) (*ports.Download, error) {
	rows, nit, err := uc.rowsOf(ctx, sessionID, nit)
	if err != nil {
		return nil, err
	}
	records := make([]entity.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record)
	}
	data, err := uc.exporter.Records(records)
	if err != nil {
		return nil, fmt.Errorf("exportar detalle: %w", err)
	}
	return &ports.Download{
		FileName:    fmt.Sprintf("aportantes_nit_%s.csv", nit),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

func (uc *AportanteUseCase) rowsOf(ctx context.Context, sessionID, nit string) ([]entity.AportanteRow, string, error) {
	if !pila.ValidNIT(nit) {
		return nil, "", domain.ErrInvalidInput
	}
	nit = pila.NormalizeNIT(nit)
	if _, err := uc.activeSession(ctx, sessionID); err != nil {
		return nil, "", err
	}
	rows, err := uc.sessions.ListRows(ctx, sessionID, repository.RowFilter{NIT: nit})
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", domain.ErrNotFound
	}
	return rows, nit, nil
}

// Datos todas las filas de la sesión en el orden del archivo.
func (uc *AportanteUseCase) Datos(ctx context.Context, sessionID string) (*dto.DatosResponse, error) {
	records, err := uc.allRecords(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.DatosResponse{Total: len(records), Registros: records}, nil
}

// Mapa agregación de la sesión por departamento.
func (uc *AportanteUseCase) Mapa(ctx context.Context, sessionID string) (*dto.MapaResponse, error) {
	records, err := uc.allRecords(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	stats := aportante.AggregateByDepartment(records)
	out := &dto.MapaResponse{TotalRegistros: len(records), Departamentos: make([]dto.DepartamentoMapa, 0, len(stats))}
	ubicados := 0
	for _, g := range stats {
		ubicados += g.Registros
		out.Departamentos = append(out.Departamentos, dto.DepartamentoMapa{
			Departamento:      g.Departamento,
			Codigo:            g.Codigo,
			NombresOriginales: g.NombreOriginal,
			Registros:         g.Registros,
			NITsUnicos:        g.NITsUnicos,
			MunicipiosUnicos:  g.MunicipiosUnicos,
			Nivel:             g.Nivel,
		})
	}
	out.SinUbicacion = len(records) - ubicados
	return out, nil
}

func (uc *AportanteUseCase) allRecords(ctx context.Context, sessionID string) ([]entity.Record, error) {
	if _, err := uc.activeSession(ctx, sessionID); err != nil {
		return nil, err
	}
	rows, err := uc.sessions.ListRows(ctx, sessionID, repository.RowFilter{})
	if err != nil {
		return nil, err
	}
	records := make([]entity.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record)
	}
	return records, nil
}

// PurgeExpired elimina las sesiones vencidas.
func (uc *AportanteUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	return uc.sessions.DeleteExpired(ctx, uc.now())
}

// RunJanitor purga sesiones vencidas cada interval hasta que ctx se cancele.
func (uc *AportanteUseCase) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		uc.log.Warn().Msg("janitor de sesiones deshabilitado")
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := uc.PurgeExpired(ctx)
			if err != nil {
				uc.log.Error().Err(err).Msg("purga de sesiones vencidas")
				continue
			}
			if n > 0 {
				uc.log.Info().Int64("sesiones", n).Msg("sesiones vencidas eliminadas")
			}
		}
	}
}

func toSessionResponse(s *entity.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		SessionID: s.ID,
		FileName:  s.FileName,
		FileSize:  s.FileSize,
		RowCount:  s.RowCount,
		NITCount:  s.NITCount,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

// columnsOf nombres de columna en orden de primera aparición.
func columnsOf(records []entity.Record) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, r := range records {
		for _, k := range r.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
