package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/esap/parafiscales-api/internal/application/dto"
	"github.com/esap/parafiscales-api/internal/application/ports"
	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/planilla"
	"github.com/esap/parafiscales-api/internal/domain/repository"
	"github.com/esap/parafiscales-api/pkg/logger"
	"github.com/esap/parafiscales-api/pkg/pila"
)

// PlanillaUseCase consulta de planillas PILA por aportante: lista, grilla año/mes,
// estadísticas y exportación.
type PlanillaUseCase struct {
	repo     repository.PlanillaRepository
	exporter ports.CSVExporter
	pdf      ports.PlanillaReportGenerator
	years    planilla.YearRange
	log      *logger.Logger
	now      func() time.Time
}

// NewPlanillaUseCase construye el caso de uso.
func NewPlanillaUseCase(
	repo repository.PlanillaRepository,
	exporter ports.CSVExporter,
	pdf ports.PlanillaReportGenerator,
	years planilla.YearRange,
	log *logger.Logger,
) *PlanillaUseCase {
	return &PlanillaUseCase{
		repo:     repo,
		exporter: exporter,
		pdf:      pdf,
		years:    years,
		log:      log.Named("planillas"),
		now:      time.Now,
	}
}

// loaded planillas normalizadas de un NIT junto con la vista filtrada.
type loaded struct {
	nit      string
	entidad  string
	all      []entity.Planilla
	filtered []entity.Planilla
	filter   planilla.Filter
}

func (uc *PlanillaUseCase) load(ctx context.Context, nit string, q dto.PlanillaQuery) (*loaded, error) {
	if !pila.ValidNIT(nit) {
		return nil, domain.ErrInvalidInput
	}
	nit = pila.NormalizeNIT(nit)
	raws, err := uc.repo.ListByNIT(ctx, nit)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	out := &loaded{nit: nit, all: make([]entity.Planilla, 0, len(raws))}
	for _, raw := range raws {
		p, adj := planilla.Normalize(raw, "", uc.years, now)
		if adj.Any() || adj.Source == planilla.FromNow {
			uc.log.Warn().
				Str("nit", nit).
				Str("periodo_pago", p.PeriodoPago).
				Str("origen_periodo", string(adj.Source)).
				Bool("anio_ajustado", adj.YearClamped).
				Bool("mes_ajustado", adj.MonthDefaulted).
				Str("tipo_desconocido", adj.UnknownType).
				Msg("planilla normalizada con ajustes")
		}
		if out.entidad == "" && p.NombreAportante != "" {
			out.entidad = p.NombreAportante
		}
		out.all = append(out.all, p)
	}
	out.filter = planilla.Filter{Tipo: q.Tipo, Busqueda: q.Busqueda}
	out.filtered = out.filter.Apply(out.all)
	return out, nil
}

// List planillas filtradas con estadísticas. Sin planillas responde SinDatos, no error.
func (uc *PlanillaUseCase) List(ctx context.Context, nit string, q dto.PlanillaQuery) (*dto.PlanillasResponse, error) {
	l, err := uc.load(ctx, nit, q)
	if err != nil {
		return nil, err
	}
	out := &dto.PlanillasResponse{
		NIT:              l.nit,
		SinDatos:         len(l.all) == 0,
		TiposDisponibles: planilla.TiposPresentes(l.all),
		Planillas:        toPlanillaResponses(l.filtered),
		Stats:            toPlanillaStats(planilla.ComputeStats(l.filtered)),
	}
	return out, nil
}

// Matriz grilla año/mes (todas las celdas presentes) de las planillas filtradas.
func (uc *PlanillaUseCase) Matriz(ctx context.Context, nit string, q dto.PlanillaQuery) (*dto.MatrizResponse, error) {
	l, err := uc.load(ctx, nit, q)
	if err != nil {
		return nil, err
	}
	m := planilla.BuildMatrix(l.filtered, uc.years)

	out := &dto.MatrizResponse{
		NIT:              l.nit,
		SinDatos:         len(l.all) == 0,
		AnioDesde:        uc.years.Min,
		AnioHasta:        uc.years.Max,
		TiposDisponibles: planilla.TiposPresentes(l.all),
		Filas:            make([]dto.MatrizFila, 0, len(m.Years())),
		PeriodosVacios:   make([]dto.PeriodoVacio, 0),
		Stats:            toPlanillaStats(planilla.ComputeStats(l.filtered)),
	}
	for _, row := range m.Rows() {
		fila := dto.MatrizFila{Anio: row.Anio}
		for i, cell := range row.Meses {
			fila.Meses[i] = toPlanillaResponses(cell)
		}
		out.Filas = append(out.Filas, fila)
	}
	for _, p := range m.EmptyPeriods() {
		out.PeriodosVacios = append(out.PeriodosVacios, dto.PeriodoVacio{Anio: p.Anio, Mes: p.Mes})
	}
	return out, nil
}

// Disponibles indica si el NIT tiene planillas cargadas.
func (uc *PlanillaUseCase) Disponibles(ctx context.Context, nit string) (*dto.DisponiblesResponse, error) {
	if !pila.ValidNIT(nit) {
		return nil, domain.ErrInvalidInput
	}
	nit = pila.NormalizeNIT(nit)
	n, err := uc.repo.CountByNIT(ctx, nit)
	if err != nil {
		return nil, err
	}
	return &dto.DisponiblesResponse{NIT: nit, TienePlanillas: n > 0, TotalPlanillas: n}, nil
}

// CSV planillas filtradas como CSV. ErrNoData si el filtro no deja planillas.
func (uc *PlanillaUseCase) CSV(ctx context.Context, nit string, q dto.PlanillaQuery) (*ports.Download, error) {
	l, err := uc.load(ctx, nit, q)
	if err != nil {
		return nil, err
	}
	if len(l.filtered) == 0 {
		return nil, domain.ErrNoData
	}
	data, err := uc.exporter.Planillas(l.filtered)
	if err != nil {
		return nil, fmt.Errorf("exportar planillas: %w", err)
	}
	return &ports.Download{
		FileName:    fmt.Sprintf("planillas_%s_%s.csv", l.nit, uc.now().Format("2006-01-02")),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// ReportPDF reporte PDF de las planillas filtradas. ErrNoData si no hay planillas.
func (uc *PlanillaUseCase) ReportPDF(ctx context.Context, nit string, q dto.PlanillaQuery) (*ports.Download, error) {
	l, err := uc.load(ctx, nit, q)
	if err != nil {
		return nil, err
	}
	if len(l.filtered) == 0 {
		return nil, domain.ErrNoData
	}
	data, err := uc.pdf.Generate(ports.PlanillaReport{
		NIT:        l.nit,
		Entidad:    l.entidad,
		Filtro:     l.filter,
		Years:      uc.years,
		Planillas:  l.filtered,
		Stats:      planilla.ComputeStats(l.filtered),
		GeneradoEn: uc.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("generar reporte: %w", err)
	}
	return &ports.Download{
		FileName:    fmt.Sprintf("planillas_%s.pdf", l.nit),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func toPlanillaResponses(items []entity.Planilla) []dto.PlanillaResponse {
	out := make([]dto.PlanillaResponse, 0, len(items))
	for _, p := range items {
		desc, _ := pila.DescripcionTipo(p.TipoPlanilla)
		out = append(out, dto.PlanillaResponse{
			Anio:            p.Anio,
			Mes:             p.Mes,
			MesNombre:       pila.MesCompleto(p.Mes),
			TipoPlanilla:    p.TipoPlanilla,
			DescripcionTipo: desc,
			NombreAportante: p.NombreAportante,
			PeriodoPago:     p.PeriodoPago,
			FechaPago:       p.FechaPago,
			TotalEmpleados:  p.TotalEmpleados,
			TotalAfiliados:  p.TotalAfiliados,
			IBC:             p.IBC,
			Capital:         p.Capital,
			Interes:         p.Interes,
			ValorTotal:      p.ValorTotal,
			CodigoOperador:  p.CodigoOperador,
			NombreOperador:  p.NombreOperador,
			Archivo:         p.Archivo,
			Estado:          p.Estado,
		})
	}
	return out
}

func toPlanillaStats(s planilla.Stats) dto.PlanillaStats {
	return dto.PlanillaStats{
		TotalPlanillas:    s.TotalPlanillas,
		TotalEmpleados:    s.TotalEmpleados,
		TotalValor:        s.TotalValor,
		PromedioEmpleados: s.PromedioEmpleados,
		TipoMasFrecuente:  s.TipoMasFrecuente,
		DescripcionTipo:   s.DescripcionTipo,
	}
}
