package postgres

import (
	"context"
	"fmt"

	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/repository"
)

var _ repository.PlanillaRepository = (*PlanillaRepo)(nil)

// PlanillaRepo lectura de aportantes_planillas.
type PlanillaRepo struct {
	q Querier
}

// NewPlanillaRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPlanillaRepository(q Querier) *PlanillaRepo {
	return &PlanillaRepo{q: q}
}

// ListByNIT planillas crudas del NIT en el orden en que se cargaron.
func (r *PlanillaRepo) ListByNIT(ctx context.Context, nit string) ([]entity.PlanillaRaw, error) {
	query := `
		SELECT nit, tipo_planilla, entidad_aportante, periodo_pago, fecha_pago,
		       total_empleados, total_afiliados, ibc, aporte_obligatorio, mora_aportes, total_aportes,
		       codigo_operador, archivo_origen
		FROM aportantes_planillas
		WHERE nit = $1
		ORDER BY periodo_pago DESC NULLS LAST, id`
	rows, err := r.q.Query(ctx, query, nit)
	if err != nil {
		return nil, fmt.Errorf("list planillas: %w", err)
	}
	defer rows.Close()

	var list []entity.PlanillaRaw
	for rows.Next() {
		var p entity.PlanillaRaw
		if err := rows.Scan(
			&p.NIT, &p.TipoPlanilla, &p.EntidadAportante, &p.PeriodoPago, &p.FechaPago,
			&p.TotalEmpleados, &p.TotalAfiliados, &p.IBC, &p.AporteObligatorio, &p.MoraAportes, &p.TotalAportes,
			&p.CodigoOperador, &p.ArchivoOrigen,
		); err != nil {
			return nil, fmt.Errorf("scan planilla: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountByNIT cantidad de planillas del NIT.
func (r *PlanillaRepo) CountByNIT(ctx context.Context, nit string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM aportantes_planillas WHERE nit = $1`, nit).Scan(&n); err != nil {
		return 0, fmt.Errorf("count planillas: %w", err)
	}
	return n, nil
}

// NITsWithPlanillas marca los NITs que tienen al menos una planilla.
func (r *PlanillaRepo) NITsWithPlanillas(ctx context.Context, nits []string) (map[string]bool, error) {
	out := make(map[string]bool, len(nits))
	if len(nits) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT DISTINCT nit FROM aportantes_planillas WHERE nit = ANY($1)`, nits)
	if err != nil {
		return nil, fmt.Errorf("nits con planillas: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var nit string
		if err := rows.Scan(&nit); err != nil {
			return nil, fmt.Errorf("scan nit: %w", err)
		}
		out[nit] = true
	}
	return out, rows.Err()
}
