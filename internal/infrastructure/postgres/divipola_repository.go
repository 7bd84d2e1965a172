package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/repository"
)

var _ repository.DivipolaRepository = (*DivipolaRepo)(nil)

// DivipolaRepo catálogo divipola_municipios.
type DivipolaRepo struct {
	q Querier
}

// NewDivipolaRepository construye el adaptador.
func NewDivipolaRepository(q Querier) *DivipolaRepo {
	return &DivipolaRepo{q: q}
}

// Upsert carga los municipios en un batch.
func (r *DivipolaRepo) Upsert(ctx context.Context, municipios []entity.Municipio) (int, error) {
	query := `
		INSERT INTO divipola_municipios (codigo, nombre, departamento_codigo, departamento, tipo)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (codigo) DO UPDATE SET
			nombre = EXCLUDED.nombre,
			departamento_codigo = EXCLUDED.departamento_codigo,
			departamento = EXCLUDED.departamento,
			tipo = EXCLUDED.tipo`
	batch := &pgx.Batch{}
	for _, m := range municipios {
		batch.Queue(query, m.Codigo, m.Nombre, m.DepartamentoCodigo, m.Departamento, m.Tipo)
	}
	if batch.Len() == 0 {
		return 0, nil
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := range municipios {
		if _, err := br.Exec(); err != nil {
			return i, fmt.Errorf("upsert municipio %s: %w", municipios[i].Codigo, err)
		}
	}
	return len(municipios), nil
}

// ListByDepartamento municipios de un departamento ordenados por nombre.
func (r *DivipolaRepo) ListByDepartamento(ctx context.Context, departamentoCodigo string) ([]entity.Municipio, error) {
	query := `
		SELECT codigo, nombre, departamento_codigo, departamento, COALESCE(tipo, '')
		FROM divipola_municipios
		WHERE departamento_codigo = $1
		ORDER BY nombre`
	rows, err := r.q.Query(ctx, query, departamentoCodigo)
	if err != nil {
		return nil, fmt.Errorf("list municipios: %w", err)
	}
	defer rows.Close()
	var list []entity.Municipio
	for rows.Next() {
		var m entity.Municipio
		if err := rows.Scan(&m.Codigo, &m.Nombre, &m.DepartamentoCodigo, &m.Departamento, &m.Tipo); err != nil {
			return nil, fmt.Errorf("scan municipio: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
