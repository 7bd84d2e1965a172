package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository sobre PostgreSQL.
type SessionRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewSessionRepository construye el adaptador de persistencia de sesiones.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Create inserta la sesión y copia sus filas en una sola transacción.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session, rows []entity.AportanteRow) error {
	return r.tx.Run(ctx, func(q Querier) error {
		if err := insertSession(ctx, q, s); err != nil {
			return err
		}
		return copyRows(ctx, q, s.ID, rows)
	})
}

func insertSession(ctx context.Context, q Querier, s *entity.Session) error {
	query := `
		INSERT INTO aportante_sesiones (id, file_name, file_size, row_count, nit_count, created_by, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`
	_, err := q.Exec(ctx, query,
		s.ID, s.FileName, s.FileSize, s.RowCount, s.NITCount, s.CreatedBy, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return wrapErr("insert sesión "+s.ID, err)
	}
	return nil
}

func copyRows(ctx context.Context, q Querier, sessionID string, rows []entity.AportanteRow) error {
	if len(rows) == 0 {
		return nil
	}
	data := make([][]any, 0, len(rows))
	for _, row := range rows {
		b, err := json.Marshal(row.Record)
		if err != nil {
			return fmt.Errorf("fila %d: %w", row.Position, err)
		}
		data = append(data, []any{
			sessionID, row.Position, row.NIT, row.Entidad, row.Departamento, row.Municipio, string(b),
		})
	}
	n, err := q.CopyFrom(ctx,
		pgx.Identifier{"aportante_filas"},
		[]string{"session_id", "position", "nit", "entidad", "departamento", "municipio", "datos"},
		pgx.CopyFromRows(data),
	)
	if err != nil {
		return fmt.Errorf("copy filas: %w", err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("copy filas: se copiaron %d de %d", n, len(rows))
	}
	return nil
}

// GetByID obtiene una sesión por ID; nil, nil si no existe.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `
		SELECT id, file_name, file_size, row_count, nit_count, COALESCE(created_by, ''), created_at, expires_at
		FROM aportante_sesiones WHERE id = $1`
	var s entity.Session
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.FileName, &s.FileSize, &s.RowCount, &s.NITCount, &s.CreatedBy, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sesión: %w", err)
	}
	return &s, nil
}

// Delete elimina la sesión; sus filas se borran en cascada.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM aportante_sesiones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sesión: %w", err)
	}
	return nil
}

// DeleteExpired elimina las sesiones vencidas.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM aportante_sesiones WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete sesiones vencidas: %w", err)
	}
	return tag.RowsAffected(), nil
}

// rowFilterSQL condiciones comunes; $1 es siempre el session_id.
const rowFilterSQL = `
		session_id = $1
		AND ($2 = '' OR nit = $2)
		AND ($3 = '' OR nit LIKE '%' || $3 || '%')
		AND ($4 = '' OR departamento = $4)
		AND ($5 = '' OR municipio = $5)`

func rowFilterArgs(sessionID string, f repository.RowFilter) []any {
	return []any{sessionID, f.NIT, f.NITContains, f.Departamento, f.Municipio}
}

// ListRows filas de la sesión en el orden del archivo.
func (r *SessionRepo) ListRows(ctx context.Context, sessionID string, f repository.RowFilter) ([]entity.AportanteRow, error) {
	query := `
		SELECT position, nit, entidad, departamento, municipio, datos
		FROM aportante_filas WHERE` + rowFilterSQL + `
		ORDER BY position`
	rows, err := r.pool.Query(ctx, query, rowFilterArgs(sessionID, f)...)
	if err != nil {
		return nil, fmt.Errorf("list filas: %w", err)
	}
	defer rows.Close()

	var list []entity.AportanteRow
	for rows.Next() {
		var (
			row  entity.AportanteRow
			data []byte
		)
		if err := rows.Scan(&row.Position, &row.NIT, &row.Entidad, &row.Departamento, &row.Municipio, &data); err != nil {
			return nil, fmt.Errorf("scan fila: %w", err)
		}
		if err := json.Unmarshal(data, &row.Record); err != nil {
			return nil, fmt.Errorf("decodificar fila %d: %w", row.Position, err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// DistinctNITs NITs distintos que cumplen el filtro, ordenados.
func (r *SessionRepo) DistinctNITs(ctx context.Context, sessionID string, f repository.RowFilter) ([]string, error) {
	query := `
		SELECT DISTINCT nit FROM aportante_filas
		WHERE` + rowFilterSQL + ` AND nit <> '-'
		ORDER BY nit`
	return r.strings(ctx, query, rowFilterArgs(sessionID, f)...)
}

// DistinctDepartamentos departamentos distintos de la sesión.
func (r *SessionRepo) DistinctDepartamentos(ctx context.Context, sessionID string) ([]string, error) {
	query := `
		SELECT DISTINCT departamento FROM aportante_filas
		WHERE session_id = $1 AND departamento <> '-'
		ORDER BY departamento`
	return r.strings(ctx, query, sessionID)
}

// DistinctMunicipios municipios distintos; si departamento no está vacío solo los de ese departamento.
func (r *SessionRepo) DistinctMunicipios(ctx context.Context, sessionID, departamento string) ([]string, error) {
	query := `
		SELECT DISTINCT municipio FROM aportante_filas
		WHERE session_id = $1 AND municipio <> '-' AND ($2 = '' OR departamento = $2)
		ORDER BY municipio`
	return r.strings(ctx, query, sessionID, departamento)
}

func (r *SessionRepo) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query distinct: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan distinct: %w", err)
	}
	return out, nil
}
