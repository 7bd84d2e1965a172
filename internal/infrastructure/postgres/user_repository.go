package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/esap/parafiscales-api/internal/domain"
	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios sobre la tabla users.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el repositorio; q puede ser el pool o una transacción.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// userRow columnas de users en el orden de selectUser.
type userRow struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r userRow) entity() *entity.User {
	return &entity.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Role:         r.Role,
		Status:       r.Status,
		LastLoginAt:  r.LastLoginAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const selectUser = `
	SELECT id::text, email, password_hash, name, role, status, last_login_at, created_at, updated_at
	FROM users`

// Create inserta el usuario. Un email repetido devuelve domain.ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailAlreadyExists
	}
	if err != nil {
		return wrapErr("insert usuario", err)
	}
	return nil
}

// GetByID usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.one(ctx, selectUser+` WHERE id = $1`, id)
}

// GetByEmail usuario por email sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.one(ctx, selectUser+` WHERE lower(email) = lower($1) LIMIT 1`, email)
}

// TouchLogin registra el último inicio de sesión.
func (r *UserRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return wrapErr("actualizar último ingreso", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) one(ctx context.Context, query string, arg any) (*entity.User, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, wrapErr("consultar usuario", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[userRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("leer usuario", err)
	}
	return row.entity(), nil
}
