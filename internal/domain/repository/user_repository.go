package repository

import (
	"context"
	"time"

	"github.com/esap/parafiscales-api/internal/domain/entity"
)

// UserRepository persistencia de usuarios. Los Get devuelven nil, nil si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	TouchLogin(ctx context.Context, id string, at time.Time) error
}
