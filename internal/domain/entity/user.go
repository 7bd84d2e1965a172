package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleAnalista = "analista"
)

// Estados de la cuenta.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// User funcionario que consulta aportantes y planillas.
type User struct {
	ID           string
	Email        string // en minúsculas
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active indica si la cuenta puede iniciar sesión.
func (u *User) Active() bool { return u.Status == UserActive }

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool { return role == RoleAdmin || role == RoleAnalista }
