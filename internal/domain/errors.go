package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	ErrSessionNotFound = errors.New("sesión no encontrada")
	ErrSessionExpired  = errors.New("la sesión expiró, cargue el archivo nuevamente")
	ErrEmptyFile       = errors.New("el archivo no contiene registros")
	ErrUnsupportedFile = errors.New("formato de archivo no soportado")

	// Resultados explícitos al consultar datos o el motor externo.
	ErrNoData              = errors.New("no hay datos disponibles")
	ErrUpstreamUnavailable = errors.New("motor de procesamiento no disponible")
	ErrUpstreamRejected    = errors.New("el motor de procesamiento rechazó la solicitud")
)
