package dto

import (
	"time"

	"github.com/esap/parafiscales-api/internal/domain/entity"
)

// SessionResponse descriptor de la sesión de carga (reemplaza session_id y file_info del navegador).
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	RowCount  int       `json:"total_registros"`
	NITCount  int       `json:"total_nits"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NITItem NIT de la sesión.
type NITItem struct {
	NIT           string `json:"nit"`
	NITFormateado string `json:"nit_formateado"`
	ConPlanillas  bool   `json:"con_planillas"`
}

// NITListResponse lista de NITs únicos.
type NITListResponse struct {
	Total int       `json:"total"`
	NITs  []NITItem `json:"nits"`
}

// FiltrosResponse valores disponibles para los filtros geográficos.
type FiltrosResponse struct {
	Departamentos []string `json:"departamentos"`
	Municipios    []string `json:"municipios"`
}

// MunicipiosResponse municipios de un departamento.
type MunicipiosResponse struct {
	Departamento string   `json:"departamento"`
	Municipios   []string `json:"municipios"`
}

// FiltrarRequest filtros de NITs (query string).
type FiltrarRequest struct {
	Departamento string `query:"departamento"`
	Municipio    string `query:"municipio"`
	NIT          string `query:"nit"`
}

// DetalleStats resumen del detalle de un NIT.
type DetalleStats struct {
	TotalRegistros  int `json:"total_registros"`
	EntidadesUnicas int `json:"entidades_unicas"`
	Departamentos   int `json:"departamentos"`
	Municipios      int `json:"municipios"`
}

// DetalleResponse filas de un NIT con sus estadísticas.
type DetalleResponse struct {
	NIT           string          `json:"nit"`
	NITFormateado string          `json:"nit_formateado"`
	DV            *int            `json:"dv,omitempty"`
	Entidad       string          `json:"entidad"`
	Columnas      []string        `json:"columnas"`
	Registros     []entity.Record `json:"registros"`
	Stats         DetalleStats    `json:"estadisticas"`
}

// DatosResponse todas las filas de la sesión.
type DatosResponse struct {
	Total     int             `json:"total"`
	Registros []entity.Record `json:"registros"`
}

// DepartamentoMapa agregado por departamento para el mapa.
type DepartamentoMapa struct {
	Departamento      string   `json:"departamento"`
	Codigo            string   `json:"codigo,omitempty"`
	NombresOriginales []string `json:"nombres_originales"`
	Registros         int      `json:"registros"`
	NITsUnicos        int      `json:"nits_unicos"`
	MunicipiosUnicos  int      `json:"municipios_unicos"`
	Nivel             int      `json:"nivel"`
}

// MapaResponse agregación geográfica de la sesión.
type MapaResponse struct {
	TotalRegistros int                `json:"total_registros"`
	SinUbicacion   int                `json:"sin_ubicacion"`
	Departamentos  []DepartamentoMapa `json:"departamentos"`
}

// DepartamentoItem departamento del catálogo DIVIPOLA.
type DepartamentoItem struct {
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

// MunicipioItem municipio del catálogo DIVIPOLA.
type MunicipioItem struct {
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
	Tipo   string `json:"tipo,omitempty"`
}
