package entity

import "time"

// Session agrupa los registros de un archivo de aportantes cargado.
// Se crea al cargar el archivo y deja de ser válida al eliminarse o al vencer ExpiresAt.
type Session struct {
	ID        string
	FileName  string
	FileSize  int64
	RowCount  int
	NITCount  int
	CreatedBy string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired indica si la sesión ya no es válida en el instante now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// AportanteRow fila del archivo de aportantes con las columnas de filtro ya resueltas.
type AportanteRow struct {
	Position     int
	NIT          string
	Entidad      string
	Departamento string // "-" si no se pudo resolver
	Municipio    string // "-" si no se pudo resolver
	Record       Record
}
