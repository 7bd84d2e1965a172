package dto

import "encoding/json"

// ZipInfoResponse información de un ZIP recibido.
type ZipInfoResponse struct {
	Nombre        string   `json:"nombre"`
	Checksum      string   `json:"checksum"`
	TamanoBytes   int64    `json:"tamano_bytes"`
	TamanoMB      float64  `json:"tamano_mb"`
	TotalArchivos int      `json:"total_archivos"`
	ArchivosTxt   int      `json:"archivos_txt"`
	Archivos      []string `json:"archivos"`
}

// CruceStats métricas que el motor devuelve en los encabezados X-*.
type CruceStats struct {
	MatchesEncontrados int    `json:"matches_encontrados"`
	CapitalActual      string `json:"capital_actual"`
	CapitalAnterior    string `json:"capital_anterior"`
	InteresActual      string `json:"interes_actual"`
	InteresAnterior    string `json:"interes_anterior"`
	TotalArchivosI     int    `json:"total_archivos_i"`
	Errores            int    `json:"errores"`
}

// ValidacionResponse resumen de validación del motor, reenviado tal cual.
type ValidacionResponse = json.RawMessage
