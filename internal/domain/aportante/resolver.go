// Package aportante resuelve los campos semánticos (NIT, departamento, municipio,
// entidad) de filas de aportantes cuyas columnas cambian de nombre y posición
// según el archivo de origen, y agrega esas filas por ubicación geográfica.
package aportante

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/esap/parafiscales-api/internal/domain/entity"
)

// Sentinel valor devuelto cuando ninguna estrategia encuentra el campo.
const Sentinel = "-"

// Strategy forma de localizar un campo dentro de una fila.
type Strategy interface {
	Resolve(rec entity.Record) (string, bool)
}

// ExactKeys busca las columnas por nombre exacto, en el orden dado.
type ExactKeys []string

// Resolve devuelve el primer valor no vacío entre las claves exactas.
func (s ExactKeys) Resolve(rec entity.Record) (string, bool) {
	for _, key := range s {
		if v, ok := rec.Get(key); ok && !entity.IsBlank(v) {
			return strings.TrimSpace(entity.ValueString(v)), true
		}
	}
	return "", false
}

// KeyContains busca la primera columna (en orden) cuyo nombre contenga el texto,
// sin distinguir mayúsculas ni tildes.
type KeyContains string

// Resolve devuelve el valor de la primera columna que coincide y no está vacía.
func (s KeyContains) Resolve(rec entity.Record) (string, bool) {
	needle := fold(string(s))
	if needle == "" {
		return "", false
	}
	for _, f := range rec.Fields() {
		if strings.Contains(fold(f.Key), needle) && !entity.IsBlank(f.Value) {
			return strings.TrimSpace(entity.ValueString(f.Value)), true
		}
	}
	return "", false
}

// Positional inspecciona las columnas From..To (base cero, inclusive) y acepta el
// primer valor de texto que cumpla Accept.
type Positional struct {
	From, To int
	Accept   func(value string) bool
}

// Resolve aplica la heurística de forma sobre la ventana de columnas.
func (s Positional) Resolve(rec entity.Record) (string, bool) {
	for i := s.From; i <= s.To; i++ {
		f, ok := rec.At(i)
		if !ok {
			break
		}
		str, isText := f.Value.(string)
		if !isText || entity.IsBlank(str) {
			continue
		}
		str = strings.TrimSpace(str)
		if s.Accept == nil || s.Accept(str) {
			return str, true
		}
	}
	return "", false
}

// Resolver lista ordenada de estrategias para un campo.
type Resolver struct {
	Field      string
	Strategies []Strategy
}

// Lookup evalúa las estrategias en orden y devuelve el primer acierto.
func (r Resolver) Lookup(rec entity.Record) (string, bool) {
	if rec.Len() == 0 {
		return "", false
	}
	for _, s := range r.Strategies {
		if v, ok := s.Resolve(rec); ok {
			return v, true
		}
	}
	return "", false
}

// Resolve como Lookup pero devuelve Sentinel cuando no hay acierto.
func (r Resolver) Resolve(rec entity.Record) string {
	if v, ok := r.Lookup(rec); ok {
		return v
	}
	return Sentinel
}

var (
	onlyDigits = regexp.MustCompile(`^\d+$`)
	shortCode  = regexp.MustCompile(`^[A-Z]{2,4}$`)
)

func looksLikeMunicipio(v string) bool {
	return !onlyDigits.MatchString(v) &&
		!shortCode.MatchString(v) &&
		utf8.RuneCountInString(v) > 2
}

var departmentTokens = []string{"SANTANDER", "CUNDINAMARCA", "AMAZONAS"}

func looksLikeDepartamento(v string) bool {
	if onlyDigits.MatchString(v) {
		return false
	}
	upper := fold(v)
	for _, tok := range departmentTokens {
		if strings.Contains(upper, tok) {
			return true
		}
	}
	return utf8.RuneCountInString(v) > 5
}

// Resolvers de los campos usados como filtro, en estadísticas y en el mapa.
var (
	ResolverMunicipio = Resolver{
		Field: "municipio",
		Strategies: []Strategy{
			ExactKeys{"MUNICIPIO / ISLA", "MUNICIPIO /ISLA", "MUNICIPIO/ ISLA", "MUNICIPIO/ISLA", "MUNICIPIO", "Municipio", "municipio"},
			KeyContains("MUNICIPIO"),
			Positional{From: 7, To: 8, Accept: looksLikeMunicipio},
		},
	}

	ResolverDepartamento = Resolver{
		Field: "departamento",
		Strategies: []Strategy{
			ExactKeys{"DEPARTAMENTO", "Departamento", "departamento"},
			KeyContains("DEPARTAMENTO"),
			Positional{From: 5, To: 7, Accept: looksLikeDepartamento},
		},
	}

	ResolverNIT = Resolver{
		Field: "nit",
		Strategies: []Strategy{
			ExactKeys{"NIT", "Nit", "nit", "NIT APORTANTE", "No. Identificación Aportante", "Número NIT", "identificacion", "IDENTIFICACIÓN"},
		},
	}

	ResolverEntidad = Resolver{
		Field: "entidad",
		Strategies: []Strategy{
			ExactKeys{"ENTIDAD APORTANTE", "Nombre Aportante", "nombre"},
			KeyContains("RAZON SOCIAL"),
		},
	}
)
