package aportante

import (
	"github.com/esap/parafiscales-api/internal/domain/entity"
)

// DetailStats resumen de las filas de un NIT.
type DetailStats struct {
	TotalRegistros  int `json:"total_registros"`
	EntidadesUnicas int `json:"entidades_unicas"`
	Departamentos   int `json:"departamentos"`
	Municipios      int `json:"municipios"`
}

// SummarizeDetail cuenta filas y valores distintos de entidad, departamento y
// municipio. El centinela no cuenta como valor.
func SummarizeDetail(rows []entity.Record) DetailStats {
	entidades := map[string]struct{}{}
	deps := map[string]struct{}{}
	muns := map[string]struct{}{}

	for _, rec := range rows {
		if v := ResolverEntidad.Resolve(rec); v != Sentinel {
			entidades[fold(v)] = struct{}{}
		}
		if v := ResolverDepartamento.Resolve(rec); v != Sentinel {
			deps[fold(v)] = struct{}{}
		}
		if v := ResolverMunicipio.Resolve(rec); v != Sentinel {
			muns[fold(v)] = struct{}{}
		}
	}
	return DetailStats{
		TotalRegistros:  len(rows),
		EntidadesUnicas: len(entidades),
		Departamentos:   len(deps),
		Municipios:      len(muns),
	}
}

// Resolved campos semánticos de una fila, calculados una sola vez al cargar el archivo.
type Resolved struct {
	NIT          string
	Entidad      string
	Departamento string
	Municipio    string
}

// ResolveRow aplica los cuatro resolvers a una fila. El NIT se normaliza a dígitos
// por quien llama.
func ResolveRow(rec entity.Record) Resolved {
	return Resolved{
		NIT:          ResolverNIT.Resolve(rec),
		Entidad:      ResolverEntidad.Resolve(rec),
		Departamento: ResolverDepartamento.Resolve(rec),
		Municipio:    ResolverMunicipio.Resolve(rec),
	}
}
