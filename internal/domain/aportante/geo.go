package aportante

import (
	"sort"
	"strings"

	"github.com/schollz/closestmatch"

	"github.com/esap/parafiscales-api/internal/domain/entity"
	"github.com/esap/parafiscales-api/pkg/pila"
)

// Departamento departamento de la división político-administrativa (DIVIPOLA).
type Departamento struct {
	Codigo string
	Nombre string
}

// Departamentos catálogo DIVIPOLA de departamentos, ordenado por código.
var Departamentos = []Departamento{
	{"05", "ANTIOQUIA"},
	{"08", "ATLÁNTICO"},
	{"11", "BOGOTÁ, D.C."},
	{"13", "BOLÍVAR"},
	{"15", "BOYACÁ"},
	{"17", "CALDAS"},
	{"18", "CAQUETÁ"},
	{"19", "CAUCA"},
	{"20", "CESAR"},
	{"23", "CÓRDOBA"},
	{"25", "CUNDINAMARCA"},
	{"27", "CHOCÓ"},
	{"41", "HUILA"},
	{"44", "LA GUAJIRA"},
	{"47", "MAGDALENA"},
	{"50", "META"},
	{"52", "NARIÑO"},
	{"54", "NORTE DE SANTANDER"},
	{"63", "QUINDÍO"},
	{"66", "RISARALDA"},
	{"68", "SANTANDER"},
	{"70", "SUCRE"},
	{"73", "TOLIMA"},
	{"76", "VALLE DEL CAUCA"},
	{"81", "ARAUCA"},
	{"85", "CASANARE"},
	{"86", "PUTUMAYO"},
	{"88", "ARCHIPIÉLAGO DE SAN ANDRÉS, PROVIDENCIA Y SANTA CATALINA"},
	{"91", "AMAZONAS"},
	{"94", "GUAINÍA"},
	{"95", "GUAVIARE"},
	{"97", "VAUPÉS"},
	{"99", "VICHADA"},
}

// alias escritos frecuentes en los archivos de aportantes (ya normalizados con foldKey).
var departmentAliases = map[string]string{
	"BOGOTA":                                  "11",
	"BOGOTA D C":                              "11",
	"BOGOTA DC":                               "11",
	"SANTAFE DE BOGOTA":                       "11",
	"SANTA FE DE BOGOTA":                      "11",
	"SANTAFE DE BOGOTA D C":                   "11",
	"DISTRITO CAPITAL":                        "11",
	"D C":                                     "11",
	"VALLE":                                   "76",
	"GUAJIRA":                                 "44",
	"SAN ANDRES":                              "88",
	"SAN ANDRES Y PROVIDENCIA":                "88",
	"SAN ANDRES PROVIDENCIA Y SANTA CATALINA": "88",
	"ARCHIPIELAGO DE SAN ANDRES":              "88",
	"N SANTANDER":                             "54",
	"NORTE SANTANDER":                         "54",
	"NTE DE SANTANDER":                        "54",
	"NTE SANTANDER":                           "54",
}

var (
	departmentsByKey = map[string]Departamento{}
	departmentsByCod = map[string]Departamento{}
	departmentKeys   []string
	departmentFuzzy  *closestmatch.ClosestMatch
)

func init() {
	for _, d := range Departamentos {
		k := foldKey(d.Nombre)
		departmentsByKey[k] = d
		departmentsByCod[d.Codigo] = d
		departmentKeys = append(departmentKeys, k)
	}
	departmentFuzzy = closestmatch.New(departmentKeys, []int{2, 3})
}

// DepartamentoPorCodigo busca un departamento por su código DIVIPOLA.
func DepartamentoPorCodigo(codigo string) (Departamento, bool) {
	d, ok := departmentsByCod[strings.TrimSpace(codigo)]
	return d, ok
}

// NormalizeDepartment lleva un nombre de departamento escrito libremente al nombre
// canónico del catálogo. Si no hay coincidencia confiable devuelve el nombre en
// mayúsculas y ok=false.
func NormalizeDepartment(raw string) (Departamento, bool) {
	k := foldKey(raw)
	if k == "" {
		return Departamento{}, false
	}
	if cod, ok := departmentAliases[k]; ok {
		return departmentsByCod[cod], true
	}
	if d, ok := departmentsByKey[k]; ok {
		return d, true
	}
	// Código DIVIPOLA escrito en lugar del nombre ("5", "05", "11").
	if onlyDigits.MatchString(k) && len(k) <= 2 {
		if len(k) == 1 {
			k = "0" + k
		}
		if d, ok := departmentsByCod[k]; ok {
			return d, true
		}
	}
	if match := departmentFuzzy.Closest(k); match != "" && samePrefix(match, k, 4) {
		return departmentsByKey[match], true
	}
	return Departamento{Nombre: strings.ToUpper(strings.TrimSpace(raw))}, false
}

func samePrefix(a, b string, n int) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < n || len(rb) < n {
		return false
	}
	return string(ra[:n]) == string(rb[:n])
}

// GeoStat agregado de un departamento para el mapa.
type GeoStat struct {
	Departamento     string   `json:"departamento"`
	Codigo           string   `json:"codigo,omitempty"`
	NombreOriginal   []string `json:"nombres_originales"`
	Registros        int      `json:"registros"`
	NITsUnicos       int      `json:"nits_unicos"`
	MunicipiosUnicos int      `json:"municipios_unicos"`
	Nivel            int      `json:"nivel"`
}

// Nivel intensidad de color del mapa según la cantidad de NITs únicos.
func Nivel(nits int) int {
	switch {
	case nits >= 100:
		return 6
	case nits >= 50:
		return 5
	case nits >= 20:
		return 4
	case nits >= 10:
		return 3
	case nits >= 5:
		return 2
	case nits > 0:
		return 1
	default:
		return 0
	}
}

type geoAcc struct {
	stat       GeoStat
	nits       map[string]struct{}
	municipios map[string]struct{}
	originales map[string]struct{}
}

// AggregateByDepartment agrupa las filas por departamento normalizado. Las filas
// sin departamento se omiten. Resultado ordenado por NITs únicos descendente y
// luego por nombre.
func AggregateByDepartment(rows []entity.Record) []GeoStat {
	acc := map[string]*geoAcc{}
	var order []string

	for _, rec := range rows {
		rawDep := ResolverDepartamento.Resolve(rec)
		if rawDep == Sentinel {
			continue
		}
		dep, _ := NormalizeDepartment(rawDep)
		a, ok := acc[dep.Nombre]
		if !ok {
			a = &geoAcc{
				stat:       GeoStat{Departamento: dep.Nombre, Codigo: dep.Codigo},
				nits:       map[string]struct{}{},
				municipios: map[string]struct{}{},
				originales: map[string]struct{}{},
			}
			acc[dep.Nombre] = a
			order = append(order, dep.Nombre)
		}
		a.stat.Registros++
		if nit := ResolverNIT.Resolve(rec); nit != Sentinel {
			if digits := pila.NormalizeNIT(nit); digits != "" {
				nit = digits
			}
			a.nits[nit] = struct{}{}
		}
		if mun := ResolverMunicipio.Resolve(rec); mun != Sentinel {
			a.municipios[fold(mun)] = struct{}{}
		}
		if _, seen := a.originales[rawDep]; !seen {
			a.originales[rawDep] = struct{}{}
			a.stat.NombreOriginal = append(a.stat.NombreOriginal, rawDep)
		}
	}

	out := make([]GeoStat, 0, len(order))
	for _, name := range order {
		a := acc[name]
		a.stat.NITsUnicos = len(a.nits)
		a.stat.MunicipiosUnicos = len(a.municipios)
		a.stat.Nivel = Nivel(a.stat.NITsUnicos)
		out = append(out, a.stat)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NITsUnicos != out[j].NITsUnicos {
			return out[i].NITsUnicos > out[j].NITsUnicos
		}
		return out[i].Departamento < out[j].Departamento
	})
	return out
}
