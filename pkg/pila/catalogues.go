// Package pila contiene los catálogos de la Planilla Integrada de Liquidación
// de Aportes (PILA) usados para presentar planillas de parafiscales, y las
// utilidades de NIT asociadas.
package pila

// =============================================================================
// Tipos de planilla (Resolución 2388 de 2016 - Ministerio de Salud)
// Un solo carácter identifica el tipo de planilla liquidada.
// =============================================================================

const (
	TipoEmpleados         = "E"
	TipoNovedadIngreso    = "A"
	TipoMora              = "M"
	TipoCorrecciones      = "N"
	TipoSentencias        = "J"
	TipoEstudiantes       = "K"
	TipoIndependientesEmp = "Y"
)

// TipoPorDefecto se asume cuando el registro no trae tipo de planilla.
const TipoPorDefecto = TipoEmpleados

// tiposPlanilla descripción de cada tipo en el orden en que se presentan.
var tiposPlanilla = []struct{ Codigo, Descripcion string }{
	{TipoEmpleados, "Empleados"},
	{TipoNovedadIngreso, "Novedad de Ingreso"},
	{TipoMora, "Mora"},
	{TipoCorrecciones, "Correcciones"},
	{TipoSentencias, "Sentencias Judiciales"},
	{TipoEstudiantes, "Estudiantes"},
	{TipoIndependientesEmp, "Independientes en Empresas"},
}

// DescripcionTipo devuelve la descripción del tipo de planilla y si el código es válido.
func DescripcionTipo(codigo string) (string, bool) {
	for _, t := range tiposPlanilla {
		if t.Codigo == codigo {
			return t.Descripcion, true
		}
	}
	return "", false
}

// TiposPlanilla devuelve los códigos válidos en orden de presentación.
func TiposPlanilla() []string {
	out := make([]string, 0, len(tiposPlanilla))
	for _, t := range tiposPlanilla {
		out = append(out, t.Codigo)
	}
	return out
}

// =============================================================================
// Operadores de información PILA y entidades financieras recaudadoras.
// El código es el que reporta el archivo de la planilla.
// =============================================================================

// OperadorPorDefecto se asume cuando el registro no trae operador.
const OperadorPorDefecto = 83

var operadores = map[int]string{
	1:  "Banco de Bogotá",
	2:  "Banco Popular",
	6:  "Banco Itaú",
	7:  "Bancolombia",
	9:  "Banco Citibank Colombia",
	12: "Banco GNB Sudameris",
	13: "BBVA",
	19: "Scotiabank - Red Multibanca Colpatria S. A.",
	23: "Banco de Occidente",
	32: "Banco Caja Social",
	40: "Banco Agrario",
	51: "Banco Davivienda S.A.",
	52: "Banco AV Villas",
	53: "Banco W S. A.",
	58: "Banco Credifinanciera S. A.",
	59: "Bancamía",
	60: "Banco Pichincha S. A.",
	61: "Bancoomeva",
	62: "Banco Falabella S. A.",
	63: "Banco Finandina S. A.",
	65: "Banco Santander de Negocios",
	66: "Banco Cooperativo Coopcentral",
	67: "Mibanco S. A.",
	69: "Banco Serfinanza",
	73: "Banco Unión",
	82: "Soi",
	83: "Mi Planilla",
	84: "Aportes en Línea",
	86: "Asopagos",
	88: "Simple",
	89: "Arus",
}

// NombreOperador devuelve el nombre del operador y si el código es conocido.
func NombreOperador(codigo int) (string, bool) {
	n, ok := operadores[codigo]
	return n, ok
}

// =============================================================================
// Meses
// =============================================================================

var (
	mesesCortos    = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}
	mesesCompletos = [12]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
)

// MesCorto devuelve la abreviatura del mes (1-12) o "" si está fuera de rango.
func MesCorto(mes int) string {
	if mes < 1 || mes > 12 {
		return ""
	}
	return mesesCortos[mes-1]
}

// MesCompleto devuelve el nombre del mes (1-12) o "" si está fuera de rango.
func MesCompleto(mes int) string {
	if mes < 1 || mes > 12 {
		return ""
	}
	return mesesCompletos[mes-1]
}
