package entity

// Municipio municipio del catálogo DIVIPOLA (DANE).
type Municipio struct {
	Codigo             string // 5 dígitos: 2 del departamento + 3 del municipio
	Nombre             string
	DepartamentoCodigo string
	Departamento       string
	Tipo               string // Municipio, Isla, Área no municipalizada
}
