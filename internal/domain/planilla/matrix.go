package planilla

import "github.com/esap/parafiscales-api/internal/domain/entity"

// Period par (año, mes).
type Period struct {
	Anio int
	Mes  int
}

// Cell planillas de un período. Una celda sin planillas está presente y vacía.
type Cell []entity.Planilla

// Empty indica que el período no tiene planillas.
func (c Cell) Empty() bool { return len(c) == 0 }

// Matrix grilla densa año → mes → planillas para todo el rango configurado.
type Matrix struct {
	years []int
	cells map[Period]Cell
}

// BuildMatrix agrupa las planillas por (año, mes) en una pasada y materializa
// todas las celdas del rango. Las planillas fuera del rango no aparecen en la grilla.
func BuildMatrix(planillas []entity.Planilla, years YearRange) Matrix {
	grouped := make(map[Period]Cell, len(planillas))
	for _, p := range planillas {
		k := Period{Anio: p.Anio, Mes: p.Mes}
		grouped[k] = append(grouped[k], p)
	}

	m := Matrix{years: years.Years(), cells: make(map[Period]Cell, len(years.Years())*12)}
	for _, y := range m.years {
		for mes := 1; mes <= 12; mes++ {
			k := Period{Anio: y, Mes: mes}
			if c, ok := grouped[k]; ok {
				m.cells[k] = c
			} else {
				m.cells[k] = Cell{}
			}
		}
	}
	return m
}

// Years años de la grilla del más reciente al más antiguo.
func (m Matrix) Years() []int {
	out := make([]int, len(m.years))
	copy(out, m.years)
	return out
}

// Cell planillas del período; ok=false si el período no pertenece a la grilla.
func (m Matrix) Cell(anio, mes int) (Cell, bool) {
	c, ok := m.cells[Period{Anio: anio, Mes: mes}]
	return c, ok
}

// Len número de celdas de la grilla.
func (m Matrix) Len() int { return len(m.cells) }

// EmptyPeriods períodos sin planillas, en orden de la grilla.
func (m Matrix) EmptyPeriods() []Period {
	var out []Period
	for _, y := range m.years {
		for mes := 1; mes <= 12; mes++ {
			if m.cells[Period{Anio: y, Mes: mes}].Empty() {
				out = append(out, Period{Anio: y, Mes: mes})
			}
		}
	}
	return out
}

// Row un año de la grilla con sus 12 meses (índice 0 = enero).
type Row struct {
	Anio  int
	Meses [12]Cell
}

// Rows grilla como lista de años, cada uno con sus 12 meses.
func (m Matrix) Rows() []Row {
	out := make([]Row, 0, len(m.years))
	for _, y := range m.years {
		r := Row{Anio: y}
		for mes := 1; mes <= 12; mes++ {
			r.Meses[mes-1] = m.cells[Period{Anio: y, Mes: mes}]
		}
		out = append(out, r)
	}
	return out
}
