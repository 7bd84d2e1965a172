package pila

import (
	"fmt"
	"strings"
)

// pesos para el cálculo del dígito de verificación NIT (Orden Administrativa 4 de 1989, DIAN).
// Se aplican de derecha a izquierda sobre los dígitos del NIT (hasta 15).
var nitWeights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// isDigit solo acepta 0-9 ASCII; otros dígitos Unicode romperían el cálculo por bytes.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// NormalizeNIT deja solo los dígitos del NIT ("800.123.456-1" -> "8001234561").
func NormalizeNIT(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isDigit(r) {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// ComputeVerificationDigit calcula el dígito de verificación (módulo 11) para un NIT sin DV.
func ComputeVerificationDigit(nit string) (int, error) {
	digits := NormalizeNIT(nit)
	if digits == "" {
		return 0, fmt.Errorf("pila: NIT sin dígitos")
	}
	if len(digits) > len(nitWeights) {
		return 0, fmt.Errorf("pila: NIT con %d dígitos excede el máximo de %d", len(digits), len(nitWeights))
	}
	var sum int
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * nitWeights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return remainder, nil
	}
	return 11 - remainder, nil
}

// FormatNIT agrega separadores de miles con punto ("900123456" -> "900.123.456").
// Los caracteres que no son dígitos se descartan.
func FormatNIT(nit string) string {
	digits := NormalizeNIT(nit)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ValidNIT indica si el identificador tiene forma de NIT o cédula (entre 5 y 15 dígitos,
// admitiendo puntos, guiones y espacios).
func ValidNIT(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigit(r) && r != '.' && r != '-' && r != ' ' {
			return false
		}
	}
	n := len(NormalizeNIT(s))
	return n >= 5 && n <= 15
}
