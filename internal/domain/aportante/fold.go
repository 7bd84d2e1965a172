package aportante

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]+`)
	spaces          = regexp.MustCompile(`\s+`)
)

// fold pasa a mayúsculas, quita tildes y colapsa espacios ("Municipio  Destíno" -> "MUNICIPIO DESTINO").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToUpper(out)
	out = spaces.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// foldKey como fold pero además reemplaza puntuación por espacios ("BOGOTÁ, D.C." -> "BOGOTA D C").
func foldKey(s string) string {
	out := nonAlphanumeric.ReplaceAllString(fold(s), " ")
	return strings.TrimSpace(spaces.ReplaceAllString(out, " "))
}
