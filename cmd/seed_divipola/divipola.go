package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/esap/parafiscales-api/internal/domain/entity"
)

// charsetReader decodifica los XML publicados en ISO-8859-1 o Windows-1252.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	case "", "UTF-8", "UTF8":
		return input, nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", label)
}

// parseMunicipios lee el XML paramétrico de municipios:
//
//	<tabla><valor cod="05001" nombre="MEDELLÍN"><otro codigo="05" valor="ANTIOQUIA"/></valor>...</tabla>
//
// El atributo opcional tipo en <valor> distingue islas y áreas no municipalizadas.
func parseMunicipios(r io.Reader) ([]entity.Municipio, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("leer XML: %w", err)
	}

	seen := make(map[string]bool)
	var out []entity.Municipio
	for _, v := range doc.FindElements("//valor") {
		cod := strings.TrimSpace(v.SelectAttrValue("cod", ""))
		nombre := strings.TrimSpace(v.SelectAttrValue("nombre", ""))
		otro := v.SelectElement("otro")
		if cod == "" || nombre == "" || otro == nil || seen[cod] {
			continue
		}
		depCod := strings.TrimSpace(otro.SelectAttrValue("codigo", ""))
		dep := strings.TrimSpace(otro.SelectAttrValue("valor", ""))
		if depCod == "" || dep == "" {
			continue
		}
		seen[cod] = true
		out = append(out, entity.Municipio{
			Codigo:             cod,
			Nombre:             nombre,
			DepartamentoCodigo: depCod,
			Departamento:       dep,
			Tipo:               strings.TrimSpace(v.SelectAttrValue("tipo", "Municipio")),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("el XML no contiene municipios")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}
