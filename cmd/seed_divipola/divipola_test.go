package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const municipiosXML = `<?xml version="1.0" encoding="UTF-8"?>
<parametros>
  <tabla nombre="Municipios">
    <valor cod="50001" nombre="VILLAVICENCIO"><otro codigo="50" valor="META"/></valor>
    <valor cod="05001" nombre="MEDELLÍN"><otro codigo="05" valor="ANTIOQUIA"/></valor>
    <valor cod="88001" nombre="SAN ANDRÉS" tipo="Isla"><otro codigo="88" valor="ARCHIPIÉLAGO DE SAN ANDRÉS"/></valor>
    <valor cod="05001" nombre="MEDELLÍN"><otro codigo="05" valor="ANTIOQUIA"/></valor>
    <valor cod="99999" nombre="SIN DEPARTAMENTO"/>
  </tabla>
</parametros>`

func TestParseMunicipios(t *testing.T) {
	out, err := parseMunicipios(strings.NewReader(municipiosXML))
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "05001", out[0].Codigo)
	assert.Equal(t, "MEDELLÍN", out[0].Nombre)
	assert.Equal(t, "05", out[0].DepartamentoCodigo)
	assert.Equal(t, "Municipio", out[0].Tipo)
	assert.Equal(t, "Isla", out[2].Tipo)
}

func TestParseMunicipios_Latin1(t *testing.T) {
	src := strings.Replace(municipiosXML, "UTF-8", "ISO-8859-1", 1)
	enc, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	out, err := parseMunicipios(bytes.NewReader([]byte(enc)))
	require.NoError(t, err)
	assert.Equal(t, "MEDELLÍN", out[0].Nombre)
}

func TestParseMunicipios_Vacio(t *testing.T) {
	_, err := parseMunicipios(strings.NewReader(`<parametros><tabla/></parametros>`))
	assert.Error(t, err)
}
