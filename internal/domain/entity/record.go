package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field columna de un registro. Value es string, int64, float64, bool o nil.
type Field struct {
	Key   string
	Value any
}

// Record fila de aportante tal como llega del archivo de origen: el nombre de las
// columnas no está estandarizado y el orden de las columnas se conserva.
type Record struct {
	fields []Field
}

// NewRecord construye un registro con las columnas en el orden dado.
func NewRecord(fields ...Field) Record {
	out := make([]Field, len(fields))
	copy(out, fields)
	return Record{fields: out}
}

// Len número de columnas.
func (r Record) Len() int { return len(r.fields) }

// Fields copia de las columnas en orden.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Keys nombres de las columnas en orden.
func (r Record) Keys() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Key
	}
	return out
}

// At devuelve la columna en la posición i.
func (r Record) At(i int) (Field, bool) {
	if i < 0 || i >= len(r.fields) {
		return Field{}, false
	}
	return r.fields[i], true
}

// Get devuelve el valor de la primera columna con ese nombre exacto.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Text valor de la columna como texto ("" si no existe).
func (r Record) Text(key string) string {
	v, _ := r.Get(key)
	return ValueString(v)
}

// MarshalJSON codifica el registro como objeto JSON respetando el orden de columnas.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("record: columna %q: %w", f.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodifica un objeto JSON conservando el orden de las claves.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: se esperaba un objeto JSON")
	}
	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: clave inválida %v", tok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("record: columna %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: scalar(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	r.fields = fields
	return nil
}

func scalar(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case nil, string, bool:
		return x
	default:
		// Objetos o listas anidadas no son escalares; se conservan como texto JSON.
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// ValueString representación textual de un valor escalar ("" para nil).
func ValueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// IsBlank indica si el valor es nil o texto vacío (solo espacios cuenta como vacío).
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
