// Package checksum huellas xxhash de los archivos recibidos, para trazabilidad en logs y respuestas.
package checksum

import (
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Bytes huella hexadecimal de data.
func Bytes(data []byte) string {
	digest := xxhash.New()
	_, _ = digest.Write(data)
	return hex.EncodeToString(digest.Sum(nil))
}

// Reader huella hexadecimal del contenido de r.
func Reader(r io.Reader) (string, error) {
	digest := xxhash.New()
	if _, err := io.Copy(digest, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
