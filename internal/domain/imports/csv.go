package imports

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"pet-adoption/internal/platform/apperr"
)

var ErrNotEnoughRows = apperr.WithMessage(apperr.ErrBadRequest, "el CSV necesita un encabezado y al menos una fila de datos")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table es un CSV ya separado: encabezados normalizados y filas de datos
// no vacías. El encabezado nunca aparece en Rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Parse lee un CSV separado por comas. Las filas con todas las celdas en
// blanco se descartan. Las filas pueden tener menos o más celdas que el
// encabezado.
func Parse(r io.Reader) (Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Table{}, apperr.Wrap(err, apperr.ErrBadRequest, "no se pudo leer el archivo")
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var t Table
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, apperr.Wrap(err, apperr.ErrBadRequest, "CSV mal formado")
		}
		if blank(rec) {
			continue
		}
		if t.Headers == nil {
			t.Headers = normalizeHeaders(rec)
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	if t.Headers == nil || len(t.Rows) == 0 {
		return Table{}, ErrNotEnoughRows
	}
	return t, nil
}

func ParseString(s string) (Table, error) {
	return Parse(strings.NewReader(s))
}

func normalizeHeaders(rec []string) []string {
	out := make([]string, len(rec))
	for i, h := range rec {
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Records arma un objeto por fila, con clave = encabezado. Las celdas
// sobrantes y los encabezados vacíos se ignoran; las faltantes quedan "".
func (t Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if h == "" {
				continue
			}
			v := ""
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			rec[h] = v
		}
		out = append(out, rec)
	}
	return out
}

// Missing devuelve las columnas requeridas que no están en el encabezado.
func (t Table) Missing(required []string) []string {
	have := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		have[h] = true
	}
	out := make([]string, 0)
	for _, c := range required {
		if !have[c] {
			out = append(out, c)
		}
	}
	return out
}

// Template devuelve la fila de encabezado de la plantilla.
func Template(columns []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
