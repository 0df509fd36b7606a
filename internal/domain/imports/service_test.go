package imports

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/metrics"
)

type fakeTarget struct {
	created []map[string]string
	failOn  string
	broken  bool
}

func (f *fakeTarget) Entity() string     { return "perritos" }
func (f *fakeTarget) Columns() []string  { return []string{"nombre", "edad", "sexo"} }
func (f *fakeTarget) Required() []string { return []string{"nombre"} }

func (f *fakeTarget) Create(_ context.Context, rec map[string]string) (string, error) {
	if f.broken {
		return "", errors.New("db caída")
	}
	if err := f.Check(rec); err != nil {
		return "", err
	}
	f.created = append(f.created, rec)
	return fmt.Sprintf("id-%d", len(f.created)), nil
}

func (f *fakeTarget) Check(rec map[string]string) error {
	if rec["sexo"] == f.failOn && f.failOn != "" {
		return apperr.WithFields(apperr.ErrValidation, map[string]any{"sexo": "valor inválido"})
	}
	return nil
}

func TestImportTable(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tgt := &fakeTarget{failOn: "perro"}
	svc := NewService(m, tgt)

	tbl, err := ParseString("nombre,edad,sexo\nMax,2 años,macho\n,1,hembra\nLuna,1,perro\n")
	require.NoError(t, err)

	res, err := svc.ImportTable(context.Background(), "perritos", tbl, false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, []string{"id-1"}, res.IDs)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, RowError{Row: 2, Message: "falta nombre"}, res.Errors[0])
	assert.Equal(t, 3, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Message, "sexo: valor inválido")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportRows.WithLabelValues("perritos", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ImportRows.WithLabelValues("perritos", "error")))
}

func TestImportTable_DryRunWritesNothing(t *testing.T) {
	tgt := &fakeTarget{failOn: "perro"}
	svc := NewService(nil, tgt)
	tbl, err := ParseString("nombre,sexo\nMax,macho\nLuna,perro\n")
	require.NoError(t, err)

	res, err := svc.ImportTable(context.Background(), "perritos", tbl, true)
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Imported)
	assert.Len(t, res.Errors, 1)
	assert.Empty(t, tgt.created)
}

func TestImportTable_MissingColumns(t *testing.T) {
	svc := NewService(nil, &fakeTarget{})
	tbl, err := ParseString("edad,sexo\n2,macho\n")
	require.NoError(t, err)

	_, err = svc.ImportTable(context.Background(), "perritos", tbl, false)
	require.ErrorIs(t, err, apperr.ErrValidation)
	e, _ := apperr.As(err)
	assert.Contains(t, e.Fields, "nombre")
}

func TestImport_UnknownEntityAndInfraFailure(t *testing.T) {
	svc := NewService(nil, &fakeTarget{broken: true})

	_, err := svc.Template("gatitos")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.ImportRecords(context.Background(), "perritos", []map[string]string{{"nombre": "Max"}}, false)
	assert.Error(t, err)
	assert.Equal(t, 500, apperr.Status(err))
}

func TestImportRecords_NormalizesKeys(t *testing.T) {
	tgt := &fakeTarget{}
	svc := NewService(nil, tgt)

	res, err := svc.ImportRecords(context.Background(), "Perritos", []map[string]string{{" Nombre ": " Max "}}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, "Max", tgt.created[0]["nombre"])

	_, err = svc.ImportRecords(context.Background(), "perritos", nil, false)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestImportRecords_DropsBlankRecords(t *testing.T) {
	tgt := &fakeTarget{}
	svc := NewService(nil, tgt)

	res, err := svc.ImportRecords(context.Background(), "perritos", []map[string]string{
		{"nombre": " ", "edad": ""},
		{"nombre": "Max", "edad": "2 años"},
		{},
		{"nombre": "", "edad": "3 años"},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, "falta nombre")

	_, err = svc.ImportRecords(context.Background(), "perritos", []map[string]string{{"nombre": "  "}}, false)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestPreview_FirstFiveRows(t *testing.T) {
	svc := NewService(nil, &fakeTarget{})
	tbl, err := ParseString("edad\n1\n2\n3\n4\n5\n6\n7\n")
	require.NoError(t, err)

	p, err := svc.Preview("perritos", tbl)
	require.NoError(t, err)
	assert.Len(t, p.Rows, PreviewRows)
	assert.Equal(t, 7, p.Total)
	assert.Equal(t, []string{"nombre"}, p.Missing)
}
