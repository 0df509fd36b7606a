package imports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/httpjson"
)

// FileField es el nombre del campo multipart con el CSV.
const FileField = "archivo"

func RegisterAdminRoutes(r chi.Router, svc *Service, maxBytes int64) {
	r.Get("/import/{entidad}/plantilla", templateHandler(svc))
	r.Post("/import/{entidad}/preview", previewHandler(svc, maxBytes))
	r.Post("/import/{entidad}", importHandler(svc, maxBytes))
}

// templateHandler godoc
// @Summary Plantilla CSV
// @Tags admin-import
// @Produce text/csv
// @Param entidad path string true "perritos | comercios"
// @Success 200 {string} string "encabezado CSV"
// @Failure 404 {object} map[string]any
// @Router /admin/import/{entidad}/plantilla [get]
func templateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := chi.URLParam(r, "entidad")
		b, err := svc.Template(entity)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "plantilla_"+entity+".csv"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

// previewHandler godoc
// @Summary Vista previa de un CSV
// @Description Encabezado, primeras 5 filas, total y columnas requeridas faltantes. Acepta text/csv o multipart (campo archivo).
// @Tags admin-import
// @Accept text/csv
// @Produce json
// @Param entidad path string true "perritos | comercios"
// @Success 200 {object} Preview
// @Failure 400 {object} map[string]any
// @Router /admin/import/{entidad}/preview [post]
func previewHandler(svc *Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl, err := readTable(w, r, maxBytes)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		p, err := svc.Preview(chi.URLParam(r, "entidad"), tbl)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, p)
	}
}

type recordsRequest struct {
	Records []map[string]any `json:"registros"`
	DryRun  bool             `json:"dry_run"`
}

// importHandler godoc
// @Summary Importar registros
// @Description JSON {registros:[...]} ya mapeados o un CSV (text/csv o multipart). ?dry_run=true valida sin escribir.
// @Tags admin-import
// @Accept json
// @Produce json
// @Param entidad path string true "perritos | comercios"
// @Param dry_run query bool false "sólo validar"
// @Success 200 {object} Result
// @Failure 400 {object} map[string]any
// @Router /admin/import/{entidad} [post]
func importHandler(svc *Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := chi.URLParam(r, "entidad")
		dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

		var (
			res Result
			err error
		)
		if isJSON(r) {
			var req recordsRequest
			body := http.MaxBytesReader(w, r.Body, maxBytes)
			if derr := json.NewDecoder(body).Decode(&req); derr != nil {
				httpjson.Error(w, r, bodyError(derr))
				return
			}
			res, err = svc.ImportRecords(r.Context(), entity, stringify(req.Records), dryRun || req.DryRun)
		} else {
			tbl, terr := readTable(w, r, maxBytes)
			if terr != nil {
				httpjson.Error(w, r, terr)
				return
			}
			res, err = svc.ImportTable(r.Context(), entity, tbl, dryRun)
		}
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, res)
	}
}

func isJSON(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

// readTable acepta el CSV en el cuerpo o como archivo multipart.
func readTable(w http.ResponseWriter, r *http.Request, maxBytes int64) (Table, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return Table{}, bodyError(err)
		}
		f, _, err := r.FormFile(FileField)
		if err != nil {
			return Table{}, apperr.WithFields(apperr.ErrBadRequest, map[string]any{FileField: "requerido"})
		}
		defer f.Close()
		return parseBody(f)
	}
	return parseBody(r.Body)
}

func parseBody(rd io.Reader) (Table, error) {
	tbl, err := Parse(rd)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Table{}, bodyError(tooLarge)
		}
		return Table{}, err
	}
	return tbl, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.WithMessage(apperr.ErrBadRequest, fmt.Sprintf("el archivo supera %d bytes", tooLarge.Limit))
	}
	if errors.Is(err, io.EOF) {
		return apperr.WithMessage(apperr.ErrBadRequest, "cuerpo vacío")
	}
	return apperr.Wrap(err, apperr.ErrBadRequest, "cuerpo inválido")
}

// stringify lleva los valores JSON al formato de planilla.
func stringify(in []map[string]any) []map[string]string {
	out := make([]map[string]string, len(in))
	for i, rec := range in {
		m := make(map[string]string, len(rec))
		for k, v := range rec {
			switch val := v.(type) {
			case nil:
				m[k] = ""
			case string:
				m[k] = val
			case bool:
				if val {
					m[k] = "si"
				} else {
					m[k] = "no"
				}
			case float64:
				m[k] = strconv.FormatFloat(val, 'f', -1, 64)
			default:
				m[k] = strings.TrimSpace(fmt.Sprint(val))
			}
		}
		out[i] = m
	}
	return out
}
