package medical

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/httpjson"
)

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Get("/perritos/{id}/expediente", listRecordsHandler(svc))
	r.Post("/perritos/{id}/expediente", createRecordHandler(svc))
	r.Post("/perritos/{id}/expediente/{recordID}/anular", voidRecordHandler(svc))
}

// createRecordHandler godoc
// @Summary Agregar entrada al expediente médico
// @Description Registra consulta, vacuna, desparasitación, etc. `vacuna` y `esterilizacion` actualizan los flags del perrito. `fecha` YYYY-MM-DD, no futura; vacía = hoy.
// @Tags admin-expediente
// @Accept json
// @Produce json
// @Param id path string true "ID del perrito"
// @Param payload body CreateInput true "Entrada"
// @Success 201 {object} Record
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /admin/perritos/{id}/expediente [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var in CreateInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		rec, err := svc.Create(r.Context(), chi.URLParam(r, "id"), claims.UserID, in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, rec)
	}
}

// listRecordsHandler godoc
// @Summary Expediente médico del perrito
// @Description Más reciente primero. Las entradas anuladas se ocultan salvo `anulados=true`.
// @Tags admin-expediente
// @Produce json
// @Param id path string true "ID del perrito"
// @Param tipos query string false "Lista CSV de tipos (consulta,vacuna,...)"
// @Param desde query string false "Fecha mínima YYYY-MM-DD"
// @Param hasta query string false "Fecha máxima YYYY-MM-DD"
// @Param q query string false "Texto en título/notas"
// @Param anulados query bool false "Incluir anuladas"
// @Param limit query int false "1-200, por defecto 50"
// @Success 200 {array} Record
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /admin/perritos/{id}/expediente [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, err := httpjson.QueryInt(r, "limit", DefaultLimit)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		f := ListFilter{Query: q.Get("q"), Limit: limit, IncludeVoided: q.Get("anulados") == "true"}
		for _, t := range httpjson.QueryList(r, "tipos") {
			f.Types = append(f.Types, RecordType(t))
		}
		if f.From, err = parseDay(q.Get("desde"), "desde", false); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		if f.To, err = parseDay(q.Get("hasta"), "hasta", true); err != nil {
			httpjson.Error(w, r, err)
			return
		}

		items, err := svc.ListByDog(r.Context(), chi.URLParam(r, "id"), f)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

// parseDay: endOfDay hace inclusivo el límite superior.
func parseDay(raw, field string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperr.WithFields(apperr.ErrBadRequest, map[string]any{field: "formato YYYY-MM-DD"})
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// voidRecordHandler godoc
// @Summary Anular entrada del expediente
// @Tags admin-expediente
// @Accept json
// @Produce json
// @Param id path string true "ID del perrito"
// @Param recordID path string true "ID de la entrada"
// @Param payload body VoidInput true "Motivo"
// @Success 200 {object} Record
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /admin/perritos/{id}/expediente/{recordID}/anular [post]
func voidRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in VoidInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		rec, err := svc.Void(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "recordID"), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, rec)
	}
}
