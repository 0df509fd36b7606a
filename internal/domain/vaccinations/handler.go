package vaccinations

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/httpjson"
)

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Get("/perritos/{id}/vacunas", listByDogHandler(svc))
	r.Post("/perritos/{id}/vacunas", createScheduleHandler(svc))
	r.Get("/vacunas/proximas", upcomingHandler(svc))
	r.Post("/vacunas/{id}/aplicar", applyHandler(svc))
	r.Delete("/vacunas/{id}", deleteScheduleHandler(svc))
}

// @Summary Programar vacuna
// @Tags admin-vacunas
// @Accept json
// @Produce json
// @Param id path string true "ID del perrito"
// @Param payload body CreateInput true "Vacuna y fecha_programada YYYY-MM-DD"
// @Success 201 {object} Schedule
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /admin/perritos/{id}/vacunas [post]
func createScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		sc, err := svc.Create(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, sc)
	}
}

func listByDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByDog(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

// @Summary Vacunas próximas
// @Description Dosis sin aplicar con fecha hasta hoy + `dias`, incluidas las vencidas.
// @Tags admin-vacunas
// @Produce json
// @Param dias query int false "Ventana en días (0-365), por defecto 30"
// @Success 200 {array} Due
// @Router /admin/vacunas/proximas [get]
func upcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := httpjson.QueryInt(r, "dias", DefaultWindowDays)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		items, err := svc.Upcoming(r.Context(), days)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

// @Summary Marcar vacuna aplicada
// @Description Registra además una entrada `vacuna` en el expediente.
// @Tags admin-vacunas
// @Accept json
// @Produce json
// @Param id path string true "ID de la dosis"
// @Param payload body ApplyInput false "Fecha de aplicación (hoy por defecto)"
// @Success 200 {object} Schedule
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any "ya aplicada"
// @Router /admin/vacunas/{id}/aplicar [post]
func applyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ApplyInput
		if r.ContentLength != 0 {
			if err := httpjson.Decode(w, r, &in, true); err != nil {
				httpjson.Error(w, r, err)
				return
			}
		}
		claims, _ := middleware.GetClaims(r.Context())
		sc, err := svc.Apply(r.Context(), chi.URLParam(r, "id"), claims.UserID, in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, sc)
	}
}

func deleteScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
