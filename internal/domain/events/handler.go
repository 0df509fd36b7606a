package events

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/platform/httpjson"
)

func RegisterPublicRoutes(r chi.Router, svc *Service) {
	r.Get("/eventos", listUpcomingHandler(svc))
	r.Get("/eventos/{id}", getPublishedHandler(svc))
}

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Get("/eventos", listAllHandler(svc))
	r.Post("/eventos", createEventHandler(svc))
	r.Get("/eventos/{id}", getEventHandler(svc))
	r.Patch("/eventos/{id}", updateEventHandler(svc))
	r.Delete("/eventos/{id}", deleteEventHandler(svc))
}

// listUpcomingHandler godoc
// @Summary Agenda pública
// @Description Eventos publicados que todavía no terminaron, por fecha de inicio.
// @Tags eventos
// @Produce json
// @Param tipo query string false "jornada_adopcion | vacunacion | esterilizacion | charla | otro"
// @Param limit query int false "1-200, por defecto 50"
// @Success 200 {array} Event
// @Router /eventos [get]
func listUpcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := httpjson.QueryInt(r, "limit", DefaultLimit)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		items, err := svc.Upcoming(r.Context(), Type(r.URL.Query().Get("tipo")), limit)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

func getPublishedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetPublished(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, e)
	}
}

func listAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := httpjson.QueryInt(r, "limit", DefaultLimit)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		items, err := svc.List(r.Context(), ListFilter{Type: Type(r.URL.Query().Get("tipo")), Limit: limit})
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

// createEventHandler godoc
// @Summary Crear evento
// @Tags admin-eventos
// @Accept json
// @Produce json
// @Param payload body CreateInput true "inicio/fin en RFC3339"
// @Success 201 {object} Event
// @Failure 400 {object} map[string]any
// @Router /admin/eventos [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		e, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, e)
	}
}

func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, e)
	}
}

func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in UpdateInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		e, err := svc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, e)
	}
}

func deleteEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
