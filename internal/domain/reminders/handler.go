package reminders

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/platform/httpjson"
)

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Post("/recordatorios", runHandler(svc))
	r.Get("/recordatorios/reglas", rulesHandler(svc))
}

type runRequest struct {
	Send bool `json:"enviar"`
}

// runHandler godoc
// @Summary Evaluar recordatorios
// @Description Lista las solicitudes sin avance dentro del plazo de su estado. Con enviar=true las manda al webhook del equipo.
// @Tags admin-recordatorios
// @Accept json
// @Produce json
// @Param payload body runRequest false "enviar"
// @Success 200 {object} Report
// @Router /admin/recordatorios [post]
func runHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runRequest
		if r.ContentLength != 0 {
			if err := httpjson.Decode(w, r, &req, true); err != nil {
				httpjson.Error(w, r, err)
				return
			}
		}
		rep, err := svc.Run(r.Context(), req.Send)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, rep)
	}
}

func rulesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, svc.Rules())
	}
}
