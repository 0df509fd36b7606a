package adoptions

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/httpjson"
)

// RegisterPublicRoutes monta el formulario; limit es el rate limiter por IP.
func RegisterPublicRoutes(r chi.Router, svc *Service, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/solicitudes", submitRequestHandler(svc))
}

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Get("/solicitudes", listRequestsHandler(svc))
	r.Get("/solicitudes/{id}", getRequestHandler(svc))
	r.Post("/solicitudes/{id}/estado", transitionHandler(svc))
}

type submittedResponse struct {
	ID      string `json:"id"`
	DogID   string `json:"perrito_id"`
	Status  Status `json:"estado"`
	Message string `json:"mensaje"`
}

type listResponse struct {
	Items []Request `json:"items"`
	Total int       `json:"total"`
}

type detailResponse struct {
	Request
	Next []Status `json:"siguientes_estados"`
}

// submitRequestHandler godoc
// @Summary Enviar solicitud de adopción
// @Description Formulario público. Sólo se aceptan solicitudes para perritos disponible o en_proceso. Limitado por IP.
// @Tags solicitudes
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Datos del solicitante"
// @Success 201 {object} submittedResponse
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any "perrito inexistente"
// @Failure 409 {object} map[string]any "perrito no disponible"
// @Failure 429 {object} map[string]any
// @Router /solicitudes [post]
func submitRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		req, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, submittedResponse{
			ID:      req.ID,
			DogID:   req.DogID,
			Status:  req.Status,
			Message: "¡Gracias! Recibimos tu solicitud para adoptar a " + req.DogName + ". Te contactaremos pronto.",
		})
	}
}

// listRequestsHandler godoc
// @Summary Listar solicitudes
// @Tags admin-solicitudes
// @Produce json
// @Param estado query string false "Lista CSV de estados"
// @Param perrito_id query string false "Filtrar por perrito"
// @Param limit query int false "0 = todas"
// @Param offset query int false "Desplazamiento"
// @Success 200 {object} listResponse
// @Router /admin/solicitudes [get]
func listRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := httpjson.QueryInt(r, "limit", 0)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		offset, err := httpjson.QueryInt(r, "offset", 0)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		f := ListFilter{DogID: r.URL.Query().Get("perrito_id"), Limit: limit, Offset: offset}
		for _, st := range httpjson.QueryList(r, "estado") {
			f.Statuses = append(f.Statuses, Status(st))
		}

		items, total, err := svc.List(r.Context(), f)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, listResponse{Items: items, Total: total})
	}
}

func getRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, detailResponse{Request: req, Next: NextStatuses(req.Status)})
	}
}

// transitionHandler godoc
// @Summary Cambiar estado de solicitud
// @Description Aplica el flujo pendiente → en_revision → entrevista → aprobada → completada. aprobada pasa el perrito a en_proceso; completada lo marca adoptado y rechaza el resto de solicitudes abiertas.
// @Tags admin-solicitudes
// @Accept json
// @Produce json
// @Param id path string true "ID de la solicitud"
// @Param payload body TransitionInput true "Nuevo estado y notas"
// @Success 200 {object} Request
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any "transición inválida"
// @Router /admin/solicitudes/{id}/estado [post]
func transitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in TransitionInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		actor := ""
		if c, ok := middleware.GetClaims(r.Context()); ok {
			actor = c.UserID
		}
		req, err := svc.Transition(r.Context(), chi.URLParam(r, "id"), in, actor)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, req)
	}
}
