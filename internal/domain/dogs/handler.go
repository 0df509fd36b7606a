package dogs

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/platform/httpjson"
)

// RegisterPublicRoutes monta el catálogo sobre /api. create llega ya
// envuelto en el guard de admin.
func RegisterPublicRoutes(r chi.Router, svc *Service, adminOnly func(http.Handler) http.Handler) {
	r.Get("/perritos", listDogsHandler(svc, true))
	r.Get("/perritos/{id}", getDogHandler(svc))
	r.With(adminOnly).Post("/perritos", createDogHandler(svc))
}

// RegisterAdminRoutes monta sobre /api/admin (ya protegido).
func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Get("/perritos", listDogsHandler(svc, false))
	r.Post("/perritos", createDogHandler(svc))
	r.Get("/perritos/{id}", getDogHandler(svc))
	r.Patch("/perritos/{id}", updateDogHandler(svc))
	r.Delete("/perritos/{id}", deleteDogHandler(svc))
}

type listResponse struct {
	Items  []Dog `json:"items"`
	Total  int   `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// createDogHandler godoc
// @Summary Registrar perrito
// @Description Da de alta un perrito en el refugio. Requiere rol admin. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>`.
// @Tags perritos
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Datos del perrito; fecha_ingreso YYYY-MM-DD"
// @Success 201 {object} Dog
// @Failure 400 {object} map[string]any "validation_error"
// @Failure 401 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Router /perritos [post]
func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		d, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, d)
	}
}

// listDogsHandler godoc
// @Summary Listar perritos
// @Description Catálogo paginado. En la ruta pública, sin `estado` se listan disponible y en_proceso.
// @Tags perritos
// @Produce json
// @Param estado query string false "Lista CSV: disponible,en_proceso,adoptado"
// @Param sexo query string false "macho | hembra"
// @Param tamano query string false "pequeno | mediano | grande"
// @Param q query string false "Texto libre en nombre/raza/color/descripción"
// @Param limit query int false "1-100, por defecto 20"
// @Param offset query int false "Desplazamiento"
// @Success 200 {object} listResponse
// @Failure 400 {object} map[string]any
// @Router /perritos [get]
func listDogsHandler(svc *Service, public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := httpjson.QueryInt(r, "limit", DefaultLimit)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		offset, err := httpjson.QueryInt(r, "offset", 0)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}

		q := r.URL.Query()
		f := ListFilter{
			Sex:    Sex(q.Get("sexo")),
			Size:   Size(q.Get("tamano")),
			Query:  q.Get("q"),
			Limit:  limit,
			Offset: offset,
		}
		for _, st := range httpjson.QueryList(r, "estado") {
			f.Statuses = append(f.Statuses, Status(st))
		}

		items, total, err := svc.List(r.Context(), f, public)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		limit, offset = Page(limit, offset)
		httpjson.Write(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: limit, Offset: offset})
	}
}

// getDogHandler godoc
// @Summary Obtener perrito
// @Tags perritos
// @Produce json
// @Param id path string true "ID del perrito"
// @Success 200 {object} Dog
// @Failure 404 {object} map[string]any
// @Router /perritos/{id} [get]
func getDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, d)
	}
}

// updateDogHandler godoc
// @Summary Editar perrito
// @Description PATCH parcial: los campos ausentes no se tocan.
// @Tags admin-perritos
// @Accept json
// @Produce json
// @Param id path string true "ID del perrito"
// @Param payload body UpdateInput true "Campos a modificar"
// @Success 200 {object} Dog
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /admin/perritos/{id} [patch]
func updateDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in UpdateInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		d, err := svc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, d)
	}
}

// deleteDogHandler godoc
// @Summary Dar de baja perrito
// @Description Baja lógica (deleted_at); el expediente se conserva.
// @Tags admin-perritos
// @Param id path string true "ID del perrito"
// @Success 204
// @Failure 404 {object} map[string]any
// @Router /admin/perritos/{id} [delete]
func deleteDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
