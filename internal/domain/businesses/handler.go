package businesses

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/httpjson"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/qrcard"
)

func RegisterPublicRoutes(r chi.Router, svc *Service) {
	r.Get("/comercios", listBusinessesHandler(svc, true))
	r.Get("/comercios/{id}", getBusinessHandler(svc, true))
	r.Get("/comercios/{id}/qr", qrHandler(svc))
}

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Get("/comercios", listBusinessesHandler(svc, false))
	r.Post("/comercios", createBusinessHandler(svc))
	r.Get("/comercios/{id}", getBusinessHandler(svc, false))
	r.Patch("/comercios/{id}", updateBusinessHandler(svc))
	r.Delete("/comercios/{id}", deleteBusinessHandler(svc))
}

type listResponse struct {
	Items  []Business `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

type qrResponse struct {
	Code    string        `json:"codigo"`
	URL     string        `json:"url"`
	DataURI string        `json:"data_uri"`
	Layout  qrcard.Layout `json:"layout"`
}

// listBusinessesHandler godoc
// @Summary Directorio de comercios pet friendly
// @Tags comercios
// @Produce json
// @Param categoria query string false "veterinaria | tienda | cafeteria | restaurante | hotel | peluqueria | otro"
// @Param q query string false "Texto libre en nombre/dirección/descripción"
// @Param limit query int false "1-200, por defecto 50"
// @Param offset query int false "Desplazamiento"
// @Success 200 {object} listResponse
// @Router /comercios [get]
func listBusinessesHandler(svc *Service, public bool) http.HandlerFunc {
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
		f := ListFilter{
			Category:   Category(r.URL.Query().Get("categoria")),
			Query:      r.URL.Query().Get("q"),
			ActiveOnly: public,
			Limit:      limit,
			Offset:     offset,
		}
		if !public {
			if v := r.URL.Query().Get("activo"); v != "" {
				f.ActiveOnly = v == "true" || v == "1"
			}
		}

		items, total, err := svc.List(r.Context(), f)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		limit, offset = Page(limit, offset)
		httpjson.Write(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: limit, Offset: offset})
	}
}

// getBusinessHandler godoc
// @Summary Obtener comercio
// @Description Acepta id o código PF-XXXXXX.
// @Tags comercios
// @Produce json
// @Param id path string true "ID o código"
// @Success 200 {object} Business
// @Failure 404 {object} map[string]any
// @Router /comercios/{id} [get]
func getBusinessHandler(svc *Service, public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var (
			b   Business
			err error
		)
		if public {
			b, err = svc.LookupPublic(r.Context(), id)
		} else {
			b, err = svc.Lookup(r.Context(), id)
		}
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, b)
	}
}

// qrHandler godoc
// @Summary Tarjeta QR del comercio
// @Description PNG con la tarjeta decorada que apunta a la landing pública del comercio. Con `formato=datauri` devuelve JSON con el data URI.
// @Tags comercios
// @Produce png
// @Produce json
// @Param id path string true "ID o código"
// @Param formato query string false "png (default) | datauri"
// @Param color query string false "Color primario #RRGGBB"
// @Param color2 query string false "Color secundario #RRGGBB"
// @Param tamano query int false "Ancho en px (320-1600)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /comercios/{id}/qr [get]
func qrHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.LookupPublic(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}

		q := r.URL.Query()
		o := StyleOverride{Primary: q.Get("color"), Secondary: q.Get("color2")}
		if raw := strings.TrimSpace(q.Get("tamano")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				httpjson.Error(w, r, apperr.WithFields(apperr.ErrBadRequest, map[string]any{"tamano": "debe ser un entero positivo"}))
				return
			}
			o.Width = n
		}

		card, err := svc.QRCard(b, o)
		if err != nil {
			logger.FromContext(r.Context()).Warn("qr card failed", map[string]any{
				"business_id": b.ID,
				"err":         err,
			})
			httpjson.Error(w, r, err)
			return
		}

		if strings.EqualFold(q.Get("formato"), "datauri") {
			httpjson.Write(w, http.StatusOK, qrResponse{
				Code:    b.Code,
				URL:     svc.LandingURL(b),
				DataURI: card.DataURI(),
				Layout:  card.Layout,
			})
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `inline; filename="`+b.Code+`.png"`)
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(card.PNG)
	}
}

// createBusinessHandler godoc
// @Summary Crear comercio
// @Tags admin-comercios
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Datos del comercio"
// @Success 201 {object} Business
// @Failure 400 {object} map[string]any
// @Router /admin/comercios [post]
func createBusinessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		b, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, b)
	}
}

// updateBusinessHandler godoc
// @Summary Editar comercio
// @Description Actualización parcial. El código PF-XXXXXX no se modifica.
// @Tags admin-comercios
// @Accept json
// @Produce json
// @Param id path string true "ID del comercio"
// @Param payload body UpdateInput true "Campos a modificar"
// @Success 200 {object} Business
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /admin/comercios/{id} [patch]
func updateBusinessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in UpdateInput
		if err := httpjson.Decode(w, r, &in, true); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		b, err := svc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, b)
	}
}

// deleteBusinessHandler godoc
// @Summary Eliminar comercio
// @Tags admin-comercios
// @Param id path string true "ID del comercio"
// @Success 204
// @Failure 404 {object} map[string]any
// @Router /admin/comercios/{id} [delete]
func deleteBusinessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
