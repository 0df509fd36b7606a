// Package web sirve las páginas públicas: inicio, ficha de perrito y
// landing de comercio (destino del QR).
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/domain/businesses"
	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/domain/events"
	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	homeDogs     = 12
	homeEvents   = 5
	landingDogs  = 4
	dateTimeShow = "02/01/2006 15:04"
)

type DogCatalog interface {
	GetByID(ctx context.Context, id string) (dogs.Dog, error)
	List(ctx context.Context, f dogs.ListFilter, public bool) ([]dogs.Dog, int, error)
}

type EventAgenda interface {
	Upcoming(ctx context.Context, typ events.Type, limit int) ([]events.Event, error)
}

type BusinessDirectory interface {
	LookupPublic(ctx context.Context, idOrCode string) (businesses.Business, error)
}

type Pages struct {
	dogs       DogCatalog
	events     EventAgenda
	businesses BusinessDirectory
	pages      map[string]*template.Template
}

func New(d DogCatalog, e EventAgenda, b BusinessDirectory) (*Pages, error) {
	funcs := template.FuncMap{
		"fecha": func(t time.Time) string { return t.Format(dateTimeShow) },
		"siono": func(v bool) string {
			if v {
				return "sí"
			}
			return "no"
		},
	}
	p := &Pages{dogs: d, events: e, businesses: b, pages: map[string]*template.Template{}}
	for _, name := range []string{"home", "dog", "business", "error"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		p.pages[name] = t
	}
	return p, nil
}

func (p *Pages) Register(r chi.Router) {
	r.Get("/", p.home)
	r.Get("/perritos/{id}", p.dog)
	r.Get("/comercios/{code}", p.business)
}

func (p *Pages) home(w http.ResponseWriter, r *http.Request) {
	ds, _, err := p.dogs.List(r.Context(), dogs.ListFilter{Limit: homeDogs}, true)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	evs, err := p.events.Upcoming(r.Context(), "", homeEvents)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, "home", map[string]any{
		"Title":  "Inicio",
		"Dogs":   ds,
		"Events": evs,
	})
}

func (p *Pages) dog(w http.ResponseWriter, r *http.Request) {
	d, err := p.dogs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		p.fail(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, "dog", map[string]any{"Title": d.Name, "Dog": d})
}

func (p *Pages) business(w http.ResponseWriter, r *http.Request) {
	b, err := p.businesses.LookupPublic(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		p.fail(w, r, err)
		return
	}
	ds, _, err := p.dogs.List(r.Context(), dogs.ListFilter{Statuses: []dogs.Status{dogs.StatusAvailable}, Limit: landingDogs}, true)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	p.render(w, r, http.StatusOK, "business", map[string]any{"Title": b.Name, "Business": b, "Dogs": ds})
}

func (p *Pages) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	data := map[string]any{"Title": "No encontrado", "Message": "La página que buscás no existe o ya no está publicada."}
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("page failed", map[string]any{"err": err, "path": r.URL.Path})
		data = map[string]any{"Title": "Error", "Message": "Ocurrió un error, probá de nuevo en unos minutos."}
	} else if status != http.StatusNotFound {
		data = map[string]any{"Title": "Solicitud inválida", "Message": apperr.Message(err)}
	}
	p.render(w, r, status, "error", data)
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	var buf bytes.Buffer
	if err := p.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.FromContext(r.Context()).Error("template failed", map[string]any{"err": err, "page": name})
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
