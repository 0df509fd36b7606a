package events

import "time"

// Type de actividad municipal.
// @Enum jornada_adopcion, vacunacion, esterilizacion, charla, otro
type Type string

const (
	TypeAdoptionDay Type = "jornada_adopcion"
	TypeVaccination Type = "vacunacion"
	TypeSterilizing Type = "esterilizacion"
	TypeTalk        Type = "charla"
	TypeOther       Type = "otro"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAdoptionDay, TypeVaccination, TypeSterilizing, TypeTalk, TypeOther:
		return true
	}
	return false
}

// Event es una actividad publicada en la agenda (jornadas, campañas).
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"titulo"`
	Description string     `json:"descripcion"`
	Type        Type       `json:"tipo"`
	Location    string     `json:"lugar"`
	StartsAt    time.Time  `json:"inicio"`
	EndsAt      *time.Time `json:"fin,omitempty"`
	Published   bool       `json:"publicado"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EndOrStart es el instante hasta el que el evento sigue vigente.
func (e Event) EndOrStart() time.Time {
	if e.EndsAt != nil {
		return *e.EndsAt
	}
	return e.StartsAt
}
