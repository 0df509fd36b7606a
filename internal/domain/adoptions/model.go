package adoptions

import "time"

// Status recorre el flujo de una solicitud de adopción.
// @Enum pendiente, en_revision, entrevista, aprobada, completada, rechazada, cancelada
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusReview    Status = "en_revision"
	StatusInterview Status = "entrevista"
	StatusApproved  Status = "aprobada"
	StatusCompleted Status = "completada"
	StatusRejected  Status = "rechazada"
	StatusCancelled Status = "cancelada"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusReview, StatusRejected, StatusCancelled},
	StatusReview:    {StatusInterview, StatusApproved, StatusRejected, StatusCancelled},
	StatusInterview: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCompleted, StatusCancelled},
}

// OpenStatuses son los estados no terminales.
var OpenStatuses = []Status{StatusPending, StatusReview, StatusInterview, StatusApproved}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReview, StatusInterview, StatusApproved,
		StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lo usa el back office para ofrecer sólo acciones válidas.
func NextStatuses(from Status) []Status {
	return append([]Status(nil), transitions[from]...)
}

// Housing es el tipo de vivienda declarado.
// @Enum casa, departamento, otro
type Housing string

const (
	HousingHouse     Housing = "casa"
	HousingApartment Housing = "departamento"
	HousingOther     Housing = "otro"
)

// Request es una solicitud de adopción enviada desde el formulario público.
type Request struct {
	ID      string `json:"id"`
	DogID   string `json:"perrito_id"`
	DogName string `json:"perrito_nombre"`

	ApplicantName string  `json:"nombre"`
	Email         string  `json:"email"`
	Phone         string  `json:"telefono"`
	Address       string  `json:"direccion"`
	Housing       Housing `json:"vivienda"`
	HasPets       bool    `json:"tiene_mascotas"`
	HasChildren   bool    `json:"tiene_ninos"`
	Message       string  `json:"mensaje"`

	Status          Status    `json:"estado"`
	AdminNotes      string    `json:"notas_admin"`
	StatusChangedAt time.Time `json:"estado_cambiado_en"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
