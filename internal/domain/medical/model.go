package medical

import "time"

// RecordType clasifica una entrada del expediente.
// @Enum consulta, vacuna, desparasitacion, cirugia, esterilizacion, tratamiento, nota
type RecordType string

const (
	TypeConsultation RecordType = "consulta"
	TypeVaccine      RecordType = "vacuna"
	TypeDeworming    RecordType = "desparasitacion"
	TypeSurgery      RecordType = "cirugia"
	TypeSterilized   RecordType = "esterilizacion"
	TypeTreatment    RecordType = "tratamiento"
	TypeNote         RecordType = "nota"
)

func (t RecordType) Valid() bool {
	switch t {
	case TypeConsultation, TypeVaccine, TypeDeworming, TypeSurgery,
		TypeSterilized, TypeTreatment, TypeNote:
		return true
	}
	return false
}

// @Enum activo, anulado
type RecordStatus string

const (
	StatusActive RecordStatus = "activo"
	StatusVoided RecordStatus = "anulado"
)

// Record es una entrada del expediente médico. No se borra: se anula.
type Record struct {
	ID    string     `json:"id"`
	DogID string     `json:"perrito_id"`
	Type  RecordType `json:"tipo"`

	Date       time.Time `json:"fecha"`
	RecordedAt time.Time `json:"registrado_en"`

	Title      string   `json:"titulo"`
	Notes      string   `json:"notas"`
	Vet        string   `json:"veterinario"`
	WeightKg   *float64 `json:"peso_kg,omitempty"`
	RecordedBy string   `json:"registrado_por"`

	Status     RecordStatus `json:"estado"`
	VoidReason string       `json:"motivo_anulacion,omitempty"`
	VoidedAt   *time.Time   `json:"anulado_en,omitempty"`
}
