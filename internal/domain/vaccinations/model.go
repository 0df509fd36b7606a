package vaccinations

import "time"

// Schedule es una dosis programada para un perrito.
type Schedule struct {
	ID        string     `json:"id"`
	DogID     string     `json:"perrito_id"`
	Vaccine   string     `json:"vacuna"`
	DueDate   time.Time  `json:"fecha_programada"`
	AppliedAt *time.Time `json:"aplicada_en,omitempty"`
	Vet       string     `json:"veterinario"`
	Notes     string     `json:"notas"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Schedule) Applied() bool { return s.AppliedAt != nil }

// Overdue: pendiente con fecha programada anterior al día de hoy.
func (s Schedule) Overdue(today time.Time) bool {
	return !s.Applied() && s.DueDate.Before(today)
}

// Due es una dosis próxima con el nombre del perrito para el listado.
type Due struct {
	Schedule
	DogName string `json:"perrito_nombre"`
	Overdue bool   `json:"vencida"`
}
