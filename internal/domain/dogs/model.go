package dogs

import (
	"strings"
	"time"
)

// Sex define el sexo del perrito.
// @Enum macho, hembra
type Sex string

const (
	SexMale   Sex = "macho"
	SexFemale Sex = "hembra"
)

// Size define el tamaño.
// @Enum pequeno, mediano, grande
type Size string

const (
	SizeSmall  Size = "pequeno"
	SizeMedium Size = "mediano"
	SizeLarge  Size = "grande"
)

// Status es el estado de adopción del perrito.
// @Enum disponible, en_proceso, adoptado
type Status string

const (
	StatusAvailable Status = "disponible"
	StatusInProcess Status = "en_proceso"
	StatusAdopted   Status = "adoptado"
)

// PublicStatuses son los estados que se listan por defecto en el catálogo.
var PublicStatuses = []Status{StatusAvailable, StatusInProcess}

// AcceptsRequests indica si se pueden recibir solicitudes de adopción.
func (s Status) AcceptsRequests() bool {
	return s == StatusAvailable || s == StatusInProcess
}

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusInProcess, StatusAdopted:
		return true
	}
	return false
}

// Dog es un perrito del refugio municipal.
type Dog struct {
	ID          string    `json:"id"`
	Name        string    `json:"nombre"`
	Age         string    `json:"edad"` // texto libre, p.ej. "2 años"
	Sex         Sex       `json:"sexo,omitempty"`
	Size        Size      `json:"tamano,omitempty"`
	Breed       string    `json:"raza"`
	Color       string    `json:"color"`
	Description string    `json:"descripcion"`
	PhotoURL    string    `json:"foto_url"`
	Sterilized  bool      `json:"esterilizado"`
	Vaccinated  bool      `json:"vacunado"`
	Status      Status    `json:"estado"`
	IntakeDate  time.Time `json:"fecha_ingreso"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

var accentFold = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n")

func fold(s string) string {
	return accentFold.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ParseSex acepta las variantes que aparecen en planillas ("M", "Hembra").
func ParseSex(s string) (Sex, bool) {
	switch fold(s) {
	case "":
		return "", true
	case "macho", "m":
		return SexMale, true
	case "hembra", "h", "f":
		return SexFemale, true
	}
	return "", false
}

func ParseSize(s string) (Size, bool) {
	switch fold(s) {
	case "":
		return "", true
	case "pequeno", "chico", "p":
		return SizeSmall, true
	case "mediano", "m":
		return SizeMedium, true
	case "grande", "g":
		return SizeLarge, true
	}
	return "", false
}

// ParseFlag interpreta columnas sí/no de planillas.
func ParseFlag(s string) (bool, bool) {
	switch fold(s) {
	case "", "no", "n", "false", "0":
		return false, true
	case "si", "s", "true", "1", "x", "yes":
		return true, true
	}
	return false, false
}
