package businesses

import (
	"strings"
	"time"
)

// Category del comercio pet friendly.
// @Enum veterinaria, tienda, cafeteria, restaurante, hotel, peluqueria, otro
type Category string

const (
	CategoryVet        Category = "veterinaria"
	CategoryShop       Category = "tienda"
	CategoryCafe       Category = "cafeteria"
	CategoryRestaurant Category = "restaurante"
	CategoryHotel      Category = "hotel"
	CategoryGrooming   Category = "peluqueria"
	CategoryOther      Category = "otro"
)

var categories = []Category{
	CategoryVet, CategoryShop, CategoryCafe, CategoryRestaurant,
	CategoryHotel, CategoryGrooming, CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

var accentFold = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n")

// ParseCategory tolera mayúsculas y acentos ("Cafetería"). Vacío = otro.
func ParseCategory(s string) (Category, bool) {
	c := Category(accentFold.Replace(strings.ToLower(strings.TrimSpace(s))))
	if c == "" {
		return CategoryOther, true
	}
	if c == "veterinario" || c == "vet" {
		return CategoryVet, true
	}
	return c, c.Valid()
}

// Business es un comercio del directorio pet friendly. Code es el
// identificador corto impreso en el QR (PF-XXXXXX).
type Business struct {
	ID          string   `json:"id"`
	Code        string   `json:"codigo"`
	Name        string   `json:"nombre"`
	Category    Category `json:"categoria"`
	Address     string   `json:"direccion"`
	Phone       string   `json:"telefono"`
	Email       string   `json:"email"`
	Website     string   `json:"sitio_web"`
	Description string   `json:"descripcion"`
	Active      bool     `json:"activo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
