package entity

import (
	"strings"
	"time"
)

// ListingFilter configuración enumerada de filtros del listado de publicaciones.
// Los campos presentes se combinan con AND; Search compara nombre y descripción sin distinguir mayúsculas.
type ListingFilter struct {
	Status       VerificationStatus
	ActiveStatus ActiveStatus
	CategoryID   string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Search       string
}

// Normalize recorta espacios de los campos de texto.
func (f ListingFilter) Normalize() ListingFilter {
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// ListingStats proyección de lectura calculada desde el almacén en cada consulta.
type ListingStats struct {
	Total        int
	Pending      int
	Approved     int
	Rejected     int
	Active       int
	Inactive     int
	LowStockSKUs int
}
