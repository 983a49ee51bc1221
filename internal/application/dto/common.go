package dto

// PageRequest paginación para listados (page empieza en 1).
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// Normalize aplica valores por defecto y el tope máximo de tamaño de página.
func (p PageRequest) Normalize(defaultSize, maxSize int) PageRequest {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

// Limit y Offset para el repositorio.
func (p PageRequest) Limit() int  { return p.PageSize }
func (p PageRequest) Offset() int { return (p.Page - 1) * p.PageSize }

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// NewPageResponse arma los metadatos a partir de la petición normalizada.
func NewPageResponse(p PageRequest, total int) PageResponse {
	return PageResponse{Page: p.Page, PageSize: p.PageSize, TotalCount: total}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	Kind          string `json:"kind,omitempty"`           // subtipo de error de precios
	CurrentStatus string `json:"current_status,omitempty"` // estado real tras una transición inválida
	Retryable     bool   `json:"retryable,omitempty"`
}
