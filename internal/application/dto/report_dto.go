package dto

import "time"

// ReportRequest filtros comunes de reportes.
type ReportRequest struct {
	Kind     string // orders, items, productions
	From     *time.Time
	To       *time.Time
	Status   string // pedidos: uno o varios estados separados por coma
	Category string // items: RAW_MATERIAL o FINISHED_GOOD
}

// Report tabla genérica: título, encabezados y filas ya formateadas.
type Report struct {
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	Headers     []string   `json:"headers"`
	Rows        [][]string `json:"rows"`
	Footer      string     `json:"footer,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}
