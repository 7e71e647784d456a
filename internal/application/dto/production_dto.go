package dto

import "time"

// ProductionLineInput materia prima consumida. ID vacío = línea nueva.
type ProductionLineInput struct {
	ID       string `json:"id,omitempty"`
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// ProductionRequest alta o edición de un evento de producción con sus materias primas.
type ProductionRequest struct {
	Date       *time.Time            `json:"date,omitempty"`
	ResultType string                `json:"result_type" validate:"required"`
	Quantity   int                   `json:"quantity" validate:"required,min=1"`
	Unit       string                `json:"unit"`
	Notes      string                `json:"notes"`
	Lines      []ProductionLineInput `json:"lines" validate:"dive"`
}

// ProductionLineResponse salida de una línea de producción.
type ProductionLineResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// ProductionResponse salida de un evento de producción.
type ProductionResponse struct {
	ID         string                   `json:"id"`
	Date       time.Time                `json:"date"`
	ResultType string                   `json:"result_type"`
	ItemID     string                   `json:"item_id"`
	Quantity   int                      `json:"quantity"`
	Unit       string                   `json:"unit"`
	Notes      string                   `json:"notes"`
	EmployeeID string                   `json:"employee_id"`
	Lines      []ProductionLineResponse `json:"lines"`
}
