package entity

import "time"

// Tipos de resultado de producción conocidos.
const (
	ResultTahu  = "TAHU"
	ResultTempe = "TEMPE"
)

// Production evento de producción: produce Quantity unidades de un producto terminado
// y consume materias primas según sus líneas.
type Production struct {
	ID         string
	Date       time.Time
	ResultType string
	Quantity   int
	Unit       string
	Notes      string
	EmployeeID string
	ItemID     string // producto terminado resuelto por get-or-create
	Lines      []*ProductionLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductionLine materia prima consumida por un evento de producción.
type ProductionLine struct {
	ID           string
	ProductionID string
	ItemID       string
	Quantity     int
}
