package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	RawMaterials  int `json:"raw_materials"`
	FinishedGoods int `json:"finished_goods"`
	Customers     int `json:"customers"`
	Employees     int `json:"employees"`
	Orders        int `json:"orders"`

	OrdersByStatus map[string]int  `json:"orders_by_status"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"` // pedidos COMPLETED del mes
	LowStock       []ItemResponse  `json:"low_stock"`       // materias primas bajo el umbral

	Production []DailyProductionDTO `json:"production"` // últimos 7 días
	DateLabel  string               `json:"date_label"`
}

// DailyProductionDTO total producido en un día por tipo.
type DailyProductionDTO struct {
	Day        time.Time `json:"day"`
	ResultType string    `json:"result_type"`
	Quantity   int       `json:"quantity"`
}

// NotificationDTO aviso al cliente sobre un pedido con costo de envío asignado.
type NotificationDTO struct {
	OrderID      string          `json:"order_id"`
	Number       string          `json:"number"`
	Status       string          `json:"status"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Message      string          `json:"message"`
}
