package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCount cantidad de pedidos por estado.
type StatusCount struct {
	Status string
	Count  int
}

// DailyProduction total producido por día y tipo de resultado.
type DailyProduction struct {
	Day        time.Time
	ResultType string
	Quantity   int
}

// Counts totales generales del negocio.
type Counts struct {
	RawMaterials  int
	FinishedGoods int
	Customers     int
	Employees     int
	Orders        int
}

// OrderReportRow fila del reporte de pedidos.
type OrderReportRow struct {
	Number       string
	Date         time.Time
	CustomerName string
	Status       string
	Total        decimal.Decimal
}

// ProductionReportRow fila del reporte de producción.
type ProductionReportRow struct {
	Date         time.Time
	ResultType   string
	Quantity     int
	Unit         string
	EmployeeName string
	Notes        string
}

// AnalyticsRepository consultas de solo lectura para dashboard y reportes.
type AnalyticsRepository interface {
	GetCounts(ctx context.Context) (Counts, error)
	GetOrdersByStatus(ctx context.Context) ([]StatusCount, error)
	// GetRevenue suma los totales de pedidos en los estados dados dentro del rango.
	GetRevenue(ctx context.Context, statuses []string, from, to time.Time) (decimal.Decimal, error)
	GetProductionByDay(ctx context.Context, from, to time.Time) ([]DailyProduction, error)
	// GetCustomerSpending suma los totales de pedidos COMPLETED del cliente.
	GetCustomerSpending(ctx context.Context, customerID string) (decimal.Decimal, error)
	OrderReport(ctx context.Context, filter OrderFilter) ([]OrderReportRow, error)
	ProductionReport(ctx context.Context, filter DateFilter) ([]ProductionReportRow, error)
}
