// Package analytics contiene el resumen del dashboard de administración.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

const (
	// LowStockThreshold materias primas con stock menor a este valor aparecen en el dashboard.
	LowStockThreshold = 10
	productionDays    = 7
)

// DashboardUseCase arma el resumen del dashboard por composición: cada métrica viene
// de una consulta read-only independiente.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	itemRepo      repository.ItemRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, itemRepo repository.ItemRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, itemRepo: itemRepo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco consultas en paralelo:
//  1. GetCounts                      → totales
//  2. GetOrdersByStatus              → pedidos por estado
//  3. GetRevenue(COMPLETED, mes)     → ingresos del mes
//  4. List(RAW_MATERIAL, stock < 10) → stock bajo
//  5. GetProductionByDay(7 días)     → producción reciente
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekStart := todayStart.AddDate(0, 0, -(productionDays - 1))

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type countsResult struct {
		counts repository.Counts
		err    error
	}
	type statusResult struct {
		rows []repository.StatusCount
		err  error
	}
	type revenueResult struct {
		revenue decimal.Decimal
		err     error
	}
	type lowStockResult struct {
		items []*entity.Item
		err   error
	}
	type productionResult struct {
		rows []repository.DailyProduction
		err  error
	}

	countsCh := make(chan countsResult, 1)
	statusCh := make(chan statusResult, 1)
	revenueCh := make(chan revenueResult, 1)
	lowCh := make(chan lowStockResult, 1)
	prodCh := make(chan productionResult, 1)

	go func() {
		c, err := uc.analyticsRepo.GetCounts(ctx)
		countsCh <- countsResult{c, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetOrdersByStatus(ctx)
		statusCh <- statusResult{rows, err}
	}()
	go func() {
		rev, err := uc.analyticsRepo.GetRevenue(ctx, []string{entity.OrderStatusCompleted}, monthStart, todayEnd)
		revenueCh <- revenueResult{rev, err}
	}()
	go func() {
		items, err := uc.itemRepo.List(ctx, repository.ItemFilter{
			Category:   entity.CategoryRawMaterial,
			StockBelow: LowStockThreshold,
			Limit:      100,
		})
		lowCh <- lowStockResult{items, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetProductionByDay(ctx, weekStart, todayEnd)
		prodCh <- productionResult{rows, err}
	}()

	counts := <-countsCh
	statuses := <-statusCh
	revenue := <-revenueCh
	low := <-lowCh
	prod := <-prodCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: totales: %w", counts.err)
	}
	if statuses.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos por estado: %w", statuses.err)
	}
	if revenue.err != nil {
		return nil, fmt.Errorf("dashboard: ingresos del mes: %w", revenue.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if prod.err != nil {
		return nil, fmt.Errorf("dashboard: producción: %w", prod.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	byStatus := map[string]int{
		entity.OrderStatusAwaitingPayment: 0,
		entity.OrderStatusProcessing:      0,
		entity.OrderStatusShipped:         0,
		entity.OrderStatusCompleted:       0,
		entity.OrderStatusCancelled:       0,
	}
	for _, s := range statuses.rows {
		byStatus[s.Status] = s.Count
	}
	lowStock := make([]dto.ItemResponse, 0, len(low.items))
	for _, it := range low.items {
		lowStock = append(lowStock, *inventory.ToItemResponse(it))
	}
	production := make([]dto.DailyProductionDTO, 0, len(prod.rows))
	for _, p := range prod.rows {
		production = append(production, dto.DailyProductionDTO{Day: p.Day, ResultType: p.ResultType, Quantity: p.Quantity})
	}

	return &dto.DashboardSummaryDTO{
		RawMaterials:   counts.counts.RawMaterials,
		FinishedGoods:  counts.counts.FinishedGoods,
		Customers:      counts.counts.Customers,
		Employees:      counts.counts.Employees,
		Orders:         counts.counts.Orders,
		OrdersByStatus: byStatus,
		MonthlyRevenue: revenue.revenue.Round(2),
		LowStock:       lowStock,
		Production:     production,
		DateLabel:      monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
