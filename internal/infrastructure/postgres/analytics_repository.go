package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para dashboard y reportes.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetCounts totales generales en una sola consulta.
func (r *AnalyticsRepo) GetCounts(ctx context.Context) (repository.Counts, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM items WHERE category = $1) AS raw_materials,
	    (SELECT COUNT(*) FROM items WHERE category = $2) AS finished_goods,
	    (SELECT COUNT(*) FROM customers)                 AS customers,
	    (SELECT COUNT(*) FROM employees)                 AS employees,
	    (SELECT COUNT(*) FROM orders)                    AS orders`
	var c repository.Counts
	err := r.pool.QueryRow(ctx, query, entity.CategoryRawMaterial, entity.CategoryFinishedGood).Scan(
		&c.RawMaterials, &c.FinishedGoods, &c.Customers, &c.Employees, &c.Orders,
	)
	if err != nil {
		return c, fmt.Errorf("analytics.GetCounts: %w", err)
	}
	return c, nil
}

// GetOrdersByStatus cantidad de pedidos agrupados por estado.
func (r *AnalyticsRepo) GetOrdersByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetOrdersByStatus: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.StatusCount, error) {
		var sc repository.StatusCount
		err := row.Scan(&sc.Status, &sc.Count)
		return sc, err
	})
}

// GetRevenue suma los totales de pedidos en los estados dados dentro del rango.
func (r *AnalyticsRepo) GetRevenue(ctx context.Context, statuses []string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM orders
		WHERE status = ANY($1) AND date BETWEEN $2 AND $3`, statuses, from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetRevenue: %w", err)
	}
	return total, nil
}

// GetProductionByDay total producido por día y tipo de resultado.
func (r *AnalyticsRepo) GetProductionByDay(ctx context.Context, from, to time.Time) ([]repository.DailyProduction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', date) AS day, result_type, SUM(quantity)
		FROM productions
		WHERE date BETWEEN $1 AND $2
		GROUP BY day, result_type
		ORDER BY day, result_type`, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetProductionByDay: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.DailyProduction, error) {
		var d repository.DailyProduction
		err := row.Scan(&d.Day, &d.ResultType, &d.Quantity)
		return d, err
	})
}

// GetCustomerSpending suma los pedidos COMPLETED del cliente.
func (r *AnalyticsRepo) GetCustomerSpending(ctx context.Context, customerID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM orders WHERE customer_id = $1 AND status = $2`,
		customerID, entity.OrderStatusCompleted,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetCustomerSpending: %w", err)
	}
	return total, nil
}

// OrderReport pedidos con el nombre del cliente, en orden cronológico.
func (r *AnalyticsRepo) OrderReport(ctx context.Context, f repository.OrderFilter) ([]repository.OrderReportRow, error) {
	where, args := orderFilterWhereFor(f, "o.")
	args = append(args, limitArg(f.Limit), f.Offset)
	query := fmt.Sprintf(`
		SELECT o.number, o.date, COALESCE(c.name, ''), o.status, o.total
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE %s
		ORDER BY o.date LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.OrderReport: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.OrderReportRow, error) {
		var o repository.OrderReportRow
		err := row.Scan(&o.Number, &o.Date, &o.CustomerName, &o.Status, &o.Total)
		return o, err
	})
}

// ProductionReport eventos de producción con el nombre del empleado que los registró.
func (r *AnalyticsRepo) ProductionReport(ctx context.Context, f repository.DateFilter) ([]repository.ProductionReportRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.date, p.result_type, p.quantity, p.unit, COALESCE(e.name, ''), p.notes
		FROM productions p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE ($1::timestamptz IS NULL OR p.date >= $1) AND ($2::timestamptz IS NULL OR p.date <= $2)
		ORDER BY p.date LIMIT $3 OFFSET $4`, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("analytics.ProductionReport: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ProductionReportRow, error) {
		var p repository.ProductionReportRow
		err := row.Scan(&p.Date, &p.ResultType, &p.Quantity, &p.Unit, &p.EmployeeName, &p.Notes)
		return p, err
	})
}
