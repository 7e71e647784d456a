package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de lectura sobre el store en memoria.
type AnalyticsRepo struct {
	s *Store
}

// NewAnalyticsRepository construye el repositorio.
func NewAnalyticsRepository(s *Store) *AnalyticsRepo { return &AnalyticsRepo{s: s} }

func (r *AnalyticsRepo) GetCounts(_ context.Context) (repository.Counts, error) {
	var c repository.Counts
	r.s.read(func(st *state) {
		for _, it := range st.items {
			if it.IsRawMaterial() {
				c.RawMaterials++
			} else {
				c.FinishedGoods++
			}
		}
		c.Customers = len(st.customers)
		c.Employees = len(st.employees)
		c.Orders = len(st.orders)
	})
	return c, nil
}

func (r *AnalyticsRepo) GetOrdersByStatus(_ context.Context) ([]repository.StatusCount, error) {
	counts := map[string]int{}
	r.s.read(func(st *state) {
		for _, o := range st.orders {
			counts[o.Status]++
		}
	})
	out := make([]repository.StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, repository.StatusCount{Status: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *AnalyticsRepo) GetRevenue(_ context.Context, statuses []string, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	f := repository.OrderFilter{Statuses: statuses, DateFilter: repository.DateFilter{From: &from, To: &to}}
	r.s.read(func(st *state) {
		for _, o := range st.orders {
			if matchOrder(o, f) {
				total = total.Add(o.Total)
			}
		}
	})
	return total, nil
}

func (r *AnalyticsRepo) GetProductionByDay(_ context.Context, from, to time.Time) ([]repository.DailyProduction, error) {
	type key struct {
		day        time.Time
		resultType string
	}
	sums := map[key]int{}
	r.s.read(func(st *state) {
		for _, p := range st.productions {
			if !inRange(p.Date, &from, &to) {
				continue
			}
			d := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, p.Date.Location())
			sums[key{d, p.ResultType}] += p.Quantity
		}
	})
	out := make([]repository.DailyProduction, 0, len(sums))
	for k, q := range sums {
		out = append(out, repository.DailyProduction{Day: k.day, ResultType: k.resultType, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day.Equal(out[j].Day) {
			return out[i].ResultType < out[j].ResultType
		}
		return out[i].Day.Before(out[j].Day)
	})
	return out, nil
}

func (r *AnalyticsRepo) GetCustomerSpending(_ context.Context, customerID string) (decimal.Decimal, error) {
	total := decimal.Zero
	r.s.read(func(st *state) {
		for _, o := range st.orders {
			if o.CustomerID == customerID && o.Status == entity.OrderStatusCompleted {
				total = total.Add(o.Total)
			}
		}
	})
	return total, nil
}

func (r *AnalyticsRepo) OrderReport(_ context.Context, f repository.OrderFilter) ([]repository.OrderReportRow, error) {
	var orders []*entity.Order
	names := map[string]string{}
	r.s.read(func(st *state) {
		for _, o := range st.orders {
			if matchOrder(o, f) {
				cp := *o
				orders = append(orders, &cp)
			}
		}
		for id, c := range st.customers {
			names[id] = c.Name
		}
	})
	sort.Slice(orders, func(i, j int) bool { return orders[i].Date.Before(orders[j].Date) })
	orders = paginate(orders, f.Limit, f.Offset)
	out := make([]repository.OrderReportRow, 0, len(orders))
	for _, o := range orders {
		out = append(out, repository.OrderReportRow{
			Number: o.Number, Date: o.Date, CustomerName: names[o.CustomerID], Status: o.Status, Total: o.Total,
		})
	}
	return out, nil
}

func (r *AnalyticsRepo) ProductionReport(_ context.Context, f repository.DateFilter) ([]repository.ProductionReportRow, error) {
	var out []repository.ProductionReportRow
	r.s.read(func(st *state) {
		for _, p := range st.productions {
			if !inRange(p.Date, f.From, f.To) {
				continue
			}
			name := ""
			if e, ok := st.employees[p.EmployeeID]; ok {
				name = e.Name
			}
			out = append(out, repository.ProductionReportRow{
				Date: p.Date, ResultType: p.ResultType, Quantity: p.Quantity, Unit: p.Unit, EmployeeName: name, Notes: p.Notes,
			})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return paginate(out, f.Limit, f.Offset), nil
}
