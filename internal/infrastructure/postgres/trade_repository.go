package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.OrderRepository    = (*OrderRepo)(nil)
)

// lineStore operaciones de líneas comunes a compras, ventas y pedidos.
// headerTable/lineTable son constantes internas, nunca entrada del usuario.
type lineStore struct {
	q           Querier
	headerTable string
	lineTable   string
}

func (ls lineStore) CreateLine(ctx context.Context, l *entity.TradeLine) error {
	query := `INSERT INTO ` + ls.lineTable + ` (id, header_id, item_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := ls.q.Exec(ctx, query, l.ID, l.HeaderID, l.ItemID, l.Quantity, l.UnitPrice, l.Subtotal)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert %s: %w", ls.lineTable, err)
	}
	return nil
}

func (ls lineStore) GetLine(ctx context.Context, id string) (*entity.TradeLine, error) {
	var l entity.TradeLine
	err := ls.q.QueryRow(ctx, `SELECT id, header_id, item_id, quantity, unit_price, subtotal
		FROM `+ls.lineTable+` WHERE id = $1`, id,
	).Scan(&l.ID, &l.HeaderID, &l.ItemID, &l.Quantity, &l.UnitPrice, &l.Subtotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", ls.lineTable, err)
	}
	return &l, nil
}

func (ls lineStore) UpdateLine(ctx context.Context, l *entity.TradeLine) error {
	cmd, err := ls.q.Exec(ctx, `UPDATE `+ls.lineTable+`
		SET item_id = $2, quantity = $3, unit_price = $4, subtotal = $5 WHERE id = $1`,
		l.ID, l.ItemID, l.Quantity, l.UnitPrice, l.Subtotal)
	if err != nil {
		return fmt.Errorf("update %s: %w", ls.lineTable, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (ls lineStore) DeleteLine(ctx context.Context, id string) error {
	if _, err := ls.q.Exec(ctx, `DELETE FROM `+ls.lineTable+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete %s: %w", ls.lineTable, err)
	}
	return nil
}

func (ls lineStore) SumSubtotals(ctx context.Context, headerID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := ls.q.QueryRow(ctx, `SELECT COALESCE(SUM(subtotal), 0) FROM `+ls.lineTable+` WHERE header_id = $1`,
		headerID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", ls.lineTable, err)
	}
	return total, nil
}

func (ls lineStore) SetTotal(ctx context.Context, headerID string, total decimal.Decimal) error {
	cmd, err := ls.q.Exec(ctx, `UPDATE `+ls.headerTable+` SET total = $2 WHERE id = $1`, headerID, total)
	if err != nil {
		return fmt.Errorf("set %s total: %w", ls.headerTable, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// linesByHeader carga las líneas de varias cabeceras agrupadas por header_id.
func (ls lineStore) linesByHeader(ctx context.Context, headerIDs []string) (map[string][]*entity.TradeLine, error) {
	out := make(map[string][]*entity.TradeLine, len(headerIDs))
	if len(headerIDs) == 0 {
		return out, nil
	}
	rows, err := ls.q.Query(ctx, `SELECT id, header_id, item_id, quantity, unit_price, subtotal
		FROM `+ls.lineTable+` WHERE header_id = ANY($1) ORDER BY id`, headerIDs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ls.lineTable, err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.TradeLine
		if err := rows.Scan(&l.ID, &l.HeaderID, &l.ItemID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan %s: %w", ls.lineTable, err)
		}
		out[l.HeaderID] = append(out[l.HeaderID], &l)
	}
	return out, rows.Err()
}

func (ls lineStore) deleteHeader(ctx context.Context, id string) error {
	if _, err := ls.q.Exec(ctx, `DELETE FROM `+ls.headerTable+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete %s: %w", ls.headerTable, err)
	}
	return nil
}

// dateRangeCond filtro por fecha común; $1 = desde, $2 = hasta (NULL = abierto).
const dateRangeCond = `($1::timestamptz IS NULL OR date >= $1) AND ($2::timestamptz IS NULL OR date <= $2)`

// ── Compras ──────────────────────────────────────────────────────────────────

const purchaseColumns = `id, date, supplier_name, notes, COALESCE(employee_id, ''), total, created_at, updated_at`

// PurchaseRepo compras sobre PostgreSQL.
type PurchaseRepo struct {
	lineStore
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{lineStore{q: q, headerTable: "purchases", lineTable: "purchase_lines"}}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	if err := row.Scan(&p.ID, &p.Date, &p.SupplierName, &p.Notes, &p.EmployeeID, &p.Total, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, date, supplier_name, notes, employee_id, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Date, p.SupplierName, p.Notes, nullString(p.EmployeeID), p.Total, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	lines, err := r.linesByHeader(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	p.Lines = lines[id]
	return p, nil
}

func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchases SET date = $2, supplier_name = $3, notes = $4, updated_at = $5 WHERE id = $1`,
		p.ID, p.Date, p.SupplierName, p.Notes, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseRepo) Delete(ctx context.Context, id string) error { return r.deleteHeader(ctx, id) }

func (r *PurchaseRepo) List(ctx context.Context, f repository.DateFilter) ([]*entity.Purchase, error) {
	rows, err := r.q.Query(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE `+dateRangeCond+`
		ORDER BY date DESC LIMIT $3 OFFSET $4`, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Purchase, error) { return scanPurchase(row) })
	if err != nil {
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	lines, err := r.linesByHeader(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		p.Lines = lines[p.ID]
	}
	return list, nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

const saleColumns = `id, date, COALESCE(customer_id, ''), notes, COALESCE(employee_id, ''), total, created_at, updated_at`

// SaleRepo ventas directas sobre PostgreSQL.
type SaleRepo struct {
	lineStore
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{lineStore{q: q, headerTable: "sales", lineTable: "sale_lines"}}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.Date, &s.CustomerID, &s.Notes, &s.EmployeeID, &s.Total, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, date, customer_id, notes, employee_id, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Date, nullString(s.CustomerID), s.Notes, nullString(s.EmployeeID), s.Total, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	lines, err := r.linesByHeader(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	s.Lines = lines[id]
	return s, nil
}

func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET date = $2, customer_id = $3, notes = $4, updated_at = $5 WHERE id = $1`,
		s.ID, s.Date, nullString(s.CustomerID), s.Notes, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) Delete(ctx context.Context, id string) error { return r.deleteHeader(ctx, id) }

func (r *SaleRepo) List(ctx context.Context, f repository.DateFilter) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales WHERE `+dateRangeCond+`
		ORDER BY date DESC LIMIT $3 OFFSET $4`, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Sale, error) { return scanSale(row) })
	if err != nil {
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	lines, err := r.linesByHeader(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Lines = lines[s.ID]
	}
	return list, nil
}

// ── Pedidos ──────────────────────────────────────────────────────────────────

const orderColumns = `id, number, date, customer_id, status, total, shipping_cost, shipping_address,
	payment_proof, notes, created_at, updated_at`

// OrderRepo pedidos sobre PostgreSQL.
type OrderRepo struct {
	lineStore
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{lineStore{q: q, headerTable: "orders", lineTable: "order_lines"}}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.Number, &o.Date, &o.CustomerID, &o.Status, &o.Total, &o.ShippingCost,
		&o.ShippingAddress, &o.PaymentProof, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.Number, o.Date, o.CustomerID, o.Status, o.Total, o.ShippingCost, o.ShippingAddress,
		o.PaymentProof, o.Notes, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("customer_id", "el cliente no existe")
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	lines, err := r.linesByHeader(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[id]
	return o, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, true)
}

func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $2, shipping_cost = $3, shipping_address = $4, payment_proof = $5,
		       notes = $6, updated_at = $7
		WHERE id = $1`,
		o.ID, o.Status, o.ShippingCost, o.ShippingAddress, o.PaymentProof, o.Notes, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error { return r.deleteHeader(ctx, id) }

func (r *OrderRepo) DeleteLines(ctx context.Context, orderID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_lines WHERE header_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	where, args := orderFilterWhere(f)
	args = append(args, limitArg(f.Limit), f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Order, error) { return scanOrder(row) })
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	ids := make([]string, len(list))
	for i, o := range list {
		ids[i] = o.ID
	}
	lines, err := r.linesByHeader(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		o.Lines = lines[o.ID]
	}
	return list, nil
}

// orderFilterWhereFor arma la condición para OrderFilter; los placeholders empiezan en $1.
// prefix califica las columnas cuando la consulta hace JOIN.
func orderFilterWhereFor(f repository.OrderFilter, prefix string) (string, []any) {
	args := []any{f.From, f.To}
	conds := []string{
		fmt.Sprintf(`($1::timestamptz IS NULL OR %[1]sdate >= $1) AND ($2::timestamptz IS NULL OR %[1]sdate <= $2)`, prefix),
	}
	if len(f.Statuses) > 0 {
		args = append(args, f.Statuses)
		conds = append(conds, fmt.Sprintf(`%sstatus = ANY($%d)`, prefix, len(args)))
	}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		conds = append(conds, fmt.Sprintf(`%scustomer_id = $%d`, prefix, len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func orderFilterWhere(f repository.OrderFilter) (string, []any) {
	return orderFilterWhereFor(f, "")
}
