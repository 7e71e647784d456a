package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/produksi-api/internal/domain"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
	"github.com/jhoicas/produksi-api/internal/domain/repository"
)

var _ repository.ProductionRepository = (*ProductionRepo)(nil)

const productionColumns = `id, date, result_type, quantity, unit, notes, COALESCE(employee_id, ''), item_id, created_at, updated_at`

// ProductionRepo eventos de producción y sus líneas (usable con pool o tx).
type ProductionRepo struct {
	q Querier
}

// NewProductionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRepository(q Querier) *ProductionRepo {
	return &ProductionRepo{q: q}
}

func scanProduction(row pgx.Row) (*entity.Production, error) {
	var p entity.Production
	if err := row.Scan(&p.ID, &p.Date, &p.ResultType, &p.Quantity, &p.Unit, &p.Notes,
		&p.EmployeeID, &p.ItemID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste la cabecera (las líneas se crean con CreateLine).
func (r *ProductionRepo) Create(ctx context.Context, p *entity.Production) error {
	query := `
		INSERT INTO productions (id, date, result_type, quantity, unit, notes, employee_id, item_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Date, p.ResultType, p.Quantity, p.Unit, p.Notes, nullString(p.EmployeeID), p.ItemID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert production: %w", err)
	}
	return nil
}

// GetByID devuelve el evento con sus líneas.
func (r *ProductionRepo) GetByID(ctx context.Context, id string) (*entity.Production, error) {
	p, err := scanProduction(r.q.QueryRow(ctx, `SELECT `+productionColumns+` FROM productions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production: %w", err)
	}
	if p.Lines, err = r.lines(ctx, []string{p.ID}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update persiste los campos de cabecera.
func (r *ProductionRepo) Update(ctx context.Context, p *entity.Production) error {
	query := `
		UPDATE productions SET date = $2, result_type = $3, quantity = $4, unit = $5, notes = $6,
		       item_id = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.Date, p.ResultType, p.Quantity, p.Unit, p.Notes, p.ItemID, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update production: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el evento; las líneas caen por ON DELETE CASCADE.
func (r *ProductionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM productions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete production: %w", err)
	}
	return nil
}

// List eventos en el rango, más recientes primero, con sus líneas.
func (r *ProductionRepo) List(ctx context.Context, f repository.DateFilter) ([]*entity.Production, error) {
	query := `
		SELECT ` + productionColumns + ` FROM productions
		WHERE ($1::timestamptz IS NULL OR date >= $1) AND ($2::timestamptz IS NULL OR date <= $2)
		ORDER BY date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	var (
		list []*entity.Production
		ids  []string
	)
	for rows.Next() {
		p, err := scanProduction(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan production: %w", err)
		}
		list = append(list, p)
		ids = append(ids, p.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list productions: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	lines, err := r.lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Production, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}
	for _, l := range lines {
		byID[l.ProductionID].Lines = append(byID[l.ProductionID].Lines, l)
	}
	return list, nil
}

func (r *ProductionRepo) lines(ctx context.Context, productionIDs []string) ([]*entity.ProductionLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, production_id, item_id, quantity
		FROM production_lines WHERE production_id = ANY($1)
		ORDER BY id`, productionIDs)
	if err != nil {
		return nil, fmt.Errorf("list production lines: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProductionLine
	for rows.Next() {
		var l entity.ProductionLine
		if err := rows.Scan(&l.ID, &l.ProductionID, &l.ItemID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan production line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// CreateLine persiste una línea; el evento debe existir.
func (r *ProductionRepo) CreateLine(ctx context.Context, l *entity.ProductionLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO production_lines (id, production_id, item_id, quantity)
		VALUES ($1, $2, $3, $4)`, l.ID, l.ProductionID, l.ItemID, l.Quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert production line: %w", err)
	}
	return nil
}

// GetLine obtiene una línea por ID.
func (r *ProductionRepo) GetLine(ctx context.Context, id string) (*entity.ProductionLine, error) {
	var l entity.ProductionLine
	err := r.q.QueryRow(ctx, `
		SELECT id, production_id, item_id, quantity FROM production_lines WHERE id = $1`, id,
	).Scan(&l.ID, &l.ProductionID, &l.ItemID, &l.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production line: %w", err)
	}
	return &l, nil
}

// UpdateLine persiste item y cantidad de la línea.
func (r *ProductionRepo) UpdateLine(ctx context.Context, l *entity.ProductionLine) error {
	cmd, err := r.q.Exec(ctx, `UPDATE production_lines SET item_id = $2, quantity = $3 WHERE id = $1`,
		l.ID, l.ItemID, l.Quantity)
	if err != nil {
		return fmt.Errorf("update production line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLine elimina la línea.
func (r *ProductionRepo) DeleteLine(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM production_lines WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete production line: %w", err)
	}
	return nil
}
