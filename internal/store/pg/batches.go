package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"milltrace.org/internal/authz"
	"milltrace.org/internal/ids"
)

// Batch is one production run of fortified product at a mill.
type Batch struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	MillID         string    `json:"mill_id"`
	Product        string    `json:"product"`
	FortificantLot string    `json:"fortificant_lot"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

const batchColumns = `id, tenant_id, mill_id, product, coalesce(fortificant_lot, ''),
	status, coalesce(notes, ''), created_by, created_at`

func scanBatch(row interface{ Scan(...any) error }) (Batch, error) {
	var b Batch
	err := row.Scan(&b.ID, &b.TenantID, &b.MillID, &b.Product, &b.FortificantLot,
		&b.Status, &b.Notes, &b.CreatedBy, &b.CreatedAt)
	return b, err
}

// ListBatches returns batches matching the scope filter, newest first. The
// filter comes from authz.BuildScope and is ANDed verbatim into the query.
func (s *Store) ListBatches(ctx context.Context, scope authz.Filter, limit int) ([]Batch, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	where, args := scope.SQL(1)
	query := fmt.Sprintf(
		"select %s from batches where %s order by created_at desc limit $%d",
		batchColumns, where, len(args)+1,
	)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetBatch loads one full batch row. Callers authorize first via the engine.
func (s *Store) GetBatch(ctx context.Context, id string) (Batch, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("select %s from batches where id = $1", batchColumns), id)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, authz.ErrNotFound
	}
	if err != nil {
		return Batch{}, err
	}
	return b, nil
}

// CreateBatch inserts a new batch owned by the creating session.
func (s *Store) CreateBatch(ctx context.Context, b Batch) (Batch, error) {
	b.ID = ids.New()
	if b.Status == "" {
		b.Status = "in_production"
	}
	row := s.db.QueryRowContext(ctx, `
		insert into batches (id, tenant_id, mill_id, product, fortificant_lot, status, notes, created_by)
		values ($1, $2, $3, $4, nullif($5, ''), $6, nullif($7, ''), $8)
		returning `+batchColumns,
		b.ID, b.TenantID, b.MillID, b.Product, b.FortificantLot, b.Status, b.Notes, b.CreatedBy)
	return scanBatch(row)
}

// batchUpdateColumns whitelists the columns reachable through a partial
// update. Field-level write checks happen in the handler before this point;
// the whitelist keeps arbitrary column names out of the SQL regardless.
var batchUpdateColumns = map[string]struct{}{
	"product":         {},
	"fortificant_lot": {},
	"status":          {},
	"notes":           {},
	"released_at":     {},
}

// UpdateBatchFields applies a partial update and returns the new row.
func (s *Store) UpdateBatchFields(ctx context.Context, id string, fields map[string]any) (Batch, error) {
	if len(fields) == 0 {
		return s.GetBatch(ctx, id)
	}
	set := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for name, value := range fields {
		if _, ok := batchUpdateColumns[name]; !ok {
			return Batch{}, fmt.Errorf("column %q is not updatable", name)
		}
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", name, len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf("update batches set %s where id = $%d returning %s",
		strings.Join(set, ", "), len(args), batchColumns)

	b, err := scanBatch(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, authz.ErrNotFound
	}
	if err != nil {
		return Batch{}, err
	}
	return b, nil
}
