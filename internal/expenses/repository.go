package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("expense not found")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Expense, error)
	All(ctx context.Context) ([]Expense, error)
	List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error)
	Create(ctx context.Context, expense Expense) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

const expenseColumns = `id, date, description, category, amount, created_at, updated_at`

func collectExpenses(rows pgx.Rows) ([]Expense, error) {
	defer rows.Close()
	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Description, &e.Category, &e.Amount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Expense, error) {
	query := fmt.Sprintf("SELECT %s FROM expenses WHERE id = $1", expenseColumns)
	var e Expense
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.Date, &e.Description, &e.Category, &e.Amount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) All(ctx context.Context) ([]Expense, error) {
	query := fmt.Sprintf("SELECT %s FROM expenses ORDER BY date DESC", expenseColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectExpenses(rows)
}

func (r *repository) List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Category != nil && *req.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, *req.Category)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM expenses %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM expenses %s ORDER BY date DESC LIMIT $%d OFFSET $%d",
		expenseColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	list, err := collectExpenses(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) Create(ctx context.Context, expense Expense) (int64, error) {
	const query = `
		INSERT INTO expenses (date, description, category, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, expense.Date, expense.Description, expense.Category, expense.Amount).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	var sets []string
	var args []interface{}
	argPos := 1
	for column, value := range updates {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}
	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE expenses SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
