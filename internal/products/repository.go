package products

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
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateRef  = errors.New("product reference already exists")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error)
	All(ctx context.Context) ([]Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
	Create(ctx context.Context, product Product) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	LowStock(ctx context.Context) ([]Product, error)
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

const productColumns = `id, name, reference, unit_price, purchase_price, quantity_in_stock, reorder_point, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Reference, &p.UnitPrice, &p.PurchasePrice, &p.QuantityInStock, &p.ReorderPoint, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Reference, &p.UnitPrice, &p.PurchasePrice, &p.QuantityInStock, &p.ReorderPoint, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error) {
	if len(ids) == 0 {
		return map[int64]Product{}, nil
	}
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ANY($1)", productColumns)
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (r *repository) All(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products ORDER BY name ASC", productColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *repository) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR reference ILIKE $%d)", argPos, argPos))
		args = append(args, pattern)
		argPos++
	}
	if req.LowStock {
		conditions = append(conditions, "quantity_in_stock <= reorder_point")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		productColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) Create(ctx context.Context, product Product) (int64, error) {
	const query = `
		INSERT INTO products (name, reference, unit_price, purchase_price, quantity_in_stock, reorder_point, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, product.Name, product.Reference, product.UnitPrice, product.PurchasePrice, product.QuantityInStock, product.ReorderPoint).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateRef
		}
		return 0, err
	}
	return id, nil
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
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(sets, ", "), argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRef
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) LowStock(ctx context.Context) ([]Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE is_active AND quantity_in_stock <= reorder_point ORDER BY name ASC", productColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}
