package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/esculape1/bizbook/internal/platform/db"
	"github.com/esculape1/bizbook/internal/sequences"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error)
	// Create allocates the order number and persists the order and its
	// items in one transaction. The returned order carries the number.
	Create(ctx context.Context, order Order) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error
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

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	return r.getWhere(ctx, "o.id = $1", id)
}

func (r *repository) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return r.getWhere(ctx, "o.order_number = $1", number)
}

func (r *repository) getWhere(ctx context.Context, cond string, arg interface{}) (*Order, error) {
	query := fmt.Sprintf(`
		SELECT o.id, o.order_number, o.client_id, c.name, o.status, o.total_amount, o.order_date, o.created_at
		FROM orders o
		JOIN clients c ON c.id = o.client_id
		WHERE %s`, cond)

	var o Order
	err := r.db.QueryRow(ctx, query, arg).Scan(&o.ID, &o.OrderNumber, &o.ClientID, &o.ClientName, &o.Status, &o.TotalAmount, &o.OrderDate, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *repository) loadItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	const query = `
		SELECT id, order_id, product_id, product_name, reference, quantity, unit_price, total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Reference, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("o.client_id = $%d", argPos))
		args = append(args, *req.ClientID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders o %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT o.id, o.order_number, o.client_id, c.name, o.status, o.total_amount, o.order_date, o.created_at
		FROM orders o
		JOIN clients c ON c.id = o.client_id
		%s
		ORDER BY o.order_number DESC
		LIMIT $%d OFFSET $%d`, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.ClientID, &o.ClientName, &o.Status, &o.TotalAmount, &o.OrderDate, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, order Order) (*Order, error) {
	var created *Order
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		seq, err := sequences.Next(ctx, tx, sequences.PrefixOrder, order.OrderDate.Year())
		if err != nil {
			return err
		}
		order.OrderNumber = sequences.Format(sequences.PrefixOrder, order.OrderDate.Year(), seq)

		const insertOrder = `
			INSERT INTO orders (order_number, client_id, status, total_amount, order_date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insertOrder, order.OrderNumber, order.ClientID, order.Status, order.TotalAmount, order.OrderDate).
			Scan(&order.ID, &order.CreatedAt); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		const insertItem = `
			INSERT INTO order_items (order_id, product_id, product_name, reference, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`
		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if err := tx.QueryRow(ctx, insertItem, order.ID, item.ProductID, item.ProductName, item.Reference, item.Quantity, item.UnitPrice, item.Total).
				Scan(&item.ID); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		created = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status OrderStatus) error {
	tag, err := r.db.Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
