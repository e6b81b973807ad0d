package purchases

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
	ErrNotFound = errors.New("purchase not found")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Purchase, error)
	List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, int, error)
	// Create allocates the purchase number, persists the document and
	// its lines, increments stock, and refreshes each product's
	// purchase price, all in one transaction.
	Create(ctx context.Context, purchase Purchase) (*Purchase, error)
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

const purchaseSelect = `
	SELECT id, purchase_number, supplier, date, total_amount, notes, created_at, updated_at
	FROM purchases`

func scanPurchase(row pgx.Row) (*Purchase, error) {
	var p Purchase
	err := row.Scan(&p.ID, &p.PurchaseNumber, &p.Supplier, &p.Date, &p.TotalAmount, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Purchase, error) {
	purchase, err := scanPurchase(r.db.QueryRow(ctx, purchaseSelect+" WHERE id = $1", id))
	if err != nil {
		return nil, err
	}
	if purchase.Items, err = r.loadItems(ctx, purchase.ID); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *repository) loadItems(ctx context.Context, purchaseID int64) ([]PurchaseItem, error) {
	const query = `
		SELECT id, purchase_id, product_id, product_name, reference, quantity, unit_cost, total
		FROM purchase_items
		WHERE purchase_id = $1
		ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PurchaseItem
	for rows.Next() {
		var it PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.ProductName, &it.Reference, &it.Quantity, &it.UnitCost, &it.Total); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Supplier != nil {
		conditions = append(conditions, fmt.Sprintf("supplier ILIKE $%d", argPos))
		args = append(args, "%"+*req.Supplier+"%")
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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM purchases %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("%s %s ORDER BY purchase_number DESC LIMIT $%d OFFSET $%d", purchaseSelect, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.PurchaseNumber, &p.Supplier, &p.Date, &p.TotalAmount, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) Create(ctx context.Context, purchase Purchase) (*Purchase, error) {
	var created *Purchase
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		seq, err := sequences.Next(ctx, tx, sequences.PrefixPurchase, purchase.Date.Year())
		if err != nil {
			return err
		}
		purchase.PurchaseNumber = sequences.Format(sequences.PrefixPurchase, purchase.Date.Year(), seq)

		const insertPurchase = `
			INSERT INTO purchases (purchase_number, supplier, date, total_amount, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertPurchase,
			purchase.PurchaseNumber, purchase.Supplier, purchase.Date, purchase.TotalAmount, purchase.Notes).
			Scan(&purchase.ID, &purchase.CreatedAt, &purchase.UpdatedAt); err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}

		const insertItem = `
			INSERT INTO purchase_items (purchase_id, product_id, product_name, reference, quantity, unit_cost, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`
		const receiveStock = `
			UPDATE products
			SET quantity_in_stock = quantity_in_stock + $1, purchase_price = $2, updated_at = NOW()
			WHERE id = $3`
		for i := range purchase.Items {
			item := &purchase.Items[i]
			item.PurchaseID = purchase.ID
			if err := tx.QueryRow(ctx, insertItem, purchase.ID, item.ProductID, item.ProductName, item.Reference, item.Quantity, item.UnitCost, item.Total).
				Scan(&item.ID); err != nil {
				return fmt.Errorf("insert purchase item: %w", err)
			}
			if _, err := tx.Exec(ctx, receiveStock, item.Quantity, item.UnitCost, item.ProductID); err != nil {
				return fmt.Errorf("receive stock: %w", err)
			}
		}

		created = &purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
