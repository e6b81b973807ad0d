package invoices

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
	ErrNotFound = errors.New("invoice not found")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	All(ctx context.Context) ([]Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	// Create allocates the invoice number, persists invoice and items,
	// and decrements product stock, all in one transaction.
	Create(ctx context.Context, invoice Invoice) (*Invoice, error)
	// Cancel flips the status and restores stock in one transaction.
	Cancel(ctx context.Context, id int64) error
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

const invoiceSelect = `
	SELECT i.id, i.invoice_number, i.client_id, c.name, i.date, i.due_date, i.status,
	       i.sub_total, i.discount_percent, i.discount_amount, i.vat_percent, i.vat_amount,
	       i.retenue_percent, i.retenue_amount, i.total_amount, i.net_a_payer, i.amount_paid,
	       i.notes, i.created_at, i.updated_at
	FROM invoices i
	JOIN clients c ON c.id = i.client_id`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.ClientName, &inv.Date, &inv.DueDate, &inv.Status,
		&inv.SubTotal, &inv.DiscountPercent, &inv.DiscountAmount, &inv.VATPercent, &inv.VATAmount,
		&inv.RetenuePercent, &inv.RetenueAmount, &inv.TotalAmount, &inv.NetAPayer, &inv.AmountPaid,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, invoiceSelect+" WHERE i.id = $1", id))
	if err != nil {
		return nil, err
	}
	if inv.Items, err = r.loadItems(ctx, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repository) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, invoiceSelect+" WHERE i.invoice_number = $1", number))
	if err != nil {
		return nil, err
	}
	if inv.Items, err = r.loadItems(ctx, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repository) loadItems(ctx context.Context, invoiceID int64) ([]InvoiceItem, error) {
	const query = `
		SELECT id, invoice_id, product_id, product_name, reference, quantity, unit_price, total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []InvoiceItem
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.Reference, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// All returns every invoice with its items. The report module loads the
// whole collection and filters in memory, matching reference behavior.
func (r *repository) All(ctx context.Context) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, invoiceSelect+" ORDER BY i.date DESC")
	if err != nil {
		return nil, err
	}
	invoicesList, err := collectInvoices(rows)
	if err != nil {
		return nil, err
	}

	const itemsQuery = `
		SELECT id, invoice_id, product_id, product_name, reference, quantity, unit_price, total
		FROM invoice_items
		ORDER BY invoice_id, id`
	itemRows, err := r.db.Query(ctx, itemsQuery)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	byInvoice := make(map[int64][]InvoiceItem)
	for itemRows.Next() {
		var it InvoiceItem
		if err := itemRows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.Reference, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, err
		}
		byInvoice[it.InvoiceID] = append(byInvoice[it.InvoiceID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	for idx := range invoicesList {
		invoicesList[idx].Items = byInvoice[invoicesList[idx].ID]
	}
	return invoicesList, nil
}

func collectInvoices(rows pgx.Rows) ([]Invoice, error) {
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.ClientName, &inv.Date, &inv.DueDate, &inv.Status,
			&inv.SubTotal, &inv.DiscountPercent, &inv.DiscountAmount, &inv.VATPercent, &inv.VATAmount,
			&inv.RetenuePercent, &inv.RetenueAmount, &inv.TotalAmount, &inv.NetAPayer, &inv.AmountPaid,
			&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("i.client_id = $%d", argPos))
		args = append(args, *req.ClientID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("i.date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("i.date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM invoices i %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("%s %s ORDER BY i.invoice_number DESC LIMIT $%d OFFSET $%d", invoiceSelect, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	list, err := collectInvoices(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) Create(ctx context.Context, invoice Invoice) (*Invoice, error) {
	var created *Invoice
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		seq, err := sequences.Next(ctx, tx, sequences.PrefixInvoice, invoice.Date.Year())
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = sequences.Format(sequences.PrefixInvoice, invoice.Date.Year(), seq)

		const insertInvoice = `
			INSERT INTO invoices (invoice_number, client_id, date, due_date, status,
			                      sub_total, discount_percent, discount_amount, vat_percent, vat_amount,
			                      retenue_percent, retenue_amount, total_amount, net_a_payer, amount_paid, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 0, $15)
			RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertInvoice,
			invoice.InvoiceNumber, invoice.ClientID, invoice.Date, invoice.DueDate, invoice.Status,
			invoice.SubTotal, invoice.DiscountPercent, invoice.DiscountAmount, invoice.VATPercent, invoice.VATAmount,
			invoice.RetenuePercent, invoice.RetenueAmount, invoice.TotalAmount, invoice.NetAPayer, invoice.Notes).
			Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}

		const insertItem = `
			INSERT INTO invoice_items (invoice_id, product_id, product_name, reference, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`
		const decrementStock = `
			UPDATE products SET quantity_in_stock = quantity_in_stock - $1, updated_at = NOW() WHERE id = $2`
		for i := range invoice.Items {
			item := &invoice.Items[i]
			item.InvoiceID = invoice.ID
			if err := tx.QueryRow(ctx, insertItem, invoice.ID, item.ProductID, item.ProductName, item.Reference, item.Quantity, item.UnitPrice, item.Total).
				Scan(&item.ID); err != nil {
				return fmt.Errorf("insert invoice item: %w", err)
			}
			if _, err := tx.Exec(ctx, decrementStock, item.Quantity, item.ProductID); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
		}

		created = &invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) Cancel(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Conditional so a concurrent cancel or settlement cannot
		// cancel twice (double stock restore) or cancel a paid invoice.
		const cancel = `
			UPDATE invoices SET status = $1, updated_at = NOW()
			WHERE id = $2 AND status NOT IN ($1, $3)`
		tag, err := tx.Exec(ctx, cancel, InvoiceStatusCancelled, id, InvoiceStatusPaid)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)", id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrNotFound
			}
			return fmt.Errorf("%w: invoice is paid or already cancelled", ErrInvalidStatus)
		}

		const restoreStock = `
			UPDATE products p
			SET quantity_in_stock = p.quantity_in_stock + ii.quantity, updated_at = NOW()
			FROM invoice_items ii
			WHERE ii.invoice_id = $1 AND ii.product_id = p.id`
		if _, err := tx.Exec(ctx, restoreStock, id); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
		return nil
	})
}
