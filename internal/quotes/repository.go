package quotes

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
	ErrNotFound         = errors.New("quote not found")
	ErrAlreadyConverted = errors.New("quote already converted")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Quote, error)
	List(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error)
	// Create allocates the quote number and persists quote and items
	// in one transaction.
	Create(ctx context.Context, quote Quote) (*Quote, error)
	UpdateStatus(ctx context.Context, id int64, status QuoteStatus) error
	// Claim moves the quote into Converted before the invoice exists.
	// The update is conditional on the quote not being converted yet,
	// so of two concurrent conversions exactly one proceeds.
	Claim(ctx context.Context, id int64) error
	// LinkInvoice records the invoice built from a claimed quote.
	LinkInvoice(ctx context.Context, id, invoiceID int64) error
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

const quoteSelect = `
	SELECT q.id, q.quote_number, q.client_id, c.name, q.date, q.valid_until, q.status,
	       q.sub_total, q.discount_percent, q.discount_amount, q.vat_percent, q.vat_amount,
	       q.retenue_percent, q.retenue_amount, q.total_amount, q.net_a_payer, q.invoice_id,
	       q.notes, q.created_at, q.updated_at
	FROM quotes q
	JOIN clients c ON c.id = q.client_id`

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	err := row.Scan(&q.ID, &q.QuoteNumber, &q.ClientID, &q.ClientName, &q.Date, &q.ValidUntil, &q.Status,
		&q.SubTotal, &q.DiscountPercent, &q.DiscountAmount, &q.VATPercent, &q.VATAmount,
		&q.RetenuePercent, &q.RetenueAmount, &q.TotalAmount, &q.NetAPayer, &q.InvoiceID,
		&q.Notes, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Quote, error) {
	quote, err := scanQuote(r.db.QueryRow(ctx, quoteSelect+" WHERE q.id = $1", id))
	if err != nil {
		return nil, err
	}
	if quote.Items, err = r.loadItems(ctx, quote.ID); err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) loadItems(ctx context.Context, quoteID int64) ([]QuoteItem, error) {
	const query = `
		SELECT id, quote_id, product_id, product_name, reference, quantity, unit_price, total
		FROM quote_items
		WHERE quote_id = $1
		ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []QuoteItem
	for rows.Next() {
		var it QuoteItem
		if err := rows.Scan(&it.ID, &it.QuoteID, &it.ProductID, &it.ProductName, &it.Reference, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("q.client_id = $%d", argPos))
		args = append(args, *req.ClientID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("q.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("q.date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("q.date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM quotes q %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("%s %s ORDER BY q.quote_number DESC LIMIT $%d OFFSET $%d", quoteSelect, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.ID, &q.QuoteNumber, &q.ClientID, &q.ClientName, &q.Date, &q.ValidUntil, &q.Status,
			&q.SubTotal, &q.DiscountPercent, &q.DiscountAmount, &q.VATPercent, &q.VATAmount,
			&q.RetenuePercent, &q.RetenueAmount, &q.TotalAmount, &q.NetAPayer, &q.InvoiceID,
			&q.Notes, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) Create(ctx context.Context, quote Quote) (*Quote, error) {
	var created *Quote
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		seq, err := sequences.Next(ctx, tx, sequences.PrefixQuote, quote.Date.Year())
		if err != nil {
			return err
		}
		quote.QuoteNumber = sequences.Format(sequences.PrefixQuote, quote.Date.Year(), seq)

		const insertQuote = `
			INSERT INTO quotes (quote_number, client_id, date, valid_until, status,
			                    sub_total, discount_percent, discount_amount, vat_percent, vat_amount,
			                    retenue_percent, retenue_amount, total_amount, net_a_payer, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertQuote,
			quote.QuoteNumber, quote.ClientID, quote.Date, quote.ValidUntil, quote.Status,
			quote.SubTotal, quote.DiscountPercent, quote.DiscountAmount, quote.VATPercent, quote.VATAmount,
			quote.RetenuePercent, quote.RetenueAmount, quote.TotalAmount, quote.NetAPayer, quote.Notes).
			Scan(&quote.ID, &quote.CreatedAt, &quote.UpdatedAt); err != nil {
			return fmt.Errorf("insert quote: %w", err)
		}

		const insertItem = `
			INSERT INTO quote_items (quote_id, product_id, product_name, reference, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`
		for i := range quote.Items {
			item := &quote.Items[i]
			item.QuoteID = quote.ID
			if err := tx.QueryRow(ctx, insertItem, quote.ID, item.ProductID, item.ProductName, item.Reference, item.Quantity, item.UnitPrice, item.Total).
				Scan(&item.ID); err != nil {
				return fmt.Errorf("insert quote item: %w", err)
			}
		}

		created = &quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status QuoteStatus) error {
	tag, err := r.db.Exec(ctx, "UPDATE quotes SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Claim(ctx context.Context, id int64) error {
	const query = `
		UPDATE quotes SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status <> $1`
	tag, err := r.db.Exec(ctx, query, QuoteStatusConverted, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyConverted
	}
	return nil
}

func (r *repository) LinkInvoice(ctx context.Context, id, invoiceID int64) error {
	tag, err := r.db.Exec(ctx, "UPDATE quotes SET invoice_id = $1, updated_at = NOW() WHERE id = $2", invoiceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
