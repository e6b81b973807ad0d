package settlements

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/esculape1/bizbook/internal/platform/db"
)

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrInvoiceCancelled = errors.New("cancelled invoices cannot be settled")
	ErrOverpayment      = errors.New("amount exceeds outstanding balance")
)

// Invoice statuses the settlement transaction derives. Kept in sync
// with the invoices package by the shared schema, not by import, so
// this package owns the full write path of its transaction.
const (
	statusPartiallyPaid = "Partially Paid"
	statusPaid          = "Paid"
	statusCancelled     = "Cancelled"
)

type Repository interface {
	// Create applies a payment to an invoice: it locks the invoice
	// row, enforces the balance rules, inserts the settlement, and
	// rewrites amount_paid and status in one transaction.
	Create(ctx context.Context, settlement Settlement) (*Settlement, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]Settlement, error)
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

func (r *repository) Create(ctx context.Context, settlement Settlement) (*Settlement, error) {
	var created *Settlement
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const lockInvoice = `
			SELECT invoice_number, status, total_amount, amount_paid
			FROM invoices
			WHERE id = $1
			FOR UPDATE`
		var (
			number     string
			status     string
			total      float64
			amountPaid float64
		)
		err := tx.QueryRow(ctx, lockInvoice, settlement.InvoiceID).Scan(&number, &status, &total, &amountPaid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("lock invoice: %w", err)
		}
		if status == statusCancelled {
			return ErrInvoiceCancelled
		}
		if settlement.Amount > total-amountPaid {
			return fmt.Errorf("%w: outstanding %.2f, got %.2f", ErrOverpayment, total-amountPaid, settlement.Amount)
		}

		const insertSettlement = `
			INSERT INTO settlements (invoice_id, amount, method, date, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insertSettlement,
			settlement.InvoiceID, settlement.Amount, settlement.Method, settlement.Date, settlement.Notes).
			Scan(&settlement.ID, &settlement.CreatedAt); err != nil {
			return fmt.Errorf("insert settlement: %w", err)
		}

		newPaid := amountPaid + settlement.Amount
		newStatus := statusPartiallyPaid
		if newPaid >= total {
			newStatus = statusPaid
		}
		const updateInvoice = `
			UPDATE invoices SET amount_paid = $1, status = $2, updated_at = NOW() WHERE id = $3`
		if _, err := tx.Exec(ctx, updateInvoice, newPaid, newStatus, settlement.InvoiceID); err != nil {
			return fmt.Errorf("update invoice balance: %w", err)
		}

		settlement.InvoiceNumber = number
		created = &settlement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) ListByInvoice(ctx context.Context, invoiceID int64) ([]Settlement, error) {
	const query = `
		SELECT s.id, s.invoice_id, i.invoice_number, s.amount, s.method, s.date, s.notes, s.created_at
		FROM settlements s
		JOIN invoices i ON i.id = s.invoice_id
		WHERE s.invoice_id = $1
		ORDER BY s.date ASC, s.id ASC`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Settlement
	for rows.Next() {
		var s Settlement
		if err := rows.Scan(&s.ID, &s.InvoiceID, &s.InvoiceNumber, &s.Amount, &s.Method, &s.Date, &s.Notes, &s.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
