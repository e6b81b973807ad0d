// Package sequences allocates per-year document numbers.
//
// Numbers follow the BIZBOOK contract <PREFIX>-YYYY-NNNN with a four
// digit zero-padded counter that resets every calendar year. Allocation
// is a single atomic upsert so concurrent submissions in the same year
// can never observe the same counter value.
package sequences

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Document type prefixes persisted in existing records. Stable external
// contract; do not change.
const (
	PrefixOrder    = "CMD"
	PrefixInvoice  = "FACT"
	PrefixQuote    = "DEV"
	PrefixPurchase = "ACH"
)

// DBTX is the minimal query surface, satisfied by pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Next bumps and returns the counter for docType in year.
// Run it on the same transaction that inserts the document so a failed
// insert rolls the counter back.
func Next(ctx context.Context, q DBTX, docType string, year int) (int64, error) {
	const query = `
		INSERT INTO document_sequences (doc_type, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, year)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`

	var value int64
	if err := q.QueryRow(ctx, query, docType, year).Scan(&value); err != nil {
		return 0, fmt.Errorf("sequences: next %s/%d: %w", docType, year, err)
	}
	return value, nil
}

// Format renders a document number, e.g. Format("CMD", 2025, 8) == "CMD-2025-0008".
func Format(prefix string, year int, value int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, value)
}
