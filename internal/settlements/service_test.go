package settlements

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoice struct {
	number     string
	status     string
	total      float64
	amountPaid float64
}

// mockRepo reproduces the repository's balance rules so the service
// flow can be exercised without a database.
type mockRepo struct {
	invoices    map[int64]*fakeInvoice
	settlements []Settlement
	nextID      int64
}

func (m *mockRepo) Create(ctx context.Context, s Settlement) (*Settlement, error) {
	inv, ok := m.invoices[s.InvoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	if inv.status == statusCancelled {
		return nil, ErrInvoiceCancelled
	}
	if s.Amount > inv.total-inv.amountPaid {
		return nil, ErrOverpayment
	}
	inv.amountPaid += s.Amount
	if inv.amountPaid >= inv.total {
		inv.status = statusPaid
	} else {
		inv.status = statusPartiallyPaid
	}
	m.nextID++
	s.ID = m.nextID
	s.InvoiceNumber = inv.number
	m.settlements = append(m.settlements, s)
	return &s, nil
}

func (m *mockRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]Settlement, error) {
	var out []Settlement
	for _, s := range m.settlements {
		if s.InvoiceID == invoiceID {
			out = append(out, s)
		}
	}
	return out, nil
}

func paymentDate() time.Time {
	return time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
}

func TestSettlementLifecycle(t *testing.T) {
	repo := &mockRepo{invoices: map[int64]*fakeInvoice{
		1: {number: "FACT-2025-0003", status: "Unpaid", total: 1000},
	}}
	svc := NewService(repo, nil, nil)

	first, err := svc.Create(context.Background(), CreateSettlementRequest{
		InvoiceID: 1, Amount: 400, Method: "cash", Date: paymentDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, "FACT-2025-0003", first.InvoiceNumber)
	assert.Equal(t, statusPartiallyPaid, repo.invoices[1].status)

	_, err = svc.Create(context.Background(), CreateSettlementRequest{
		InvoiceID: 1, Amount: 600, Method: "virement", Date: paymentDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, statusPaid, repo.invoices[1].status)
	assert.InDelta(t, 1000.0, repo.invoices[1].amountPaid, 1e-9)

	list, err := svc.ListByInvoice(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSettlementRejectsOverpayment(t *testing.T) {
	repo := &mockRepo{invoices: map[int64]*fakeInvoice{
		1: {number: "FACT-2025-0004", status: "Unpaid", total: 500},
	}}
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateSettlementRequest{
		InvoiceID: 1, Amount: 500.01, Method: "cash", Date: paymentDate(),
	})
	require.ErrorIs(t, err, ErrOverpayment)
	assert.Empty(t, repo.settlements)
}

func TestSettlementRejectsCancelledInvoice(t *testing.T) {
	repo := &mockRepo{invoices: map[int64]*fakeInvoice{
		1: {number: "FACT-2025-0005", status: statusCancelled, total: 500},
	}}
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateSettlementRequest{
		InvoiceID: 1, Amount: 100, Method: "cash", Date: paymentDate(),
	})
	require.ErrorIs(t, err, ErrInvoiceCancelled)
}

func TestSettlementValidation(t *testing.T) {
	repo := &mockRepo{invoices: map[int64]*fakeInvoice{}}
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateSettlementRequest{
		InvoiceID: 1, Amount: -5, Method: "cash", Date: paymentDate(),
	})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), CreateSettlementRequest{
		InvoiceID: 1, Amount: 10, Method: "barter", Date: paymentDate(),
	})
	require.Error(t, err)
}
