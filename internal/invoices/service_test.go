package invoices

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esculape1/bizbook/internal/clients"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/sequences"
	"github.com/esculape1/bizbook/internal/shared"
)

type mockRepo struct {
	invoices    map[int64]*Invoice
	lastValues  map[int]int64
	nextID      int64
	cancelCalls []int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{invoices: make(map[int64]*Invoice), lastValues: make(map[int]int64)}
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *mockRepo) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) All(ctx context.Context) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range m.invoices {
		out = append(out, *inv)
	}
	return out, nil
}

func (m *mockRepo) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	all, _ := m.All(ctx)
	return all, len(all), nil
}

func (m *mockRepo) Create(ctx context.Context, invoice Invoice) (*Invoice, error) {
	year := invoice.Date.Year()
	m.lastValues[year]++
	invoice.InvoiceNumber = sequences.Format(sequences.PrefixInvoice, year, m.lastValues[year])
	m.nextID++
	invoice.ID = m.nextID
	m.invoices[invoice.ID] = &invoice
	return &invoice, nil
}

// Cancel mirrors the real repository: the status flip is conditional,
// and stock is only restored (recorded via cancelCalls) when it lands.
func (m *mockRepo) Cancel(ctx context.Context, id int64) error {
	inv, ok := m.invoices[id]
	if !ok {
		return ErrNotFound
	}
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled {
		return fmt.Errorf("%w: invoice is paid or already cancelled", ErrInvalidStatus)
	}
	inv.Status = InvoiceStatusCancelled
	m.cancelCalls = append(m.cancelCalls, id)
	return nil
}

type mockClientRepo struct {
	clients map[int64]clients.Client
}

func (m *mockClientRepo) Get(ctx context.Context, id int64) (*clients.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, clients.ErrNotFound
	}
	return &c, nil
}

func (m *mockClientRepo) List(ctx context.Context, req clients.ListClientsRequest) ([]clients.Client, int, error) {
	return nil, 0, nil
}

func (m *mockClientRepo) Create(ctx context.Context, c clients.Client) (int64, error) {
	return 0, nil
}

func (m *mockClientRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return nil
}

func (m *mockClientRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type mockProductRepo struct {
	products map[int64]products.Product
}

func (m *mockProductRepo) Get(ctx context.Context, id int64) (*products.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]products.Product, error) {
	out := make(map[int64]products.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *mockProductRepo) All(ctx context.Context) ([]products.Product, error) { return nil, nil }

func (m *mockProductRepo) List(ctx context.Context, req products.ListProductsRequest) ([]products.Product, int, error) {
	return nil, 0, nil
}

func (m *mockProductRepo) Create(ctx context.Context, p products.Product) (int64, error) {
	return 0, nil
}

func (m *mockProductRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return nil
}

func (m *mockProductRepo) LowStock(ctx context.Context) ([]products.Product, error) {
	return nil, nil
}

type recordingAuditor struct {
	events []shared.AuditEvent
}

func (a *recordingAuditor) Record(ctx context.Context, ev shared.AuditEvent) error {
	a.events = append(a.events, ev)
	return nil
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

func newTestService(repo *mockRepo) (*Service, *recordingAuditor, *countingInvalidator) {
	clientRepo := &mockClientRepo{clients: map[int64]clients.Client{
		3: {ID: 3, Name: "SONABEL"},
	}}
	productRepo := &mockProductRepo{products: map[int64]products.Product{
		1: {ID: 1, Name: "Seringue 5ml", Reference: "SER-005", UnitPrice: 50, PurchasePrice: 30},
	}}
	auditor := &recordingAuditor{}
	invalidator := &countingInvalidator{}
	return NewService(repo, clientRepo, productRepo, auditor, invalidator), auditor, invalidator
}

func invoiceDate() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
}

func TestCreateComputesTotals(t *testing.T) {
	repo := newMockRepo()
	svc, auditor, invalidator := newTestService(repo)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ClientID:        3,
		Date:            invoiceDate(),
		DiscountPercent: 10,
		VATPercent:      18,
		RetenuePercent:  5,
		Items:           []CreateInvoiceItemReq{{ProductID: 1, Quantity: 20}},
	})
	require.NoError(t, err)

	// 20 × 50 = 1000; -10% = 900; +18% VAT = 1062; retenue 5% = 53.1
	assert.InDelta(t, 1000.0, inv.SubTotal, 1e-9)
	assert.InDelta(t, 100.0, inv.DiscountAmount, 1e-9)
	assert.InDelta(t, 162.0, inv.VATAmount, 1e-9)
	assert.InDelta(t, 1062.0, inv.TotalAmount, 1e-9)
	assert.InDelta(t, 53.1, inv.RetenueAmount, 1e-9)
	assert.InDelta(t, 1008.9, inv.NetAPayer, 1e-9)
	assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
	assert.Equal(t, "FACT-2025-0001", inv.InvoiceNumber)

	require.Len(t, auditor.events, 1)
	assert.Equal(t, "invoice.create", auditor.events[0].Action)
	assert.Equal(t, 1, invalidator.bumps)
}

func TestCreateUsesPriceOverride(t *testing.T) {
	repo := newMockRepo()
	svc, _, _ := newTestService(repo)

	override := 45.0
	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ClientID: 3,
		Date:     invoiceDate(),
		Items:    []CreateInvoiceItemReq{{ProductID: 1, Quantity: 2, UnitPrice: &override}},
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, inv.SubTotal)
	assert.Equal(t, 45.0, inv.Items[0].UnitPrice)
}

func TestCreateUnknownProduct(t *testing.T) {
	repo := newMockRepo()
	svc, _, invalidator := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ClientID: 3,
		Date:     invoiceDate(),
		Items:    []CreateInvoiceItemReq{{ProductID: 42, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, repo.invoices)
	assert.Zero(t, invalidator.bumps)
}

func TestCancelRules(t *testing.T) {
	repo := newMockRepo()
	svc, _, _ := newTestService(repo)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ClientID: 3,
		Date:     invoiceDate(),
		Items:    []CreateInvoiceItemReq{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusCancelled, cancelled.Status)
	assert.Equal(t, []int64{inv.ID}, repo.cancelCalls)

	_, err = svc.Cancel(context.Background(), inv.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)

	// Paid invoices cannot be cancelled.
	paid, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ClientID: 3,
		Date:     invoiceDate(),
		Items:    []CreateInvoiceItemReq{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	repo.invoices[paid.ID].Status = InvoiceStatusPaid
	repo.invoices[paid.ID].AmountPaid = repo.invoices[paid.ID].TotalAmount

	_, err = svc.Cancel(context.Background(), paid.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

// staleReadRepo serves Get from a snapshot taken before the first
// cancel, reproducing two callers that both read the invoice as still
// open before either cancels it.
type staleReadRepo struct {
	*mockRepo
	stale map[int64]Invoice
}

func (s *staleReadRepo) Get(ctx context.Context, id int64) (*Invoice, error) {
	if inv, ok := s.stale[id]; ok {
		cp := inv
		return &cp, nil
	}
	return s.mockRepo.Get(ctx, id)
}

func TestCancelRaceRestoresStockOnce(t *testing.T) {
	repo := newMockRepo()
	stale := &staleReadRepo{mockRepo: repo, stale: make(map[int64]Invoice)}
	clientRepo := &mockClientRepo{clients: map[int64]clients.Client{
		3: {ID: 3, Name: "SONABEL"},
	}}
	productRepo := &mockProductRepo{products: map[int64]products.Product{
		1: {ID: 1, Name: "Seringue 5ml", Reference: "SER-005", UnitPrice: 50, PurchasePrice: 30},
	}}
	svc := NewService(stale, clientRepo, productRepo, nil, nil)

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		ClientID: 3,
		Date:     invoiceDate(),
		Items:    []CreateInvoiceItemReq{{ProductID: 1, Quantity: 4}},
	})
	require.NoError(t, err)
	stale.stale[inv.ID] = *repo.invoices[inv.ID]

	_, err = svc.Cancel(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{inv.ID}, repo.cancelCalls)

	// Second cancel still reads the invoice as open; the conditional
	// update must reject it so stock is not restored twice.
	_, err = svc.Cancel(context.Background(), inv.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, []int64{inv.ID}, repo.cancelCalls)
}
