package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esculape1/bizbook/internal/clients"
	"github.com/esculape1/bizbook/internal/invoices"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/sequences"
)

type mockRepo struct {
	quotes     map[int64]*Quote
	lastValues map[int]int64
	nextID     int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{quotes: make(map[int64]*Quote), lastValues: make(map[int]int64)}
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *mockRepo) List(ctx context.Context, req ListQuotesRequest) ([]Quote, int, error) {
	var out []Quote
	for _, q := range m.quotes {
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (m *mockRepo) Create(ctx context.Context, quote Quote) (*Quote, error) {
	year := quote.Date.Year()
	m.lastValues[year]++
	quote.QuoteNumber = sequences.Format(sequences.PrefixQuote, year, m.lastValues[year])
	m.nextID++
	quote.ID = m.nextID
	m.quotes[quote.ID] = &quote
	return &quote, nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id int64, status QuoteStatus) error {
	q, ok := m.quotes[id]
	if !ok {
		return ErrNotFound
	}
	q.Status = status
	return nil
}

func (m *mockRepo) Claim(ctx context.Context, id int64) error {
	q, ok := m.quotes[id]
	if !ok || q.Status == QuoteStatusConverted {
		return ErrAlreadyConverted
	}
	q.Status = QuoteStatusConverted
	return nil
}

func (m *mockRepo) LinkInvoice(ctx context.Context, id, invoiceID int64) error {
	q, ok := m.quotes[id]
	if !ok {
		return ErrNotFound
	}
	q.InvoiceID = &invoiceID
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

type mockInvoiceCreator struct {
	requests []invoices.CreateInvoiceRequest
	nextID   int64
	err      error
}

func (m *mockInvoiceCreator) Create(ctx context.Context, req invoices.CreateInvoiceRequest) (*invoices.Invoice, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	m.nextID++
	return &invoices.Invoice{
		ID:            m.nextID,
		InvoiceNumber: sequences.Format(sequences.PrefixInvoice, req.Date.Year(), m.nextID),
		ClientID:      req.ClientID,
		Status:        invoices.InvoiceStatusUnpaid,
	}, nil
}

func newTestService(repo *mockRepo) (*Service, *mockInvoiceCreator) {
	clientRepo := &mockClientRepo{clients: map[int64]clients.Client{
		7: {ID: 7, Name: "CHU Tengandogo"},
	}}
	productRepo := &mockProductRepo{products: map[int64]products.Product{
		1: {ID: 1, Name: "Gants nitrile", Reference: "GNT-100", UnitPrice: 25},
	}}
	creator := &mockInvoiceCreator{}
	return NewService(repo, clientRepo, productRepo, creator, nil), creator
}

func quoteDate() time.Time {
	return time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
}

func TestCreateQuote(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		ClientID:   7,
		Date:       quoteDate(),
		VATPercent: 18,
		Items:      []CreateQuoteItemReq{{ProductID: 1, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, "DEV-2025-0001", quote.QuoteNumber)
	assert.Equal(t, QuoteStatusDraft, quote.Status)
	assert.InDelta(t, 100.0, quote.SubTotal, 1e-9)
	assert.InDelta(t, 118.0, quote.TotalAmount, 1e-9)
}

func TestConvertFreezesQuotedPrices(t *testing.T) {
	repo := newMockRepo()
	svc, creator := newTestService(repo)

	override := 20.0
	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		ClientID: 7,
		Date:     quoteDate(),
		Items:    []CreateQuoteItemReq{{ProductID: 1, Quantity: 3, UnitPrice: &override}},
	})
	require.NoError(t, err)

	invoice, err := svc.Convert(context.Background(), quote.ID)
	require.NoError(t, err)
	require.NotNil(t, invoice)

	require.Len(t, creator.requests, 1)
	req := creator.requests[0]
	require.Len(t, req.Items, 1)
	require.NotNil(t, req.Items[0].UnitPrice)
	assert.Equal(t, 20.0, *req.Items[0].UnitPrice)

	stored, err := svc.Get(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusConverted, stored.Status)
	require.NotNil(t, stored.InvoiceID)
	assert.Equal(t, invoice.ID, *stored.InvoiceID)
}

func TestConvertTwiceConflicts(t *testing.T) {
	repo := newMockRepo()
	svc, creator := newTestService(repo)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		ClientID: 7,
		Date:     quoteDate(),
		Items:    []CreateQuoteItemReq{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Convert(context.Background(), quote.ID)
	require.NoError(t, err)

	_, err = svc.Convert(context.Background(), quote.ID)
	require.ErrorIs(t, err, ErrAlreadyConverted)
	assert.Len(t, creator.requests, 1)
}

// staleReadRepo serves Get from a snapshot taken before the first
// conversion, reproducing two goroutines that both read the quote as
// unconverted before either claims it.
type staleReadRepo struct {
	*mockRepo
	stale map[int64]Quote
}

func (s *staleReadRepo) Get(ctx context.Context, id int64) (*Quote, error) {
	if q, ok := s.stale[id]; ok {
		cp := q
		return &cp, nil
	}
	return s.mockRepo.Get(ctx, id)
}

func TestConvertRaceLoserCreatesNoInvoice(t *testing.T) {
	repo := newMockRepo()
	stale := &staleReadRepo{mockRepo: repo, stale: make(map[int64]Quote)}
	clientRepo := &mockClientRepo{clients: map[int64]clients.Client{
		7: {ID: 7, Name: "CHU Tengandogo"},
	}}
	productRepo := &mockProductRepo{products: map[int64]products.Product{
		1: {ID: 1, Name: "Gants nitrile", Reference: "GNT-100", UnitPrice: 25},
	}}
	creator := &mockInvoiceCreator{}
	svc := NewService(stale, clientRepo, productRepo, creator, nil)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		ClientID: 7,
		Date:     quoteDate(),
		Items:    []CreateQuoteItemReq{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	stale.stale[quote.ID] = *repo.quotes[quote.ID]

	_, err = svc.Convert(context.Background(), quote.ID)
	require.NoError(t, err)
	require.Len(t, creator.requests, 1)

	// Second conversion still reads the quote as unconverted but must
	// lose the claim before any invoice is created.
	_, err = svc.Convert(context.Background(), quote.ID)
	require.ErrorIs(t, err, ErrAlreadyConverted)
	assert.Len(t, creator.requests, 1)
}

func TestConvertReleasesClaimOnInvoiceFailure(t *testing.T) {
	repo := newMockRepo()
	svc, creator := newTestService(repo)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		ClientID: 7,
		Date:     quoteDate(),
		Items:    []CreateQuoteItemReq{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	creator.err = errors.New("insert invoice: connection reset")
	_, err = svc.Convert(context.Background(), quote.ID)
	require.Error(t, err)

	stored, err := svc.Get(context.Background(), quote.ID)
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusDraft, stored.Status)
	assert.Nil(t, stored.InvoiceID)

	// The released quote converts normally afterwards.
	creator.err = nil
	_, err = svc.Convert(context.Background(), quote.ID)
	require.NoError(t, err)
}

func TestConvertedQuoteIsFrozen(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		ClientID: 7,
		Date:     quoteDate(),
		Items:    []CreateQuoteItemReq{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Convert(context.Background(), quote.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), quote.ID, UpdateQuoteStatusRequest{Status: QuoteStatusSent})
	require.ErrorIs(t, err, ErrInvalidStatus)
}
