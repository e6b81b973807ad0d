package purchases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/sequences"
	"github.com/esculape1/bizbook/internal/shared"
)

// mockRepo reproduces the transactional side effects of the real
// repository: stock goes up and purchase prices follow the line cost.
type mockRepo struct {
	purchases  map[int64]*Purchase
	lastValues map[int]int64
	stock      *mockProductRepo
	nextID     int64
}

func newMockRepo(stock *mockProductRepo) *mockRepo {
	return &mockRepo{purchases: make(map[int64]*Purchase), lastValues: make(map[int]int64), stock: stock}
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*Purchase, error) {
	p, ok := m.purchases[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, int, error) {
	var out []Purchase
	for _, p := range m.purchases {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockRepo) Create(ctx context.Context, purchase Purchase) (*Purchase, error) {
	year := purchase.Date.Year()
	m.lastValues[year]++
	purchase.PurchaseNumber = sequences.Format(sequences.PrefixPurchase, year, m.lastValues[year])
	m.nextID++
	purchase.ID = m.nextID
	for _, item := range purchase.Items {
		p := m.stock.products[item.ProductID]
		p.QuantityInStock += item.Quantity
		p.PurchasePrice = item.UnitCost
		m.stock.products[item.ProductID] = p
	}
	m.purchases[purchase.ID] = &purchase
	cp := purchase
	return &cp, nil
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

func (r *recordingAuditor) Record(ctx context.Context, ev shared.AuditEvent) error {
	r.events = append(r.events, ev)
	return nil
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

func TestCreatePurchaseRestocksAndReprices(t *testing.T) {
	productRepo := &mockProductRepo{products: map[int64]products.Product{
		7: {ID: 7, Name: "Gants latex T7", Reference: "GNT-L7-100", PurchasePrice: 4100, QuantityInStock: 10},
	}}
	repo := newMockRepo(productRepo)
	auditor := &recordingAuditor{}
	inval := &countingInvalidator{}
	svc := NewService(repo, productRepo, auditor, inval)

	created, err := svc.Create(context.Background(), CreatePurchaseRequest{
		Supplier: "PharmaDistrib SA",
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Items: []CreatePurchaseItemReq{
			{ProductID: 7, Quantity: 40, UnitCost: 4500},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ACH-2025-0001", created.PurchaseNumber)
	assert.InDelta(t, 180000, created.TotalAmount, 0.001)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "GNT-L7-100", created.Items[0].Reference)

	stocked := productRepo.products[7]
	assert.InDelta(t, 50, stocked.QuantityInStock, 0.001)
	assert.InDelta(t, 4500, stocked.PurchasePrice, 0.001)

	require.Len(t, auditor.events, 1)
	assert.Equal(t, "purchase.create", auditor.events[0].Action)
	assert.Equal(t, 1, inval.bumps)
}

func TestCreatePurchaseUnknownProduct(t *testing.T) {
	productRepo := &mockProductRepo{products: map[int64]products.Product{}}
	repo := newMockRepo(productRepo)
	svc := NewService(repo, productRepo, nil, nil)

	_, err := svc.Create(context.Background(), CreatePurchaseRequest{
		Supplier: "PharmaDistrib SA",
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Items: []CreatePurchaseItemReq{
			{ProductID: 99, Quantity: 1, UnitCost: 100},
		},
	})
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, repo.purchases)
}

func TestCreatePurchaseValidation(t *testing.T) {
	productRepo := &mockProductRepo{products: map[int64]products.Product{}}
	svc := NewService(newMockRepo(productRepo), productRepo, nil, nil)

	_, err := svc.Create(context.Background(), CreatePurchaseRequest{
		Supplier: "X",
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Items: []CreatePurchaseItemReq{
			{ProductID: 1, Quantity: 1, UnitCost: 100},
		},
	})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), CreatePurchaseRequest{
		Supplier: "PharmaDistrib SA",
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Items:    nil,
	})
	require.Error(t, err)
}
