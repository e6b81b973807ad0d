package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esculape1/bizbook/internal/clients"
	"github.com/esculape1/bizbook/internal/products"
	"github.com/esculape1/bizbook/internal/sequences"
)

type mockRepo struct {
	orders      map[int64]*Order
	lastValues  map[int]int64
	nextID      int64
	createCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{orders: make(map[int64]*Order), lastValues: make(map[int]int64)}
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockRepo) GetByNumber(ctx context.Context, number string) (*Order, error) {
	for _, o := range m.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	var out []Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *mockRepo) Create(ctx context.Context, order Order) (*Order, error) {
	m.createCalls++
	year := order.OrderDate.Year()
	m.lastValues[year]++
	order.OrderNumber = sequences.Format(sequences.PrefixOrder, year, m.lastValues[year])
	m.nextID++
	order.ID = m.nextID
	order.CreatedAt = time.Now()
	m.orders[order.ID] = &order
	return &order, nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id int64, status OrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

type mockClientRepo struct {
	clients  map[int64]clients.Client
	getCalls int
}

func (m *mockClientRepo) Get(ctx context.Context, id int64) (*clients.Client, error) {
	m.getCalls++
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

func (m *mockProductRepo) All(ctx context.Context) ([]products.Product, error) {
	return nil, nil
}

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

func newTestService(repo *mockRepo) (*Service, *mockClientRepo, *mockProductRepo) {
	clientRepo := &mockClientRepo{clients: map[int64]clients.Client{
		7: {ID: 7, Name: "Pharmacie Centrale"},
	}}
	productRepo := &mockProductRepo{products: map[int64]products.Product{
		1: {ID: 1, Name: "Gants nitrile", Reference: "GAN-100", UnitPrice: 25.5},
		2: {ID: 2, Name: "Compresses", Reference: "CMP-200", UnitPrice: 10},
	}}
	svc := NewService(repo, clientRepo, productRepo, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }
	return svc, clientRepo, productRepo
}

func TestSubmitComputesTotals(t *testing.T) {
	repo := newMockRepo()
	svc, _, _ := newTestService(repo)

	order, err := svc.Submit(context.Background(), SubmitOrderRequest{
		ClientID: 7,
		Items: []SubmitOrderItemReq{
			{ProductID: 1, Quantity: 4},
			{ProductID: 2, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 25.5*4+10*3, order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 102.0, order.Items[0].Total)
	assert.Equal(t, "Gants nitrile", order.Items[0].ProductName)
	assert.Equal(t, "GAN-100", order.Items[0].Reference)
	assert.Equal(t, OrderStatusPending, order.Status)
}

func TestSubmitNumbersAreSequentialWithinYear(t *testing.T) {
	repo := newMockRepo()
	repo.lastValues[2025] = 7 // existing max CMD-2025-0007
	svc, _, _ := newTestService(repo)

	order, err := svc.Submit(context.Background(), SubmitOrderRequest{
		ClientID: 7,
		Items:    []SubmitOrderItemReq{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "CMD-2025-0008", order.OrderNumber)
}

func TestSubmitYearRolloverRestartsSequence(t *testing.T) {
	repo := newMockRepo()
	repo.lastValues[2025] = 412
	svc, _, _ := newTestService(repo)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC) }

	order, err := svc.Submit(context.Background(), SubmitOrderRequest{
		ClientID: 7,
		Items:    []SubmitOrderItemReq{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "CMD-2026-0001", order.OrderNumber)
}

func TestSubmitUnknownProductRejectsWithoutPersisting(t *testing.T) {
	repo := newMockRepo()
	svc, _, _ := newTestService(repo)

	_, err := svc.Submit(context.Background(), SubmitOrderRequest{
		ClientID: 7,
		Items:    []SubmitOrderItemReq{{ProductID: 99, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Contains(t, err.Error(), "99")
	assert.Equal(t, 0, repo.createCalls)
}

func TestSubmitUnknownClientRejects(t *testing.T) {
	repo := newMockRepo()
	svc, _, _ := newTestService(repo)

	_, err := svc.Submit(context.Background(), SubmitOrderRequest{
		ClientID: 404,
		Items:    []SubmitOrderItemReq{{ProductID: 1, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrClientNotFound)
	assert.Equal(t, 0, repo.createCalls)
}

func TestSubmitValidatesBeforeAnyIO(t *testing.T) {
	repo := newMockRepo()
	svc, clientRepo, _ := newTestService(repo)

	_, err := svc.Submit(context.Background(), SubmitOrderRequest{ClientID: 7})
	require.Error(t, err)
	assert.Equal(t, 0, clientRepo.getCalls)

	_, err = svc.Submit(context.Background(), SubmitOrderRequest{
		ClientID: 7,
		Items:    []SubmitOrderItemReq{{ProductID: 1, Quantity: -2}},
	})
	require.Error(t, err)
	assert.Equal(t, 0, clientRepo.getCalls)
	assert.Equal(t, 0, repo.createCalls)
}

func TestCancelOnlyPendingOrders(t *testing.T) {
	repo := newMockRepo()
	svc, _, _ := newTestService(repo)

	order, err := svc.Submit(context.Background(), SubmitOrderRequest{
		ClientID: 7,
		Items:    []SubmitOrderItemReq{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, cancelled.Status)

	_, err = svc.Cancel(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}
