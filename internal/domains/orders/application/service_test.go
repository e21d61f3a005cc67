package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/poster-parlor-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/poster-parlor-api/internal/domains/catalog/domain"
	ordercatalog "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/catalog"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
)

const (
	posterA = "0f8fad5b-d9cb-469f-a165-70867728950e"
	posterB = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	missing = "16fd2706-8baf-433b-82eb-8c7fada847da"
	userID  = "886313e1-3b8a-5372-9b90-0c9aee199e5d"
	otherID = "a8098c1a-f86e-11da-bd1a-00112444be1e"
)

type fakeCustomers struct {
	users map[string]*ports.CustomerRecord
}

func (f *fakeCustomers) FindByID(_ context.Context, id string) (*ports.CustomerRecord, error) {
	if u, ok := f.users[id]; ok {
		found := *u
		return &found, nil
	}
	return nil, ports.ErrCustomerNotFound
}

type fakeGateway struct {
	requests []ports.GatewayOrderRequest
	amounts  map[string]int64
	err      error
}

func (f *fakeGateway) CreateOrder(_ context.Context, req ports.GatewayOrderRequest) (*ports.GatewayOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &ports.GatewayOrder{ID: "order_Gw123", Amount: req.AmountMinor, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

func (f *fakeGateway) FetchOrder(_ context.Context, id string) (*ports.GatewayOrder, error) {
	amount, ok := f.amounts[id]
	if !ok {
		return nil, errors.New("gateway order not found")
	}
	return &ports.GatewayOrder{ID: id, Amount: amount, Currency: "INR", Status: "paid"}, nil
}

func (f *fakeGateway) KeyID() string { return "rzp_test_key" }

type failingCatalog struct {
	ports.Catalog
	failOn string
}

func (f *failingCatalog) DecrementStock(ctx context.Context, id string, qty int) error {
	if id == f.failOn {
		return errors.New("store unavailable")
	}
	return f.Catalog.DecrementStock(ctx, id, qty)
}

type fixture struct {
	svc       *Service
	admin     *AdminService
	orders    *memory.Repository
	items     *catalogmemory.Repository
	catalog   ports.Catalog
	gateway   *fakeGateway
	publisher *recordingPublisher
}

type recordingPublisher struct {
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) error {
	p.events = append(p.events, e)
	return nil
}

func seedItem(t *testing.T, repo *catalogmemory.Repository, id, title string, price float64, stock int) {
	t.Helper()
	item, err := catalogdomain.NewItem(id, title, price, stock, []catalogdomain.Image{{URL: "https://cdn.example/" + id, PublicID: id}})
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), item)
	require.NoError(t, err)
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	items := catalogmemory.NewRepository()
	seedItem(t, items, posterA, "Starry Night", 100, 5)
	seedItem(t, items, posterB, "The Great Wave", 150, 1)
	orders := memory.NewRepository()
	catalog := ordercatalog.New(items)
	gateway := &fakeGateway{amounts: map[string]int64{}}
	customers := &fakeCustomers{users: map[string]*ports.CustomerRecord{
		userID: {ID: userID, Name: "Asha", Email: "asha@example.com"},
	}}
	base := []Option{
		WithPaymentGateway(gateway),
		WithPaymentReconciler(NewPaymentReconciler("shh")),
		WithIdempotencyStore(memory.NewIdempotencyStore()),
	}
	publisher := &recordingPublisher{}
	return &fixture{
		svc:       NewService(orders, catalog, customers, append(base, opts...)...),
		admin:     NewAdminService(orders, catalog, WithEventPublisher(publisher)),
		orders:    orders,
		items:     items,
		catalog:   catalog,
		gateway:   gateway,
		publisher: publisher,
	}
}

func address(state string) domain.ShippingAddress {
	return domain.ShippingAddress{AddressLine1: "12 Residency Road", City: "Bengaluru", State: state, Pincode: "560025"}
}

func codOrder(items []types.LineItemInput, amount float64) types.PlaceOrderInput {
	return types.PlaceOrderInput{
		UserID:          userID,
		Customer:        &types.CustomerInput{Phone: "9876543210"},
		Items:           items,
		ShippingAddress: address("Karnataka"),
		Payment:         types.PaymentInput{Method: "COD", Amount: amount, Currency: "INR"},
	}
}

func stockOf(t *testing.T, f *fixture, id string) int {
	t.Helper()
	item, err := f.catalog.FindByID(context.Background(), id)
	require.NoError(t, err)
	return item.Stock
}

func TestValidator_SubtotalUsesCatalogPrices(t *testing.T) {
	f := newFixture(t)
	v := NewOrderValidator(f.catalog)

	result, err := v.Validate(context.Background(), []types.LineItemInput{
		{ItemID: posterA, Quantity: 2, Price: 100.005},
		{ItemID: posterB, Quantity: 1, Price: 149.995},
	})
	require.NoError(t, err)
	assert.Equal(t, 350.0, result.Subtotal)
	assert.Equal(t, 100.0, result.Items[0].UnitPrice)
	assert.Equal(t, 150.0, result.Items[1].UnitPrice)
}

func TestValidator_Failures(t *testing.T) {
	f := newFixture(t)
	v := NewOrderValidator(f.catalog)
	ctx := context.Background()

	tests := []struct {
		name  string
		items []types.LineItemInput
		want  error
	}{
		{name: "empty", items: nil, want: ErrInvalidInput},
		{name: "malformed id", items: []types.LineItemInput{{ItemID: "abc", Quantity: 1, Price: 100}}, want: ErrInvalidInput},
		{name: "zero quantity", items: []types.LineItemInput{{ItemID: posterA, Quantity: 0, Price: 100}}, want: ErrInvalidInput},
		{name: "missing item", items: []types.LineItemInput{{ItemID: missing, Quantity: 1, Price: 100}}, want: ErrNotFound},
		{name: "over stock", items: []types.LineItemInput{{ItemID: posterB, Quantity: 2, Price: 150}}, want: ErrInsufficientStock},
		{name: "price tampered", items: []types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100.02}}, want: ErrPriceMismatch},
		{name: "ids checked before lookups", items: []types.LineItemInput{{ItemID: missing, Quantity: 1, Price: 1}, {ItemID: "bad", Quantity: 1, Price: 1}}, want: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(ctx, tt.items)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidator_QuantityEqualToStockPasses(t *testing.T) {
	f := newFixture(t)
	_, err := NewOrderValidator(f.catalog).Validate(context.Background(), []types.LineItemInput{{ItemID: posterB, Quantity: 1, Price: 150}})
	assert.NoError(t, err)
}

func TestPaymentReconciler(t *testing.T) {
	r := NewPaymentReconciler("secret")
	sig := r.Sign("order_1", "pay_1")

	assert.True(t, r.Verify("order_1", "pay_1", sig))
	assert.Equal(t, sig, r.Sign("order_1", "pay_1"))

	for i := range sig {
		flipped := []byte(sig)
		if flipped[i] == 'a' {
			flipped[i] = 'b'
		} else {
			flipped[i] = 'a'
		}
		assert.False(t, r.Verify("order_1", "pay_1", string(flipped)), "position %d", i)
	}
	assert.False(t, r.Verify("order_1", "pay_2", sig))
	assert.False(t, NewPaymentReconciler("").Verify("order_1", "pay_1", NewPaymentReconciler("").Sign("order_1", "pay_1")))
	var nilReconciler *PaymentReconciler
	assert.False(t, nilReconciler.Verify("order_1", "pay_1", sig))
}

func TestPlaceOrder_PersistsPricedOrderAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// subtotal 200 -> shipping 50, tax 36, total 286
	saved, err := f.svc.PlaceOrder(ctx, codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 2, Price: 100}}, 286))
	require.NoError(t, err)

	order := saved.Entity
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.False(t, order.IsPaid)
	assert.Equal(t, 50.0, order.ShippingCost)
	assert.Equal(t, 36.0, order.TaxAmount)
	assert.Equal(t, 286.0, order.TotalPrice)
	assert.Equal(t, "Asha", order.Customer.Name)
	assert.Equal(t, "asha@example.com", order.Customer.Email)
	assert.Equal(t, "9876543210", order.Customer.Phone)
	assert.Equal(t, 3, stockOf(t, f, posterA))
}

func TestPlaceOrder_LastUnitSellsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := codOrder([]types.LineItemInput{{ItemID: posterB, Quantity: 1, Price: 150}}, 227)

	_, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, f, posterB))

	_, err = f.svc.PlaceOrder(ctx, input)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 0, stockOf(t, f, posterB))
}

func TestPlaceOrder_ClientTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items := []types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}

	input := codOrder(items, 168)
	wrongTotal := 150.0
	input.TotalPrice = &wrongTotal
	_, err := f.svc.PlaceOrder(ctx, input)
	assert.ErrorIs(t, err, ErrPriceMismatch)

	input = codOrder(items, 168)
	freeShipping := 0.0
	input.ShippingCost = &freeShipping
	_, err = f.svc.PlaceOrder(ctx, input)
	assert.ErrorIs(t, err, ErrPriceMismatch)

	input = codOrder(items, 160)
	_, err = f.svc.PlaceOrder(ctx, input)
	assert.ErrorIs(t, err, ErrPaymentAmountMismatch)

	assert.Equal(t, 5, stockOf(t, f, posterA))
}

func TestPlaceOrder_GuestRequiresContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168)
	input.UserID = ""
	input.Customer = &types.CustomerInput{Name: "Guest"}

	_, err := f.svc.PlaceOrder(ctx, input)
	assert.ErrorIs(t, err, ErrInvalidInput)

	input.Customer.Phone = "9000000000"
	saved, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.Empty(t, saved.Entity.Customer.UserID)
}

func TestPlaceOrder_UnknownUser(t *testing.T) {
	f := newFixture(t)
	input := codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168)
	input.UserID = otherID
	_, err := f.svc.PlaceOrder(context.Background(), input)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceOrder_InvalidPayment(t *testing.T) {
	f := newFixture(t)
	input := codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168)
	input.Payment.Method = "CHEQUE"
	_, err := f.svc.PlaceOrder(context.Background(), input)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlaceOrder_OnlineUnsettledIsPaidButPending(t *testing.T) {
	f := newFixture(t)
	input := codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168)
	input.Payment.Method = "online"
	saved, err := f.svc.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, saved.Entity.IsPaid)
	assert.Equal(t, domain.StatusPending, saved.Entity.Status)
}

func TestPlaceOrder_IdempotentReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168)
	input.IdempotencyKey = "checkout-42"

	first, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.Entity.ID, second.Entity.ID)
	assert.Equal(t, 4, stockOf(t, f, posterA))

	input.Items[0].Quantity = 2
	input.Payment.Amount = 286
	_, err = f.svc.PlaceOrder(ctx, input)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPlaceOrder_DecrementFailureKeepsOrder(t *testing.T) {
	items := catalogmemory.NewRepository()
	seedItem(t, items, posterA, "Starry Night", 100, 5)
	seedItem(t, items, posterB, "The Great Wave", 150, 5)
	orders := memory.NewRepository()
	catalog := &failingCatalog{Catalog: ordercatalog.New(items), failOn: posterB}
	svc := NewService(orders, catalog, &fakeCustomers{users: map[string]*ports.CustomerRecord{userID: {ID: userID, Name: "Asha"}}})

	input := codOrder([]types.LineItemInput{
		{ItemID: posterA, Quantity: 1, Price: 100},
		{ItemID: posterB, Quantity: 1, Price: 150},
	}, 295)
	_, err := svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInternal)

	stored, total, err := orders.List(context.Background(), types.OrderQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, stored, 1)
	item, err := catalog.FindByID(context.Background(), posterA)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Stock)
}

func TestGetOrder_HidesOtherCustomersOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saved, err := f.svc.PlaceOrder(ctx, codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168))
	require.NoError(t, err)

	got, err := f.svc.GetOrder(ctx, saved.Entity.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, saved.Entity.ID, got.Entity.ID)

	_, err = f.svc.GetOrder(ctx, saved.Entity.ID, otherID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.GetOrder(ctx, "nope", userID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListCustomerOrders_ClampsPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.PlaceOrder(ctx, codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168))
		require.NoError(t, err)
	}

	page, err := f.svc.ListCustomerOrders(ctx, types.CustomerOrdersInput{UserID: userID, Page: 0, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.EqualValues(t, 3, page.Pagination.Total)
	assert.True(t, page.Pagination.HasNextPage)

	page, err = f.svc.ListCustomerOrders(ctx, types.CustomerOrdersInput{UserID: userID, Page: 1, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, page.Pagination.Limit)
}

func TestInitiatePayment(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	f := newFixture(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	intent, err := f.svc.InitiatePayment(ctx, types.InitiatePaymentInput{
		UserID:          userID,
		Items:           []types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}},
		ShippingAddress: address("Ladakh"),
		ShippingCost:    200,
		TaxAmount:       18,
		TotalPrice:      318,
	})
	require.NoError(t, err)
	assert.Equal(t, "order_Gw123", intent.OrderID)
	assert.EqualValues(t, 31800, intent.Amount)
	assert.Equal(t, "INR", intent.Currency)
	assert.Equal(t, "rzp_test_key", intent.KeyID)

	require.Len(t, f.gateway.requests, 1)
	req := f.gateway.requests[0]
	assert.Equal(t, buildReceipt(userID, now), req.Receipt)
	assert.Equal(t, req.Receipt, intent.Receipt)
	assert.Equal(t, map[string]string{"userId": userID, "itemCount": "1", "subtotal": "100"}, req.Notes)

	_, err = f.svc.InitiatePayment(ctx, types.InitiatePaymentInput{
		UserID:          userID,
		Items:           []types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}},
		ShippingAddress: address("Ladakh"),
		TotalPrice:      168,
	})
	assert.ErrorIs(t, err, ErrPriceMismatch)
}

func TestBuildReceipt(t *testing.T) {
	at := time.UnixMilli(36 * 36)
	assert.Equal(t, "ord_ee199e5d_100", buildReceipt(userID, at))
	assert.Equal(t, "ord_guest_100", buildReceipt("", at))
}

func TestToMinorUnits(t *testing.T) {
	assert.EqualValues(t, 28600, toMinorUnits(286))
	assert.EqualValues(t, 1999, toMinorUnits(19.99))
	assert.EqualValues(t, 1, toMinorUnits(0.005))
}

func TestReconcilePayment_SettlesIntoProcessingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gateway.amounts["order_Gw123"] = 16800
	sig := NewPaymentReconciler("shh").Sign("order_Gw123", "pay_9")
	verify := types.VerifyPaymentInput{
		UserID:          userID,
		GatewayOrderID:  "order_Gw123",
		PaymentID:       "pay_9",
		Signature:       sig,
		Customer:        &types.CustomerInput{Phone: "9876543210"},
		Items:           []types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}},
		ShippingAddress: address("Karnataka"),
		ShippingCost:    50,
		TaxAmount:       18,
		TotalPrice:      168,
	}

	cmd, err := f.svc.ReconcilePayment(ctx, verify)
	require.NoError(t, err)
	saved, err := f.svc.PlaceOrder(ctx, *cmd)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, saved.Entity.Status)
	assert.True(t, saved.Entity.IsPaid)
	assert.Equal(t, "pay_9", saved.Entity.Payment.TransactionID)
	assert.Equal(t, "order_Gw123", saved.Entity.Payment.GatewayOrderID)
	assert.Equal(t, domain.PaymentOnline, saved.Entity.Payment.Method)

	replayCmd, err := f.svc.ReconcilePayment(ctx, verify)
	require.NoError(t, err)
	replayed, err := f.svc.PlaceOrder(ctx, *replayCmd)
	require.NoError(t, err)
	assert.Equal(t, saved.Entity.ID, replayed.Entity.ID)
	assert.Equal(t, 4, stockOf(t, f, posterA))

	f.gateway.amounts["order_Gw123"] = 10000
	_, err = f.svc.ReconcilePayment(ctx, verify)
	assert.ErrorIs(t, err, ErrPaymentAmountMismatch)

	verify.Signature = sig[:len(sig)-1] + "0"
	if verify.Signature == sig {
		verify.Signature = sig[:len(sig)-1] + "1"
	}
	_, err = f.svc.ReconcilePayment(ctx, verify)
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
}

func TestAdmin_CancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saved, err := f.svc.PlaceOrder(ctx, codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 2, Price: 100}}, 286))
	require.NoError(t, err)
	require.Equal(t, 3, stockOf(t, f, posterA))

	cancelled, err := f.admin.CancelOrder(ctx, types.CancelOrderInput{ID: saved.Entity.ID, Reason: "out of budget"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Entity.Status)
	assert.Equal(t, "Cancelled: out of budget", cancelled.Entity.Notes)
	assert.Equal(t, 5, stockOf(t, f, posterA))
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "orders.order.cancelled", f.publisher.events[0].EventName())

	_, err = f.admin.CancelOrder(ctx, types.CancelOrderInput{ID: saved.Entity.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 5, stockOf(t, f, posterA))
}

func TestPlaceOrder_IgnoresAvailabilityFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := catalogdomain.NewItem("poster-hidden", "Hidden Poster", 100, 3, []catalogdomain.Image{{URL: "https://cdn.example/hidden", PublicID: "hidden"}})
	require.NoError(t, err)
	item.Deactivate()
	_, err = f.items.Save(ctx, item)
	require.NoError(t, err)

	placed, err := f.svc.PlaceOrder(ctx, codOrder([]types.LineItemInput{{ItemID: "poster-hidden", Quantity: 1, Price: 100}}, 168))
	require.NoError(t, err)
	assert.Equal(t, 168.0, placed.Entity.TotalPrice)
	assert.Equal(t, 2, stockOf(t, f, "poster-hidden"))
}

func TestAdmin_UpdateStatus_ShippingRequiresProcessing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saved, err := f.svc.PlaceOrder(ctx, codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168))
	require.NoError(t, err)

	_, err = f.admin.UpdateStatus(ctx, types.UpdateStatusInput{ID: saved.Entity.ID, Status: "SHIPPED", TrackingNumber: "TRK1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := f.admin.GetOrder(ctx, saved.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Entity.Status)
	assert.Empty(t, got.Entity.TrackingNumber)
}

func TestAdmin_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saved, err := f.svc.PlaceOrder(ctx, codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168))
	require.NoError(t, err)
	id := saved.Entity.ID

	updated, err := f.admin.UpdateStatus(ctx, types.UpdateStatusInput{ID: id, Status: "processing", TrackingNumber: "IGNORED"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Entity.Status)
	assert.Empty(t, updated.Entity.TrackingNumber)

	updated, err = f.admin.UpdateStatus(ctx, types.UpdateStatusInput{ID: id, Status: "SHIPPED", TrackingNumber: "TRK123"})
	require.NoError(t, err)
	assert.Equal(t, "TRK123", updated.Entity.TrackingNumber)

	_, err = f.admin.UpdateStatus(ctx, types.UpdateStatusInput{ID: id, Status: "CANCELLED"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.admin.UpdateStatus(ctx, types.UpdateStatusInput{ID: id, Status: "LOST"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, f.publisher.events, 2)
}

func TestAdmin_ListDeleteRecent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.PlaceOrder(ctx, codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168))
	require.NoError(t, err)
	guest := codOrder([]types.LineItemInput{{ItemID: posterA, Quantity: 1, Price: 100}}, 168)
	guest.UserID = ""
	guest.Customer = &types.CustomerInput{Name: "Ravi Kumar", Phone: "9123456780"}
	_, err = f.svc.PlaceOrder(ctx, guest)
	require.NoError(t, err)

	page, err := f.admin.ListOrders(ctx, types.AdminListInput{Search: "ravi"})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "Ravi Kumar", page.Orders[0].Entity.Customer.Name)

	page, err = f.admin.ListOrders(ctx, types.AdminListInput{Status: "pending", SortBy: "totalPrice", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Pagination.Total)

	_, err = f.admin.ListOrders(ctx, types.AdminListInput{SortBy: "customer"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	recent, err := f.admin.RecentOrders(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	require.NoError(t, f.admin.DeleteOrder(ctx, first.Entity.ID))
	assert.ErrorIs(t, f.admin.DeleteOrder(ctx, first.Entity.ID), ErrNotFound)
	_, err = f.admin.GetOrder(ctx, first.Entity.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestErrorCodes_RoundTrip(t *testing.T) {
	for _, known := range taxonomy {
		code := ErrorCode(fmt.Errorf("wrapped: %w", known))
		assert.ErrorIs(t, ErrorFromCode(code, "boom"), known, code)
	}
	assert.Equal(t, "Internal", ErrorCode(errors.New("plain")))
	assert.ErrorIs(t, ErrorFromCode("Unknown", "x"), ErrInternal)
}
