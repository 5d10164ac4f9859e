package desk_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alejandrodnm/dealmax/internal/catalog"
	"github.com/alejandrodnm/dealmax/internal/desk"
	"github.com/alejandrodnm/dealmax/internal/domain"
	"github.com/alejandrodnm/dealmax/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockInventory struct {
	vehicles []domain.Vehicle
	err      error
	calls    int
}

func (m *mockInventory) FetchInventory(_ context.Context) ([]domain.Vehicle, error) {
	m.calls++
	return m.vehicles, m.err
}

type mockNotifier struct {
	summary   domain.DealSummary
	deals     []domain.Deal
	vehicle   domain.Vehicle
	scenarios []domain.ProfitScenario
	ranked    []domain.ApprovalWithProfit
	err       error
}

func (m *mockNotifier) NotifyDeals(_ context.Context, s domain.DealSummary, deals []domain.Deal) error {
	m.summary, m.deals = s, deals
	return m.err
}

func (m *mockNotifier) NotifyScenarios(_ context.Context, v domain.Vehicle, s []domain.ProfitScenario) error {
	m.vehicle, m.scenarios = v, s
	return m.err
}

func (m *mockNotifier) NotifyRanking(_ context.Context, r []domain.ApprovalWithProfit) error {
	m.ranked = r
	return m.err
}

type mockStore struct {
	quotes []domain.Quote
	saved  []domain.Deal
	err    error
}

func (m *mockStore) SaveQuote(_ context.Context, q domain.Quote, deals []domain.Deal) error {
	m.quotes = append(m.quotes, q)
	m.saved = deals
	return m.err
}

func (m *mockStore) GetHistory(_ context.Context, _, _ time.Time) ([]domain.Deal, error) {
	return m.saved, m.err
}

func (m *mockStore) Close() error { return nil }

// --- helpers ---

func civic() domain.Vehicle {
	return domain.Vehicle{
		ID: "A1", VIN: "VINA1", Year: 2021, Make: "Honda", Model: "Civic", Mileage: 60000,
		Cost: 15000, SuggestedPrice: 18000, CollateralValue: 19500, InStock: true,
	}
}

func jeep() domain.Vehicle {
	return domain.Vehicle{
		ID: "J2025", Year: 2025, Make: "Jeep", Model: "Compass",
		Cost: 27000, SuggestedPrice: 30000, CollateralValue: 28000, InStock: true,
	}
}

func newDesk(inv *mockInventory, n *mockNotifier, store *mockStore) *desk.Desk {
	holder := catalog.NewHolder(catalog.Default())
	m := engine.NewMaximizer(engine.DefaultMaximizerConfig(), holder, nil, nil)
	pm := engine.NewProfitMaximizer(engine.DefaultProfitConfig(), holder, nil)
	if store == nil {
		// un *mockStore nil no es una interfaz nil
		return desk.New(desk.DefaultConfig(), inv, nil, n, holder, m, pm)
	}
	return desk.New(desk.DefaultConfig(), inv, store, n, holder, m, pm)
}

func star3Request() domain.FindDealsRequest {
	return domain.FindDealsRequest{
		Lender:        "Scotia Dealer Advantage",
		Tier:          "star 3",
		MonthlyIncome: 5200,
		DownPayment:   2000,
	}
}

// --- tests ---

func TestDesk_Quote_NotifiesAndSaves(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{civic()}}
	n := &mockNotifier{}
	store := &mockStore{}
	d := newDesk(inv, n, store)

	quote, deals, err := d.Quote(context.Background(), star3Request())
	require.NoError(t, err)
	require.Len(t, deals, 3)

	// banco y tier normalizados, plazo por defecto
	assert.Equal(t, domain.LenderSDA, quote.Request.Lender)
	assert.Equal(t, "Star3", quote.Request.Tier)
	assert.Equal(t, 84, quote.Request.Term)
	assert.Equal(t, catalog.DefaultVersion, quote.CatalogVersion)
	assert.NotEmpty(t, quote.ID)

	assert.Equal(t, 1, quote.Summary.VehiclesScanned)
	assert.Equal(t, 3, quote.Summary.CompliantDeals)
	assert.InDelta(t, 5571.92, quote.Summary.TopDealGrossProfit, 1e-6)

	assert.Equal(t, deals, n.deals)
	assert.Equal(t, quote.Summary, n.summary)
	require.Len(t, store.quotes, 1)
	assert.Equal(t, quote.ID, store.quotes[0].ID)
	assert.Equal(t, deals, store.saved)
}

func TestDesk_Quote_StorageAndNotifierErrorsAreNotFatal(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{civic()}}
	n := &mockNotifier{err: errors.New("tty closed")}
	store := &mockStore{err: errors.New("disk full")}

	_, deals, err := newDesk(inv, n, store).Quote(context.Background(), star3Request())
	require.NoError(t, err)
	assert.Len(t, deals, 3)
}

func TestDesk_Quote_WithoutStore(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{civic()}}
	d := newDesk(inv, &mockNotifier{}, nil)

	_, deals, err := d.Quote(context.Background(), star3Request())
	require.NoError(t, err)
	assert.Len(t, deals, 3)

	history, err := d.History(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDesk_Quote_InventoryError(t *testing.T) {
	inv := &mockInventory{err: errors.New("feed down")}
	_, _, err := newDesk(inv, &mockNotifier{}, nil).Quote(context.Background(), star3Request())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch inventory")
}

func TestDesk_Quote_UnknownLender(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{civic()}}
	req := star3Request()
	req.Lender = "Prefera Finance"

	_, _, err := newDesk(inv, &mockNotifier{}, nil).Quote(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUnknownLender)
	assert.Zero(t, inv.calls, "inventory is not fetched for an unknown lender")
}

func TestDesk_Quote_UnknownTier(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{civic()}}
	req := star3Request()
	req.Tier = "Star9"

	_, _, err := newDesk(inv, &mockNotifier{}, nil).Quote(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUnknownProgram)
}

func TestDesk_Quote_NoDealsIsNotAnError(t *testing.T) {
	v := civic()
	v.InStock = false
	n := &mockNotifier{}

	quote, deals, err := newDesk(&mockInventory{vehicles: []domain.Vehicle{v}}, n, nil).Quote(context.Background(), star3Request())
	require.NoError(t, err)
	assert.Empty(t, deals)
	assert.Equal(t, 0, quote.Summary.VehiclesScanned)
	assert.Equal(t, 0, n.summary.CompliantDeals)
}

func TestDesk_Compare(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{civic(), jeep()}}
	n := &mockNotifier{}
	d := newDesk(inv, n, nil)

	approvals := []domain.ApprovalSpec{
		{ID: "santander", Bank: "Santander", Program: "Tier 5", APR: 21.99, TermMonths: 72, PaymentMax: 600, DownPayment: 2000},
		{ID: "td", Bank: "TD Auto Finance", Program: "5 key", APR: 14.5, TermMonths: 84, PaymentMax: 600, DownPayment: 2000},
	}
	trade := &domain.TradeInfo{Allowance: 10000, LienBalance: 8000}

	scenarios, err := d.Compare(context.Background(), "J2025", approvals, trade)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	assert.Equal(t, "td", scenarios[0].ApprovalID)
	assert.True(t, scenarios[0].IsSubvented)
	assert.InDelta(t, 19905.405, scenarios[0].TotalGross, 0.01)
	assert.Equal(t, 1, scenarios[0].ProfitRank)
	assert.Equal(t, "J2025", n.vehicle.ID)
	assert.Equal(t, scenarios, n.scenarios)
}

func TestDesk_Compare_DefaultsMissingTerm(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{jeep()}}
	approvals := []domain.ApprovalSpec{{Bank: "Santander", Program: "Tier 5", APR: 21.99, PaymentMax: 600}}

	scenarios, err := newDesk(inv, &mockNotifier{}, nil).Compare(context.Background(), "J2025", approvals, nil)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, 84, scenarios[0].Term)
}

func TestDesk_Compare_VehicleNotFound(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{civic()}}
	_, err := newDesk(inv, &mockNotifier{}, nil).Compare(context.Background(), "NOPE", nil, nil)
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
}

func TestDesk_Rank(t *testing.T) {
	n := &mockNotifier{}
	d := newDesk(&mockInventory{}, n, nil)

	approvals := []domain.ApprovalSpec{
		{ID: "a", APR: 9.99, PaymentMax: 400},
		{ID: "b", APR: 9.99, PaymentMax: 500},
		{ID: "c", APR: 19.99, PaymentMax: 650},
	}
	ranked, err := d.Rank(context.Background(), approvals, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].ID)
	assert.Equal(t, 30127.0, ranked[0].MaxAdvance)
	assert.Equal(t, ranked, n.ranked)
}

func TestDesk_Rank_InvalidTerm(t *testing.T) {
	_, err := newDesk(&mockInventory{}, &mockNotifier{}, nil).Rank(context.Background(), nil, 120)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDesk_History(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{civic()}}
	store := &mockStore{}
	d := newDesk(inv, &mockNotifier{}, store)

	_, deals, err := d.Quote(context.Background(), star3Request())
	require.NoError(t, err)

	history, err := d.History(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Equal(t, deals, history)
}

func TestDesk_Watch_StopsOnCancel(t *testing.T) {
	inv := &mockInventory{vehicles: []domain.Vehicle{civic()}}
	d := newDesk(inv, &mockNotifier{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := d.Watch(ctx, star3Request(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, inv.calls, 2)
}

func TestDesk_Watch_FirstQuoteErrorIsFatal(t *testing.T) {
	inv := &mockInventory{err: errors.New("feed down")}
	err := newDesk(inv, &mockNotifier{}, nil).Watch(context.Background(), star3Request(), time.Second)
	assert.Error(t, err)
}
