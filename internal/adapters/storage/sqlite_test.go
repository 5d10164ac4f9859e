package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/dealmax/internal/adapters/storage"
	"github.com/alejandrodnm/dealmax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDeal(id, stock string, rank int, total float64) domain.Deal {
	return domain.Deal{
		ID:   id,
		Rank: rank,
		Vehicle: domain.Vehicle{
			ID: stock, VIN: "1C4NJDEB0" + stock, Year: 2022, Make: "Jeep", Model: "Compass",
			Mileage: 41000, CollateralValue: 19500,
		},
		Lender:         domain.LenderSDA,
		Tier:           "Star3",
		SalePrice:      18000,
		DownPayment:    2000,
		FinanceAmount:  19297,
		MonthlyPayment: 450,
		Term:           84,
		Rate:           11.99,
		Compliance:     domain.ComplianceResult{DSR: 8.65, LTV: 98.96, DSRPass: true, LTVPass: true, Overall: true},
		ProductBundle:  domain.ProductBundle{Tier: "protection"},
		GrossProfit:    domain.NewGrossProfit(3000, 400, 386, total-3786),
	}
}

func makeQuote() domain.Quote {
	req := domain.FindDealsRequest{
		Lender: domain.LenderSDA, Tier: "Star3", MonthlyIncome: 5200, DownPayment: 2000, Term: 84,
	}
	return domain.NewQuote(req, "2026.01", domain.DealSummary{VehiclesScanned: 2, CompliantDeals: 2})
}

func TestSQLiteStorage_SaveAndGetHistory(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	deals := []domain.Deal{
		makeDeal("d-2", "B200", 2, 4100),
		makeDeal("d-1", "A100", 1, 5571.92),
	}

	err = db.SaveQuote(context.Background(), makeQuote(), deals)
	require.NoError(t, err)

	from := time.Now().UTC().Add(-time.Minute)
	to := time.Now().UTC().Add(time.Minute)
	history, err := db.GetHistory(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Ordenados por bruto total desc
	assert.Equal(t, "d-1", history[0].ID)
	assert.InDelta(t, 5571.92, history[0].GrossProfit.Total, 0.001)
	assert.InDelta(t, 4100, history[1].GrossProfit.Total, 0.001)

	got := history[0]
	assert.Equal(t, "A100", got.Vehicle.ID)
	assert.Equal(t, "Jeep", got.Vehicle.Make)
	assert.Equal(t, domain.LenderSDA, got.Lender)
	assert.Equal(t, "Star3", got.Tier)
	assert.Equal(t, "protection", got.ProductBundle.Tier)
	assert.Equal(t, 450.0, got.MonthlyPayment)
	assert.True(t, got.Compliance.Overall)
}

func TestSQLiteStorage_SaveQuoteWithoutDeals(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveQuote(ctx, makeQuote(), nil))

	n, err := db.CountQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteStorage_SaveQuoteRequiresID(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	err = db.SaveQuote(context.Background(), domain.Quote{}, nil)
	assert.Error(t, err)
}

func TestSQLiteStorage_DuplicateDealRollsBack(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	deals := []domain.Deal{makeDeal("dup", "A100", 1, 5000), makeDeal("dup", "B200", 2, 4000)}
	err = db.SaveQuote(ctx, makeQuote(), deals)
	require.Error(t, err)

	n, err := db.CountQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLiteStorage_GetHistory_EmptyRange(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	history, err := db.GetHistory(context.Background(),
		time.Now().Add(-time.Hour),
		time.Now(),
	)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSQLiteStorage_GetHistory_OutsideRange(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	q := makeQuote()
	q.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, db.SaveQuote(ctx, q, []domain.Deal{makeDeal("old", "A100", 1, 5000)}))

	history, err := db.GetHistory(ctx, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSQLiteStorage_VehicleStatsTrackPeak(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	// Primera cotización
	require.NoError(t, db.SaveQuote(ctx, makeQuote(), []domain.Deal{makeDeal("q1", "A100", 1, 5000)}))

	// Segunda, con mejor bruto en TD
	better := makeDeal("q2", "A100", 1, 6200)
	better.Lender = domain.LenderTD
	better.Tier = "3-Key"
	require.NoError(t, db.SaveQuote(ctx, makeQuote(), []domain.Deal{better}))

	// Tercera, peor: no debe bajar el pico
	require.NoError(t, db.SaveQuote(ctx, makeQuote(), []domain.Deal{makeDeal("q3", "A100", 1, 4000)}))

	vs, ok, err := db.GetVehicleStats(ctx, "A100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, vs.TimesRanked)
	assert.InDelta(t, 6200, vs.BestGross, 0.001)
	assert.Equal(t, domain.LenderTD, vs.BestLender)
	assert.Equal(t, "3-Key", vs.BestTier)
	assert.Equal(t, "2022 Jeep Compass", vs.Title)

	history, err := db.GetHistory(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestSQLiteStorage_VehicleStatsCountOncePerQuote(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	// Tres bundles de la misma unidad en una sola cotización
	complete := makeDeal("c", "A100", 1, 5571.92)
	complete.Lender = domain.LenderTD
	complete.Tier = "5-Key"
	deals := []domain.Deal{
		makeDeal("w", "A100", 3, 4100),
		complete,
		makeDeal("p", "A100", 2, 4900),
		makeDeal("b", "B200", 4, 3000),
	}
	require.NoError(t, db.SaveQuote(ctx, makeQuote(), deals))

	vs, ok, err := db.GetVehicleStats(ctx, "A100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, vs.TimesRanked)
	assert.InDelta(t, 5571.92, vs.BestGross, 0.001)
	assert.Equal(t, domain.LenderTD, vs.BestLender)
	assert.Equal(t, "5-Key", vs.BestTier)

	other, ok, err := db.GetVehicleStats(ctx, "B200")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, other.TimesRanked)

	// Una segunda cotización sí vuelve a contar
	require.NoError(t, db.SaveQuote(ctx, makeQuote(), []domain.Deal{makeDeal("w2", "A100", 1, 4000), makeDeal("p2", "A100", 2, 4500)}))
	vs, _, err = db.GetVehicleStats(ctx, "A100")
	require.NoError(t, err)
	assert.Equal(t, 2, vs.TimesRanked)
	assert.InDelta(t, 5571.92, vs.BestGross, 0.001)

	history, err := db.GetHistory(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, history, 6)
}

func TestSQLiteStorage_VehicleStatsUnknown(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, ok, err := db.GetVehicleStats(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
