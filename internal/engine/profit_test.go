package engine

import (
	"testing"

	"github.com/alejandrodnm/dealmax/internal/catalog"
	"github.com/alejandrodnm/dealmax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfitMaximizer() *ProfitMaximizer {
	return NewProfitMaximizer(DefaultProfitConfig(), catalog.NewHolder(catalog.Default()), nil)
}

func newJeep() domain.Vehicle {
	return domain.Vehicle{
		ID: "J2025", Year: 2025, Make: "Jeep", Model: "Compass",
		Cost: 27000, SuggestedPrice: 30000, CollateralValue: 28000, InStock: true,
	}
}

func testApprovals() []domain.ApprovalSpec {
	return []domain.ApprovalSpec{
		{ID: "unknown", Bank: "Prefera Finance", Program: "Tier 1", APR: 12.5, TermMonths: 60, PaymentMax: 450, DownPayment: 2000},
		{ID: "santander", Bank: "Santander", Program: "Tier 5", APR: 21.99, TermMonths: 72, PaymentMax: 600, DownPayment: 2000},
		{ID: "td", Bank: "TD Auto Finance", Program: "5 key", APR: 14.5, TermMonths: 84, PaymentMax: 600, DownPayment: 2000},
	}
}

var testTrade = &domain.TradeInfo{Allowance: 10000, LienBalance: 8000}

func TestCalculateProfitScenario_Subvented(t *testing.T) {
	pm := newTestProfitMaximizer()
	s := pm.CalculateProfitScenario(newJeep(), testApprovals()[2], testTrade, "AB", domain.DefaultDocFee)

	assert.Equal(t, "TD", s.Lender)
	assert.Equal(t, "5-Key", s.Program)
	assert.True(t, s.IsSubvented)
	assert.Equal(t, 7.99, s.Rate)
	assert.Equal(t, 38507.0, s.MaxAdvance)
	// 799 doc + 38.73 PPSA + 799 comisión TD
	assert.InDelta(t, 1636.73, s.Fees, 1e-9)
	assert.InDelta(t, 40870.27, s.MaxSellingPrice, 1e-6)
	assert.Equal(t, 600.0, s.Reserve)
	assert.InDelta(t, 14470.27, s.FrontGross, 1e-6)
	assert.InDelta(t, 10870.27, s.AftermarketCapacity, 1e-6)
	assert.InDelta(t, 5435.135, s.BackGross, 1e-6)
	assert.InDelta(t, 19905.405, s.TotalGross, 1e-6)
	// 5% AB sobre 40870.27 − 10000 de allowance
	assert.InDelta(t, 1543.51, s.SalesTax, 1e-9)
	assert.InDelta(t, 500.0, s.TradeTaxSavings, 1e-9)
}

func TestCalculateProfitScenario_SalesTaxByProvince(t *testing.T) {
	pm := newTestProfitMaximizer()
	on := pm.CalculateProfitScenario(newJeep(), testApprovals()[2], testTrade, "ON", domain.DefaultDocFee)
	assert.InDelta(t, 1300.0, on.TradeTaxSavings, 1e-9)

	unknown := pm.CalculateProfitScenario(newJeep(), testApprovals()[2], testTrade, "XX", domain.DefaultDocFee)
	ab := pm.CalculateProfitScenario(newJeep(), testApprovals()[2], testTrade, "AB", domain.DefaultDocFee)
	assert.Equal(t, ab.SalesTax, unknown.SalesTax)

	noTrade := pm.CalculateProfitScenario(newJeep(), testApprovals()[2], nil, "AB", domain.DefaultDocFee)
	assert.Equal(t, 0.0, noTrade.TradeTaxSavings)
	assert.Greater(t, noTrade.SalesTax, 0.0)
}

func TestCalculateProfitScenario_NotSubventedForOldYear(t *testing.T) {
	pm := newTestProfitMaximizer()
	v := newJeep()
	v.Year = 2022
	s := pm.CalculateProfitScenario(v, testApprovals()[2], testTrade, "AB", domain.DefaultDocFee)
	assert.False(t, s.IsSubvented)
	assert.Equal(t, 14.5, s.Rate)
	assert.Equal(t, 31550.0, s.MaxAdvance)
}

func TestCalculateProfitScenario_FlatReserveAndFloors(t *testing.T) {
	pm := newTestProfitMaximizer()
	s := pm.CalculateProfitScenario(newJeep(), testApprovals()[1], testTrade, "AB", domain.DefaultDocFee)

	assert.False(t, s.IsSubvented)
	assert.Equal(t, 23885.0, s.MaxAdvance)
	assert.InDelta(t, 837.73, s.Fees, 1e-9)
	assert.Equal(t, 550.0, s.Reserve)
	assert.InDelta(t, 597.27, s.FrontGross, 1e-6)
	assert.Equal(t, 0.0, s.AftermarketCapacity)
	assert.Equal(t, 0.0, s.BackGross)
}

func TestCalculateProfitScenario_UnknownProgramIsLenient(t *testing.T) {
	pm := newTestProfitMaximizer()
	s := pm.CalculateProfitScenario(newJeep(), testApprovals()[0], testTrade, "AB", domain.DefaultDocFee)

	assert.Equal(t, "Prefera Finance", s.Lender)
	assert.Equal(t, 12.5, s.Rate)
	assert.Equal(t, 0.0, s.Reserve)
	assert.InDelta(t, 837.73, s.Fees, 1e-9)
	assert.Equal(t, 0.0, s.FrontGross)
	assert.Equal(t, 0.0, s.TotalGross)
}

func TestCalculateProfitScenario_DefaultsAndProvince(t *testing.T) {
	pm := newTestProfitMaximizer()
	a := testApprovals()[1]
	a.TermMonths = 0
	s := pm.CalculateProfitScenario(newJeep(), a, nil, "ON", 0)
	assert.Equal(t, DefaultTermMonths, s.Term)
	assert.Equal(t, 65.0, s.Fees)
}

func TestCalculateProfitScenario_CostFallsBackToCollateral(t *testing.T) {
	pm := newTestProfitMaximizer()
	v := newJeep()
	v.Cost = 0
	s := pm.CalculateProfitScenario(v, testApprovals()[2], testTrade, "AB", domain.DefaultDocFee)
	// coste = 28000 en lugar de 27000
	assert.InDelta(t, 13470.27, s.FrontGross, 1e-6)
}

func TestCalculateProfitScenario_BackGrossShareOverride(t *testing.T) {
	pm := NewProfitMaximizer(ProfitConfig{BackGrossShare: 0.25}, catalog.NewHolder(catalog.Default()), nil)
	s := pm.CalculateProfitScenario(newJeep(), testApprovals()[2], testTrade, "AB", domain.DefaultDocFee)
	assert.InDelta(t, 10870.27*0.25, s.BackGross, 1e-6)
}

func TestCalculateProfitScenario_ZeroBackGrossShare(t *testing.T) {
	pm := NewProfitMaximizer(ProfitConfig{BackGrossShare: 0}, catalog.NewHolder(catalog.Default()), nil)
	s := pm.CalculateProfitScenario(newJeep(), testApprovals()[2], testTrade, "AB", domain.DefaultDocFee)
	assert.InDelta(t, 10870.27, s.AftermarketCapacity, 1e-6)
	assert.Equal(t, 0.0, s.BackGross)
	assert.InDelta(t, 14470.27, s.TotalGross, 1e-6)
}

func TestNewProfitMaximizer_ShareOutOfRangeUsesDefault(t *testing.T) {
	for _, share := range []float64{-0.2, 1.5} {
		pm := NewProfitMaximizer(ProfitConfig{BackGrossShare: share}, catalog.NewHolder(catalog.Default()), nil)
		s := pm.CalculateProfitScenario(newJeep(), testApprovals()[2], testTrade, "AB", domain.DefaultDocFee)
		assert.InDelta(t, 5435.135, s.BackGross, 1e-6, "share %v", share)
	}
}

func TestCalculateAllProfitScenarios_Sorted(t *testing.T) {
	pm := newTestProfitMaximizer()
	scenarios := pm.CalculateAllProfitScenarios(newJeep(), testApprovals(), testTrade, "AB", domain.DefaultDocFee)
	require.Len(t, scenarios, 3)
	assert.Equal(t, "td", scenarios[0].ApprovalID)
	assert.Equal(t, "santander", scenarios[1].ApprovalID)
	assert.Equal(t, "unknown", scenarios[2].ApprovalID)
	for i, s := range scenarios {
		assert.Equal(t, i+1, s.ProfitRank)
	}

	best, ok := pm.BestApproval(newJeep(), testApprovals(), testTrade, "AB", domain.DefaultDocFee)
	require.True(t, ok)
	assert.Equal(t, "td", best.ApprovalID)

	_, ok = pm.BestApproval(newJeep(), nil, testTrade, "AB", domain.DefaultDocFee)
	assert.False(t, ok)
}

func TestCalculateProfitLoss(t *testing.T) {
	best := domain.ProfitScenario{TotalGross: 10000, MaxAdvance: 38000}
	alt := domain.ProfitScenario{TotalGross: 7500, MaxAdvance: 30000}

	loss := CalculateProfitLoss(best, alt)
	assert.Equal(t, 2500.0, loss.GrossLoss)
	assert.Equal(t, 8000.0, loss.AdvanceLoss)
	assert.Equal(t, 25.0, loss.PercentageLoss)

	reversed := CalculateProfitLoss(alt, best)
	assert.Equal(t, domain.ProfitLoss{}, reversed)

	zero := CalculateProfitLoss(domain.ProfitScenario{}, alt)
	assert.Equal(t, 0.0, zero.PercentageLoss)
}

func TestRankApprovalsByProfit(t *testing.T) {
	approvals := []domain.ApprovalSpec{
		{ID: "a", APR: 9.99, PaymentMax: 400},
		{ID: "b", APR: 9.99, PaymentMax: 500},
		{ID: "c", APR: 19.99, PaymentMax: 650},
	}
	ranked := RankApprovalsByProfit(approvals, 84)
	require.Len(t, ranked, 3)

	assert.Equal(t, "b", ranked[0].ID)
	assert.Equal(t, 30127.0, ranked[0].MaxAdvance)
	assert.Equal(t, ranked[0].MaxAdvance, ranked[0].ProfitPotential)
	assert.Equal(t, domain.RecommendHighestProfit, ranked[0].Recommendation)

	assert.Equal(t, "c", ranked[1].ID)
	assert.Equal(t, 29279.0, ranked[1].MaxAdvance)
	assert.Equal(t, domain.RecommendGoodAlternative, ranked[1].Recommendation)

	assert.Equal(t, "a", ranked[2].ID)
	assert.Equal(t, 24102.0, ranked[2].MaxAdvance)
	assert.Equal(t, domain.RecommendLastResort, ranked[2].Recommendation)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankApprovalsByProfit_SingleAndEmpty(t *testing.T) {
	ranked := RankApprovalsByProfit([]domain.ApprovalSpec{{APR: 10, PaymentMax: 500}}, 0)
	require.Len(t, ranked, 1)
	assert.Equal(t, domain.RecommendHighestProfit, ranked[0].Recommendation)
	assert.Equal(t, 1, ranked[0].Rank)

	assert.Empty(t, RankApprovalsByProfit(nil, 84))
}
