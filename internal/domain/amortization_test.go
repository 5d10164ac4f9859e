package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmortize_RoundsToNearestFive(t *testing.T) {
	// 20199 @ 21.99% / 84m → cuota cruda 473.06 → 475
	res, err := Amortize(20199, 21.99, 84)
	require.NoError(t, err)
	assert.Equal(t, 475.0, res.MonthlyPayment)
	assert.Len(t, res.Schedule, 84)
	assert.Equal(t, 475.0*84, res.TotalPaid)
}

func TestAmortize_RoundsDown(t *testing.T) {
	// 10000 @ 11.99% / 60m → cuota cruda 222.39 → 220
	res, err := Amortize(10000, 11.99, 60)
	require.NoError(t, err)
	assert.Equal(t, 220.0, res.MonthlyPayment)
	assert.Len(t, res.Schedule, 60)
}

func TestAmortize_ScheduleClosesBalance(t *testing.T) {
	cases := []struct {
		principal float64
		rate      float64
		term      int
	}{
		{20199, 21.99, 84},
		{10000, 11.99, 60},
		{38507, 7.99, 84},
		{5000, 34.99, 24},
	}
	for _, tc := range cases {
		res, err := Amortize(tc.principal, tc.rate, tc.term)
		require.NoError(t, err)

		sum := decimal.Zero
		interest := decimal.Zero
		for _, e := range res.Schedule {
			sum = sum.Add(e.Principal)
			interest = interest.Add(e.Interest)
		}
		last := res.Schedule[len(res.Schedule)-1]

		assert.True(t, last.Balance.IsZero(), "final balance for %v", tc)
		assert.InDelta(t, tc.principal, sum.InexactFloat64(), 1.0)
		assert.InDelta(t, interest.InexactFloat64(), res.TotalInterest, 0.001)
		assert.Equal(t, tc.term, last.Month)
	}
}

func TestAmortize_BalanceDecreases(t *testing.T) {
	res, err := Amortize(25000, 14.49, 84)
	require.NoError(t, err)
	assert.Equal(t, 475.0, res.MonthlyPayment)

	prev := decimal.NewFromFloat(25000)
	for _, e := range res.Schedule {
		assert.True(t, e.Balance.LessThan(prev), "month %d", e.Month)
		prev = e.Balance
	}
}

func TestAmortize_InvalidInputs(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		term      int
		field     string
	}{
		{"zero principal", 0, 10, 60, "principal"},
		{"negative principal", -100, 10, 60, "principal"},
		{"rate typo", 20000, 2.199, 84, "annualRate"},
		{"rate too high", 20000, 36, 84, "annualRate"},
		{"term too short", 20000, 10, 12, "termMonths"},
		{"term too long", 20000, 10, 96, "termMonths"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Amortize(tc.principal, tc.rate, tc.term)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestAmortize_JoinsAllFailures(t *testing.T) {
	_, err := Amortize(-1, 50, 120)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "principal")
	assert.Contains(t, err.Error(), "annualRate")
	assert.Contains(t, err.Error(), "termMonths")
}

func TestAmortize_BoundsAreInclusive(t *testing.T) {
	_, err := Amortize(10000, MinAnnualRate, MinTermMonths)
	assert.NoError(t, err)
	_, err = Amortize(10000, MaxAnnualRate, MaxTermMonths)
	assert.NoError(t, err)
}

func TestPaymentSummary(t *testing.T) {
	payment, interest, err := PaymentSummary(20199, 21.99, 84)
	require.NoError(t, err)
	assert.Equal(t, 475.0, payment)
	assert.Greater(t, interest, 0.0)

	_, _, err = PaymentSummary(0, 21.99, 84)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- MaxAdvance ---

func TestMaxAdvance_KnownValues(t *testing.T) {
	assert.Equal(t, 20282.0, MaxAdvance(475, 21.99, 84))
	assert.Equal(t, 38507.0, MaxAdvance(600, 7.99, 84))
	assert.Equal(t, 31550.0, MaxAdvance(600, 14.5, 84))
}

func TestMaxAdvance_RoundTrip(t *testing.T) {
	for _, principal := range []float64{7500, 20199, 42000} {
		for _, rate := range []float64{5, 11.99, 21.99, 35} {
			r := MonthlyRate(rate)
			pmt := rawPayment(principal, r, 72)
			got := MaxAdvance(pmt, rate, 72)
			assert.InDelta(t, principal, got, 1.0, "principal=%v rate=%v", principal, rate)
			assert.LessOrEqual(t, got, principal+1e-6)
		}
	}
}

func TestMaxAdvance_ZeroRate(t *testing.T) {
	assert.Equal(t, 600.0*84, MaxAdvance(600, 0, 84))
}

func TestMaxAdvance_NonPositive(t *testing.T) {
	assert.Equal(t, 0.0, MaxAdvance(0, 10, 84))
	assert.Equal(t, 0.0, MaxAdvance(-10, 10, 84))
	assert.Equal(t, 0.0, MaxAdvance(500, 10, 0))
}

func TestRoundToNearest(t *testing.T) {
	assert.Equal(t, 475.0, RoundToNearest(473.06, 5))
	assert.Equal(t, 220.0, RoundToNearest(222.39, 5))
	assert.Equal(t, 225.0, RoundToNearest(222.5, 5))
	assert.Equal(t, 1.5, RoundToNearest(1.5, 0))
	assert.False(t, math.IsNaN(RoundToNearest(0, 5)))
}
