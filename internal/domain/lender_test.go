package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLender_Aliases(t *testing.T) {
	cases := map[string]LenderID{
		"TD":                      LenderTD,
		"TD Auto Finance":         LenderTD,
		"td auto-finance":         LenderTD,
		"Scotia Dealer Advantage": LenderSDA,
		"SDA":                     LenderSDA,
		"iA Auto Finance":         LenderIAAutoFinance,
		"Santander Consumer":      LenderSantander,
		"Eden Park":               LenderEdenPark,
		"RIFCO":                   LenderRIFCO,
		"LendCare":                LenderLendCare,
		"Northlake Financial":     LenderNorthlake,
		"Auto Capital":            LenderAutoCapital,
	}
	for name, want := range cases {
		got, err := ParseLender(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestParseLender_NoSubstringMatch(t *testing.T) {
	// "Stdbank" contiene "td" pero no es TD.
	for _, name := range []string{"Stdbank", "Santa Cruz Credit", "", "Unknown Bank"} {
		_, err := ParseLender(name)
		assert.ErrorIs(t, err, ErrUnknownLender, name)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "star5", NormalizeName("Star 5"))
	assert.Equal(t, "star5", NormalizeName("star-5"))
	assert.Equal(t, "prime649", NormalizeName("Prime-6.49"))
}

func TestTierConstructors(t *testing.T) {
	assert.Equal(t, Tier{Name: "3-Key", Family: FamilyKey, Level: 3}, KeyTier(3))
	assert.Equal(t, Tier{Name: "Star6", Family: FamilyStar, Level: 6}, StarTier(6))
	assert.Equal(t, "PreferredTier2", NumberedTier("PreferredTier", 2).Name)
	assert.Equal(t, "4Ride", RideTier(4).Name)
	assert.Equal(t, "1stGear", GearTier(1).Name)
	assert.Equal(t, "2ndGear", GearTier(2).Name)
	assert.Equal(t, "3rdGear", GearTier(3).Name)
	assert.Equal(t, "6thGear", GearTier(6).Name)
	assert.Equal(t, Tier{Name: "Prime-6.49", Family: FamilyPrime}, PrimeTier("6.49"))
	assert.Equal(t, 0, NamedTier("StartRight").Level)
}
