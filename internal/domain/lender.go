package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// LenderID identifica a un prestamista del catálogo.
type LenderID string

const (
	LenderTD            LenderID = "TD"
	LenderSantander     LenderID = "Santander"
	LenderSDA           LenderID = "SDA"
	LenderAutoCapital   LenderID = "AutoCapital"
	LenderEdenPark      LenderID = "EdenPark"
	LenderIAAutoFinance LenderID = "IAAutoFinance"
	LenderLendCare      LenderID = "LendCare"
	LenderNorthlake     LenderID = "Northlake"
	LenderRIFCO         LenderID = "RIFCO"
)

// lenderAliases mapea nombres normalizados (sin mayúsculas, espacios ni
// puntuación) al LenderID. Coincidencia exacta: nada de búsquedas por subcadena.
var lenderAliases = map[string]LenderID{
	"td":                       LenderTD,
	"tdauto":                   LenderTD,
	"tdautofinance":            LenderTD,
	"tdautofinancecanada":      LenderTD,
	"tdbank":                   LenderTD,
	"santander":                LenderSantander,
	"santanderconsumer":        LenderSantander,
	"santanderconsumerusa":     LenderSantander,
	"santanderconsumercanada":  LenderSantander,
	"sda":                      LenderSDA,
	"scotia":                   LenderSDA,
	"scotiabank":               LenderSDA,
	"scotiadealeradvantage":    LenderSDA,
	"autocapital":              LenderAutoCapital,
	"autocapitalcanada":        LenderAutoCapital,
	"edenpark":                 LenderEdenPark,
	"edenparkfinancial":        LenderEdenPark,
	"iaautofinance":            LenderIAAutoFinance,
	"ia":                       LenderIAAutoFinance,
	"iaauto":                   LenderIAAutoFinance,
	"iafinancialgroup":         LenderIAAutoFinance,
	"lendcare":                 LenderLendCare,
	"lendcarecapital":          LenderLendCare,
	"northlake":                LenderNorthlake,
	"northlakefinancial":       LenderNorthlake,
	"rifco":                    LenderRIFCO,
	"rifconational":            LenderRIFCO,
	"rifconationalautofinance": LenderRIFCO,
}

// ParseLender convierte un nombre de banco tal como llega en una aprobación
// ("TD Auto Finance", "Scotia Dealer Advantage", "iA Auto Finance") al LenderID.
func ParseLender(name string) (LenderID, error) {
	if id, ok := lenderAliases[NormalizeName(name)]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLender, name)
}

// NormalizeName pasa a minúsculas y elimina todo lo que no sea letra o dígito.
// "Star 5" y "star-5" normalizan igual.
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// TierFamily agrupa tiers con la misma nomenclatura.
type TierFamily string

const (
	FamilyKey   TierFamily = "key"   // TD especializado: "2-Key" … "6-Key"
	FamilyPrime TierFamily = "prime" // TD prime: "Prime-6.49"
	FamilyStar  TierFamily = "star"  // SDA: "Star1" … "Star7"
	FamilyTier  TierFamily = "tier"  // "Tier1", "PreferredTier2"
	FamilyRide  TierFamily = "ride"  // EdenPark: "2Ride"
	FamilyGear  TierFamily = "gear"  // IAAutoFinance: "1stGear"
	FamilyNamed TierFamily = "named" // sin nivel: "StartRight", "Titanium"
)

// Tier es el nombre de un tier ya estructurado. Level es 0 cuando la familia
// no tiene nivel numérico.
type Tier struct {
	Name   string     `json:"name" yaml:"name"`
	Family TierFamily `json:"family" yaml:"family"`
	Level  int        `json:"level,omitempty" yaml:"level,omitempty"`
}

func (t Tier) String() string { return t.Name }

// KeyTier construye "N-Key".
func KeyTier(level int) Tier {
	return Tier{Name: fmt.Sprintf("%d-Key", level), Family: FamilyKey, Level: level}
}

// StarTier construye "StarN".
func StarTier(level int) Tier {
	return Tier{Name: fmt.Sprintf("Star%d", level), Family: FamilyStar, Level: level}
}

// NumberedTier construye prefix+N dentro de la familia "tier" ("Tier3", "PreferredTier2").
func NumberedTier(prefix string, level int) Tier {
	return Tier{Name: fmt.Sprintf("%s%d", prefix, level), Family: FamilyTier, Level: level}
}

// RideTier construye "NRide".
func RideTier(level int) Tier {
	return Tier{Name: fmt.Sprintf("%dRide", level), Family: FamilyRide, Level: level}
}

// GearTier construye "1stGear" … "6thGear".
func GearTier(level int) Tier {
	return Tier{Name: ordinal(level) + "Gear", Family: FamilyGear, Level: level}
}

// PrimeTier construye "Prime-<rate>" con la tasa tal como la publica TD.
func PrimeTier(rate string) Tier {
	return Tier{Name: "Prime-" + rate, Family: FamilyPrime}
}

// NamedTier construye un tier sin nivel.
func NamedTier(name string) Tier {
	return Tier{Name: name, Family: FamilyNamed}
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
