package engine

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/dealmax/internal/catalog"
	"github.com/alejandrodnm/dealmax/internal/domain"
)

// ResolveEquity clasifica el equity del trade-in y decide si el equity negativo
// puede refinanciarse dentro del límite del programa.
//
//	equity >= 0 → positivo, se aplica como crédito
//	equity <  0 → negativo; se refinancia entero si |equity| <= límite, si no nada
func ResolveEquity(cat *catalog.Catalog, tradeValue, outstandingBalance float64, lender domain.LenderID, tier string) (domain.EquityResult, error) {
	program, err := cat.Require(lender, tier)
	if err != nil {
		return domain.EquityResult{}, fmt.Errorf("engine.ResolveEquity: %w", err)
	}

	equity := tradeValue - outstandingBalance
	if equity >= 0 {
		return domain.EquityResult{
			Type:         domain.EquityPositive,
			EquityAmount: equity,
			Note:         fmt.Sprintf("$%.2f positive equity available as credit", equity),
		}, nil
	}

	negative := math.Abs(equity)
	limit := program.NegativeEquityLimit
	res := domain.EquityResult{
		Type:             domain.EquityNegative,
		EquityAmount:     negative,
		MaxRolloverLimit: limit,
	}
	if negative <= limit {
		res.CanRollover = true
		res.RolledAmount = negative
		res.Note = fmt.Sprintf("$%.2f negative equity can be rolled (limit: $%s)", negative, domain.FormatMoney(limit))
	} else {
		res.Note = fmt.Sprintf("$%.2f negative equity exceeds %s limit of $%s", negative, lender, domain.FormatMoney(limit))
	}
	return res, nil
}
