package engine

import (
	"log/slog"
	"math"
	"sort"

	"github.com/alejandrodnm/dealmax/internal/catalog"
	"github.com/alejandrodnm/dealmax/internal/domain"
)

// DefaultBackGrossShare es la fracción de la capacidad aftermarket que se
// estima como margen de back-end.
const DefaultBackGrossShare = 0.5

// DefaultTermMonths se usa cuando una aprobación no trae plazo.
const DefaultTermMonths = 84

// ProfitConfig contiene los parámetros del análisis de beneficio.
// BackGrossShare = 0 es válido (no se estima back gross); los valores por
// defecto se obtienen con DefaultProfitConfig.
type ProfitConfig struct {
	BackGrossShare float64
	DefaultTerm    int
}

// DefaultProfitConfig devuelve 50% de back gross y 84 meses.
func DefaultProfitConfig() ProfitConfig {
	return ProfitConfig{BackGrossShare: DefaultBackGrossShare, DefaultTerm: DefaultTermMonths}
}

// ProfitMaximizer responde "qué aprobación deja más beneficio en este vehículo".
// Reutiliza catálogo y matemática de amortización, no el Maximizer.
type ProfitMaximizer struct {
	cfg      ProfitConfig
	catalogs *catalog.Holder
	recorder Recorder
}

// NewProfitMaximizer crea un ProfitMaximizer. Un BackGrossShare fuera de [0, 1]
// se sustituye por DefaultBackGrossShare; DefaultTerm <= 0 usa 84 meses.
func NewProfitMaximizer(cfg ProfitConfig, catalogs *catalog.Holder, recorder Recorder) *ProfitMaximizer {
	if s := cfg.BackGrossShare; math.IsNaN(s) || s < 0 || s > 1 {
		slog.Warn("back gross share out of range, using default", "share", s, "default", DefaultBackGrossShare)
		cfg.BackGrossShare = DefaultBackGrossShare
	}
	if cfg.DefaultTerm <= 0 {
		cfg.DefaultTerm = DefaultTermMonths
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &ProfitMaximizer{cfg: cfg, catalogs: catalogs, recorder: recorder}
}

// CalculateProfitScenario calcula el beneficio alcanzable con una aprobación.
//
//	maxAdvance      = MaxAdvance(paymentMax, rate, term)
//	fees            = docFee + PPSA(provincia) + comisión del programa
//	maxSellingPrice = maxAdvance − fees + down + tradeNet
//	frontGross      = max(0, maxSellingPrice − coste + reserva)
//	capacity        = max(0, maxAdvance − (precio + fees − down − tradeNet))
//	backGross       = capacity × BackGrossShare
//	salesTax        = (maxSellingPrice − allowance del trade) × tasa(provincia)
//
// Una aprobación cuyo programa no está en el catálogo se cotiza igual, sin
// comisión, sin reserva y sin subvención.
func (pm *ProfitMaximizer) CalculateProfitScenario(vehicle domain.Vehicle, approval domain.ApprovalSpec, trade *domain.TradeInfo, province string, docFee float64) domain.ProfitScenario {
	return pm.scenario(pm.catalogs.Current(), vehicle, approval, trade, province, docFee)
}

func (pm *ProfitMaximizer) scenario(cat *catalog.Catalog, vehicle domain.Vehicle, approval domain.ApprovalSpec, trade *domain.TradeInfo, province string, docFee float64) domain.ProfitScenario {
	term := approval.TermMonths
	if term <= 0 {
		term = pm.cfg.DefaultTerm
	}

	s := domain.ProfitScenario{
		ApprovalID: approval.ID,
		Lender:     approval.Bank,
		Program:    approval.Program,
		Rate:       approval.APR,
		Term:       term,
	}

	program, known := cat.Resolve(approval.Bank, approval.Program)
	if known {
		s.Lender = string(program.Lender)
		s.Program = program.Tier.Name
		if rate, ok := cat.SubventedRate(program, vehicle); ok {
			s.Rate = rate
			s.IsSubvented = true
		}
	}

	s.MaxAdvance = domain.MaxAdvance(approval.PaymentMax, s.Rate, term)

	var lenderFee float64
	if known {
		lenderFee = program.Fee
	}
	s.Fees = docFee + domain.RegistrationFee(province) + lenderFee

	down := approval.DownPayment
	tradeNet := trade.Equity()
	s.MaxSellingPrice = s.MaxAdvance - s.Fees + down + tradeNet

	if known {
		s.Reserve = program.ReserveFor(catalog.ReserveQuote{AmountFinanced: s.MaxAdvance, Rate: s.Rate, TermMonths: term})
	}
	s.FrontGross = math.Max(0, s.MaxSellingPrice-vehicle.UnitCost()+s.Reserve)
	s.AftermarketCapacity = math.Max(0, s.MaxAdvance-(vehicle.SuggestedPrice+s.Fees-down-tradeNet))
	s.BackGross = s.AftermarketCapacity * pm.cfg.BackGrossShare
	s.TotalGross = s.FrontGross + s.BackGross

	var allowance float64
	if trade != nil {
		allowance = trade.Allowance
	}
	if tax, err := domain.CalculateTaxSavings(math.Max(0, s.MaxSellingPrice), allowance, domain.TaxProvince(province)); err == nil {
		s.SalesTax = tax.TotalTax
		s.TradeTaxSavings = tax.TaxSavingsWithTrade
	}

	pm.recorder.ObserveScenario(s.Lender, s.IsSubvented, s.TotalGross)
	return s
}

// CalculateAllProfitScenarios cotiza todas las aprobaciones sobre un vehículo y
// las ordena por beneficio total descendente (estable). ProfitRank va de 1 a N.
func (pm *ProfitMaximizer) CalculateAllProfitScenarios(vehicle domain.Vehicle, approvals []domain.ApprovalSpec, trade *domain.TradeInfo, province string, docFee float64) []domain.ProfitScenario {
	cat := pm.catalogs.Current()
	scenarios := make([]domain.ProfitScenario, 0, len(approvals))
	for _, a := range approvals {
		scenarios = append(scenarios, pm.scenario(cat, vehicle, a, trade, province, docFee))
	}
	sort.SliceStable(scenarios, func(i, j int) bool {
		return scenarios[i].TotalGross > scenarios[j].TotalGross
	})
	for i := range scenarios {
		scenarios[i].ProfitRank = i + 1
	}
	return scenarios
}

// BestApproval devuelve el escenario de más beneficio; false si no hay aprobaciones.
func (pm *ProfitMaximizer) BestApproval(vehicle domain.Vehicle, approvals []domain.ApprovalSpec, trade *domain.TradeInfo, province string, docFee float64) (domain.ProfitScenario, bool) {
	scenarios := pm.CalculateAllProfitScenarios(vehicle, approvals, trade, province, docFee)
	if len(scenarios) == 0 {
		return domain.ProfitScenario{}, false
	}
	return scenarios[0], true
}

// CalculateProfitLoss cuantifica lo que se pierde usando alternative en lugar de best.
func CalculateProfitLoss(best, alternative domain.ProfitScenario) domain.ProfitLoss {
	grossLoss := best.TotalGross - alternative.TotalGross
	var pct float64
	if best.TotalGross > 0 {
		pct = grossLoss / best.TotalGross * 100
	}
	return domain.ProfitLoss{
		GrossLoss:      math.Max(0, grossLoss),
		AdvanceLoss:    math.Max(0, best.MaxAdvance-alternative.MaxAdvance),
		PercentageLoss: math.Max(0, pct),
	}
}

// RankApprovalsByProfit ordena aprobaciones por adelanto máximo a un plazo fijo
// (estable, descendente). El primero es HIGHEST_PROFIT, el último LAST_RESORT
// y el resto GOOD_ALTERNATIVE; una sola aprobación es HIGHEST_PROFIT.
func RankApprovalsByProfit(approvals []domain.ApprovalSpec, termMonths int) []domain.ApprovalWithProfit {
	if termMonths <= 0 {
		termMonths = DefaultTermMonths
	}
	ranked := make([]domain.ApprovalWithProfit, 0, len(approvals))
	for _, a := range approvals {
		advance := domain.MaxAdvance(a.PaymentMax, a.APR, termMonths)
		ranked = append(ranked, domain.ApprovalWithProfit{
			ApprovalSpec:    a,
			MaxAdvance:      advance,
			ProfitPotential: advance,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MaxAdvance > ranked[j].MaxAdvance
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
		switch {
		case i == 0:
			ranked[i].Recommendation = domain.RecommendHighestProfit
		case i == len(ranked)-1:
			ranked[i].Recommendation = domain.RecommendLastResort
		default:
			ranked[i].Recommendation = domain.RecommendGoodAlternative
		}
	}
	return ranked
}
