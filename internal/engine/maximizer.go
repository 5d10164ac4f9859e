package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/alejandrodnm/dealmax/internal/catalog"
	"github.com/alejandrodnm/dealmax/internal/domain"
)

// MaximizerConfig contiene la configuración del maximizador de deals.
type MaximizerConfig struct {
	// TopN es el tamaño máximo del ranking devuelto.
	TopN int
	// Workers limita las evaluaciones de vehículos en paralelo (<= 0 → NumCPU).
	Workers int
}

// DefaultMaximizerConfig devuelve top 10 y un worker por core.
func DefaultMaximizerConfig() MaximizerConfig {
	return MaximizerConfig{TopN: domain.MaxDealsReturned}
}

// Maximizer recorre el inventario y devuelve los deals conformes con más beneficio.
type Maximizer struct {
	cfg      MaximizerConfig
	catalogs *catalog.Holder
	bundler  *Bundler
	recorder Recorder
}

// NewMaximizer crea un Maximizer con sus dependencias inyectadas.
// bundler y recorder nil usan los valores por defecto.
func NewMaximizer(cfg MaximizerConfig, catalogs *catalog.Holder, bundler *Bundler, recorder Recorder) *Maximizer {
	if cfg.TopN <= 0 {
		cfg.TopN = domain.MaxDealsReturned
	}
	if bundler == nil {
		bundler = NewBundler()
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Maximizer{cfg: cfg, catalogs: catalogs, bundler: bundler, recorder: recorder}
}

// quote es el contexto común a todos los vehículos de una búsqueda.
type quote struct {
	req     domain.FindDealsRequest
	program catalog.Program
	equity  domain.EquityResult
}

// vehicleResult es lo que produce la evaluación de un vehículo.
type vehicleResult struct {
	deals  []domain.Deal
	misfit int
}

// FindOptimalDeals evalúa cada vehículo en stock × cada bundle que cabe,
// descarta lo no conforme y devuelve el top N por beneficio bruto total.
//
// Sin deals conformes devuelve un slice vacío y nil. Los errores estructurales
// (programa desconocido, entradas fuera de rango) abortan la búsqueda.
func (m *Maximizer) FindOptimalDeals(ctx context.Context, req domain.FindDealsRequest, inventory []domain.Vehicle) ([]domain.Deal, error) {
	start := time.Now()
	cat := m.catalogs.Current()

	program, err := cat.Require(req.Lender, req.Tier)
	if err != nil {
		return nil, fmt.Errorf("engine.FindOptimalDeals: %w", err)
	}
	if err := errors.Join(domain.ValidateRate(program.Rate), domain.ValidateTerm(req.Term)); err != nil {
		return nil, fmt.Errorf("engine.FindOptimalDeals: %w", err)
	}

	equity := domain.NoTrade()
	if req.TradeInValue > 0 {
		equity, err = ResolveEquity(cat, req.TradeInValue, req.TradeInBalance, req.Lender, req.Tier)
		if err != nil {
			return nil, fmt.Errorf("engine.FindOptimalDeals: %w", err)
		}
	}

	vehicles := NewFilter(req.InventoryFilter).Apply(inventory)
	q := quote{req: req, program: program, equity: equity}

	results, err := evaluateConcurrent(ctx, vehicles, m.cfg.Workers, func(v domain.Vehicle) (vehicleResult, error) {
		return m.evaluateVehicle(q, v)
	})
	if err != nil {
		return nil, fmt.Errorf("engine.FindOptimalDeals: %w", err)
	}

	stats := SearchStats{Lender: req.Lender, Tier: req.Tier, Vehicles: len(vehicles)}
	var compliant []domain.Deal
	for _, r := range results {
		stats.Misfit += r.misfit
		stats.Evaluated += len(r.deals)
		for _, d := range r.deals {
			if d.Compliance.Overall {
				compliant = append(compliant, d)
			}
		}
	}
	stats.Compliant = len(compliant)

	deals := rankDeals(compliant, m.cfg.TopN)
	stats.Returned = len(deals)
	stats.Duration = time.Since(start)
	m.recorder.ObserveSearch(stats)

	slog.Debug("deal search complete",
		"lender", req.Lender,
		"tier", req.Tier,
		"vehicles", stats.Vehicles,
		"evaluated", stats.Evaluated,
		"compliant", stats.Compliant,
		"misfit_bundles", stats.Misfit,
		"returned", stats.Returned,
		"duration", stats.Duration,
	)
	return deals, nil
}

// evaluateVehicle cotiza un vehículo con cada bundle que cabe en el tope de productos.
func (m *Maximizer) evaluateVehicle(q quote, v domain.Vehicle) (vehicleResult, error) {
	var res vehicleResult
	p := q.program

	base := v.SuggestedPrice - q.req.DownPayment
	if q.equity.Type == domain.EquityPositive {
		base -= q.equity.EquityAmount
	}
	if q.equity.CanRollover {
		base += q.equity.RolledAmount
	}
	base += p.Fee

	for _, bundle := range m.bundler.RecommendBundles(v.CollateralValue, p.Lender) {
		fit := m.bundler.ValidateProductFit(bundle, v.CollateralValue, p.Lender)
		if !fit.Fits {
			res.misfit++
			slog.Debug("bundle exceeds product cap",
				"vehicle", v.ID,
				"bundle", bundle.Tier,
				"bundle_total", fit.BundleTotal,
				"max_allowed", fit.MaxAllowed,
			)
			continue
		}

		finance := base + bundle.TotalRetail
		payment, err := domain.Amortize(finance, p.Rate, q.req.Term)
		if err != nil {
			return res, fmt.Errorf("vehicle %s: %w", v.ID, err)
		}

		compliance := checkCompliance(p, ComplianceInput{
			Payment:         payment.MonthlyPayment,
			Income:          q.req.MonthlyIncome,
			FinanceAmount:   finance,
			CollateralValue: v.CollateralValue,
			Lender:          p.Lender,
			Tier:            p.Tier.Name,
			VehicleYear:     v.Year,
		})

		reserve := p.ReserveFor(catalog.ReserveQuote{AmountFinanced: finance, Rate: p.Rate, TermMonths: q.req.Term})

		res.deals = append(res.deals, domain.Deal{
			Vehicle:        v,
			Lender:         p.Lender,
			Tier:           p.Tier.Name,
			SalePrice:      v.SuggestedPrice,
			DownPayment:    q.req.DownPayment,
			FinanceAmount:  finance,
			MonthlyPayment: payment.MonthlyPayment,
			Term:           q.req.Term,
			Rate:           p.Rate,
			Compliance:     compliance,
			ProductBundle:  bundle,
			GrossProfit: domain.NewGrossProfit(
				v.SuggestedPrice-v.Cost,
				reserve,
				p.UpsellAmount(finance),
				bundle.TotalMargin,
			),
		})
	}
	return res, nil
}

// rankDeals ordena de forma estable por beneficio total descendente, recorta a
// topN y asigna rank 1..N e IDs. Los empates conservan el orden de generación.
func rankDeals(deals []domain.Deal, topN int) []domain.Deal {
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].GrossProfit.Total > deals[j].GrossProfit.Total
	})
	if len(deals) > topN {
		deals = deals[:topN]
	}
	out := make([]domain.Deal, len(deals))
	for i, d := range deals {
		d.Rank = i + 1
		d.ID = domain.NewDealID()
		out[i] = d
	}
	return out
}
