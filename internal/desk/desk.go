package desk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/dealmax/internal/catalog"
	"github.com/alejandrodnm/dealmax/internal/domain"
	"github.com/alejandrodnm/dealmax/internal/engine"
	"github.com/alejandrodnm/dealmax/internal/ports"
)

// Config contiene la configuración del desk.
type Config struct {
	Province    string
	DocFee      float64
	DefaultTerm int
}

// DefaultConfig devuelve Alberta, $799 de doc fee y 84 meses.
func DefaultConfig() Config {
	return Config{
		Province:    domain.DefaultProvince,
		DocFee:      domain.DefaultDocFee,
		DefaultTerm: engine.DefaultTermMonths,
	}
}

// Desk es el orquestador del F&I desk: obtiene inventario, llama al motor,
// presenta y persiste los resultados.
type Desk struct {
	cfg       Config
	inventory ports.InventoryProvider
	store     ports.QuoteStore
	notifier  ports.Notifier
	catalogs  *catalog.Holder
	deals     *engine.Maximizer
	profit    *engine.ProfitMaximizer
}

// New crea un Desk con todas las dependencias inyectadas. store puede ser nil.
func New(
	cfg Config,
	inventory ports.InventoryProvider,
	store ports.QuoteStore,
	notifier ports.Notifier,
	catalogs *catalog.Holder,
	deals *engine.Maximizer,
	profit *engine.ProfitMaximizer,
) *Desk {
	if cfg.Province == "" {
		cfg.Province = domain.DefaultProvince
	}
	if cfg.DocFee <= 0 {
		cfg.DocFee = domain.DefaultDocFee
	}
	if cfg.DefaultTerm <= 0 {
		cfg.DefaultTerm = engine.DefaultTermMonths
	}
	return &Desk{
		cfg:       cfg,
		inventory: inventory,
		store:     store,
		notifier:  notifier,
		catalogs:  catalogs,
		deals:     deals,
		profit:    profit,
	}
}

// Quote busca los mejores deals del inventario para la aprobación del cliente,
// los presenta y los guarda en el histórico.
func (d *Desk) Quote(ctx context.Context, req domain.FindDealsRequest) (domain.Quote, []domain.Deal, error) {
	start := time.Now()

	req, err := d.normalize(req)
	if err != nil {
		return domain.Quote{}, nil, fmt.Errorf("desk.Quote: %w", err)
	}

	vehicles, err := d.inventory.FetchInventory(ctx)
	if err != nil {
		return domain.Quote{}, nil, fmt.Errorf("desk.Quote: fetch inventory: %w", err)
	}

	deals, err := d.deals.FindOptimalDeals(ctx, req, vehicles)
	if err != nil {
		return domain.Quote{}, nil, fmt.Errorf("desk.Quote: %w", err)
	}

	scanned := len(engine.NewFilter(req.InventoryFilter).Apply(vehicles))
	summary := domain.Summarize(scanned, deals)
	quote := domain.NewQuote(req, d.catalogs.Current().Meta().Version, summary)

	if err := d.notifier.NotifyDeals(ctx, summary, deals); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if d.store != nil {
		if err := d.store.SaveQuote(ctx, quote, deals); err != nil {
			slog.Warn("storage error", "quote_id", quote.ID, "err", err)
		}
	}

	slog.Info("quote complete",
		"quote_id", quote.ID,
		"lender", req.Lender,
		"tier", req.Tier,
		"vehicles", scanned,
		"deals", len(deals),
		"top_gross", summary.TopDealGrossProfit,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return quote, deals, nil
}

// Compare calcula el escenario de beneficio de cada aprobación sobre un
// vehículo del inventario y los devuelve ordenados por beneficio total.
func (d *Desk) Compare(ctx context.Context, vehicleID string, approvals []domain.ApprovalSpec, trade *domain.TradeInfo) ([]domain.ProfitScenario, error) {
	vehicles, err := d.inventory.FetchInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("desk.Compare: fetch inventory: %w", err)
	}

	vehicle, ok := findVehicle(vehicles, vehicleID)
	if !ok {
		return nil, fmt.Errorf("desk.Compare: %w: %s", domain.ErrVehicleNotFound, vehicleID)
	}

	approvals = d.withDefaultTerm(approvals)
	scenarios := d.profit.CalculateAllProfitScenarios(vehicle, approvals, trade, d.cfg.Province, d.cfg.DocFee)

	if err := d.notifier.NotifyScenarios(ctx, vehicle, scenarios); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	attrs := []any{"vehicle_id", vehicle.ID, "approvals", len(approvals)}
	if len(scenarios) > 0 {
		attrs = append(attrs, "best_lender", scenarios[0].Lender, "best_gross", scenarios[0].TotalGross)
	}
	slog.Info("comparison complete", attrs...)
	return scenarios, nil
}

// Rank ordena las aprobaciones por adelanto máximo al plazo dado (0 = por defecto).
func (d *Desk) Rank(ctx context.Context, approvals []domain.ApprovalSpec, termMonths int) ([]domain.ApprovalWithProfit, error) {
	if termMonths <= 0 {
		termMonths = d.cfg.DefaultTerm
	}
	if err := domain.ValidateTerm(termMonths); err != nil {
		return nil, fmt.Errorf("desk.Rank: %w", err)
	}

	ranked := engine.RankApprovalsByProfit(approvals, termMonths)

	if err := d.notifier.NotifyRanking(ctx, ranked); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	slog.Info("ranking complete", "approvals", len(ranked), "term", termMonths)
	return ranked, nil
}

// History devuelve los deals cotizados en [from, to]. Sin store devuelve vacío.
func (d *Desk) History(ctx context.Context, from, to time.Time) ([]domain.Deal, error) {
	if d.store == nil {
		return nil, nil
	}
	deals, err := d.store.GetHistory(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("desk.History: %w", err)
	}
	return deals, nil
}

// Watch recotiza la misma petición cada interval hasta que el contexto se
// cancele, para seguir los cambios del stock durante una negociación.
func (d *Desk) Watch(ctx context.Context, req domain.FindDealsRequest, interval time.Duration) error {
	slog.Info("desk watching", "lender", req.Lender, "tier", req.Tier, "interval", interval)

	if _, _, err := d.Quote(ctx, req); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("desk stopped")
			return nil
		case <-ticker.C:
			if _, _, err := d.Quote(ctx, req); err != nil {
				slog.Error("quote cycle failed", "err", err)
			}
		}
	}
}

// normalize traduce banco y tier tal como los escribe el desk ("TD Auto
// Finance", "2 key") a los identificadores exactos del catálogo.
func (d *Desk) normalize(req domain.FindDealsRequest) (domain.FindDealsRequest, error) {
	if req.Term <= 0 {
		req.Term = d.cfg.DefaultTerm
	}
	lender, err := domain.ParseLender(string(req.Lender))
	if err != nil {
		return req, err
	}
	req.Lender = lender
	if p, ok := d.catalogs.Current().Resolve(string(lender), req.Tier); ok {
		req.Tier = p.Tier.Name
	}
	return req, nil
}

func (d *Desk) withDefaultTerm(approvals []domain.ApprovalSpec) []domain.ApprovalSpec {
	out := make([]domain.ApprovalSpec, len(approvals))
	for i, a := range approvals {
		if a.TermMonths <= 0 {
			a.TermMonths = d.cfg.DefaultTerm
		}
		out[i] = a
	}
	return out
}

func findVehicle(vehicles []domain.Vehicle, id string) (domain.Vehicle, bool) {
	for _, v := range vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Vehicle{}, false
}
