package notify

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/dealmax/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
	copy  bool
	now   func() time.Time
}

// NewConsole crea un notificador que escribe a stdout. table activa las tablas
// completas; copy añade el bloque para Dealertrack del mejor deal.
func NewConsole(table, copy bool) *Console {
	return NewConsoleWriter(os.Stdout, table, copy)
}

// NewConsoleWriter crea un notificador sobre un writer arbitrario (tests).
func NewConsoleWriter(w io.Writer, table, copy bool) *Console {
	return &Console{out: w, table: table, copy: copy, now: time.Now}
}

// NotifyDeals imprime el ranking de deals en el modo configurado.
func (c *Console) NotifyDeals(_ context.Context, summary domain.DealSummary, deals []domain.Deal) error {
	if len(deals) == 0 {
		fmt.Fprintf(c.out, "[%s] no compliant deals found (%d vehicles scanned)\n",
			c.clock(), summary.VehiclesScanned)
		return nil
	}

	if c.table {
		c.printDealsFull(summary, deals)
	} else {
		c.printDealsCompact(summary, deals)
	}

	if c.copy {
		fmt.Fprintf(c.out, "\n=== DEALERTRACK — #1 ===\n%s\n\n", deals[0].DealertrackCopy())
	}
	return nil
}

// printDealsCompact imprime lo esencial en una línea.
func (c *Console) printDealsCompact(summary domain.DealSummary, deals []domain.Deal) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d vehicles → %d deals top:$%s avg:$%s/mo",
		c.clock(), summary.VehiclesScanned, summary.CompliantDeals,
		domain.FormatMoney(summary.TopDealGrossProfit),
		domain.FormatMoney(summary.AverageMonthlyPayment))

	for i, d := range deals {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&sb, " | %s %s $%s/mo gross$%s",
			compactName(d.Vehicle.Title(), 22), d.ProductBundle.Tier,
			domain.FormatMoney(d.MonthlyPayment), domain.FormatMoney(d.GrossProfit.Total))
	}

	fmt.Fprintln(c.out, sb.String())
}

// printDealsFull imprime la tabla de deals y el resumen.
func (c *Console) printDealsFull(summary domain.DealSummary, deals []domain.Deal) {
	d0 := deals[0]
	fmt.Fprintf(c.out, "\n[%s] %s %s — %d deals from %d vehicles\n",
		c.clock(), d0.Lender, d0.Tier, summary.CompliantDeals, summary.VehiclesScanned)

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Vehicle", "Stock", "Price", "Finance", "Pmt", "DSR", "LTV", "Bundle", "Front", "Reserve", "Prod", "Gross")

	for _, d := range deals {
		g := d.GrossProfit
		table.Append(
			fmt.Sprintf("%d", d.Rank),
			truncate(d.Vehicle.Title(), 28),
			d.Vehicle.ID,
			"$"+domain.FormatMoney(d.SalePrice),
			"$"+domain.FormatMoney(d.FinanceAmount),
			"$"+domain.FormatMoney(d.MonthlyPayment),
			fmt.Sprintf("%.1f%%", d.Compliance.DSR),
			fmt.Sprintf("%.1f%%", d.Compliance.LTV),
			d.ProductBundle.Tier,
			fmt.Sprintf("$%.0f", g.VehicleGross),
			fmt.Sprintf("$%.0f", g.LenderReserve+g.RateUpsell),
			fmt.Sprintf("$%.0f", g.ProductMargin),
			fmt.Sprintf("$%.2f", g.Total),
		)
	}
	table.Render()

	fmt.Fprintln(c.out, "  Front = price - cost | Reserve = lender reserve + rate upsell | Prod = product margin")
	fmt.Fprintf(c.out, "  Top gross: $%s | Avg payment: $%s/month\n",
		domain.FormatMoney(summary.TopDealGrossProfit),
		domain.FormatMoney(round2(summary.AverageMonthlyPayment)))

	for _, d := range deals {
		for _, w := range d.Compliance.Warnings {
			fmt.Fprintf(c.out, "  >> #%d %s: %s\n", d.Rank, d.Vehicle.ID, w)
		}
	}
	fmt.Fprintln(c.out)
}

// NotifyScenarios imprime los escenarios de beneficio de un vehículo.
func (c *Console) NotifyScenarios(_ context.Context, vehicle domain.Vehicle, scenarios []domain.ProfitScenario) error {
	if len(scenarios) == 0 {
		fmt.Fprintf(c.out, "[%s] no approvals to compare for %s\n", c.clock(), vehicle.ID)
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] %s (%s) — asking $%s, book $%s\n",
		c.clock(), vehicle.Title(), vehicle.ID,
		domain.FormatMoney(vehicle.SuggestedPrice), domain.FormatMoney(vehicle.CollateralValue))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Lender", "Program", "Rate", "Advance", "Max price", "Front", "Reserve", "Back", "Fees", "Total")

	for _, s := range scenarios {
		rate := fmt.Sprintf("%.2f%%", s.Rate)
		if s.IsSubvented {
			rate += "*"
		}
		table.Append(
			fmt.Sprintf("%d", s.ProfitRank),
			truncate(s.Lender, 20),
			s.Program,
			rate,
			"$"+domain.FormatMoney(s.MaxAdvance),
			"$"+domain.FormatMoney(round2(s.MaxSellingPrice)),
			fmt.Sprintf("$%.2f", s.FrontGross),
			fmt.Sprintf("$%.2f", s.Reserve),
			fmt.Sprintf("$%.2f", s.BackGross),
			fmt.Sprintf("$%.2f", s.Fees),
			fmt.Sprintf("$%.2f", s.TotalGross),
		)
	}
	table.Render()
	fmt.Fprintln(c.out, "  * = subvented rate")

	if len(scenarios) > 1 {
		best := scenarios[0]
		fmt.Fprintf(c.out, "  Best: %s %s ($%.2f)\n", best.Lender, best.Program, best.TotalGross)
	}
	if best := scenarios[0]; best.TradeTaxSavings > 0 {
		fmt.Fprintf(c.out, "  Sales tax: $%.2f (trade-in saves $%.2f)\n", best.SalesTax, best.TradeTaxSavings)
	}
	fmt.Fprintln(c.out)
	return nil
}

// NotifyRanking imprime las aprobaciones ordenadas por adelanto máximo.
func (c *Console) NotifyRanking(_ context.Context, ranked []domain.ApprovalWithProfit) error {
	if len(ranked) == 0 {
		fmt.Fprintf(c.out, "[%s] no approvals to rank\n", c.clock())
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Bank", "Program", "APR", "Max pmt", "Max advance", "Recommendation")

	for _, a := range ranked {
		table.Append(
			fmt.Sprintf("%d", a.Rank),
			truncate(a.Bank, 24),
			a.Program,
			fmt.Sprintf("%.2f%%", a.APR),
			"$"+domain.FormatMoney(a.PaymentMax),
			"$"+domain.FormatMoney(a.MaxAdvance),
			string(a.Recommendation),
		)
	}
	table.Render()
	fmt.Fprintln(c.out)
	return nil
}

func (c *Console) clock() string {
	return c.now().Format("15:04:05")
}

// --- helpers ---

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func compactName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := s[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > maxLen/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
