package main

import (
	"fmt"
	"io"

	"github.com/alejandrodnm/dealmax/internal/catalog"
	"github.com/olekukonko/tablewriter"
)

// printCatalog imprime la tabla de programas activa.
func printCatalog(w io.Writer, cat *catalog.Catalog) error {
	meta := cat.Meta()
	fmt.Fprintf(w, "\nCatalog %s (effective %s): %d programs\n",
		meta.Version, meta.EffectiveDate.Format("2006-01-02"), cat.Len())

	table := tablewriter.NewWriter(w)
	table.Header("Lender", "Tier", "Rate", "LTV", "Max DSR", "Min income", "Fee", "Neg. equity", "Reserve")

	for _, p := range cat.Programs() {
		ltv := fmt.Sprintf("%g%%", p.LTV)
		if o := p.LTVOverride; o != nil {
			ltv += fmt.Sprintf(" (%d-%d: %g%%)", o.FromYear, o.ToYear, o.LTV)
		}
		table.Append(
			string(p.Lender),
			p.Tier.Name,
			fmt.Sprintf("%.2f%%", p.Rate),
			ltv,
			fmt.Sprintf("%g%%", p.MaxDSR),
			fmt.Sprintf("$%.0f", p.MinIncome),
			fmt.Sprintf("$%.0f", p.Fee),
			fmt.Sprintf("$%.0f", p.NegativeEquityLimit),
			string(p.Reserve.Kind()),
		)
	}
	return table.Render()
}
