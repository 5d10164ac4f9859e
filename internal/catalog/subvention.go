package catalog

import (
	"strings"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// SubventionTable son las tasas subvencionadas de un banco por nivel de tier.
type SubventionTable struct {
	Family domain.TierFamily
	Rates  map[int]float64
}

// Subvention describe el incentivo de fábrica: qué marcas, qué ventana de años
// de modelo y qué tasa sustituye a la del programa.
type Subvention struct {
	ModelYears int      // ancho de la ventana, terminando en Meta.LatestModelYear
	Makes      []string // en minúsculas
	Lenders    map[domain.LenderID]SubventionTable
}

func (s Subvention) coversMake(vehicleMake string) bool {
	m := strings.ToLower(strings.TrimSpace(vehicleMake))
	for _, allowed := range s.Makes {
		if m == allowed {
			return true
		}
	}
	return false
}

// SubventedRate devuelve la tasa subvencionada si el vehículo y el programa
// califican; si no, la tasa base del programa y false.
func (c *Catalog) SubventedRate(p Program, v domain.Vehicle) (float64, bool) {
	s := c.meta.Subvention
	latest := c.meta.LatestModelYear
	if s.ModelYears <= 0 || v.Year > latest || v.Year <= latest-s.ModelYears {
		return p.Rate, false
	}
	if !s.coversMake(v.Make) {
		return p.Rate, false
	}
	table, ok := s.Lenders[p.Lender]
	if !ok || table.Family != p.Tier.Family {
		return p.Rate, false
	}
	rate, ok := table.Rates[p.Tier.Level]
	if !ok {
		return p.Rate, false
	}
	return rate, true
}

// IncentiveWindow devuelve el rango de años de modelo elegible (inclusive).
func (c *Catalog) IncentiveWindow() (from, to int) {
	to = c.meta.LatestModelYear
	return to - c.meta.Subvention.ModelYears + 1, to
}
