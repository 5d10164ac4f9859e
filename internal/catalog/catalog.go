package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// Meta identifica una versión publicada del catálogo y sus reglas transversales.
type Meta struct {
	Version         string
	EffectiveDate   time.Time
	LatestModelYear int
	Subvention      Subvention
}

type programKey struct {
	lender domain.LenderID
	tier   string
}

// Catalog es la tabla de programas de los bancos. Se construye una vez y no se
// modifica: se comparte entre goroutines sin locks.
type Catalog struct {
	meta     Meta
	programs []Program
	index    map[programKey]int
	byLender map[domain.LenderID][]int
	lenders  []domain.LenderID
}

// New valida e indexa los programas en el orden dado.
func New(meta Meta, programs ...Program) (*Catalog, error) {
	c := &Catalog{
		meta:     meta,
		programs: make([]Program, 0, len(programs)),
		index:    make(map[programKey]int, len(programs)),
		byLender: make(map[domain.LenderID][]int),
	}

	var errs []error
	for _, p := range programs {
		if err := validateProgram(p); err != nil {
			errs = append(errs, err)
			continue
		}
		if p.Reserve == nil {
			p.Reserve = FlatReserve(0)
		}
		k := programKey{p.Lender, p.Tier.Name}
		if _, dup := c.index[k]; dup {
			errs = append(errs, fmt.Errorf("duplicate program %s/%s", p.Lender, p.Tier.Name))
			continue
		}
		if _, seen := c.byLender[p.Lender]; !seen {
			c.lenders = append(c.lenders, p.Lender)
		}
		c.index[k] = len(c.programs)
		c.byLender[p.Lender] = append(c.byLender[p.Lender], len(c.programs))
		c.programs = append(c.programs, p)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("catalog.New: %w", err)
	}
	return c, nil
}

func validateProgram(p Program) error {
	switch {
	case p.Lender == "":
		return errors.New("program without lender")
	case p.Tier.Name == "":
		return fmt.Errorf("%s: program without tier", p.Lender)
	case p.Rate <= 0:
		return fmt.Errorf("%s/%s: rate must be positive", p.Lender, p.Tier.Name)
	case p.LTV <= 0:
		return fmt.Errorf("%s/%s: ltv must be positive", p.Lender, p.Tier.Name)
	case p.MaxDSR <= 0:
		return fmt.Errorf("%s/%s: max dsr must be positive", p.Lender, p.Tier.Name)
	case p.Fee < 0 || p.NegativeEquityLimit < 0 || p.RateUpsell < 0:
		return fmt.Errorf("%s/%s: fee, negative equity limit and upsell cannot be negative", p.Lender, p.Tier.Name)
	case p.LTVOverride != nil && p.LTVOverride.FromYear > p.LTVOverride.ToYear:
		return fmt.Errorf("%s/%s: ltv override year range is inverted", p.Lender, p.Tier.Name)
	}
	return nil
}

// Meta devuelve la versión del catálogo.
func (c *Catalog) Meta() Meta { return c.meta }

// Len es el número de programas.
func (c *Catalog) Len() int { return len(c.programs) }

// Lookup busca un programa por coincidencia exacta de banco y nombre de tier.
func (c *Catalog) Lookup(lender domain.LenderID, tier string) (Program, bool) {
	i, ok := c.index[programKey{lender, tier}]
	if !ok {
		return Program{}, false
	}
	return c.programs[i], true
}

// Require es Lookup que devuelve *domain.UnknownProgramError si no existe.
func (c *Catalog) Require(lender domain.LenderID, tier string) (Program, error) {
	p, ok := c.Lookup(lender, tier)
	if !ok {
		return Program{}, &domain.UnknownProgramError{Lender: lender, Tier: tier}
	}
	return p, nil
}

// Resolve traduce una aprobación tal como llega del banco ("TD Auto Finance",
// "5 key") a un programa del catálogo. Solo se usa en la frontera: dentro del
// motor las búsquedas son exactas.
func (c *Catalog) Resolve(bank, program string) (Program, bool) {
	lender, err := domain.ParseLender(bank)
	if err != nil {
		return Program{}, false
	}
	want := domain.NormalizeName(program)
	for _, i := range c.byLender[lender] {
		if domain.NormalizeName(c.programs[i].Tier.Name) == want {
			return c.programs[i], true
		}
	}
	return Program{}, false
}

// Lenders devuelve los bancos en orden de catálogo.
func (c *Catalog) Lenders() []domain.LenderID {
	return append([]domain.LenderID(nil), c.lenders...)
}

// Tiers devuelve los nombres de tier de un banco en orden de catálogo.
func (c *Catalog) Tiers(lender domain.LenderID) []string {
	idx := c.byLender[lender]
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.programs[i].Tier.Name)
	}
	return out
}

// Programs devuelve todos los programas en orden de catálogo.
func (c *Catalog) Programs() []Program {
	return append([]Program(nil), c.programs...)
}

// EffectiveLTV devuelve el techo de LTV aplicable a un vehículo del año dado.
func (c *Catalog) EffectiveLTV(lender domain.LenderID, tier string, vehicleYear int) (float64, error) {
	p, err := c.Require(lender, tier)
	if err != nil {
		return 0, err
	}
	return p.EffectiveLTV(vehicleYear), nil
}

// Reserve calcula la reserva del programa para la cotización dada.
func (c *Catalog) Reserve(p Program, q ReserveQuote) float64 {
	return p.ReserveFor(q)
}

// CheckIncome indica si el ingreso mensual alcanza el mínimo del programa.
func (c *Catalog) CheckIncome(monthlyIncome float64, lender domain.LenderID, tier string) (bool, error) {
	p, err := c.Require(lender, tier)
	if err != nil {
		return false, err
	}
	return monthlyIncome >= p.MinIncome, nil
}
