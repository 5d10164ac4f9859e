package catalog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/dealmax/internal/domain"
)

// fileCatalog es el formato YAML de un catálogo publicado.
type fileCatalog struct {
	Version         string          `yaml:"version"`
	EffectiveDate   string          `yaml:"effective_date"`
	LatestModelYear int             `yaml:"latest_model_year"`
	Subvention      *fileSubvention `yaml:"subvention"`
	Programs        []fileProgram   `yaml:"programs"`
}

type fileSubvention struct {
	ModelYears int                            `yaml:"model_years"`
	Makes      []string                       `yaml:"makes"`
	Lenders    map[string]fileSubventionTable `yaml:"lenders"`
}

type fileSubventionTable struct {
	Family string          `yaml:"family"`
	Rates  map[int]float64 `yaml:"rates"`
}

type fileProgram struct {
	Lender              string           `yaml:"lender"`
	Tier                domain.Tier      `yaml:"tier"`
	Rate                float64          `yaml:"rate"`
	LTV                 float64          `yaml:"ltv"`
	MaxDSR              float64          `yaml:"max_dsr"`
	MinIncome           float64          `yaml:"min_income"`
	Fee                 float64          `yaml:"fee"`
	NegativeEquityLimit float64          `yaml:"negative_equity_limit"`
	RateUpsell          float64          `yaml:"rate_upsell"`
	LTVOverride         *fileLTVOverride `yaml:"ltv_override"`
	Reserve             fileReserve      `yaml:"reserve"`
}

type fileLTVOverride struct {
	FromYear int     `yaml:"from_year"`
	ToYear   int     `yaml:"to_year"`
	LTV      float64 `yaml:"ltv"`
}

type fileReserve struct {
	Kind     string           `yaml:"kind"`
	Amount   float64          `yaml:"amount"`
	Brackets []Bracket        `yaml:"brackets"`
	Terms    []fileTermBucket `yaml:"terms"`
}

type fileTermBucket struct {
	MinTerm int           `yaml:"min_term"`
	Rates   []fileRateRow `yaml:"rates"`
}

type fileRateRow struct {
	Rate     float64   `yaml:"rate"`
	Brackets []Bracket `yaml:"brackets"`
}

// LoadFile lee un catálogo YAML desde disco.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadFile: reading %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog.LoadFile: %s: %w", path, err)
	}
	return c, nil
}

// Parse construye un catálogo a partir de YAML.
//
// En amount_grid y rate_term_grid cada tramo cubre desde su min hasta el min
// del tramo superior; un importe por encima del último tramo declarado usa
// ese tramo. Una celda sin reserva en medio o en lo alto de la fila debe
// declararse con value: 0, p.ej. {min: 100000, value: 0}, o el importe caerá
// al tramo inferior.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("catalog.Parse: decoding yaml: %w", err)
	}

	meta := Meta{
		Version:         fc.Version,
		LatestModelYear: fc.LatestModelYear,
	}
	if fc.EffectiveDate != "" {
		t, err := time.Parse("2006-01-02", fc.EffectiveDate)
		if err != nil {
			return nil, fmt.Errorf("catalog.Parse: effective_date: %w", err)
		}
		meta.EffectiveDate = t
	}
	if fc.Subvention != nil {
		s, err := fc.Subvention.toSubvention()
		if err != nil {
			return nil, fmt.Errorf("catalog.Parse: subvention: %w", err)
		}
		meta.Subvention = s
	}

	programs := make([]Program, 0, len(fc.Programs))
	for i, fp := range fc.Programs {
		p, err := fp.toProgram()
		if err != nil {
			return nil, fmt.Errorf("catalog.Parse: program %d: %w", i, err)
		}
		programs = append(programs, p)
	}
	return New(meta, programs...)
}

func (fs fileSubvention) toSubvention() (Subvention, error) {
	s := Subvention{
		ModelYears: fs.ModelYears,
		Lenders:    make(map[domain.LenderID]SubventionTable, len(fs.Lenders)),
	}
	for _, m := range fs.Makes {
		s.Makes = append(s.Makes, strings.ToLower(strings.TrimSpace(m)))
	}
	for name, t := range fs.Lenders {
		id, err := domain.ParseLender(name)
		if err != nil {
			return Subvention{}, err
		}
		s.Lenders[id] = SubventionTable{Family: domain.TierFamily(t.Family), Rates: t.Rates}
	}
	return s, nil
}

func (fp fileProgram) toProgram() (Program, error) {
	lender, err := domain.ParseLender(fp.Lender)
	if err != nil {
		return Program{}, err
	}
	tier := fp.Tier
	if tier.Family == "" {
		tier.Family = domain.FamilyNamed
	}

	reserve, err := fp.Reserve.toStrategy()
	if err != nil {
		return Program{}, fmt.Errorf("%s/%s: %w", lender, tier.Name, err)
	}

	p := Program{
		Lender:              lender,
		Tier:                tier,
		Rate:                fp.Rate,
		LTV:                 fp.LTV,
		MaxDSR:              fp.MaxDSR,
		MinIncome:           fp.MinIncome,
		Reserve:             reserve,
		Fee:                 fp.Fee,
		NegativeEquityLimit: fp.NegativeEquityLimit,
		RateUpsell:          fp.RateUpsell,
	}
	if o := fp.LTVOverride; o != nil {
		p.LTVOverride = &LTVOverride{FromYear: o.FromYear, ToYear: o.ToYear, LTV: o.LTV}
	}
	return p, nil
}

func (fr fileReserve) toStrategy() (ReserveStrategy, error) {
	switch ReserveKind(fr.Kind) {
	case "", ReserveFlat:
		return FlatReserve(fr.Amount), nil
	case ReserveAmountGrid:
		return NewAmountGrid(fr.Brackets...), nil
	case ReserveRateTermGrid:
		buckets := make([]TermBucket, 0, len(fr.Terms))
		for _, t := range fr.Terms {
			tb := TermBucket{MinTerm: t.MinTerm}
			for _, r := range t.Rates {
				tb.Rows = append(tb.Rows, RateRow{Rate: r.Rate, Brackets: r.Brackets})
			}
			buckets = append(buckets, tb)
		}
		return NewRateTermGrid(buckets...), nil
	default:
		return nil, fmt.Errorf("unknown reserve kind %q", fr.Kind)
	}
}
