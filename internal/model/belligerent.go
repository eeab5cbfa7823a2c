package model

import (
	"math"
)

const (
	daysPerYear        = 365
	taxCollectionShare = 0.35

	industrialAttritionExponent = 1.1
	militaryAttritionExponent   = 1.5
)

// Stocks are the integrated state variables of one side.
type Stocks struct {
	IndustrialTechnology       float64 `yaml:"industrial_technology" json:"industrial_technology"`
	MilitaryTechnology         float64 `yaml:"military_technology" json:"military_technology"`
	CivilianIndustrialCapacity float64 `yaml:"civilian_industrial_capacity" json:"civilian_industrial_capacity"`
	MilitaryIndustrialCapacity float64 `yaml:"military_industrial_capacity" json:"military_industrial_capacity"`
	MilitaryCapability         float64 `yaml:"military_capability" json:"military_capability"`
}

// Investment splits a positive budget across the four investable stocks.
type Investment struct {
	MilitaryTechnology   float64 `yaml:"military_technology" json:"military_technology"`
	IndustrialTechnology float64 `yaml:"industrial_technology" json:"industrial_technology"`
	MilitaryIndustrial   float64 `yaml:"military_industrial" json:"military_industrial"`
	CivilianIndustrial   float64 `yaml:"civilian_industrial" json:"civilian_industrial"`
}

// EvenInvestment spends a quarter of the budget on each stock.
func EvenInvestment() Investment {
	return Investment{0.25, 0.25, 0.25, 0.25}
}

func (i Investment) Total() float64 {
	return i.MilitaryTechnology + i.IndustrialTechnology + i.MilitaryIndustrial + i.CivilianIndustrial
}

func (i Investment) Slice() []float64 {
	return []float64{i.MilitaryTechnology, i.IndustrialTechnology, i.MilitaryIndustrial, i.CivilianIndustrial}
}

// ActorConfig is everything needed to construct one side.
type ActorConfig struct {
	Name               string     `yaml:"name" json:"name"`
	Stocks             Stocks     `yaml:"stocks" json:"stocks"`
	Investment         Investment `yaml:"investment" json:"investment"`
	TaxRate            float64    `yaml:"tax_rate" json:"tax_rate"`
	AttackingIntensity float64    `yaml:"attacking_intensity" json:"attacking_intensity"`
	Sanctions          Policy     `yaml:"sanctions" json:"sanctions"`
	ForeignAid         Policy     `yaml:"foreign_aid" json:"foreign_aid"`

	// ClampStocks floors every stock at zero after each update.
	ClampStocks bool `yaml:"-" json:"-"`
}

// Validate reports the first invalid field as a *ConfigurationError.
func (c ActorConfig) Validate() error {
	if c.Name == "" {
		return invalid("name", c.Name, "must not be empty")
	}
	stocks := []struct {
		field string
		v     float64
	}{
		{"stocks.industrial_technology", c.Stocks.IndustrialTechnology},
		{"stocks.military_technology", c.Stocks.MilitaryTechnology},
		{"stocks.civilian_industrial_capacity", c.Stocks.CivilianIndustrialCapacity},
		{"stocks.military_industrial_capacity", c.Stocks.MilitaryIndustrialCapacity},
		{"stocks.military_capability", c.Stocks.MilitaryCapability},
	}
	for _, s := range stocks {
		if s.v < 0 || math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			return invalid(s.field, s.v, "must be finite and non-negative")
		}
	}
	if c.Stocks.CivilianIndustrialCapacity == 0 || c.Stocks.IndustrialTechnology == 0 {
		return invalid("stocks.civilian_industrial_capacity", c.Stocks.CivilianIndustrialCapacity, "initial economic capital must be positive")
	}

	shares := []struct {
		field string
		v     float64
	}{
		{"investment.military_technology", c.Investment.MilitaryTechnology},
		{"investment.industrial_technology", c.Investment.IndustrialTechnology},
		{"investment.military_industrial", c.Investment.MilitaryIndustrial},
		{"investment.civilian_industrial", c.Investment.CivilianIndustrial},
	}
	for _, s := range shares {
		if s.v < 0 || s.v > 1 || math.IsNaN(s.v) {
			return invalid(s.field, s.v, "must be within [0, 1]")
		}
	}
	if total := c.Investment.Total(); total > 1+1e-9 {
		return invalid("investment", total, "shares must sum to at most 1")
	}
	if c.TaxRate < 0 || c.TaxRate > 1 || math.IsNaN(c.TaxRate) {
		return invalid("tax_rate", c.TaxRate, "must be within [0, 1]")
	}
	if c.AttackingIntensity < 0 || math.IsNaN(c.AttackingIntensity) || math.IsInf(c.AttackingIntensity, 0) {
		return invalid("attacking_intensity", c.AttackingIntensity, "must be finite and non-negative")
	}
	if err := c.Sanctions.Validate("sanctions"); err != nil {
		return err
	}
	return c.ForeignAid.Validate("foreign_aid")
}

// Belligerent is one side of the conflict.
type Belligerent struct {
	name   string
	coeffs Coefficients

	stocks          Stocks
	economicCapital float64
	budget          float64
	spending        float64

	investment         Investment
	taxRate            float64
	attackingIntensity float64
	sanctions          Policy
	foreignAid         Policy
	clamp              bool

	history History
}

// NewBelligerent validates cfg and coeffs and seeds the history with the
// day-0 row. The day-0 economic capital ignores sanctions and is the baseline
// for collapse detection.
func NewBelligerent(cfg ActorConfig, coeffs Coefficients) (*Belligerent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := coeffs.Validate(); err != nil {
		return nil, err
	}

	b := &Belligerent{
		name:               cfg.Name,
		coeffs:             coeffs,
		stocks:             cfg.Stocks,
		investment:         cfg.Investment,
		taxRate:            cfg.TaxRate,
		attackingIntensity: cfg.AttackingIntensity,
		sanctions:          cfg.Sanctions,
		foreignAid:         cfg.ForeignAid,
		clamp:              cfg.ClampStocks,
	}

	capital := b.capitalAt(0)
	budget := b.budgetFor(0, capital)
	b.history.Append(Row{
		Time:                       0,
		EconomicCapital:            coeffs.ProductionEfficiency * b.stocks.IndustrialTechnology * b.stocks.CivilianIndustrialCapacity,
		IndustrialTechnology:       b.stocks.IndustrialTechnology,
		MilitaryTechnology:         b.stocks.MilitaryTechnology,
		CivilianIndustrialCapacity: b.stocks.CivilianIndustrialCapacity,
		MilitaryIndustrialCapacity: b.stocks.MilitaryIndustrialCapacity,
		MilitaryCapability:         b.stocks.MilitaryCapability,
		PriceLevel:                 b.PriceLevel(),
		Budget:                     budget,
		Spending:                   math.Max(budget, 0) * b.investment.Total(),
	})

	return b, nil
}

// Update advances the side by one day against the adversary's capability as
// observed at the start of the day. t must start at 0 and increase by one.
func (b *Belligerent) Update(t int, adversaryCapability, conflictIntensity float64) {
	c := &b.coeffs

	capital := b.capitalAt(t)
	budget := b.budgetFor(t, capital)
	funds := math.Max(budget, 0)

	b.budget = budget
	b.spending = funds * b.investment.Total()
	b.economicCapital = capital + math.Min(budget, 0)

	industrialAttrition := c.IndustrialAttritionCoefficient * attritionBase(adversaryCapability, industrialAttritionExponent)

	s := &b.stocks
	s.IndustrialTechnology += c.IndustrialTechnologyInvestmentCoefficient * b.investment.IndustrialTechnology * funds
	s.MilitaryTechnology += c.MilitaryTechnologyInvestmentCoefficient * b.investment.MilitaryTechnology * funds
	s.CivilianIndustrialCapacity += c.CivilianIndustrialInvestmentCoefficient*b.investment.CivilianIndustrial*funds -
		industrialAttrition*s.CivilianIndustrialCapacity
	s.MilitaryIndustrialCapacity += c.MilitaryIndustrialInvestmentCoefficient*b.investment.MilitaryIndustrial*funds -
		industrialAttrition*s.MilitaryIndustrialCapacity

	// capability growth sees the technologies and capacity already updated this day
	militaryAttrition := b.attackingIntensity * conflictIntensity * c.MilitaryAttritionCoefficient *
		attritionBase(adversaryCapability, militaryAttritionExponent)
	s.MilitaryCapability += c.MilitaryCapabilityWeight*s.MilitaryTechnology*c.ProductionEfficiency*
		s.IndustrialTechnology*s.MilitaryIndustrialCapacity - militaryAttrition

	if b.clamp {
		b.floorStocks()
	}

	b.history.Append(Row{
		Time:                       t,
		EconomicCapital:            b.economicCapital,
		IndustrialTechnology:       s.IndustrialTechnology,
		MilitaryTechnology:         s.MilitaryTechnology,
		CivilianIndustrialCapacity: s.CivilianIndustrialCapacity,
		MilitaryIndustrialCapacity: s.MilitaryIndustrialCapacity,
		MilitaryCapability:         s.MilitaryCapability,
		PriceLevel:                 b.PriceLevel(),
		Budget:                     b.budget,
		Spending:                   b.spending,
	})
}

// PriceLevel is 1 plus the elasticity-weighted excess of military demand over
// military-industrial output. It never drops below 1.
func (b *Belligerent) PriceLevel() float64 {
	c := &b.coeffs
	excess := c.MilitaryDemandCoefficient*b.stocks.MilitaryCapability -
		c.ProductionEfficiency*b.stocks.IndustrialTechnology*b.stocks.MilitaryIndustrialCapacity
	return 1 + c.ElasticityCoefficient*math.Max(0, excess)
}

// SanctionsEffect is the fraction of output lost to sanctions on day t.
func (b *Belligerent) SanctionsEffect(t int) float64 {
	return b.sanctions.At(t - int(b.coeffs.SanctionsDelay))
}

// ForeignAid is the aid received on day t.
func (b *Belligerent) ForeignAid(t int) float64 {
	return b.foreignAid.At(t - int(b.coeffs.ForeignAidDelay))
}

func (b *Belligerent) capitalAt(t int) float64 {
	return b.coeffs.ProductionEfficiency * b.stocks.IndustrialTechnology *
		b.stocks.CivilianIndustrialCapacity * (1 - b.SanctionsEffect(t))
}

func (b *Belligerent) budgetFor(t int, capital float64) float64 {
	revenue := capital * b.taxRate * taxCollectionShare / daysPerYear
	return (revenue+b.ForeignAid(t))/b.PriceLevel() -
		b.coeffs.MilitaryConsumptionCostCoefficient*b.stocks.MilitaryCapability
}

func (b *Belligerent) floorStocks() {
	eps := b.coeffs.Epsilon
	for _, v := range []*float64{
		&b.stocks.IndustrialTechnology,
		&b.stocks.MilitaryTechnology,
		&b.stocks.CivilianIndustrialCapacity,
		&b.stocks.MilitaryIndustrialCapacity,
		&b.stocks.MilitaryCapability,
	} {
		if *v < eps {
			*v = 0
		}
	}
}

// attritionBase raises the adversary's capability to exp. A non-positive
// capability inflicts no losses.
func attritionBase(capability, exp float64) float64 {
	if capability <= 0 {
		return 0
	}
	return math.Pow(capability, exp)
}

func (b *Belligerent) Name() string                { return b.name }
func (b *Belligerent) Coefficients() Coefficients  { return b.coeffs }
func (b *Belligerent) Stocks() Stocks              { return b.stocks }
func (b *Belligerent) Investment() Investment      { return b.investment }
func (b *Belligerent) TaxRate() float64            { return b.taxRate }
func (b *Belligerent) EconomicCapital() float64    { return b.economicCapital }
func (b *Belligerent) MilitaryCapability() float64 { return b.stocks.MilitaryCapability }
func (b *Belligerent) Budget() float64             { return b.budget }
func (b *Belligerent) Spending() float64           { return b.spending }
func (b *Belligerent) AttackingIntensity() float64 { return b.attackingIntensity }
func (b *Belligerent) History() *History           { return &b.history }

// BaselineCapital is the day-0 economic capital.
func (b *Belligerent) BaselineCapital() float64 { return b.history.EconomicCapital[0] }

// SetAttackingIntensity is the scenario driver's per-day override.
func (b *Belligerent) SetAttackingIntensity(v float64) { b.attackingIntensity = v }
