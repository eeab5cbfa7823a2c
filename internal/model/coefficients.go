package model

import (
	"fmt"
	"math"
)

// Coefficients is the structural parameter bundle for one trial. Both sides
// read it every step and neither side mutates it.
//
// ConflictIntensity is the opening value of the war's conflict-intensity
// scalar. The per-day value is supplied to Update by the scenario schedule.
type Coefficients struct {
	ProductionEfficiency                      float64 `yaml:"production_efficiency" json:"production_efficiency"`
	MilitaryCapabilityWeight                  float64 `yaml:"military_capability_weight" json:"military_capability_weight"`
	SanctionsDelay                            float64 `yaml:"sanctions_delay" json:"sanctions_delay"`
	ForeignAidDelay                           float64 `yaml:"foreign_aid_delay" json:"foreign_aid_delay"`
	ElasticityCoefficient                     float64 `yaml:"elasticity_coefficient" json:"elasticity_coefficient"`
	MilitaryTechnologyInvestmentCoefficient   float64 `yaml:"military_technology_investment_coefficient" json:"military_technology_investment_coefficient"`
	IndustrialTechnologyInvestmentCoefficient float64 `yaml:"industrial_technology_investment_coefficient" json:"industrial_technology_investment_coefficient"`
	MilitaryIndustrialInvestmentCoefficient   float64 `yaml:"military_industrial_investment_coefficient" json:"military_industrial_investment_coefficient"`
	CivilianIndustrialInvestmentCoefficient   float64 `yaml:"civilian_industrial_investment_coefficient" json:"civilian_industrial_investment_coefficient"`
	MilitaryConsumptionCostCoefficient        float64 `yaml:"military_consumption_cost_coefficient" json:"military_consumption_cost_coefficient"`
	MilitaryDemandCoefficient                 float64 `yaml:"military_demand_coefficient" json:"military_demand_coefficient"`
	MilitaryAttritionCoefficient              float64 `yaml:"military_attrition_coefficient" json:"military_attrition_coefficient"`
	IndustrialAttritionCoefficient            float64 `yaml:"industrial_attrition_coefficient" json:"industrial_attrition_coefficient"`
	SpendingScalingCoefficient                float64 `yaml:"spending_scaling_coefficient" json:"spending_scaling_coefficient"`
	ConflictIntensity                         float64 `yaml:"conflict_intensity" json:"conflict_intensity"`
	Epsilon                                   float64 `yaml:"epsilon" json:"epsilon"`
}

// DefaultCoefficients returns the deterministic baseline parameter set.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		ProductionEfficiency:                      8,
		MilitaryCapabilityWeight:                  1.5e-4,
		SanctionsDelay:                            30,
		ForeignAidDelay:                           30,
		ElasticityCoefficient:                     3e-4,
		MilitaryTechnologyInvestmentCoefficient:   1e-3,
		IndustrialTechnologyInvestmentCoefficient: 3e-4,
		MilitaryIndustrialInvestmentCoefficient:   5e-1,
		CivilianIndustrialInvestmentCoefficient:   1e-1,
		MilitaryConsumptionCostCoefficient:        3e-4,
		MilitaryDemandCoefficient:                 3.5,
		MilitaryAttritionCoefficient:              5e-5,
		IndustrialAttritionCoefficient:            4e-7,
		SpendingScalingCoefficient:                5e-1,
		ConflictIntensity:                         2.5,
		Epsilon:                                   1e-10,
	}
}

type coefficientField struct {
	name string
	ref  func(c *Coefficients) *float64
}

var coefficientFields = []coefficientField{
	{"production_efficiency", func(c *Coefficients) *float64 { return &c.ProductionEfficiency }},
	{"military_capability_weight", func(c *Coefficients) *float64 { return &c.MilitaryCapabilityWeight }},
	{"sanctions_delay", func(c *Coefficients) *float64 { return &c.SanctionsDelay }},
	{"foreign_aid_delay", func(c *Coefficients) *float64 { return &c.ForeignAidDelay }},
	{"elasticity_coefficient", func(c *Coefficients) *float64 { return &c.ElasticityCoefficient }},
	{"military_technology_investment_coefficient", func(c *Coefficients) *float64 { return &c.MilitaryTechnologyInvestmentCoefficient }},
	{"industrial_technology_investment_coefficient", func(c *Coefficients) *float64 { return &c.IndustrialTechnologyInvestmentCoefficient }},
	{"military_industrial_investment_coefficient", func(c *Coefficients) *float64 { return &c.MilitaryIndustrialInvestmentCoefficient }},
	{"civilian_industrial_investment_coefficient", func(c *Coefficients) *float64 { return &c.CivilianIndustrialInvestmentCoefficient }},
	{"military_consumption_cost_coefficient", func(c *Coefficients) *float64 { return &c.MilitaryConsumptionCostCoefficient }},
	{"military_demand_coefficient", func(c *Coefficients) *float64 { return &c.MilitaryDemandCoefficient }},
	{"military_attrition_coefficient", func(c *Coefficients) *float64 { return &c.MilitaryAttritionCoefficient }},
	{"industrial_attrition_coefficient", func(c *Coefficients) *float64 { return &c.IndustrialAttritionCoefficient }},
	{"spending_scaling_coefficient", func(c *Coefficients) *float64 { return &c.SpendingScalingCoefficient }},
	{"conflict_intensity", func(c *Coefficients) *float64 { return &c.ConflictIntensity }},
	{"epsilon", func(c *Coefficients) *float64 { return &c.Epsilon }},
}

// CoefficientNames lists the field names in declaration order.
func CoefficientNames() []string {
	names := make([]string, len(coefficientFields))
	for i, f := range coefficientFields {
		names[i] = f.name
	}
	return names
}

// Get returns the named field.
func (c Coefficients) Get(name string) (float64, error) {
	for _, f := range coefficientFields {
		if f.name == name {
			return *f.ref(&c), nil
		}
	}
	return 0, fmt.Errorf("unknown coefficient: %s", name)
}

// Set assigns the named field.
func (c *Coefficients) Set(name string, value float64) error {
	for _, f := range coefficientFields {
		if f.name == name {
			*f.ref(c) = value
			return nil
		}
	}
	return fmt.Errorf("unknown coefficient: %s", name)
}

// Validate rejects negative or non-finite fields and a non-positive epsilon.
func (c Coefficients) Validate() error {
	for _, f := range coefficientFields {
		v := *f.ref(&c)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid(f.name, v, "must be finite")
		}
		if v < 0 {
			return invalid(f.name, v, "must be non-negative")
		}
	}
	if c.ProductionEfficiency == 0 {
		return invalid("production_efficiency", c.ProductionEfficiency, "must be positive")
	}
	if c.Epsilon == 0 {
		return invalid("epsilon", c.Epsilon, "must be positive")
	}
	return nil
}
