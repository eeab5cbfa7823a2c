package model

// Metric names one recorded per-day quantity.
type Metric string

const (
	MetricGDP                        Metric = "gdp"
	MetricMilitaryCapability         Metric = "military_capability"
	MetricCivilianIndustrialCapacity Metric = "civilian_industrial_capacity"
	MetricMilitaryIndustrialCapacity Metric = "military_industrial_capacity"
	MetricMilitaryTechnology         Metric = "military_technology"
	MetricIndustrialTechnology       Metric = "industrial_technology"
	MetricPriceLevel                 Metric = "price_level"
	MetricBudget                     Metric = "budget"
	MetricSpending                   Metric = "spending"
)

// Metrics is the ordered set of aggregated quantities.
var Metrics = []Metric{
	MetricGDP,
	MetricMilitaryCapability,
	MetricCivilianIndustrialCapacity,
	MetricMilitaryIndustrialCapacity,
	MetricMilitaryTechnology,
	MetricIndustrialTechnology,
	MetricPriceLevel,
	MetricBudget,
	MetricSpending,
}

var metricLabels = map[Metric]string{
	MetricGDP:                        "GDP (Billions, PPP$)",
	MetricMilitaryCapability:         "Military Capability",
	MetricCivilianIndustrialCapacity: "Civilian Industrial Capacity",
	MetricMilitaryIndustrialCapacity: "Military Industrial Capacity",
	MetricMilitaryTechnology:         "Military Technology",
	MetricIndustrialTechnology:       "Industrial Technology",
	MetricPriceLevel:                 "Price Level",
	MetricBudget:                     "Budget (Billions, PPP$)",
	MetricSpending:                   "Spending (Billions, PPP$)",
}

func (m Metric) Label() string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return string(m)
}

func ParseMetric(s string) (Metric, bool) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Row is one day of history.
type Row struct {
	Time                       int
	EconomicCapital            float64
	IndustrialTechnology       float64
	MilitaryTechnology         float64
	CivilianIndustrialCapacity float64
	MilitaryIndustrialCapacity float64
	MilitaryCapability         float64
	PriceLevel                 float64
	Budget                     float64
	Spending                   float64
}

// History is column-oriented; every slice has the same length.
type History struct {
	Time                       []int     `json:"time"`
	EconomicCapital            []float64 `json:"gdp"`
	IndustrialTechnology       []float64 `json:"industrial_technology"`
	MilitaryTechnology         []float64 `json:"military_technology"`
	CivilianIndustrialCapacity []float64 `json:"civilian_industrial_capacity"`
	MilitaryIndustrialCapacity []float64 `json:"military_industrial_capacity"`
	MilitaryCapability         []float64 `json:"military_capability"`
	PriceLevel                 []float64 `json:"price_level"`
	Budget                     []float64 `json:"budget"`
	Spending                   []float64 `json:"spending"`
}

func (h *History) Len() int { return len(h.Time) }

func (h *History) Append(r Row) {
	h.Time = append(h.Time, r.Time)
	h.EconomicCapital = append(h.EconomicCapital, r.EconomicCapital)
	h.IndustrialTechnology = append(h.IndustrialTechnology, r.IndustrialTechnology)
	h.MilitaryTechnology = append(h.MilitaryTechnology, r.MilitaryTechnology)
	h.CivilianIndustrialCapacity = append(h.CivilianIndustrialCapacity, r.CivilianIndustrialCapacity)
	h.MilitaryIndustrialCapacity = append(h.MilitaryIndustrialCapacity, r.MilitaryIndustrialCapacity)
	h.MilitaryCapability = append(h.MilitaryCapability, r.MilitaryCapability)
	h.PriceLevel = append(h.PriceLevel, r.PriceLevel)
	h.Budget = append(h.Budget, r.Budget)
	h.Spending = append(h.Spending, r.Spending)
}

func (h *History) Row(i int) Row {
	return Row{
		Time:                       h.Time[i],
		EconomicCapital:            h.EconomicCapital[i],
		IndustrialTechnology:       h.IndustrialTechnology[i],
		MilitaryTechnology:         h.MilitaryTechnology[i],
		CivilianIndustrialCapacity: h.CivilianIndustrialCapacity[i],
		MilitaryIndustrialCapacity: h.MilitaryIndustrialCapacity[i],
		MilitaryCapability:         h.MilitaryCapability[i],
		PriceLevel:                 h.PriceLevel[i],
		Budget:                     h.Budget[i],
		Spending:                   h.Spending[i],
	}
}

// Series returns the backing slice for m; callers must not modify it.
func (h *History) Series(m Metric) []float64 {
	switch m {
	case MetricGDP:
		return h.EconomicCapital
	case MetricMilitaryCapability:
		return h.MilitaryCapability
	case MetricCivilianIndustrialCapacity:
		return h.CivilianIndustrialCapacity
	case MetricMilitaryIndustrialCapacity:
		return h.MilitaryIndustrialCapacity
	case MetricMilitaryTechnology:
		return h.MilitaryTechnology
	case MetricIndustrialTechnology:
		return h.IndustrialTechnology
	case MetricPriceLevel:
		return h.PriceLevel
	case MetricBudget:
		return h.Budget
	case MetricSpending:
		return h.Spending
	}
	return nil
}
