package simulation

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ternarybob/bizpulse/internal/common"
)

// Lever keys accepted by ParseLevers
const (
	KeyPriceChange      = "price_change_percent"
	KeyDemandChange     = "demand_change_percent"
	KeyCostChange       = "cost_change_percent"
	KeyNewProduct       = "new_product_revenue"
	KeyExpenseReduction = "expense_reduction_percent"
)

// Levers are the caller-supplied scenario adjustments
type Levers struct {
	PriceChangePct      float64 `json:"price_change_percent" yaml:"price_change_percent"`
	DemandChangePct     float64 `json:"demand_change_percent" yaml:"demand_change_percent"`
	CostChangePct       float64 `json:"cost_change_percent" yaml:"cost_change_percent"`
	NewProductRevenue   float64 `json:"new_product_revenue" yaml:"new_product_revenue"`
	ExpenseReductionPct float64 `json:"expense_reduction_percent" yaml:"expense_reduction_percent"`
}

// ParseLevers reads levers from a loosely typed mapping such as decoded YAML
// or JSON. Unknown keys are ignored. Missing, null or non-numeric values are 0.
// Integers, floats and numeric strings are accepted.
func ParseLevers(params map[string]any) Levers {
	return Levers{
		PriceChangePct:      toFloat(params[KeyPriceChange]),
		DemandChangePct:     toFloat(params[KeyDemandChange]),
		CostChangePct:       toFloat(params[KeyCostChange]),
		NewProductRevenue:   toFloat(params[KeyNewProduct]),
		ExpenseReductionPct: toFloat(params[KeyExpenseReduction]),
	}
}

// Apply combines the levers with a baseline into a simulation Input
func (l Levers) Apply(baseRevenue, baseProfit float64) Input {
	return Input{
		BaseRevenue:         baseRevenue,
		BaseProfit:          baseProfit,
		PriceChangePct:      l.PriceChangePct,
		DemandChangePct:     l.DemandChangePct,
		CostChangePct:       l.CostChangePct,
		NewProductRevenue:   l.NewProductRevenue,
		ExpenseReductionPct: l.ExpenseReductionPct,
	}
}

// AsMap returns the levers keyed by their parameter names
func (l Levers) AsMap() map[string]float64 {
	return map[string]float64{
		KeyPriceChange:      l.PriceChangePct,
		KeyDemandChange:     l.DemandChangePct,
		KeyCostChange:       l.CostChangePct,
		KeyNewProduct:       l.NewProductRevenue,
		KeyExpenseReduction: l.ExpenseReductionPct,
	}
}

func toFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if !common.IsFinite(f) {
		return 0
	}
	return f
}
