package profit

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

const (
	productLimit       = 10
	marginLimit        = 10
	topDriverLimit     = 5
	hiddenNameLimit    = 3
	hiddenMarginBelow  = 15.0
	benchmarkMargin    = 20.0
	criticalMarginLine = 10.0
)

// totals accumulates one product or category
type totals struct {
	name    string
	revenue float64
	profit  float64
	units   int
}

func (t totals) margin() float64 {
	return common.Round(common.SafeDiv(t.profit, t.revenue, 0)*100, 2)
}

// Analyze builds the profit driver report. Rows with non-finite revenue or
// profit are skipped; no rows left is an insufficient_data InputError.
func Analyze(sales []models.SaleRecord) (*Report, error) {
	rows := make([]models.SaleRecord, 0, len(sales))
	for _, s := range sales {
		if !common.IsFinite(s.TotalRevenue) || !common.IsFinite(s.GrossProfit) {
			continue
		}
		rows = append(rows, s)
	}
	if len(rows) == 0 {
		return nil, models.NewInputError(models.ErrInsufficientData, "no sales data available for analysis")
	}

	products := group(rows, func(s models.SaleRecord) string { return s.ProductName })
	categories := group(rows, func(s models.SaleRecord) string { return s.Category })

	totalRevenue, totalProfit := 0.0, 0.0
	for _, s := range rows {
		totalRevenue += s.TotalRevenue
		totalProfit += s.GrossProfit
	}

	report := &Report{
		ProductContribution:  productContribution(products, totalProfit),
		CategoryContribution: categoryContribution(categories, totalProfit),
		MarginAnalysis:       marginAnalysis(products),
		HiddenLossMakers:     hiddenLossMakers(products),
		TopProfitDrivers:     topProfitDrivers(products, totalProfit),
		EfficiencyScores:     efficiency(categories),
		Health:               health(products, totalRevenue, totalProfit),
	}
	report.Insights = insights(report)

	return report, nil
}

// group sums rows by key. Groups come back sorted by name so later stable
// sorts break ties alphabetically.
func group(rows []models.SaleRecord, key func(models.SaleRecord) string) []totals {
	index := make(map[string]int)
	var out []totals
	for _, s := range rows {
		k := key(s)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, totals{name: k})
		}
		out[i].revenue += s.TotalRevenue
		out[i].profit += s.GrossProfit
		out[i].units += s.QuantitySold
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func byProfitDesc(groups []totals) []totals {
	sorted := append([]totals(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].profit > sorted[j].profit })
	return sorted
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func toProduct(t totals, totalProfit float64) ProductProfit {
	return ProductProfit{
		Product:         t.name,
		Revenue:         common.Round(t.revenue, 2),
		Profit:          common.Round(t.profit, 2),
		Units:           t.units,
		ContributionPct: common.Round(common.SafeDiv(t.profit, totalProfit, 0)*100, 2),
		MarginPct:       t.margin(),
	}
}

func productContribution(products []totals, totalProfit float64) []ProductProfit {
	sorted := limit(byProfitDesc(products), productLimit)
	out := make([]ProductProfit, len(sorted))
	for i, t := range sorted {
		out[i] = toProduct(t, totalProfit)
	}
	return out
}

func topProfitDrivers(products []totals, totalProfit float64) []ProductProfit {
	sorted := limit(byProfitDesc(products), topDriverLimit)
	out := make([]ProductProfit, len(sorted))
	for i, t := range sorted {
		out[i] = toProduct(t, totalProfit)
	}
	return out
}

func categoryContribution(categories []totals, totalProfit float64) []CategoryProfit {
	sorted := byProfitDesc(categories)
	out := make([]CategoryProfit, len(sorted))
	for i, t := range sorted {
		out[i] = CategoryProfit{
			Category:        t.name,
			Revenue:         common.Round(t.revenue, 2),
			Profit:          common.Round(t.profit, 2),
			Units:           t.units,
			ContributionPct: common.Round(common.SafeDiv(t.profit, totalProfit, 0)*100, 2),
			MarginPct:       t.margin(),
		}
	}
	return out
}

func marginStatus(margin float64) string {
	switch {
	case margin < 5:
		return MarginCritical
	case margin < 10:
		return MarginLow
	case margin < 25:
		return MarginHealthy
	default:
		return MarginExcellent
	}
}

func toMarginEntry(t totals) MarginEntry {
	m := t.margin()
	return MarginEntry{
		Product:   t.name,
		Revenue:   common.Round(t.revenue, 2),
		Profit:    common.Round(t.profit, 2),
		MarginPct: m,
		Status:    marginStatus(m),
	}
}

func marginAnalysis(products []totals) []MarginEntry {
	entries := make([]MarginEntry, len(products))
	for i, t := range products {
		entries[i] = toMarginEntry(t)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].MarginPct < entries[j].MarginPct })
	return limit(entries, marginLimit)
}

// median is the 0.5 quantile with linear interpolation between neighbours
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := 0.5 * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	return sorted[lower] + (sorted[upper]-sorted[lower])*(pos-float64(lower))
}

// hiddenLossMakers finds products in the top half by revenue whose margin is
// under 15%, highest revenue first
func hiddenLossMakers(products []totals) []MarginEntry {
	revenues := make([]float64, len(products))
	for i, t := range products {
		revenues[i] = t.revenue
	}
	threshold := median(revenues)

	var hidden []MarginEntry
	for _, t := range products {
		entry := toMarginEntry(t)
		if t.revenue >= threshold && entry.MarginPct < hiddenMarginBelow {
			hidden = append(hidden, entry)
		}
	}
	sort.SliceStable(hidden, func(i, j int) bool { return hidden[i].Revenue > hidden[j].Revenue })
	return hidden
}

func efficiencyLabel(score float64) string {
	switch {
	case score >= 70:
		return EfficiencyHigh
	case score >= 40:
		return EfficiencyMedium
	default:
		return EfficiencyLow
	}
}

// efficiency scores profit per unit against the best category. Categories
// with no units score 0 per unit.
func efficiency(categories []totals) []Efficiency {
	out := make([]Efficiency, len(categories))
	best := 0.0
	for i, t := range categories {
		perUnit := common.Round(common.SafeDiv(t.profit, float64(t.units), 0), 2)
		if i == 0 || perUnit > best {
			best = perUnit
		}
		out[i] = Efficiency{
			Category:      t.name,
			Revenue:       common.Round(t.revenue, 2),
			Profit:        common.Round(t.profit, 2),
			Units:         t.units,
			ProfitPerUnit: perUnit,
		}
	}

	for i := range out {
		score := 0.0
		if best > 0 {
			score = common.Round(out[i].ProfitPerUnit/best*100, 2)
		}
		out[i].Score = score
		out[i].Label = efficiencyLabel(score)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func health(products []totals, totalRevenue, totalProfit float64) Health {
	h := Health{
		TotalRevenue:  common.Round(totalRevenue, 2),
		TotalProfit:   common.Round(totalProfit, 2),
		OverallMargin: common.Round(common.SafeDiv(totalProfit, totalRevenue, 0)*100, 2),
	}
	if totalRevenue <= 0 {
		h.OverallMargin = 0
	}
	for _, t := range products {
		if t.profit > 0 {
			h.ProfitableProducts++
		} else {
			h.LossMakingProducts++
		}
	}
	return h
}

func insights(r *Report) []Insight {
	var out []Insight

	margin := r.Health.OverallMargin
	switch {
	case margin < criticalMarginLine:
		out = append(out, Insight{
			Type:    InsightCritical,
			Message: fmt.Sprintf("Overall profit margin is critically low at %.2f%%. Immediate cost review required.", margin),
		})
	case margin < benchmarkMargin:
		out = append(out, Insight{
			Type:    InsightWarning,
			Message: fmt.Sprintf("Profit margin at %.2f%% is below healthy retail benchmark of 20%%. Review pricing.", margin),
		})
	default:
		out = append(out, Insight{
			Type:    InsightPositive,
			Message: fmt.Sprintf("Profit margin at %.2f%% is healthy. Focus on scaling top performers.", margin),
		})
	}

	if n := r.Health.LossMakingProducts; n > 0 {
		out = append(out, Insight{
			Type:    InsightWarning,
			Message: fmt.Sprintf("%d product(s) are loss-making. Consider discontinuing or repricing.", n),
		})
	}

	if len(r.HiddenLossMakers) > 0 {
		names := make([]string, 0, hiddenNameLimit)
		for _, h := range limit(r.HiddenLossMakers, hiddenNameLimit) {
			names = append(names, h.Product)
		}
		out = append(out, Insight{
			Type:    InsightWarning,
			Message: fmt.Sprintf("Hidden margin risk detected in: %s. High revenue but low profit.", strings.Join(names, ", ")),
		})
	}

	if len(r.TopProfitDrivers) > 0 {
		out = append(out, Insight{
			Type:    InsightPositive,
			Message: fmt.Sprintf("'%s' is your strongest profit driver. Prioritize its availability and promotion.", r.TopProfitDrivers[0].Product),
		})
	}

	return out
}
