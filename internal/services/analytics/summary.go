// Package analytics rolls raw sales, inventory, expense and employee rows up into the
// BusinessSummary consumed by risk and simulation.
package analytics

import (
	"sort"
	"strings"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

const topProductLimit = 5

// BuildSummary computes the business snapshot. Any of the inputs may be empty.
// Rows with non-finite money values count as 0.
func BuildSummary(sales []models.SaleRecord, inventory []models.InventoryItem, expenses []models.Expense, employees []models.Employee) *models.BusinessSummary {
	summary := &models.BusinessSummary{
		TopProducts:         topProducts(sales),
		CategoryPerformance: categoryPerformance(sales),
		MonthlyTrend:        monthlyTrend(sales),
		LowStockAlerts:      lowStock(inventory),
		ExpenseBreakdown:    expenseBreakdown(expenses),
		EmployeeKPIs:        employeeKPIs(employees),
		TotalProducts:       productCount(inventory, sales),
	}

	fin := &summary.Financials
	for _, s := range sales {
		fin.TotalRevenue += finite(s.TotalRevenue)
		fin.TotalGrossProfit += finite(s.GrossProfit)
		fin.TotalUnitsSold += s.QuantitySold
	}
	for _, e := range expenses {
		fin.TotalExpenses += finite(e.Amount)
	}
	fin.TotalTransactions = len(sales)
	fin.NetProfit = common.Round(fin.TotalGrossProfit-fin.TotalExpenses, 2)
	fin.ProfitMargin = common.Round(common.SafeDiv(fin.TotalGrossProfit, fin.TotalRevenue, 0)*100, 2)
	fin.TotalRevenue = common.Round(fin.TotalRevenue, 2)
	fin.TotalGrossProfit = common.Round(fin.TotalGrossProfit, 2)
	fin.TotalExpenses = common.Round(fin.TotalExpenses, 2)

	return summary
}

func finite(v float64) float64 {
	if common.IsFinite(v) {
		return v
	}
	return 0
}

func topProducts(sales []models.SaleRecord) []models.ProductSales {
	index := make(map[string]int)
	var out []models.ProductSales
	for _, s := range sales {
		i, ok := index[s.ProductName]
		if !ok {
			i = len(out)
			index[s.ProductName] = i
			out = append(out, models.ProductSales{Product: s.ProductName})
		}
		out[i].Revenue += finite(s.TotalRevenue)
		out[i].Units += s.QuantitySold
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	if len(out) > topProductLimit {
		out = out[:topProductLimit]
	}
	for i := range out {
		out[i].Revenue = common.Round(out[i].Revenue, 2)
	}
	return out
}

func categoryPerformance(sales []models.SaleRecord) []models.CategorySales {
	index := make(map[string]int)
	var out []models.CategorySales
	for _, s := range sales {
		i, ok := index[s.Category]
		if !ok {
			i = len(out)
			index[s.Category] = i
			out = append(out, models.CategorySales{Category: s.Category})
		}
		out[i].Revenue += finite(s.TotalRevenue)
		out[i].Profit += finite(s.GrossProfit)
		out[i].Units += s.QuantitySold
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	for i := range out {
		out[i].Revenue = common.Round(out[i].Revenue, 2)
		out[i].Profit = common.Round(out[i].Profit, 2)
	}
	return out
}

// monthlyTrend groups by calendar month, oldest first. Undated rows are skipped.
func monthlyTrend(sales []models.SaleRecord) []models.PeriodTotals {
	byMonth := make(map[string]*models.PeriodTotals)
	for _, s := range sales {
		if s.Date.IsZero() {
			continue
		}
		period := s.Date.Format("2006-01")
		p, ok := byMonth[period]
		if !ok {
			p = &models.PeriodTotals{Period: period}
			byMonth[period] = p
		}
		p.Revenue += finite(s.TotalRevenue)
		p.Profit += finite(s.GrossProfit)
	}

	out := make([]models.PeriodTotals, 0, len(byMonth))
	for _, p := range byMonth {
		out = append(out, models.PeriodTotals{
			Period:  p.Period,
			Revenue: common.Round(p.Revenue, 2),
			Profit:  common.Round(p.Profit, 2),
		})
	}
	// YYYY-MM sorts chronologically as a string
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func lowStock(inventory []models.InventoryItem) []models.LowStockAlert {
	var out []models.LowStockAlert
	for _, item := range inventory {
		if item.CurrentStock <= item.ReorderLevel {
			out = append(out, models.LowStockAlert{
				Product:      item.ProductName,
				SKU:          item.SKU,
				CurrentStock: item.CurrentStock,
				ReorderLevel: item.ReorderLevel,
			})
		}
	}
	return out
}

func expenseBreakdown(expenses []models.Expense) []models.ExpenseByCategory {
	index := make(map[string]int)
	var out []models.ExpenseByCategory
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, models.ExpenseByCategory{Category: e.Category})
		}
		out[i].Total += finite(e.Amount)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	for i := range out {
		out[i].Total = common.Round(out[i].Total, 2)
	}
	return out
}

// productCount counts distinct inventory SKUs, falling back to distinct
// product names across inventory and sales
func productCount(inventory []models.InventoryItem, sales []models.SaleRecord) int {
	skus := make(map[string]struct{})
	for _, item := range inventory {
		if sku := strings.TrimSpace(item.SKU); sku != "" {
			skus[sku] = struct{}{}
		}
	}
	if len(skus) > 0 {
		return len(skus)
	}

	names := make(map[string]struct{})
	for _, item := range inventory {
		if name := strings.TrimSpace(item.ProductName); name != "" {
			names[name] = struct{}{}
		}
	}
	for _, s := range sales {
		if name := strings.TrimSpace(s.ProductName); name != "" {
			names[name] = struct{}{}
		}
	}
	return len(names)
}

// employeeKPIs groups active employees by department, sorted by department.
// A repeated employee code keeps its last row. Averages skip employees without
// the value, and target achievement skips zero targets.
func employeeKPIs(employees []models.Employee) []models.DepartmentKPI {
	latest := make([]models.Employee, 0, len(employees))
	byCode := make(map[string]int)
	for _, e := range employees {
		code := strings.TrimSpace(e.EmployeeCode)
		if i, ok := byCode[code]; ok && code != "" {
			latest[i] = e
			continue
		}
		if code != "" {
			byCode[code] = len(latest)
		}
		latest = append(latest, e)
	}

	type acc struct {
		kpi                  models.DepartmentKPI
		attendance, achieved float64
		attendanceN, targetN int
	}
	depts := make(map[string]*acc)
	for _, e := range latest {
		if !e.IsActive {
			continue
		}
		a, ok := depts[e.Department]
		if !ok {
			a = &acc{kpi: models.DepartmentKPI{Department: e.Department}}
			depts[e.Department] = a
		}
		a.kpi.Headcount++
		a.kpi.TotalSalary += finite(e.Salary)
		if e.AttendancePercent != nil && common.IsFinite(*e.AttendancePercent) {
			a.attendance += *e.AttendancePercent
			a.attendanceN++
		}
		if e.SalesTarget != nil && e.SalesAchieved != nil && *e.SalesTarget != 0 {
			if pct := *e.SalesAchieved / *e.SalesTarget * 100; common.IsFinite(pct) {
				a.achieved += pct
				a.targetN++
			}
		}
	}

	out := make([]models.DepartmentKPI, 0, len(depts))
	for _, a := range depts {
		kpi := a.kpi
		kpi.TotalSalary = common.Round(kpi.TotalSalary, 2)
		kpi.AvgAttendance = common.Round(common.SafeDiv(a.attendance, float64(a.attendanceN), 0), 2)
		kpi.AvgTargetAchievement = common.Round(common.SafeDiv(a.achieved, float64(a.targetN), 0), 2)
		out = append(out, kpi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}
