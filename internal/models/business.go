package models

import "time"

// SaleRecord is one line of a sales export
type SaleRecord struct {
	Date         time.Time `json:"date"`
	ProductName  string    `json:"product_name"`
	Category     string    `json:"category"`
	QuantitySold int       `json:"quantity_sold"`
	UnitPrice    float64   `json:"unit_price"`
	TotalRevenue float64   `json:"total_revenue"`
	CostPrice    float64   `json:"cost_price"`
	GrossProfit  float64   `json:"gross_profit"`
	Region       string    `json:"region,omitempty"`
	StoreID      string    `json:"store_id,omitempty"`
}

// InventoryItem is one line of an inventory export
type InventoryItem struct {
	ProductName  string  `json:"product_name"`
	Category     string  `json:"category"`
	SKU          string  `json:"sku"`
	CurrentStock int     `json:"current_stock"`
	ReorderLevel int     `json:"reorder_level"`
	UnitCost     float64 `json:"unit_cost"`
}

// Expense is one line of an expense export
type Expense struct {
	Date       time.Time `json:"date"`
	Category   string    `json:"category"`
	Amount     float64   `json:"amount"`
	Department string    `json:"department,omitempty"`
}

// Employee is one line of an employee export. Optional numeric columns are nil
// when absent.
type Employee struct {
	EmployeeCode      string    `json:"employee_code"`
	FullName          string    `json:"full_name"`
	Department        string    `json:"department"`
	Designation       string    `json:"designation"`
	Salary            float64   `json:"salary"`
	SalesTarget       *float64  `json:"sales_target,omitempty"`
	SalesAchieved     *float64  `json:"sales_achieved,omitempty"`
	AttendancePercent *float64  `json:"attendance_percent,omitempty"`
	JoiningDate       time.Time `json:"joining_date"`
	IsActive          bool      `json:"is_active"`
}

// BusinessSummary is the internal analytics snapshot consumed by the risk composer
// and used as the simulation baseline.
type BusinessSummary struct {
	Financials          Financials          `json:"financials"`
	TopProducts         []ProductSales      `json:"top_products"`
	CategoryPerformance []CategorySales     `json:"category_performance"`
	MonthlyTrend        []PeriodTotals      `json:"monthly_trend"` // Chronological
	LowStockAlerts      []LowStockAlert     `json:"low_stock_alerts"`
	ExpenseBreakdown    []ExpenseByCategory `json:"expense_breakdown"`
	EmployeeKPIs        []DepartmentKPI     `json:"employee_kpis"` // Active employees only
	TotalProducts       int                 `json:"total_products"`
}

// Financials holds the headline totals of a BusinessSummary
type Financials struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalGrossProfit  float64 `json:"total_gross_profit"`
	TotalExpenses     float64 `json:"total_expenses"`
	NetProfit         float64 `json:"net_profit"` // Gross profit minus expenses
	ProfitMargin      float64 `json:"profit_margin_percent"`
	TotalUnitsSold    int     `json:"total_units_sold"`
	TotalTransactions int     `json:"total_transactions"`
}

type ProductSales struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
	Units   int     `json:"units"`
}

type CategorySales struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Profit   float64 `json:"profit"`
	Units    int     `json:"units"`
}

type PeriodTotals struct {
	Period  string  `json:"period"` // YYYY-MM
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

type LowStockAlert struct {
	Product      string `json:"product"`
	SKU          string `json:"sku"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
}

type ExpenseByCategory struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// DepartmentKPI rolls active employees up by department
type DepartmentKPI struct {
	Department           string  `json:"department"`
	Headcount            int     `json:"headcount"`
	TotalSalary          float64 `json:"total_salary"`
	AvgAttendance        float64 `json:"avg_attendance"`         // Over employees with attendance recorded
	AvgTargetAchievement float64 `json:"avg_target_achievement"` // achieved/target×100, over employees with a non-zero target
}
