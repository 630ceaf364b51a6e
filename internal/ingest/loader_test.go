package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bizpulse/internal/services/simulation"
)

func newTestLoader() *Loader {
	return NewLoader(arbor.NewLogger())
}

func TestLoadSales(t *testing.T) {
	input := strings.Join([]string{
		"Date,Product Name,Category,Quantity Sold,Unit Price,Total Revenue,Cost Price,Gross Profit,Region",
		"2025-01-05,Rice,Grocery,10,50,500,40,100,North",
		"2025-01-06,Tea,Beverage,4,50,\"1,200\",30,80,",
		"not-a-date,Soap,Home,1,10,10,8,2,",
		"2025-01-07,Salt,Grocery,abc,1,1,1,0,",
		",,,,,,,,",
	}, "\n")

	sales, stats, err := newTestLoader().LoadSales(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, Stats{Rows: 4, Loaded: 2, Skipped: 2}, stats)
	require.Len(t, sales, 2)

	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), sales[0].Date)
	assert.Equal(t, "Rice", sales[0].ProductName)
	assert.Equal(t, 10, sales[0].QuantitySold)
	assert.Equal(t, 500.0, sales[0].TotalRevenue)
	assert.Equal(t, 100.0, sales[0].GrossProfit)
	assert.Equal(t, "North", sales[0].Region)

	assert.Equal(t, 1200.0, sales[1].TotalRevenue)
	assert.Empty(t, sales[1].Region)
}

func TestLoadSales_MissingColumns(t *testing.T) {
	_, _, err := newTestLoader().LoadSales(strings.NewReader("date,product_name\n2025-01-01,Rice\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
	assert.Contains(t, err.Error(), "category")
	assert.Contains(t, err.Error(), "gross_profit")
}

func TestLoadSales_NoRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"header only", strings.Join(SalesColumns, ",") + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := newTestLoader().LoadSales(strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, ErrNoRows))
		})
	}
}

func TestLoadInventory(t *testing.T) {
	input := "product_name,category,sku,current_stock,reorder_level,unit_cost\n" +
		"Rice,Grocery,R-1,5,10,40\n" +
		"Tea,Beverage,T-1,many,10,30\n"

	items, stats, err := newTestLoader().LoadInventory(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, Stats{Rows: 2, Loaded: 1, Skipped: 1}, stats)
	require.Len(t, items, 1)
	assert.Equal(t, "R-1", items[0].SKU)
	assert.Equal(t, 5, items[0].CurrentStock)
	assert.Equal(t, 10, items[0].ReorderLevel)
	assert.Equal(t, 40.0, items[0].UnitCost)
}

func TestLoadExpenses(t *testing.T) {
	input := "date,category,amount,department\n" +
		"2025-01-31,Rent,1500.50,Ops\n" +
		"2025-02-28T09:00:00Z,Power,200,\n" +
		"2025-03-31,Rent,,\n"

	expenses, stats, err := newTestLoader().LoadExpenses(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, Stats{Rows: 3, Loaded: 2, Skipped: 1}, stats)
	assert.Equal(t, 1500.5, expenses[0].Amount)
	assert.Equal(t, "Ops", expenses[0].Department)
	assert.Equal(t, time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC), expenses[1].Date)
}

func TestLoadEmployees(t *testing.T) {
	input := strings.Join([]string{
		"Employee Code,Full Name,Department,Designation,Salary,Sales Target,Sales Achieved,Attendance Percent,Is Active,Joining Date",
		"E1,Asha Rao,Sales,Executive,\"30,000\",1000,900,92.5,true,2023-04-01",
		"E2,Ravi Kumar,Ops,Clerk,18000,,,,,",
		"E3,Meera Das,Ops,Lead,22000,,,88,inactive,not-a-date",
		"E4,Bad Salary,Ops,Clerk,lots,,,,,",
		"E5,Bad Target,Sales,Executive,20000,abc,,,,",
		"E6,Bad Flag,Sales,Executive,20000,,,,maybe,",
		",No Code,Sales,Executive,20000,,,,,",
	}, "\n")

	employees, stats, err := newTestLoader().LoadEmployees(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, Stats{Rows: 7, Loaded: 3, Skipped: 4}, stats)
	require.Len(t, employees, 3)

	first := employees[0]
	assert.Equal(t, "E1", first.EmployeeCode)
	assert.Equal(t, "Asha Rao", first.FullName)
	assert.Equal(t, 30000.0, first.Salary)
	require.NotNil(t, first.SalesTarget)
	assert.Equal(t, 1000.0, *first.SalesTarget)
	require.NotNil(t, first.SalesAchieved)
	assert.Equal(t, 900.0, *first.SalesAchieved)
	require.NotNil(t, first.AttendancePercent)
	assert.Equal(t, 92.5, *first.AttendancePercent)
	assert.True(t, first.IsActive)
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), first.JoiningDate)

	blank := employees[1]
	assert.Nil(t, blank.SalesTarget)
	assert.Nil(t, blank.SalesAchieved)
	assert.Nil(t, blank.AttendancePercent)
	assert.True(t, blank.IsActive)

	inactive := employees[2]
	assert.False(t, inactive.IsActive)
	assert.True(t, inactive.JoiningDate.IsZero())
}

func TestLoadEmployees_MissingColumns(t *testing.T) {
	_, _, err := newTestLoader().LoadEmployees(strings.NewReader("employee_code,full_name\nE1,Asha\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
	assert.Contains(t, err.Error(), "salary")
}

func TestParseActive(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{"", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"Active", true, false},
		{"no", false, false},
		{"0", false, false},
		{"inactive", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseActive(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadHeadlines(t *testing.T) {
	input := "headline,source,url,published_at\n" +
		"Fuel prices rise again,Wire,https://example.com/a,2025-03-01T10:00:00Z\n" +
		",Wire,https://example.com/b,2025-03-01\n" +
		"GST council meets,,,\n" +
		"Retail sales slow,Wire,https://example.com/c,yesterday\n"

	headlines, stats, err := newTestLoader().LoadHeadlines(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, Stats{Rows: 4, Loaded: 3, Skipped: 1}, stats)
	assert.Equal(t, "https://example.com/a", headlines[0].URL)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), headlines[0].PublishedAt)
	assert.Empty(t, headlines[1].URL)
	assert.True(t, headlines[2].PublishedAt.IsZero())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expenses.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,category,amount\n2025-01-01,Rent,10\n"), 0644))

	expenses, _, err := newTestLoader().LoadExpensesFile(path)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	_, _, err = newTestLoader().LoadExpensesFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Product Name", "product_name"},
		{"  DATE ", "date"},
		{"\ufeffheadline", "headline"},
		{"gross_profit", "gross_profit"},
	}

	for _, tt := range tests {
		if got := normalizeColumn(tt.in); got != tt.want {
			t.Errorf("normalizeColumn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseScenario(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		want     simulation.Levers
	}{
		{
			name:     "nested levers",
			input:    "name: price_push\nlevers:\n  price_change_percent: 10\n  demand_change_percent: -3.5\n  loyalty_points: 7\n",
			wantName: "price_push",
			want:     simulation.Levers{PriceChangePct: 10, DemandChangePct: -3.5},
		},
		{
			name:  "top level levers",
			input: "cost_change_percent: 5\nnew_product_revenue: \"2500\"\nexpense_reduction_percent: lots\n",
			want:  simulation.Levers{CostChangePct: 5, NewProductRevenue: 2500},
		},
		{
			name:  "empty document",
			input: "",
			want:  simulation.Levers{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScenario([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.want, got.Levers)
		})
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	_, err := ParseScenario([]byte("levers: [unclosed"))
	assert.Error(t, err)
}

func TestLoadScenarioFile_DefaultsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holiday_push.yaml")
	require.NoError(t, os.WriteFile(path, []byte("levers:\n  price_change_percent: 4\n"), 0644))

	scenario, err := LoadScenarioFile(path)
	require.NoError(t, err)
	assert.Equal(t, "holiday_push", scenario.Name)
	assert.Equal(t, 4.0, scenario.Levers.PriceChangePct)
}
