package ingest

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bizpulse/internal/models"
)

// Headline is one row of a headline export before classification
type Headline struct {
	Headline    string
	Source      string
	URL         string
	PublishedAt time.Time // Zero when the row has no usable timestamp
}

// Loader reads CSV exports. Rows that fail to parse are skipped and counted.
type Loader struct {
	logger arbor.ILogger
}

// NewLoader creates a loader that logs skipped rows
func NewLoader(logger arbor.ILogger) *Loader {
	return &Loader{logger: logger}
}

// open runs read against a file, wrapping errors with the path
func open[T any](path string, read func(io.Reader) ([]T, Stats, error)) ([]T, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	out, stats, err := read(f)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return out, stats, nil
}

func (l *Loader) skip(kind string, line int, err error) {
	l.logger.Debug().
		Str("kind", kind).
		Int("line", line).
		Err(err).
		Msg("Skipping row")
}

func (l *Loader) done(kind string, stats Stats) {
	event := l.logger.Info()
	if stats.Skipped > 0 {
		event = l.logger.Warn()
	}
	event.
		Str("kind", kind).
		Int("rows", stats.Rows).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped).
		Msg("Export loaded")
}

// LoadSalesFile reads a sales export from disk
func (l *Loader) LoadSalesFile(path string) ([]models.SaleRecord, Stats, error) {
	return open(path, l.LoadSales)
}

// LoadSales reads sales rows. Region and store_id are optional.
func (l *Loader) LoadSales(r io.Reader) ([]models.SaleRecord, Stats, error) {
	t, err := readTable(r, SalesColumns)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: len(t.rows)}
	out := make([]models.SaleRecord, 0, len(t.rows))
	for i, row := range t.rows {
		rec, err := parseSale(t, row)
		if err != nil {
			stats.Skipped++
			l.skip("sales", i+2, err)
			continue
		}
		out = append(out, rec)
	}
	stats.Loaded = len(out)

	l.done("sales", stats)
	return out, stats, nil
}

func parseSale(t *table, row []string) (models.SaleRecord, error) {
	rec := models.SaleRecord{
		ProductName: t.get(row, "product_name"),
		Category:    t.get(row, "category"),
		Region:      t.get(row, "region"),
		StoreID:     t.get(row, "store_id"),
	}

	var err error
	if rec.Date, err = parseDate(t.get(row, "date")); err != nil {
		return rec, err
	}
	if rec.QuantitySold, err = parseCount(t.get(row, "quantity_sold")); err != nil {
		return rec, fmt.Errorf("quantity_sold: %w", err)
	}

	money := []struct {
		col string
		dst *float64
	}{
		{"unit_price", &rec.UnitPrice},
		{"total_revenue", &rec.TotalRevenue},
		{"cost_price", &rec.CostPrice},
		{"gross_profit", &rec.GrossProfit},
	}
	for _, m := range money {
		if *m.dst, err = parseNumber(t.get(row, m.col)); err != nil {
			return rec, fmt.Errorf("%s: %w", m.col, err)
		}
	}

	return rec, nil
}

// LoadInventoryFile reads an inventory export from disk
func (l *Loader) LoadInventoryFile(path string) ([]models.InventoryItem, Stats, error) {
	return open(path, l.LoadInventory)
}

// LoadInventory reads inventory rows
func (l *Loader) LoadInventory(r io.Reader) ([]models.InventoryItem, Stats, error) {
	t, err := readTable(r, InventoryColumns)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: len(t.rows)}
	out := make([]models.InventoryItem, 0, len(t.rows))
	for i, row := range t.rows {
		item := models.InventoryItem{
			ProductName: t.get(row, "product_name"),
			Category:    t.get(row, "category"),
			SKU:         t.get(row, "sku"),
		}

		var perr error
		if item.CurrentStock, perr = parseCount(t.get(row, "current_stock")); perr == nil {
			if item.ReorderLevel, perr = parseCount(t.get(row, "reorder_level")); perr == nil {
				item.UnitCost, perr = parseNumber(t.get(row, "unit_cost"))
			}
		}
		if perr != nil {
			stats.Skipped++
			l.skip("inventory", i+2, perr)
			continue
		}
		out = append(out, item)
	}
	stats.Loaded = len(out)

	l.done("inventory", stats)
	return out, stats, nil
}

// LoadExpensesFile reads an expense export from disk
func (l *Loader) LoadExpensesFile(path string) ([]models.Expense, Stats, error) {
	return open(path, l.LoadExpenses)
}

// LoadExpenses reads expense rows. Department is optional.
func (l *Loader) LoadExpenses(r io.Reader) ([]models.Expense, Stats, error) {
	t, err := readTable(r, ExpenseColumns)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: len(t.rows)}
	out := make([]models.Expense, 0, len(t.rows))
	for i, row := range t.rows {
		e := models.Expense{
			Category:   t.get(row, "category"),
			Department: t.get(row, "department"),
		}

		var perr error
		if e.Date, perr = parseDate(t.get(row, "date")); perr == nil {
			e.Amount, perr = parseNumber(t.get(row, "amount"))
		}
		if perr != nil {
			stats.Skipped++
			l.skip("expenses", i+2, perr)
			continue
		}
		out = append(out, e)
	}
	stats.Loaded = len(out)

	l.done("expenses", stats)
	return out, stats, nil
}

// LoadEmployeesFile reads an employee export from disk
func (l *Loader) LoadEmployeesFile(path string) ([]models.Employee, Stats, error) {
	return open(path, l.LoadEmployees)
}

// LoadEmployees reads employee rows. Sales_target, sales_achieved,
// attendance_percent, joining_date and is_active are optional; a blank
// is_active counts as active.
func (l *Loader) LoadEmployees(r io.Reader) ([]models.Employee, Stats, error) {
	t, err := readTable(r, EmployeeColumns)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: len(t.rows)}
	out := make([]models.Employee, 0, len(t.rows))
	for i, row := range t.rows {
		e, perr := parseEmployee(t, row)
		if perr != nil {
			stats.Skipped++
			l.skip("employees", i+2, perr)
			continue
		}
		out = append(out, e)
	}
	stats.Loaded = len(out)

	l.done("employees", stats)
	return out, stats, nil
}

func parseEmployee(t *table, row []string) (models.Employee, error) {
	e := models.Employee{
		EmployeeCode: t.get(row, "employee_code"),
		FullName:     t.get(row, "full_name"),
		Department:   t.get(row, "department"),
		Designation:  t.get(row, "designation"),
	}
	if e.EmployeeCode == "" {
		return e, fmt.Errorf("blank employee_code")
	}

	var err error
	if e.Salary, err = parseNumber(t.get(row, "salary")); err != nil {
		return e, fmt.Errorf("salary: %w", err)
	}

	optional := []struct {
		col string
		dst **float64
	}{
		{"sales_target", &e.SalesTarget},
		{"sales_achieved", &e.SalesAchieved},
		{"attendance_percent", &e.AttendancePercent},
	}
	for _, o := range optional {
		if *o.dst, err = parseOptionalNumber(t.get(row, o.col)); err != nil {
			return e, fmt.Errorf("%s: %w", o.col, err)
		}
	}

	if e.IsActive, err = parseActive(t.get(row, "is_active")); err != nil {
		return e, err
	}
	if raw := t.get(row, "joining_date"); raw != "" {
		if ts, perr := parseDate(raw); perr == nil {
			e.JoiningDate = ts
		}
	}
	return e, nil
}

// LoadHeadlinesFile reads a headline export from disk
func (l *Loader) LoadHeadlinesFile(path string) ([]Headline, Stats, error) {
	return open(path, l.LoadHeadlines)
}

// LoadHeadlines reads headline rows. Source, url and published_at are
// optional; an unparseable published_at leaves the time zero and a blank
// headline skips the row.
func (l *Loader) LoadHeadlines(r io.Reader) ([]Headline, Stats, error) {
	t, err := readTable(r, HeadlineColumns)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: len(t.rows)}
	out := make([]Headline, 0, len(t.rows))
	for i, row := range t.rows {
		h := Headline{
			Headline: t.get(row, "headline"),
			Source:   t.get(row, "source"),
			URL:      t.get(row, "url"),
		}
		if h.Headline == "" {
			stats.Skipped++
			l.skip("headlines", i+2, fmt.Errorf("blank headline"))
			continue
		}
		if raw := t.get(row, "published_at"); raw != "" {
			if ts, perr := parseDate(raw); perr == nil {
				h.PublishedAt = ts
			}
		}
		out = append(out, h)
	}
	stats.Loaded = len(out)

	l.done("headlines", stats)
	return out, stats, nil
}
