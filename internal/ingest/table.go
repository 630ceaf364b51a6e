// Package ingest reads the sales, inventory, expense, employee and headline
// exports, news feeds and the scenario lever files the pipeline runs on.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Required columns per export
var (
	SalesColumns     = []string{"date", "product_name", "category", "quantity_sold", "unit_price", "total_revenue", "cost_price", "gross_profit"}
	InventoryColumns = []string{"product_name", "category", "sku", "current_stock", "reorder_level", "unit_cost"}
	ExpenseColumns   = []string{"date", "category", "amount"}
	HeadlineColumns  = []string{"headline"}
	EmployeeColumns  = []string{"employee_code", "full_name", "department", "designation", "salary"}
)

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoRows         = errors.New("file contains no data rows")
)

// Stats counts what a loader did with the rows it read
type Stats struct {
	Rows    int `json:"rows"`
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// table is a CSV file with a normalised header
type table struct {
	columns map[string]int
	rows    [][]string
}

// normalizeColumn lowercases a header and replaces spaces with underscores
func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// readTable parses CSV input and checks the required columns are present
func readTable(r io.Reader, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := &table{columns: make(map[string]int, len(header))}
	for i, name := range header {
		col := normalizeColumn(name)
		if _, exists := t.columns[col]; !exists {
			t.columns[col] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	for _, row := range rows {
		if !blankRow(row) {
			t.rows = append(t.rows, row)
		}
	}
	if len(t.rows) == 0 {
		return nil, ErrNoRows
	}

	return t, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// get returns the trimmed value of a column, or "" when absent
func (t *table) get(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseNumber(value string) (float64, error) {
	value = strings.ReplaceAll(value, ",", "")
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", value)
	}
	return f, nil
}

func parseCount(value string) (int, error) {
	f, err := parseNumber(value)
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

// parseOptionalNumber returns nil for a blank value
func parseOptionalNumber(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := parseNumber(value)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// parseActive reads an activity flag; blank means active
func parseActive(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "", "true", "1", "yes", "y", "active":
		return true, nil
	case "false", "0", "no", "n", "inactive":
		return false, nil
	}
	return false, fmt.Errorf("invalid active flag %q", value)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// parseDate accepts ISO dates and timestamps, returning UTC
func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
}
