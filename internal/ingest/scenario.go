package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/bizpulse/internal/services/simulation"
)

// Scenario is a named set of levers read from a YAML file
type Scenario struct {
	Name   string
	Levers simulation.Levers
}

// ParseScenario decodes lever YAML. Levers may sit under a "levers" key or at
// the top level. Unknown keys are ignored and non-numeric values count as 0.
//
//	name: price_push
//	levers:
//	  price_change_percent: 10
//	  demand_change_percent: -3
func ParseScenario(data []byte) (*Scenario, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse levers: %w", err)
	}

	params := doc
	if nested, ok := doc["levers"].(map[string]any); ok {
		params = nested
	}

	scenario := &Scenario{Levers: simulation.ParseLevers(params)}
	if name, ok := doc["name"].(string); ok {
		scenario.Name = strings.TrimSpace(name)
	}
	return scenario, nil
}

// LoadScenarioFile reads a lever file. The scenario name defaults to the file
// name without its extension.
func LoadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read levers file %s: %w", path, err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if scenario.Name == "" {
		base := filepath.Base(path)
		scenario.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return scenario, nil
}
