package common

import (
	"github.com/google/uuid"
)

// Record ID prefixes, one per stored record type
const (
	NewsIDPrefix       = "news_"
	ForecastIDPrefix   = "fc_"
	SimulationIDPrefix = "sim_"
	SnapshotIDPrefix   = "risk_"
)

// NewRecordID generates a unique record ID with the given prefix
// Format: <prefix><uuid>
func NewRecordID(prefix string) string {
	return prefix + uuid.New().String()
}
