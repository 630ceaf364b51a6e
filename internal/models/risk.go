package models

// RiskLevel is the four-step band shared by market stress and the risk index
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// LevelFor maps a [0,1] score onto a RiskLevel.
// Boundaries belong to the upper band: 0.25 is Moderate, 0.75 is Critical.
func LevelFor(score float64) RiskLevel {
	switch {
	case score < 0.25:
		return RiskLow
	case score < 0.5:
		return RiskModerate
	case score < 0.75:
		return RiskHigh
	default:
		return RiskCritical
	}
}
