package sabermetrics

import (
	"math"
	"strconv"
)

const (
	absentDisplay    = "-"
	unboundedDisplay = "∞"
)

// FormatStat renders a metric with the given number of decimals
func FormatStat(v *float64, decimals int) string {
	if v == nil {
		return absentDisplay
	}
	if math.IsInf(*v, 1) {
		return unboundedDisplay
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

// FormatAvg renders rate stats such as AVG and OPS with three decimals
func FormatAvg(v *float64) string {
	return FormatStat(v, 3)
}

// FormatERA renders per-nine stats with two decimals
func FormatERA(v *float64) string {
	return FormatStat(v, 2)
}

// FormatPercentage renders a fraction as a percentage with one decimal
func FormatPercentage(v *float64) string {
	if v == nil {
		return absentDisplay
	}
	pct := *v * 100
	return FormatStat(&pct, 1) + "%"
}
