package engine

import "math"

// reliabilityBands is an ordered threshold table mapping an on-time
// delivery fraction to a safety-stock inflation factor. Bands are
// checked top-down, so the table must stay sorted by descending floor.
var reliabilityBands = []struct {
	floor      float64
	multiplier float64
}{
	{0.95, 1.0},
	{0.80, 1.2},
	{0.60, 1.5},
	{0.00, 1.8},
}

// ReliabilityMultiplier penalizes inventory buffers for unreliable
// sources. Fractions outside [0, 1.01] are treated as missing data and
// get the neutral multiplier.
func ReliabilityMultiplier(onTimeRate float64) float64 {
	if onTimeRate < 0 || onTimeRate > 1.01 {
		return 1.0
	}
	for _, band := range reliabilityBands {
		if onTimeRate >= band.floor {
			return band.multiplier
		}
	}
	return 1.0
}

// clusterMultipliers scales safety stock per store volume tier:
// tier 0 (high-volume) buffers more, tier 2 (low-volume) runs leaner.
var clusterMultipliers = []float64{1.15, 1.00, 0.85}

// ClusterMultiplier returns the safety-stock scale for a cluster tier.
// Unknown tiers get the baseline 1.0.
func ClusterMultiplier(tier int) float64 {
	if tier < 0 || tier >= len(clusterMultipliers) {
		return 1.0
	}
	return clusterMultipliers[tier]
}

// zScoreTable holds standard-normal quantiles keyed by service level,
// sorted ascending by level.
var zScoreTable = []struct {
	level float64
	z     float64
}{
	{0.90, 1.282},
	{0.95, 1.645},
	{0.975, 1.960},
	{0.99, 2.326},
}

// ZScore resolves a target service level to the closest tabulated
// quantile. Ties break toward the lower level.
func ZScore(serviceLevel float64) float64 {
	// The table is ascending, so only a strictly better distance moves
	// the pick upward. The epsilon keeps decimal ties (0.925 between
	// 0.90 and 0.95) on the lower entry despite float64 rounding.
	const eps = 1e-9
	best := zScoreTable[0]
	bestDiff := math.Abs(serviceLevel - best.level)
	for _, entry := range zScoreTable[1:] {
		diff := math.Abs(serviceLevel - entry.level)
		if diff < bestDiff-eps {
			best = entry
			bestDiff = diff
		}
	}
	return best.z
}
