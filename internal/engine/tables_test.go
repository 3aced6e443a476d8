package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReliabilityMultiplier(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want float64
	}{
		{"perfect", 1.0, 1.0},
		{"top band floor", 0.95, 1.0},
		{"top band interior", 0.97, 1.0},
		{"top band ceiling", 1.01, 1.0},
		{"second band ceiling", 0.949, 1.2},
		{"second band floor", 0.80, 1.2},
		{"third band ceiling", 0.799, 1.5},
		{"third band floor", 0.60, 1.5},
		{"bottom band ceiling", 0.599, 1.8},
		{"bottom band floor", 0.0, 1.8},
		{"negative defaults", -0.1, 1.0},
		{"above domain defaults", 1.02, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReliabilityMultiplier(tt.rate))
		})
	}
}

func TestReliabilityMultiplier_NonIncreasing(t *testing.T) {
	prev := ReliabilityMultiplier(0)
	for rate := 0.01; rate <= 1.01; rate += 0.01 {
		cur := ReliabilityMultiplier(rate)
		assert.LessOrEqual(t, cur, prev, "multiplier must not grow as reliability improves (rate=%f)", rate)
		prev = cur
	}
}

func TestClusterMultiplier(t *testing.T) {
	assert.Equal(t, 1.15, ClusterMultiplier(0))
	assert.Equal(t, 1.00, ClusterMultiplier(1))
	assert.Equal(t, 0.85, ClusterMultiplier(2))
	assert.Equal(t, 1.00, ClusterMultiplier(3))
	assert.Equal(t, 1.00, ClusterMultiplier(-1))
}

func TestZScore(t *testing.T) {
	tests := []struct {
		name  string
		level float64
		want  float64
	}{
		{"p90", 0.90, 1.282},
		{"p95", 0.95, 1.645},
		{"p97.5", 0.975, 1.960},
		{"p99", 0.99, 2.326},
		{"unlisted resolves to nearest", 0.94, 1.645},
		{"tie breaks toward lower key", 0.925, 1.282},
		{"upper tie also breaks low", 0.9625, 1.645},
		{"above table clamps to top", 0.999, 2.326},
		{"below table clamps to bottom", 0.5, 1.282},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ZScore(tt.level))
		})
	}
}
