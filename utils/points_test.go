package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConfidenceBands(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		resolution VerdictResolution
		fraction   float64
	}{
		{"full award at top band", 0.82, ResolutionCompleted, 1.00},
		{"full award at boundary", 0.75, ResolutionCompleted, 1.00},
		{"80 percent band", 0.68, ResolutionCompleted, 0.80},
		{"80 percent lower boundary", 0.65, ResolutionCompleted, 0.80},
		{"60 percent band", 0.55, ResolutionCompleted, 0.60},
		{"60 percent lower boundary", 0.50, ResolutionCompleted, 0.60},
		{"needs review band", 0.40, ResolutionNeedsReview, 0},
		{"needs review lower boundary", 0.30, ResolutionNeedsReview, 0},
		{"rejected", 0.10, ResolutionRejected, 0},
		{"rejected just below review band", 0.29, ResolutionRejected, 0},
		{"zero confidence", 0.0, ResolutionRejected, 0},
		{"perfect confidence", 1.0, ResolutionCompleted, 1.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolution, fraction := ResolveConfidence(tt.confidence)
			assert.Equal(t, tt.resolution, resolution)
			assert.Equal(t, tt.fraction, fraction)
		})
	}
}

func TestAwardPoints(t *testing.T) {
	tests := []struct {
		confidence float64
		available  int
		points     int
	}{
		{0.82, 50, 50},
		{0.68, 50, 40},
		{0.40, 50, 0},
		{0.10, 50, 0},
		{0.55, 50, 30},
		{0.55, 33, 19}, // floor(0.6 * 33) = floor(19.8)
		{0.68, 33, 26}, // floor(0.8 * 33) = floor(26.4)
	}

	for _, tt := range tests {
		_, points := AwardPoints(tt.confidence, tt.available)
		assert.Equal(t, tt.points, points, "confidence %.2f on %d points", tt.confidence, tt.available)
	}
}

// Within the completed bands, a higher confidence never earns fewer points.
func TestAwardPointsMonotonic(t *testing.T) {
	const available = 137

	prev := -1
	for c := 0.50; c <= 1.0; c += 0.01 {
		resolution, points := AwardPoints(c, available)
		assert.Equal(t, ResolutionCompleted, resolution)
		assert.GreaterOrEqual(t, points, prev, "confidence %.2f", c)
		prev = points
	}
}
