package utils

import "math"

// VerdictResolution is the outcome band a confidence score falls into
type VerdictResolution string

const (
	ResolutionCompleted   VerdictResolution = "completed"
	ResolutionNeedsReview VerdictResolution = "needs_review"
	ResolutionRejected    VerdictResolution = "rejected"
)

// ResolveConfidence maps an automated confidence score to an outcome band and
// the fraction of the challenge points that band awards
func ResolveConfidence(confidence float64) (VerdictResolution, float64) {
	switch {
	case confidence >= 0.75:
		return ResolutionCompleted, 1.00
	case confidence >= 0.65:
		return ResolutionCompleted, 0.80
	case confidence >= 0.50:
		return ResolutionCompleted, 0.60
	case confidence >= 0.30:
		return ResolutionNeedsReview, 0
	default:
		return ResolutionRejected, 0
	}
}

// AwardPoints resolves a confidence score against the points available on the
// challenge. The awarded amount is always floor(fraction * pointsAvailable).
func AwardPoints(confidence float64, pointsAvailable int) (VerdictResolution, int) {
	resolution, fraction := ResolveConfidence(confidence)
	return resolution, int(math.Floor(fraction * float64(pointsAvailable)))
}
