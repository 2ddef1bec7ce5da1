package config

import "time"

// Judge retry configuration
type JudgeRetryConfig struct {
	MaxAttempts   int           // Number of judge calls before escalating to manual review
	InitialDelay  time.Duration // Delay before the first retry
	BackoffFactor int           // Multiplier applied to the delay after each failure
	CallTimeout   time.Duration // Per-call timeout for the judge
	PendingWindow time.Duration // Age after which a pending attempt is swept / surfaced for review
	SweepInterval time.Duration // How often the background sweep runs
}

var DefaultJudgeRetryConfig = JudgeRetryConfig{
	MaxAttempts:   4,
	InitialDelay:  5 * time.Second,
	BackoffFactor: 2,
	CallTimeout:   60 * time.Second,
	PendingWindow: 15 * time.Minute,
	SweepInterval: 5 * time.Minute,
}
