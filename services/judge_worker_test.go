package services

import (
	"testing"
	"time"

	"api/config"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	cfg := config.JudgeRetryConfig{
		InitialDelay:  5 * time.Second,
		BackoffFactor: 2,
	}

	assert.Equal(t, 5*time.Second, BackoffDelay(cfg, 0))
	assert.Equal(t, 10*time.Second, BackoffDelay(cfg, 1))
	assert.Equal(t, 20*time.Second, BackoffDelay(cfg, 2))
	assert.Equal(t, 40*time.Second, BackoffDelay(cfg, 3))
}

func TestBackoffDelayGrowsMonotonically(t *testing.T) {
	cfg := config.DefaultJudgeRetryConfig

	prev := time.Duration(0)
	for call := 0; call < cfg.MaxAttempts; call++ {
		delay := BackoffDelay(cfg, call)
		assert.Greater(t, delay, prev)
		prev = delay
	}
}
