package client

import (
	"testing"
	"time"

	"api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = Key{UserID: "u-1", ChallengeID: "c-1"}

func cachedAttempt() *models.ChallengeAttempt {
	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return &models.ChallengeAttempt{
		ID:               "a-1",
		UserID:           "u-1",
		ChallengeID:      "c-1",
		Status:           models.StatusInProgress,
		VerificationType: models.VerificationNone,
		CreatedAt:        created,
	}
}

func TestSpeculateAndRollbackRestoresExactly(t *testing.T) {
	cache := NewCache()
	cache.Replace(testKey, cachedAttempt())

	before, ok := cache.Get(testKey)
	require.True(t, ok)

	proof := "https://cdn.example.com/proof.jpg"
	require.NoError(t, cache.Speculate(testKey, func(a *models.ChallengeAttempt) {
		a.Status = models.StatusPendingVerification
		a.ProofReference = &proof
	}))

	speculative, _ := cache.Get(testKey)
	assert.Equal(t, models.StatusPendingVerification, speculative.Status)

	require.NoError(t, cache.Rollback(testKey))

	after, ok := cache.Get(testKey)
	require.True(t, ok)
	assert.Equal(t, before, after, "rollback must restore the pre-submission snapshot exactly")
}

func TestCommitKeepsSpeculativeWrite(t *testing.T) {
	cache := NewCache()
	cache.Replace(testKey, cachedAttempt())

	require.NoError(t, cache.Speculate(testKey, func(a *models.ChallengeAttempt) {
		a.Status = models.StatusPendingVerification
	}))
	cache.Commit(testKey)

	record, _ := cache.Get(testKey)
	assert.Equal(t, models.StatusPendingVerification, record.Status)
	assert.ErrorIs(t, cache.Rollback(testKey), ErrNoSnapshot)
}

func TestReplaceIsWholesale(t *testing.T) {
	cache := NewCache()
	cache.Replace(testKey, cachedAttempt())

	require.NoError(t, cache.Speculate(testKey, func(a *models.ChallengeAttempt) {
		a.UserDescription = "speculative description"
	}))

	// The authoritative record replaces everything, including the pending snapshot
	authoritative := cachedAttempt()
	authoritative.Status = models.StatusCompleted
	authoritative.PointsAwarded = 50
	cache.Replace(testKey, authoritative)

	record, _ := cache.Get(testKey)
	assert.Equal(t, models.StatusCompleted, record.Status)
	assert.Equal(t, 50, record.PointsAwarded)
	assert.Empty(t, record.UserDescription, "no field-by-field merge with the speculative state")
	assert.ErrorIs(t, cache.Rollback(testKey), ErrNoSnapshot)
}

func TestSpeculateErrors(t *testing.T) {
	cache := NewCache()

	err := cache.Speculate(testKey, func(*models.ChallengeAttempt) {})
	assert.ErrorIs(t, err, ErrNotCached)

	cache.Replace(testKey, cachedAttempt())
	require.NoError(t, cache.Speculate(testKey, func(*models.ChallengeAttempt) {}))
	assert.ErrorIs(t, cache.Speculate(testKey, func(*models.ChallengeAttempt) {}), ErrInSpeculation)
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	cache := NewCache()
	cache.Replace(testKey, cachedAttempt())

	first, _ := cache.Get(testKey)
	first.Status = models.StatusRejected
	first.PointsAwarded = 999

	second, _ := cache.Get(testKey)
	assert.Equal(t, models.StatusInProgress, second.Status)
	assert.Zero(t, second.PointsAwarded)
}
