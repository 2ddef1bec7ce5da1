package models

import (
	"testing"
	"time"

	"api/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testChallenge = &Challenge{
	ID:              "c-1",
	Title:           "Plastic Bottle Drive",
	PointsAvailable: 50,
	WasteKg:         1.5,
	IsActive:        true,
}

func newAttempt() *ChallengeAttempt {
	return &ChallengeAttempt{
		ID:               "a-1",
		UserID:           "u-1",
		ChallengeID:      testChallenge.ID,
		Status:           StatusInProgress,
		VerificationType: VerificationNone,
		CreatedAt:        time.Now().UTC(),
	}
}

func submitted(t *testing.T) *ChallengeAttempt {
	t.Helper()
	a := newAttempt()
	require.NoError(t, a.BeginSubmission("https://cdn.example.com/proof.jpg", "twenty bottles", time.Now().UTC()))
	return a
}

func TestBeginSubmission(t *testing.T) {
	a := newAttempt()
	now := time.Now().UTC()

	require.NoError(t, a.BeginSubmission("https://cdn.example.com/proof.jpg", "twenty bottles", now))

	assert.Equal(t, StatusPendingVerification, a.Status)
	require.NotNil(t, a.ProofReference)
	assert.Equal(t, "https://cdn.example.com/proof.jpg", *a.ProofReference)
	require.NotNil(t, a.CompletedAt)
	assert.False(t, a.CompletedAt.Before(a.CreatedAt), "completedAt must not precede createdAt")
}

func TestBeginSubmissionIllegalStates(t *testing.T) {
	a := submitted(t)
	assert.ErrorIs(t, a.BeginSubmission("https://cdn.example.com/p2.jpg", "", time.Now().UTC()), ErrAlreadyPendingOrCompleted)

	a = submitted(t)
	_, err := a.ApplyAutomatedVerdict(0.9, "looks right", testChallenge, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, a.Status)
	assert.ErrorIs(t, a.BeginSubmission("https://cdn.example.com/p2.jpg", "", time.Now().UTC()), ErrAlreadyPendingOrCompleted)
}

func TestAutomatedVerdictHighConfidence(t *testing.T) {
	a := submitted(t)

	resolution, err := a.ApplyAutomatedVerdict(0.82, "clear photo of the drop-off", testChallenge, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, utils.ResolutionCompleted, resolution)
	assert.Equal(t, StatusCompleted, a.Status)
	assert.Equal(t, 50, a.PointsAwarded)
	assert.Equal(t, testChallenge.WasteKg, a.WasteKgSaved)
	assert.Equal(t, VerificationAutomated, a.VerificationType)
	require.NotNil(t, a.ConfidenceScore)
	assert.Equal(t, 0.82, *a.ConfidenceScore)
	require.NotNil(t, a.VerifiedAt)
	assert.False(t, a.VerifiedAt.Before(*a.CompletedAt), "verifiedAt must not precede completedAt")
}

func TestAutomatedVerdictPartialBand(t *testing.T) {
	a := submitted(t)

	resolution, err := a.ApplyAutomatedVerdict(0.68, "probably fine", testChallenge, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, utils.ResolutionCompleted, resolution)
	assert.Equal(t, 40, a.PointsAwarded)
}

func TestAutomatedVerdictNeedsReviewStaysPending(t *testing.T) {
	a := submitted(t)

	resolution, err := a.ApplyAutomatedVerdict(0.40, "cannot tell from the photo", testChallenge, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, utils.ResolutionNeedsReview, resolution)
	assert.Equal(t, StatusPendingVerification, a.Status)
	assert.Equal(t, 0, a.PointsAwarded)
	assert.Nil(t, a.VerifiedAt)
	// Score and notes are recorded for the reviewer even without a transition
	require.NotNil(t, a.ConfidenceScore)
	assert.Equal(t, 0.40, *a.ConfidenceScore)
	assert.Equal(t, VerificationAutomated, a.VerificationType)
}

func TestAutomatedVerdictRejection(t *testing.T) {
	a := submitted(t)

	resolution, err := a.ApplyAutomatedVerdict(0.10, "photo shows an empty bin", testChallenge, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, utils.ResolutionRejected, resolution)
	assert.Equal(t, StatusRejected, a.Status)
	assert.Equal(t, 0, a.PointsAwarded)
	assert.NotEmpty(t, a.AdminNotes, "rejections must carry an explanation")
}

func TestRejectionAlwaysCarriesNotes(t *testing.T) {
	a := submitted(t)

	_, err := a.ApplyAutomatedVerdict(0.05, "", testChallenge, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, a.Status)
	assert.NotEmpty(t, a.AdminNotes)
}

func TestVerdictOnTerminalAttemptFails(t *testing.T) {
	a := submitted(t)
	_, err := a.ApplyAutomatedVerdict(0.9, "ok", testChallenge, time.Now().UTC())
	require.NoError(t, err)

	before := *a

	_, err = a.ApplyAutomatedVerdict(0.1, "second opinion", testChallenge, time.Now().UTC())
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.Equal(t, before, *a, "a rejected verdict must leave the record unchanged")

	err = a.ApplyManualVerdict("admin-1", false, "changed my mind", testChallenge, time.Now().UTC())
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.Equal(t, before, *a)
}

func TestVerdictBeforeSubmissionFails(t *testing.T) {
	a := newAttempt()

	_, err := a.ApplyAutomatedVerdict(0.9, "ok", testChallenge, time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotPending)

	err = a.ApplyManualVerdict("admin-1", true, "", testChallenge, time.Now().UTC())
	assert.ErrorIs(t, err, ErrNotPending)
}

// Manual approval is unconditional: full points regardless of the automated
// confidence recorded earlier.
func TestManualApprovalAfterNeedsReview(t *testing.T) {
	a := submitted(t)
	_, err := a.ApplyAutomatedVerdict(0.40, "cannot tell", testChallenge, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, StatusPendingVerification, a.Status)

	require.NoError(t, a.ApplyManualVerdict("admin-1", true, "verified by hand", testChallenge, time.Now().UTC()))

	assert.Equal(t, StatusCompleted, a.Status)
	assert.Equal(t, 50, a.PointsAwarded)
	assert.Equal(t, VerificationManual, a.VerificationType)
	require.NotNil(t, a.ReviewerID)
	assert.Equal(t, "admin-1", *a.ReviewerID)
}

func TestManualRejectionRequiresNotes(t *testing.T) {
	a := submitted(t)

	err := a.ApplyManualVerdict("admin-1", false, "", testChallenge, time.Now().UTC())
	assert.ErrorIs(t, err, ErrRejectionNotesRequired)
	assert.Equal(t, StatusPendingVerification, a.Status)

	require.NoError(t, a.ApplyManualVerdict("admin-1", false, "proof shows a different location", testChallenge, time.Now().UTC()))
	assert.Equal(t, StatusRejected, a.Status)
	assert.Equal(t, 0, a.PointsAwarded)
}

// Manual always wins the race: once a manual verdict lands, the automated one
// fails with the terminal-state error regardless of order.
func TestManualOverridePrecedence(t *testing.T) {
	a := submitted(t)

	require.NoError(t, a.ApplyManualVerdict("admin-1", true, "spot checked", testChallenge, time.Now().UTC()))

	_, err := a.ApplyAutomatedVerdict(0.05, "late automated verdict", testChallenge, time.Now().UTC())
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	assert.Equal(t, StatusCompleted, a.Status)
	assert.Equal(t, VerificationManual, a.VerificationType)
	assert.Equal(t, 50, a.PointsAwarded)
}

func TestResubmissionAfterRejection(t *testing.T) {
	a := submitted(t)
	_, err := a.ApplyAutomatedVerdict(0.10, "blurry photo", testChallenge, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, StatusRejected, a.Status)

	require.NoError(t, a.BeginSubmission("https://cdn.example.com/proof-v2.jpg", "retaken in daylight", time.Now().UTC()))

	assert.Equal(t, StatusPendingVerification, a.Status)
	assert.Equal(t, "https://cdn.example.com/proof-v2.jpg", *a.ProofReference)
	// The prior round's explanation survives in the history field
	assert.Equal(t, "blurry photo", a.PreviousNotes)
	assert.Empty(t, a.AdminNotes)
	assert.Nil(t, a.ConfidenceScore)
	assert.Nil(t, a.VerifiedAt)
	assert.Equal(t, VerificationNone, a.VerificationType)
	assert.Equal(t, 0, a.JudgeCalls)
}

// pointsAwarded > 0 implies completed, across every path that can settle an attempt.
func TestNoAwardWithoutCompletion(t *testing.T) {
	confidences := []float64{0.0, 0.10, 0.30, 0.40, 0.49, 0.50, 0.65, 0.75, 0.95}

	for _, confidence := range confidences {
		a := submitted(t)
		_, err := a.ApplyAutomatedVerdict(confidence, "n", testChallenge, time.Now().UTC())
		require.NoError(t, err)
		if a.PointsAwarded > 0 {
			assert.Equal(t, StatusCompleted, a.Status, "confidence %.2f", confidence)
		}
	}

	a := submitted(t)
	require.NoError(t, a.ApplyManualVerdict("admin-1", false, "no", testChallenge, time.Now().UTC()))
	assert.Zero(t, a.PointsAwarded)
}
