package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"api/database"
	"api/metrics"
	"api/models"
	"api/realtime"
	"api/utils"

	"gorm.io/gorm"
)

// Validation errors reported synchronously to the caller. No state mutation
// occurs when one of these is returned.
var (
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrChallengeInactive     = errors.New("challenge is not active")
	ErrAlreadyJoined         = errors.New("an open attempt already exists for this challenge")
	ErrAttemptNotFound       = errors.New("attempt not found")
	ErrNotAttemptOwner       = errors.New("attempt belongs to another user")
	ErrInvalidProofReference = errors.New("proof reference is not a resolvable absolute URL")
)

// AttemptService owns the lifecycle of challenge attempts. Transitions on a
// single attempt are serialized through a per-attempt lock; operations on
// distinct attempts proceed in parallel.
type AttemptService struct {
	hub      *realtime.Hub
	locks    sync.Map // attempt id -> *sync.Mutex
	dispatch func(attemptID string)
}

// NewAttemptService creates the service publishing transition events to hub
func NewAttemptService(hub *realtime.Hub) *AttemptService {
	return &AttemptService{hub: hub}
}

// SetDispatcher wires the asynchronous judge dispatch invoked after a
// submission is durable. Kept injectable so tests can observe dispatches.
func (s *AttemptService) SetDispatcher(dispatch func(attemptID string)) {
	s.dispatch = dispatch
}

func (s *AttemptService) lockAttempt(attemptID string) func() {
	entry, _ := s.locks.LoadOrStore(attemptID, &sync.Mutex{})
	mu := entry.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Join creates an in_progress attempt for the (user, challenge) pair. At most
// one open attempt may exist per pair; the partial unique index on the
// attempts table backs this check against concurrent joins.
func (s *AttemptService) Join(ctx context.Context, userID, challengeID string) (*models.ChallengeAttempt, error) {
	challenge, err := GetChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, ErrChallengeNotFound
	}
	if !challenge.IsActive {
		return nil, ErrChallengeInactive
	}

	var openCount int64
	database.DB.Model(&models.ChallengeAttempt{}).
		Where("user_id = ? AND challenge_id = ? AND status IN ?", userID, challengeID,
			[]models.AttemptStatus{models.StatusInProgress, models.StatusPendingVerification}).
		Count(&openCount)
	if openCount > 0 {
		return nil, ErrAlreadyJoined
	}

	attempt := models.ChallengeAttempt{
		UserID:           userID,
		ChallengeID:      challengeID,
		Status:           models.StatusInProgress,
		VerificationType: models.VerificationNone,
		CreatedAt:        time.Now().UTC(),
	}
	if err := database.DB.Create(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyJoined
		}
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	return &attempt, nil
}

// SubmitProof validates the proof reference, moves the attempt into
// pending_verification and schedules the asynchronous judge call. The judge
// call happens only after the pending write is durable.
func (s *AttemptService) SubmitProof(attemptID, userID, proofReference, description string) (*models.ChallengeAttempt, error) {
	if !utils.IsResolvableProofReference(proofReference) {
		return nil, ErrInvalidProofReference
	}

	unlock := s.lockAttempt(attemptID)
	defer unlock()

	attempt, err := s.fetchAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, ErrNotAttemptOwner
	}

	if err := attempt.BeginSubmission(proofReference, description, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := database.DB.Save(attempt).Error; err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	s.hub.Publish(realtime.SubmittedEvent(attempt))
	if s.dispatch != nil {
		s.dispatch(attempt.ID)
	}

	return attempt, nil
}

// ApplyAutomatedVerdict resolves a judge verdict against the attempt. A
// manual verdict that landed first wins: the automated one fails with the
// terminal-state error and the record is left untouched.
func (s *AttemptService) ApplyAutomatedVerdict(attemptID string, verdict *Verdict) (utils.VerdictResolution, error) {
	unlock := s.lockAttempt(attemptID)
	defer unlock()

	attempt, err := s.fetchAttempt(attemptID)
	if err != nil {
		return "", err
	}
	challenge, err := GetChallengeByID(context.Background(), attempt.ChallengeID)
	if err != nil {
		return "", ErrChallengeNotFound
	}

	resolution, err := attempt.ApplyAutomatedVerdict(verdict.Confidence, verdict.Notes, challenge, time.Now().UTC())
	if err != nil {
		return "", err
	}
	if err := s.commitVerdict(attempt); err != nil {
		return "", err
	}

	metrics.VerdictOutcomes.WithLabelValues("automated", string(resolution)).Inc()
	s.publishVerdictEvents(attempt)
	return resolution, nil
}

// ApplyManualVerdict records a reviewer decision. Manual approval awards the
// full challenge points, not a confidence-scaled fraction.
func (s *AttemptService) ApplyManualVerdict(attemptID, reviewerID string, approved bool, notes string) (*models.ChallengeAttempt, error) {
	unlock := s.lockAttempt(attemptID)
	defer unlock()

	attempt, err := s.fetchAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	challenge, err := GetChallengeByID(context.Background(), attempt.ChallengeID)
	if err != nil {
		return nil, ErrChallengeNotFound
	}

	if err := attempt.ApplyManualVerdict(reviewerID, approved, notes, challenge, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.commitVerdict(attempt); err != nil {
		return nil, err
	}

	metrics.VerdictOutcomes.WithLabelValues("manual", string(attempt.Status)).Inc()
	s.publishVerdictEvents(attempt)
	return attempt, nil
}

// Skip removes an attempt that never reached submission. No penalty: nothing
// was ever evaluated.
func (s *AttemptService) Skip(attemptID, userID, reason string) error {
	unlock := s.lockAttempt(attemptID)
	defer unlock()

	attempt, err := s.fetchAttempt(attemptID)
	if err != nil {
		return err
	}
	if attempt.UserID != userID {
		return ErrNotAttemptOwner
	}
	if attempt.Status != models.StatusInProgress {
		return models.ErrNotInProgress
	}

	if err := database.DB.Delete(attempt).Error; err != nil {
		return fmt.Errorf("failed to delete attempt: %w", err)
	}

	log.Printf("Attempt %s skipped by user %s: %s", attemptID, userID, reason)
	return nil
}

// GetProgress returns the caller's most recent attempt for a challenge
func (s *AttemptService) GetProgress(userID, challengeID string) (*models.ChallengeAttempt, error) {
	var attempt models.ChallengeAttempt
	err := database.DB.
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Order("created_at DESC").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to fetch attempt: %w", err)
	}
	return &attempt, nil
}

// ReviewQueue lists attempts stuck in pending_verification beyond the window.
// These are surfaced for manual review rather than auto-rejected.
func (s *AttemptService) ReviewQueue(window time.Duration) ([]models.ChallengeAttempt, error) {
	var attempts []models.ChallengeAttempt
	cutoff := time.Now().UTC().Add(-window)
	err := database.DB.
		Where("status = ? AND completed_at < ?", models.StatusPendingVerification, cutoff).
		Preload("User").
		Preload("Challenge").
		Order("completed_at").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review queue: %w", err)
	}
	return attempts, nil
}

func (s *AttemptService) fetchAttempt(attemptID string) (*models.ChallengeAttempt, error) {
	var attempt models.ChallengeAttempt
	if err := database.DB.First(&attempt, "id = ?", attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to fetch attempt: %w", err)
	}
	return &attempt, nil
}

// commitVerdict persists the attempt and, on completion, credits the user's
// point balance in the same transaction.
func (s *AttemptService) commitVerdict(attempt *models.ChallengeAttempt) error {
	start := time.Now()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(attempt).Error; err != nil {
			return err
		}
		if attempt.Status == models.StatusCompleted && attempt.PointsAwarded > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", attempt.UserID).
				Update("total_points", gorm.Expr("total_points + ?", attempt.PointsAwarded)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RecordDBOperation("commit_verdict", "challenge_attempts", start)
	if err != nil {
		return fmt.Errorf("failed to commit verdict: %w", err)
	}
	return nil
}

func (s *AttemptService) publishVerdictEvents(attempt *models.ChallengeAttempt) {
	switch attempt.Status {
	case models.StatusCompleted:
		s.hub.Publish(realtime.CompletedEvent(attempt))
		s.hub.Publish(realtime.PointsAwardedEvent(attempt, attempt.PointsAwarded))
		metrics.PointsAwarded.Add(float64(attempt.PointsAwarded))
	case models.StatusRejected:
		s.hub.Publish(realtime.RejectedEvent(attempt))
	}
}
