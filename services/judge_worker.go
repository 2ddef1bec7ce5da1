package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"api/config"
	"api/database"
	"api/metrics"
	"api/models"
)

// JudgeWorker drives asynchronous verification: it evaluates submitted proofs
// through the judge with bounded retries, and sweeps for attempts stuck in
// pending_verification after a crash or judge outage.
type JudgeWorker struct {
	judge    Evaluator
	attempts *AttemptService
	cfg      config.JudgeRetryConfig

	mu       sync.Mutex
	inFlight map[string]bool
	done     chan struct{}
}

// NewJudgeWorker wires the worker and registers it as the attempt service's dispatcher
func NewJudgeWorker(judge Evaluator, attempts *AttemptService, cfg config.JudgeRetryConfig) *JudgeWorker {
	w := &JudgeWorker{
		judge:    judge,
		attempts: attempts,
		cfg:      cfg,
		inFlight: make(map[string]bool),
		done:     make(chan struct{}),
	}
	attempts.SetDispatcher(w.Dispatch)
	return w
}

// Start launches the background sweep
func (w *JudgeWorker) Start() {
	go w.sweepLoop()
}

// Stop halts the sweep; in-flight evaluations finish on their own
func (w *JudgeWorker) Stop() {
	close(w.done)
}

// Dispatch schedules an asynchronous evaluation of one attempt. Duplicate
// dispatches for an attempt already being evaluated are dropped.
func (w *JudgeWorker) Dispatch(attemptID string) {
	w.mu.Lock()
	if w.inFlight[attemptID] {
		w.mu.Unlock()
		return
	}
	w.inFlight[attemptID] = true
	w.mu.Unlock()

	go func() {
		defer func() {
			w.mu.Lock()
			delete(w.inFlight, attemptID)
			w.mu.Unlock()
		}()
		w.process(attemptID)
	}()
}

// process runs the retry loop for one attempt. On a transient judge failure
// the attempt stays pending_verification; after the retry budget is exhausted
// it is escalated to the manual review queue, never auto-rejected.
func (w *JudgeWorker) process(attemptID string) {
	var attempt models.ChallengeAttempt
	if err := database.DB.First(&attempt, "id = ?", attemptID).Error; err != nil {
		log.Printf("judge worker: attempt %s not found: %v", attemptID, err)
		return
	}
	if attempt.Status != models.StatusPendingVerification || attempt.ProofReference == nil {
		return
	}
	challenge, err := GetChallengeByID(context.Background(), attempt.ChallengeID)
	if err != nil {
		log.Printf("judge worker: challenge %s not found for attempt %s", attempt.ChallengeID, attemptID)
		return
	}

	submittedAt := time.Now().UTC()
	if attempt.CompletedAt != nil {
		submittedAt = *attempt.CompletedAt
	}

	for call := attempt.JudgeCalls; call < w.cfg.MaxAttempts; call++ {
		w.recordJudgeCall(&attempt)

		ctx, cancel := context.WithTimeout(context.Background(), w.cfg.CallTimeout)
		verdict, err := w.judge.Evaluate(ctx, *attempt.ProofReference, attempt.UserDescription, challenge, submittedAt)
		cancel()

		if err == nil {
			if _, err := w.attempts.ApplyAutomatedVerdict(attemptID, verdict); err != nil {
				// A manual verdict won the race; the automated one is discarded.
				if errors.Is(err, models.ErrAlreadyFinalized) {
					log.Printf("judge worker: attempt %s already finalized, dropping automated verdict", attemptID)
					return
				}
				log.Printf("judge worker: failed to apply verdict for attempt %s: %v", attemptID, err)
			}
			return
		}

		log.Printf("judge worker: evaluation failed for attempt %s (call %d/%d): %v",
			attemptID, call+1, w.cfg.MaxAttempts, err)

		if call+1 < w.cfg.MaxAttempts {
			select {
			case <-time.After(BackoffDelay(w.cfg, call)):
			case <-w.done:
				return
			}
		}
	}

	// Retry budget exhausted: leave the attempt pending for a human reviewer.
	metrics.ManualReviewEscalations.Inc()
	log.Printf("judge worker: attempt %s escalated to manual review after %d failed judge calls",
		attemptID, w.cfg.MaxAttempts)
}

// recordJudgeCall persists the call counter so the sweep does not replay an
// exhausted attempt forever
func (w *JudgeWorker) recordJudgeCall(attempt *models.ChallengeAttempt) {
	attempt.JudgeCalls++
	if err := database.DB.Model(attempt).Update("judge_calls", attempt.JudgeCalls).Error; err != nil {
		log.Printf("judge worker: failed to record judge call for attempt %s: %v", attempt.ID, err)
	}
}

// BackoffDelay computes the delay after the given zero-based failed call
func BackoffDelay(cfg config.JudgeRetryConfig, call int) time.Duration {
	delay := cfg.InitialDelay
	for i := 0; i < call; i++ {
		delay *= time.Duration(cfg.BackoffFactor)
	}
	return delay
}

// sweepLoop periodically re-dispatches attempts that are stuck in
// pending_verification with judge budget remaining, recovering from a crash
// between the pending write and the judge call.
func (w *JudgeWorker) sweepLoop() {
	ticker := time.NewTicker(w.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.done:
			return
		}
	}
}

func (w *JudgeWorker) sweep() {
	var stuck []models.ChallengeAttempt
	cutoff := time.Now().UTC().Add(-w.cfg.PendingWindow)
	err := database.DB.
		Where("status = ? AND completed_at < ? AND judge_calls < ?",
			models.StatusPendingVerification, cutoff, w.cfg.MaxAttempts).
		Find(&stuck).Error
	if err != nil {
		log.Printf("judge worker: sweep query failed: %v", err)
		return
	}

	for _, attempt := range stuck {
		log.Printf("judge worker: re-dispatching stuck attempt %s", attempt.ID)
		w.Dispatch(attempt.ID)
	}
}
