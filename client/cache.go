package client

import (
	"errors"
	"sync"
	"time"

	"api/models"
)

var (
	ErrNoSnapshot    = errors.New("no snapshot to roll back to")
	ErrNotCached     = errors.New("attempt is not in the cache")
	ErrInSpeculation = errors.New("a speculative write is already in flight")
)

// Key identifies one attempt mirror. Keyed by (user, challenge) so every view
// referencing the same attempt converges once reconciled.
type Key struct {
	UserID      string
	ChallengeID string
}

// Cache is a client-local speculative mirror of server-held attempts.
// Speculative writes are applied against a snapshot; a failed request rolls
// the record back to the snapshot exactly, and authoritative records always
// replace the cached one wholesale, never field-by-field.
type Cache struct {
	mu        sync.RWMutex
	records   map[Key]*models.ChallengeAttempt
	snapshots map[Key]*models.ChallengeAttempt
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		records:   make(map[Key]*models.ChallengeAttempt),
		snapshots: make(map[Key]*models.ChallengeAttempt),
	}
}

// Get returns a copy of the cached record for key
func (c *Cache) Get(key Key) (*models.ChallengeAttempt, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.records[key]
	if !ok {
		return nil, false
	}
	return cloneAttempt(record), true
}

// Replace installs an authoritative record, discarding any pending snapshot
func (c *Cache) Replace(key Key, record *models.ChallengeAttempt) {
	c.mu.Lock()
	c.records[key] = cloneAttempt(record)
	delete(c.snapshots, key)
	c.mu.Unlock()
}

// Speculate snapshots the current record and applies a speculative mutation.
// Only one speculation may be in flight per key.
func (c *Cache) Speculate(key Key, apply func(*models.ChallengeAttempt)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.records[key]
	if !ok {
		return ErrNotCached
	}
	if _, pending := c.snapshots[key]; pending {
		return ErrInSpeculation
	}

	c.snapshots[key] = cloneAttempt(record)
	apply(record)
	return nil
}

// Rollback restores the snapshot exactly, a full restore rather than a merge
func (c *Cache) Rollback(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, ok := c.snapshots[key]
	if !ok {
		return ErrNoSnapshot
	}

	c.records[key] = snapshot
	delete(c.snapshots, key)
	return nil
}

// Commit keeps the speculative write and drops the snapshot. The record stays
// speculative until an authoritative Replace arrives.
func (c *Cache) Commit(key Key) {
	c.mu.Lock()
	delete(c.snapshots, key)
	c.mu.Unlock()
}

// cloneAttempt deep-copies an attempt so rollbacks restore the prior state
// byte for byte
func cloneAttempt(a *models.ChallengeAttempt) *models.ChallengeAttempt {
	clone := *a
	clone.ProofReference = clonePtr(a.ProofReference)
	clone.ConfidenceScore = clonePtr(a.ConfidenceScore)
	clone.ReviewerID = clonePtr(a.ReviewerID)
	clone.CompletedAt = cloneTime(a.CompletedAt)
	clone.VerifiedAt = cloneTime(a.VerifiedAt)
	clone.User = nil
	clone.Challenge = nil
	clone.Reviewer = nil
	return &clone
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	return clonePtr(t)
}
