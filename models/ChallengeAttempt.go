package models

import (
	"errors"
	"time"

	"api/utils"
)

// Attempt status values
type AttemptStatus string

const (
	StatusInProgress          AttemptStatus = "in_progress"
	StatusPendingVerification AttemptStatus = "pending_verification"
	StatusCompleted           AttemptStatus = "completed"
	StatusRejected            AttemptStatus = "rejected"
)

// How an attempt was verified
type VerificationType string

const (
	VerificationNone      VerificationType = "none"
	VerificationAutomated VerificationType = "automated"
	VerificationManual    VerificationType = "manual"
)

// Transition guard errors
var (
	ErrAlreadyFinalized          = errors.New("attempt already finalized")
	ErrNotPending                = errors.New("attempt is not pending verification")
	ErrAlreadyPendingOrCompleted = errors.New("attempt is already pending or completed")
	ErrNotInProgress             = errors.New("attempt is not in progress")
	ErrRejectionNotesRequired    = errors.New("rejection requires notes")
)

// ChallengeAttempt represents one user's attempt at completing one challenge.
// Transition rules live on the model so they hold no matter which service
// path (automated verdict, manual review, resubmission) drives them.
type ChallengeAttempt struct {
    ID               string           `gorm:"type:uuid;default:gen_random_uuid();primary_key" json:"id"`
    UserID           string           `gorm:"type:uuid;not null;column:user_id;index:idx_open_attempt,unique,where:status = 'in_progress' OR status = 'pending_verification'" json:"user_id"`
    ChallengeID      string           `gorm:"type:uuid;not null;column:challenge_id;index:idx_open_attempt,unique,where:status = 'in_progress' OR status = 'pending_verification'" json:"challenge_id"`
    Status           AttemptStatus    `gorm:"type:varchar(30);not null;default:'in_progress'" json:"status"`
    ProofReference   *string          `gorm:"type:varchar(500);column:proof_reference" json:"proof_reference"`
    UserDescription  string           `gorm:"type:varchar(1000);column:user_description" json:"user_description"`
    VerificationType VerificationType `gorm:"type:varchar(20);not null;default:'none';column:verification_type" json:"verification_type"`
    ConfidenceScore  *float64         `gorm:"type:numeric(4,3);column:confidence_score" json:"confidence_score"`
    PointsAwarded    int              `gorm:"type:integer;not null;default:0;column:points_awarded" json:"points_awarded"`
    WasteKgSaved     float64          `gorm:"type:numeric(10,2);not null;default:0;column:waste_kg_saved" json:"waste_kg_saved"`
    AdminNotes       string           `gorm:"type:text;column:admin_notes" json:"admin_notes"`
    PreviousNotes    string           `gorm:"type:text;column:previous_notes" json:"previous_notes"`
    ReviewerID       *string          `gorm:"type:uuid;column:reviewer_id" json:"reviewer_id"`
    JudgeCalls       int              `gorm:"type:integer;not null;default:0;column:judge_calls" json:"-"`
    CreatedAt        time.Time        `gorm:"type:timestamp;not null;column:created_at" json:"created_at"`
    CompletedAt      *time.Time       `gorm:"type:timestamp;column:completed_at" json:"completed_at"`
    VerifiedAt       *time.Time       `gorm:"type:timestamp;column:verified_at" json:"verified_at"`
    User             *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
    Challenge        *Challenge       `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"challenge,omitempty"`
    Reviewer         *User            `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// IsTerminal reports whether the attempt has reached a final verdict.
// A rejected attempt is terminal for verdicts but may still be resubmitted.
func (a *ChallengeAttempt) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusRejected
}

// IsOpen reports whether the attempt blocks the user from re-joining the challenge
func (a *ChallengeAttempt) IsOpen() bool {
	return a.Status == StatusInProgress || a.Status == StatusPendingVerification
}

// BeginSubmission moves the attempt into pending_verification. Legal from
// in_progress and from rejected (resubmission). On resubmission the prior
// round's notes are kept in PreviousNotes and the verdict fields reset.
func (a *ChallengeAttempt) BeginSubmission(proofReference, description string, now time.Time) error {
	switch a.Status {
	case StatusInProgress:
	case StatusRejected:
		if a.AdminNotes != "" {
			a.PreviousNotes = a.AdminNotes
		}
		a.AdminNotes = ""
		a.ConfidenceScore = nil
		a.VerificationType = VerificationNone
		a.ReviewerID = nil
		a.VerifiedAt = nil
		a.JudgeCalls = 0
	default:
		return ErrAlreadyPendingOrCompleted
	}

	a.ProofReference = &proofReference
	a.UserDescription = description
	a.CompletedAt = &now
	a.Status = StatusPendingVerification
	return nil
}

// ApplyAutomatedVerdict records the judge's confidence and resolves it through
// the points bands. A needs_review resolution records the score but leaves the
// attempt pending for a human reviewer.
func (a *ChallengeAttempt) ApplyAutomatedVerdict(confidence float64, notes string, challenge *Challenge, now time.Time) (utils.VerdictResolution, error) {
	if a.IsTerminal() {
		return "", ErrAlreadyFinalized
	}
	if a.Status != StatusPendingVerification {
		return "", ErrNotPending
	}

	resolution, points := utils.AwardPoints(confidence, challenge.PointsAvailable)

	a.VerificationType = VerificationAutomated
	a.ConfidenceScore = &confidence
	a.AdminNotes = notes

	switch resolution {
	case utils.ResolutionCompleted:
		a.Status = StatusCompleted
		a.PointsAwarded = points
		a.WasteKgSaved = challenge.WasteKg
		a.VerifiedAt = &now
	case utils.ResolutionRejected:
		a.Status = StatusRejected
		a.PointsAwarded = 0
		if a.AdminNotes == "" {
			a.AdminNotes = "Automated verification could not match the proof to the challenge."
		}
		a.VerifiedAt = &now
	case utils.ResolutionNeedsReview:
		// No transition: the attempt waits in pending_verification for a
		// manual verdict.
	}

	return resolution, nil
}

// ApplyManualVerdict records a reviewer's decision. Approval awards the full
// challenge points unconditionally; rejection requires an explanation.
func (a *ChallengeAttempt) ApplyManualVerdict(reviewerID string, approved bool, notes string, challenge *Challenge, now time.Time) error {
	if a.IsTerminal() {
		return ErrAlreadyFinalized
	}
	if a.Status != StatusPendingVerification {
		return ErrNotPending
	}
	if !approved && notes == "" {
		return ErrRejectionNotesRequired
	}

	a.VerificationType = VerificationManual
	a.ReviewerID = &reviewerID
	a.AdminNotes = notes
	a.VerifiedAt = &now

	if approved {
		a.Status = StatusCompleted
		a.PointsAwarded = challenge.PointsAvailable
		a.WasteKgSaved = challenge.WasteKg
	} else {
		a.Status = StatusRejected
		a.PointsAwarded = 0
	}

	return nil
}
