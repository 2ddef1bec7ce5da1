package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"api/models"
)

// Client is a Go consumer of the verification API. Submissions are applied to
// the local cache optimistically and reconciled against the server afterward.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	userID  string

	// Cache mirrors server-held attempts for this client identity only
	Cache *Cache
}

// New creates a client for one authenticated user identity
func New(baseURL, token, userID string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		userID:  userID,
		http:    &http.Client{Timeout: 15 * time.Second},
		Cache:   NewCache(),
	}
}

type joinRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type submitRequest struct {
	ProofReference string `json:"proof_reference"`
	Description    string `json:"description"`
	DeclaredPoints int    `json:"declared_points"`
}

type skipRequest struct {
	Reason string `json:"reason"`
}

// JoinChallenge starts an attempt and caches the authoritative record
func (c *Client) JoinChallenge(ctx context.Context, challengeID string) (*models.ChallengeAttempt, error) {
	var attempt models.ChallengeAttempt
	err := c.post(ctx, "/attempts/join", joinRequest{ChallengeID: challengeID}, &attempt)
	if err != nil {
		return nil, err
	}

	c.Cache.Replace(Key{UserID: c.userID, ChallengeID: challengeID}, &attempt)
	return &attempt, nil
}

// SubmitProof submits evidence for an attempt. The cache is updated
// speculatively before the request resolves: on failure it is rolled back to
// the pre-submission snapshot, on success the speculative record is kept until
// a terminal event or explicit re-fetch replaces it.
func (c *Client) SubmitProof(ctx context.Context, attempt *models.ChallengeAttempt, proofReference, description string) (*models.ChallengeAttempt, error) {
	key := Key{UserID: c.userID, ChallengeID: attempt.ChallengeID}

	err := c.Cache.Speculate(key, func(cached *models.ChallengeAttempt) {
		cached.Status = models.StatusPendingVerification
		cached.ProofReference = &proofReference
		cached.UserDescription = description
	})
	if err != nil {
		return nil, err
	}

	var updated models.ChallengeAttempt
	path := fmt.Sprintf("/attempts/%s/submit", attempt.ID)
	if err := c.post(ctx, path, submitRequest{ProofReference: proofReference, Description: description}, &updated); err != nil {
		if rbErr := c.Cache.Rollback(key); rbErr != nil {
			return nil, fmt.Errorf("submit failed (%w) and rollback failed: %v", err, rbErr)
		}
		return nil, err
	}

	c.Cache.Commit(key)
	return &updated, nil
}

// SkipAttempt abandons an unsubmitted attempt and evicts it from the cache
func (c *Client) SkipAttempt(ctx context.Context, attempt *models.ChallengeAttempt, reason string) error {
	path := fmt.Sprintf("/attempts/%s/skip", attempt.ID)
	if err := c.post(ctx, path, skipRequest{Reason: reason}, nil); err != nil {
		return err
	}

	key := Key{UserID: c.userID, ChallengeID: attempt.ChallengeID}
	c.Cache.mu.Lock()
	delete(c.Cache.records, key)
	delete(c.Cache.snapshots, key)
	c.Cache.mu.Unlock()
	return nil
}

// FetchAttempt fetches the authoritative attempt for a challenge and replaces
// the cached record wholesale
func (c *Client) FetchAttempt(ctx context.Context, challengeID string) (*models.ChallengeAttempt, error) {
	var attempt models.ChallengeAttempt
	if err := c.get(ctx, "/attempts/progress?challenge_id="+challengeID, &attempt); err != nil {
		return nil, err
	}

	c.Cache.Replace(Key{UserID: c.userID, ChallengeID: challengeID}, &attempt)
	return &attempt, nil
}

func (c *Client) post(ctx context.Context, path string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error: %s", resp.Status)
	}

	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
