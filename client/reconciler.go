package client

import (
	"context"
	"log"
	"net/http"

	"api/models"
	"api/realtime"

	"github.com/gorilla/websocket"
)

// Fetcher retrieves the authoritative attempt record for a challenge and
// installs it in the cache. *Client satisfies it.
type Fetcher interface {
	FetchAttempt(ctx context.Context, challengeID string) (*models.ChallengeAttempt, error)
}

// Reconciler is the single routine that brings the cache back in line with
// the server. Both the push handler and a user-initiated refresh funnel
// through it, so there is exactly one reconciliation code path.
type Reconciler struct {
	fetcher Fetcher
	userID  string
}

// NewReconciler creates a reconciler for one client identity
func NewReconciler(fetcher Fetcher, userID string) *Reconciler {
	return &Reconciler{fetcher: fetcher, userID: userID}
}

// HandleEvent reacts to a push event. Events are only a trigger to re-fetch;
// they may arrive out of order relative to concurrent manual overrides, so
// the fetched record, not the event, is the source of truth.
func (r *Reconciler) HandleEvent(ctx context.Context, event realtime.Event) error {
	if event.UserID != r.userID {
		return nil
	}
	return r.Refresh(ctx, event.ChallengeID)
}

// Refresh re-fetches the authoritative record for a challenge
func (r *Reconciler) Refresh(ctx context.Context, challengeID string) error {
	_, err := r.fetcher.FetchAttempt(ctx, challengeID)
	return err
}

// Listen consumes push events from the websocket endpoint until the context
// is cancelled or the connection drops
func (r *Reconciler) Listen(ctx context.Context, wsURL string, header http.Header) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var event realtime.Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if err := r.HandleEvent(ctx, event); err != nil {
			log.Printf("reconcile after %s event failed: %v", event.Type, err)
		}
	}
}
