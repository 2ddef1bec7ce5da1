package client

import (
	"context"
	"testing"

	"api/models"
	"api/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	fetched []string
	err     error
}

func (f *fakeFetcher) FetchAttempt(_ context.Context, challengeID string) (*models.ChallengeAttempt, error) {
	f.fetched = append(f.fetched, challengeID)
	return &models.ChallengeAttempt{ChallengeID: challengeID}, f.err
}

func TestHandleEventTriggersRefetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := NewReconciler(fetcher, "u-1")

	event := realtime.Event{
		Type:        realtime.EventCompleted,
		AttemptID:   "a-1",
		UserID:      "u-1",
		ChallengeID: "c-1",
		Status:      models.StatusCompleted,
	}
	require.NoError(t, r.HandleEvent(context.Background(), event))

	// The event only triggers the fetch; the record comes from the server
	assert.Equal(t, []string{"c-1"}, fetcher.fetched)
}

func TestHandleEventIgnoresOtherUsers(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := NewReconciler(fetcher, "u-1")

	event := realtime.Event{
		Type:        realtime.EventPointsAwarded,
		UserID:      "someone-else",
		ChallengeID: "c-1",
	}
	require.NoError(t, r.HandleEvent(context.Background(), event))
	assert.Empty(t, fetcher.fetched)
}

func TestRefreshUsesSameRoutine(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := NewReconciler(fetcher, "u-1")

	require.NoError(t, r.Refresh(context.Background(), "c-9"))
	assert.Equal(t, []string{"c-9"}, fetcher.fetched)
}
