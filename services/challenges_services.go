package services

import (
	"context"
	"fmt"

	"api/database"
	"api/models"
)

func challengeCacheKey(id string) string {
	return "challenge:" + id
}

// GetChallengeByID fetches a challenge, serving from the redis read cache when possible
func GetChallengeByID(ctx context.Context, challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge

	cacheKey := challengeCacheKey(challengeID)
	if found, _ := database.GetFromCache(ctx, cacheKey, &challenge); found {
		return &challenge, nil
	}

	if err := database.DB.First(&challenge, "id = ?", challengeID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch challenge: %w", err)
	}

	_ = database.SetToCache(ctx, cacheKey, challenge)
	return &challenge, nil
}

// ListChallenges returns the challenge catalog, optionally restricted to active entries
func ListChallenges(activeOnly bool) ([]models.Challenge, error) {
	var challenges []models.Challenge
	query := database.DB.Order("title")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&challenges).Error; err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}

// CreateChallenge adds a new catalog entry
func CreateChallenge(challenge *models.Challenge) error {
	if err := database.DB.Create(challenge).Error; err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// UpdateChallenge saves catalog changes and drops the cached copy. Changes do
// not retroactively alter already-scored attempts: points and waste weight are
// snapshotted onto the attempt at verification time.
func UpdateChallenge(ctx context.Context, challenge *models.Challenge) error {
	if err := database.DB.Save(challenge).Error; err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	database.InvalidateCache(ctx, challengeCacheKey(challenge.ID))
	return nil
}
