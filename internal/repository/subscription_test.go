package repository

import (
	"context"
	"testing"
	"time"

	"larder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository_GetActiveByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "subscriber")

	got, err := repo.GetActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	sub := &models.Subscription{
		UserID:    user.ID,
		Plan:      models.PlanMonthly,
		Status:    models.SubscriptionActive,
		StartDate: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, sub))

	got, err = repo.GetActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.PlanMonthly, got.Plan)

	// Canceled subscriptions stop being returned.
	got.Status = models.SubscriptionCanceled
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetActiveByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSubscriptionRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "subscriber")

	require.NoError(t, repo.Create(ctx, &models.Subscription{
		UserID: user.ID, Plan: models.PlanMonthly, Status: models.SubscriptionCanceled, StartDate: time.Now().AddDate(0, -2, 0),
	}))
	require.NoError(t, repo.Create(ctx, &models.Subscription{
		UserID: user.ID, Plan: models.PlanAnnual, Status: models.SubscriptionActive, StartDate: time.Now(),
	}))

	subs, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}
