package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"larder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mailerStub records confirmation sends and signals when one arrives, since
// the service mails in the background.
type mailerStub struct {
	mu      sync.Mutex
	to      string
	plan    string
	endDate *time.Time
	sent    chan struct{}
}

func newMailerStub() *mailerStub {
	return &mailerStub{sent: make(chan struct{}, 1)}
}

func (m *mailerStub) SendSubscriptionConfirmation(to, plan string, endDate *time.Time) error {
	m.mu.Lock()
	m.to, m.plan, m.endDate = to, plan, endDate
	m.mu.Unlock()
	m.sent <- struct{}{}
	return nil
}

func (m *mailerStub) waitForSend(t *testing.T) {
	t.Helper()
	select {
	case <-m.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email was never sent")
	}
}

func subscriberRepo() *userRepoStub {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Email: "maria@example.com", Username: "maria", IsActive: true}, nil
	}
	return repo
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("monthly plan is open ended", func(t *testing.T) {
		t.Parallel()
		subs := noopSubscriptionRepo()
		var created *models.Subscription
		subs.createFn = func(_ context.Context, sub *models.Subscription) error {
			created = sub
			return nil
		}
		mailer := newMailerStub()
		svc := NewSubscriptionService(subs, subscriberRepo(), mailer)

		sub, err := svc.Subscribe(context.Background(), 2, models.PlanMonthly)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, models.SubscriptionActive, sub.Status)
		assert.Nil(t, sub.EndDate)

		mailer.waitForSend(t)
		assert.Equal(t, "maria@example.com", mailer.to)
		assert.Equal(t, models.PlanMonthly, mailer.plan)
		assert.Nil(t, mailer.endDate)
	})

	t.Run("annual plan runs a year", func(t *testing.T) {
		t.Parallel()
		mailer := newMailerStub()
		svc := NewSubscriptionService(noopSubscriptionRepo(), subscriberRepo(), mailer)

		sub, err := svc.Subscribe(context.Background(), 2, models.PlanAnnual)
		require.NoError(t, err)
		require.NotNil(t, sub.EndDate)
		assert.WithinDuration(t, sub.StartDate.AddDate(0, 0, AnnualPlanDays), *sub.EndDate, time.Second)

		mailer.waitForSend(t)
		require.NotNil(t, mailer.endDate)
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()
		svc := NewSubscriptionService(noopSubscriptionRepo(), subscriberRepo(), nil)
		_, err := svc.Subscribe(context.Background(), 2, "weekly")
		assertErrorCode(t, err, models.CodeValidation)
	})

	t.Run("active subscription already exists", func(t *testing.T) {
		t.Parallel()
		subs := noopSubscriptionRepo()
		subs.getActiveByUserFn = func(_ context.Context, userID uint) (*models.Subscription, error) {
			return &models.Subscription{ID: 1, UserID: userID, Status: models.SubscriptionActive}, nil
		}
		svc := NewSubscriptionService(subs, subscriberRepo(), nil)
		_, err := svc.Subscribe(context.Background(), 2, models.PlanMonthly)
		assertErrorCode(t, err, models.CodeConflict)
	})

	t.Run("no mailer configured", func(t *testing.T) {
		t.Parallel()
		svc := NewSubscriptionService(noopSubscriptionRepo(), subscriberRepo(), nil)
		_, err := svc.Subscribe(context.Background(), 2, models.PlanMonthly)
		assert.NoError(t, err)
	})
}

func TestSubscriptionService_Current(t *testing.T) {
	t.Parallel()

	subs := noopSubscriptionRepo()
	svc := NewSubscriptionService(subs, subscriberRepo(), nil)

	_, err := svc.Current(context.Background(), 2)
	assertErrorCode(t, err, models.CodeNotFound)

	subs.getActiveByUserFn = func(_ context.Context, userID uint) (*models.Subscription, error) {
		return &models.Subscription{ID: 3, UserID: userID, Status: models.SubscriptionActive}, nil
	}
	sub, err := svc.Current(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint(3), sub.ID)
}

func TestSubscriptionService_Cancel(t *testing.T) {
	t.Parallel()

	subs := noopSubscriptionRepo()
	subs.getActiveByUserFn = func(_ context.Context, userID uint) (*models.Subscription, error) {
		return &models.Subscription{ID: 3, UserID: userID, Status: models.SubscriptionActive}, nil
	}
	var saved *models.Subscription
	subs.updateFn = func(_ context.Context, sub *models.Subscription) error {
		saved = sub
		return nil
	}
	svc := NewSubscriptionService(subs, subscriberRepo(), nil)

	sub, err := svc.Cancel(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionCanceled, sub.Status)
	assert.Equal(t, saved, sub)

	subs.getActiveByUserFn = func(context.Context, uint) (*models.Subscription, error) { return nil, nil }
	_, err = svc.Cancel(context.Background(), 2)
	assertErrorCode(t, err, models.CodeNotFound)
}
