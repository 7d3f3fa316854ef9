package service

import (
	"context"
	"log/slog"
	"time"

	"larder/internal/middleware"
	"larder/internal/models"
	"larder/internal/repository"
	"larder/internal/validation"
)

// AnnualPlanDays is the fixed validity of an annual subscription.
const AnnualPlanDays = 365

// ConfirmationSender delivers subscription confirmation mail.
type ConfirmationSender interface {
	SendSubscriptionConfirmation(to, plan string, endDate *time.Time) error
}

// SubscriptionService handles plan subscriptions.
type SubscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	mailer   ConfirmationSender
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, mailer ConfirmationSender) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo, userRepo: userRepo, mailer: mailer}
}

// Subscribe activates a plan for the user. Annual plans get an end date 365
// days out; monthly plans are open-ended. The confirmation email is sent in
// the background and never blocks or fails the subscription.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID uint, plan string) (*models.Subscription, error) {
	if err := validation.ValidatePlan(plan); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.subRepo.GetActiveByUser(ctx, userID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("An active subscription already exists")
	}

	now := time.Now()
	sub := &models.Subscription{
		UserID:    userID,
		Plan:      plan,
		Status:    models.SubscriptionActive,
		StartDate: now,
	}
	if plan == models.PlanAnnual {
		end := now.AddDate(0, 0, AnnualPlanDays)
		sub.EndDate = &end
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		go func(to, plan string, endDate *time.Time) {
			if err := s.mailer.SendSubscriptionConfirmation(to, plan, endDate); err != nil {
				middleware.Logger.Warn("Failed to send subscription confirmation",
					slog.String("email", to), slog.String("error", err.Error()))
			}
		}(user.Email, sub.Plan, sub.EndDate)
	}

	return sub, nil
}

// Current returns the user's active subscription.
func (s *SubscriptionService) Current(ctx context.Context, userID uint) (*models.Subscription, error) {
	sub, err := s.subRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, models.NewNotFoundError("Subscription")
	}
	return sub, nil
}

// Cancel marks the active subscription as canceled.
func (s *SubscriptionService) Cancel(ctx context.Context, userID uint) (*models.Subscription, error) {
	sub, err := s.subRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, models.NewNotFoundError("Subscription")
	}

	sub.Status = models.SubscriptionCanceled
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
