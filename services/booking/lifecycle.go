package booking

import (
	"context"
	"time"

	bookingRepo "driveline/database/repository/booking"
	"driveline/utils"

	"go.uber.org/zap"
)

// TransitionEvents is the hook the lifecycle scan fires after each
// successful status transition. Implemented by the orchestrator layer; event
// handling failures never block or roll back the transition itself.
type TransitionEvents interface {
	BookingActivated(ctx context.Context, bookingID string)
	BookingCompleted(ctx context.Context, bookingID string)
}

// DefaultLifecycleService is the production LifecycleService.
type DefaultLifecycleService struct {
	Repo   bookingRepo.BookingRepository
	Events TransitionEvents
}

// ActivateDueBookings moves every eligible CONFIRMED booking to ACTIVE.
// Failures on one booking are logged and the scan continues.
func (s *DefaultLifecycleService) ActivateDueBookings(ctx context.Context, now time.Time) (int, error) {
	logger := utils.GetLogger()

	candidates, err := s.Repo.FindEligibleForActivation(now)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, b := range candidates {
		if err := b.Activate(); err != nil {
			logger.Warn("activation transition rejected", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		if err := s.Repo.UpdateStatus(b); err != nil {
			logger.Error("failed to persist activation", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		count++
		if s.Events != nil {
			s.Events.BookingActivated(ctx, b.ID)
		}
	}

	logger.Info("activation scan finished", zap.Int("candidates", len(candidates)), zap.Int("activated", count))
	return count, nil
}

// CompleteDueBookings moves every eligible ACTIVE booking to COMPLETED.
func (s *DefaultLifecycleService) CompleteDueBookings(ctx context.Context, now time.Time) (int, error) {
	logger := utils.GetLogger()

	candidates, err := s.Repo.FindEligibleForCompletion(now)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, b := range candidates {
		if err := b.Complete(); err != nil {
			logger.Warn("completion transition rejected", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		if err := s.Repo.UpdateStatus(b); err != nil {
			logger.Error("failed to persist completion", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		count++
		if s.Events != nil {
			s.Events.BookingCompleted(ctx, b.ID)
		}
	}

	logger.Info("completion scan finished", zap.Int("candidates", len(candidates)), zap.Int("completed", count))
	return count, nil
}
