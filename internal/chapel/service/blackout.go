package service

import (
	"context"
	"time"

	"bayview/internal/chapel/repository"
	"bayview/pkg/config"
	apperrors "bayview/pkg/errors"
	"bayview/pkg/model"

	"github.com/google/uuid"
)

type BlackoutService interface {
	Create(ctx context.Context, period *model.BlackoutPeriod) error
	GetAll(ctx context.Context) ([]*model.BlackoutPeriod, error)
}

type blackoutService struct {
	repo repository.BlackoutRepository
	cfg  *config.Config
}

func NewBlackoutService(repo repository.BlackoutRepository, cfg *config.Config) BlackoutService {
	return &blackoutService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *blackoutService) Create(ctx context.Context, period *model.BlackoutPeriod) error {
	if period.StartDate.IsZero() || period.EndDate.IsZero() {
		return apperrors.InvalidInput("start_date and end_date are required")
	}
	if period.EndDate.Before(period.StartDate) {
		return apperrors.InvalidInput("end_date cannot be before start_date")
	}
	if period.Reason == "" {
		return apperrors.InvalidInput("reason is required")
	}

	period.StartDate = truncateToDay(period.StartDate)
	period.EndDate = truncateToDay(period.EndDate)
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	period.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, period); err != nil {
		s.cfg.Log.Error("Failed to create blackout period", "error", err)
		return apperrors.Internal("Failed to create blackout period", err)
	}

	s.cfg.Log.Info("Blackout period created",
		"id", period.ID,
		"start_date", period.StartDate,
		"end_date", period.EndDate,
		"reason", period.Reason,
	)
	return nil
}

func (s *blackoutService) GetAll(ctx context.Context) ([]*model.BlackoutPeriod, error) {
	periods, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list blackout periods", "error", err)
		return nil, apperrors.Internal("Failed to retrieve blackout periods", err)
	}
	return periods, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
