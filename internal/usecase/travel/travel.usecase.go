package travel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/internal/repository"
	"issuing-service/pkg/id"
	"issuing-service/pkg/xerrors"
)

type Service struct {
	repo repository.TravelRepo
	now  func() time.Time
}

func New(repo repository.TravelRepo) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, userID string, countries []string, start, end time.Time) (*domain.TravelNotice, error) {
	var cleaned []string
	for _, c := range countries {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: at least one country required", xerrors.ErrValidation)
	}
	if !end.After(start) {
		return nil, xerrors.ErrInvalidWindow
	}

	n := &domain.TravelNotice{
		ID:        id.New("trvl"),
		UserID:    userID,
		Countries: cleaned,
		StartDate: start,
		EndDate:   end,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*domain.TravelNotice, error) {
	return s.repo.ListByUser(ctx, userID)
}
