package card

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/internal/repository"
	"issuing-service/pkg/id"
	"issuing-service/pkg/xerrors"
)

const maxLabelLen = 128

type Service struct {
	repo  repository.CardRepo
	types map[string]struct{}
	now   func() time.Time
}

func New(repo repository.CardRepo, cardTypes []string) *Service {
	types := make(map[string]struct{}, len(cardTypes))
	for _, t := range cardTypes {
		types[t] = struct{}{}
	}
	return &Service{repo: repo, types: types, now: time.Now}
}

func (s *Service) Create(ctx context.Context, userID, label, cardType string) (*domain.Card, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, xerrors.ErrLabelRequired
	}
	if len(label) > maxLabelLen {
		return nil, xerrors.ErrLabelTooLong
	}
	if _, ok := s.types[cardType]; !ok {
		return nil, fmt.Errorf("%w: %q", xerrors.ErrInvalidCardType, cardType)
	}

	now := s.now()
	card := &domain.Card{
		ID:        id.New("card"),
		UserID:    userID,
		Label:     label,
		Type:      cardType,
		Status:    domain.CardActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, err
	}

	log.Printf("Card created | CardID=%s | UserID=%s | Type=%s", card.ID, userID, cardType)
	return card, nil
}

// List returns the user's non-closed cards in creation order. Closed cards
// stay on record for audit but drop out of the default listing.
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Card, error) {
	return s.repo.ListByUser(ctx, userID, false)
}

// owned fetches a card and enforces ownership. A card owned by someone else
// reads as not-found so the caller learns nothing about its existence.
func (s *Service) owned(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	card, err := s.repo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, xerrors.ErrCardNotFound
	}
	return card, nil
}

func (s *Service) Get(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	return s.owned(ctx, userID, cardID)
}

// transition applies a conditional status change. When the precondition fails
// because the card is already in the target state, the current record is
// returned as an idempotent no-op; a closed card still fails.
func (s *Service) transition(ctx context.Context, userID, cardID string, from []domain.CardStatus, to domain.CardStatus) (*domain.Card, error) {
	if _, err := s.owned(ctx, userID, cardID); err != nil {
		return nil, err
	}

	card, err := s.repo.UpdateStatus(ctx, cardID, from, to)
	if errors.Is(err, xerrors.ErrInvalidTransition) {
		current, getErr := s.owned(ctx, userID, cardID)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status == to {
			return current, nil
		}
		return nil, xerrors.ErrInvalidTransition
	}
	return card, err
}

func (s *Service) Freeze(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	return s.transition(ctx, userID, cardID, []domain.CardStatus{domain.CardActive}, domain.CardFrozen)
}

func (s *Service) Unfreeze(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	return s.transition(ctx, userID, cardID, []domain.CardStatus{domain.CardFrozen}, domain.CardActive)
}

func (s *Service) Close(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	return s.transition(ctx, userID, cardID,
		[]domain.CardStatus{domain.CardActive, domain.CardFrozen}, domain.CardClosed)
}

// Reissue closes the card and mints a successor with the same label, type and
// controls. The successor records an immutable link to its predecessor, so the
// replacement history is a strictly forward chain.
func (s *Service) Reissue(ctx context.Context, userID, cardID string) (old *domain.Card, created *domain.Card, err error) {
	current, err := s.owned(ctx, userID, cardID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	predecessor := current.ID
	successor := &domain.Card{
		ID:             id.New("card"),
		UserID:         userID,
		Label:          current.Label,
		Type:           current.Type,
		Status:         domain.CardActive,
		ReissueCount:   current.ReissueCount + 1,
		ReplacesCardID: &predecessor,
		Controls:       current.Controls,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	old, created, err = s.repo.Reissue(ctx, cardID,
		[]domain.CardStatus{domain.CardActive, domain.CardFrozen}, successor)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("Card reissued | OldCardID=%s | NewCardID=%s | UserID=%s", old.ID, created.ID, userID)
	return old, created, nil
}

func (s *Service) UpdateControls(ctx context.Context, userID, cardID string, patch ControlsPatch) (*domain.Card, error) {
	current, err := s.owned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.CardClosed {
		return nil, xerrors.ErrInvalidTransition
	}

	controls, err := patch.apply(current.Controls)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateControls(ctx, cardID, controls)
}
