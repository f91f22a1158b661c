package remit

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/internal/repository"
	"issuing-service/internal/usecase/quote"
	"issuing-service/pkg/id"
	"issuing-service/pkg/xerrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Beneficiary struct {
	Name   string
	IBAN   string
	Mobile string
}

// Service records remittance transfers against freshly computed quotes.
// Settlement rails live elsewhere; the worker only advances recorded state.
type Service struct {
	repo   repository.TransferRepo
	quotes *quote.Service
	now    func() time.Time
}

func New(repo repository.TransferRepo, quotes *quote.Service) *Service {
	return &Service{repo: repo, quotes: quotes, now: time.Now}
}

func (s *Service) Quote(ctx context.Context, sendAmount decimal.Decimal, sendCurrency, receiveCurrency string) (*domain.Quote, error) {
	return s.quotes.Quote(ctx, sendAmount, sendCurrency, receiveCurrency)
}

// CreateTransfer re-quotes at current rates and records the transfer in
// `created` status for the settlement worker to pick up.
func (s *Service) CreateTransfer(ctx context.Context, userID string, sendAmount decimal.Decimal, sendCurrency, receiveCurrency string, b Beneficiary) (*domain.Transfer, error) {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return nil, fmt.Errorf("%w: beneficiary name required", xerrors.ErrValidation)
	}
	if strings.TrimSpace(b.IBAN) == "" && strings.TrimSpace(b.Mobile) == "" {
		return nil, xerrors.ErrBeneficiaryRequired
	}

	q, err := s.quotes.Quote(ctx, sendAmount, sendCurrency, receiveCurrency)
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := &domain.Transfer{
		ID:              id.New("rtr"),
		UserID:          userID,
		Reference:       uuid.New().String(),
		SendAmount:      q.SendAmount,
		SendCurrency:    q.SendCurrency,
		ReceiveAmount:   q.ReceiveAmount,
		ReceiveCurrency: q.ReceiveCurrency,
		Rate:            q.Rate,
		Fee:             q.Fee,
		BeneficiaryName: b.Name,
		Status:          domain.TransferCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if iban := strings.TrimSpace(b.IBAN); iban != "" {
		t.BeneficiaryIBAN = &iban
	}
	if mobile := strings.TrimSpace(b.Mobile); mobile != "" {
		t.BeneficiaryMobile = &mobile
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	log.Printf("Transfer created | TransferID=%s | UserID=%s | %s %s -> %s %s",
		t.ID, userID, t.SendAmount, t.SendCurrency, t.ReceiveAmount, t.ReceiveCurrency)
	return t, nil
}

func (s *Service) ListTransfers(ctx context.Context, userID string) ([]*domain.Transfer, error) {
	return s.repo.ListByUser(ctx, userID)
}

// AdvancePending moves transfers one step along created -> processing ->
// settled. Called from the settlement worker loop.
func (s *Service) AdvancePending(ctx context.Context, batch int) {
	s.advance(ctx, domain.TransferProcessing, domain.TransferSettled, batch)
	s.advance(ctx, domain.TransferCreated, domain.TransferProcessing, batch)
}

func (s *Service) advance(ctx context.Context, from, to domain.TransferStatus, batch int) {
	transfers, err := s.repo.ListByStatus(ctx, from, batch)
	if err != nil {
		log.Printf("Transfer scan failed | Status=%s | err=%v", from, err)
		return
	}
	for _, t := range transfers {
		if _, err := s.repo.UpdateStatus(ctx, t.ID, from, to); err != nil {
			// lost the race to a concurrent step; next tick retries
			log.Printf("Transfer advance skipped | TransferID=%s | %s -> %s | err=%v", t.ID, from, to, err)
		}
	}
}
