package txn

import (
	"context"
	"errors"
	"log"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/internal/repository"
	"issuing-service/internal/usecase/card"
	"issuing-service/pkg/id"
	"issuing-service/pkg/xerrors"

	"github.com/shopspring/decimal"
)

// AuthRequest is a simulated network authorization presented against a card.
type AuthRequest struct {
	CardID       string
	Amount       decimal.Decimal
	Currency     string
	MerchantName string
	MerchantID   string
	MCC          string
	Country      string
	Presentment  domain.PresentmentMode
}

type Service struct {
	txns  repository.TxnRepo
	cards *card.Service
	now   func() time.Time
}

func New(txns repository.TxnRepo, cards *card.Service) *Service {
	return &Service{txns: txns, cards: cards, now: time.Now}
}

// Authorize runs the card's controls against the authorization and, when they
// all pass, records a pending preauth with the amount on hold.
func (s *Service) Authorize(ctx context.Context, userID string, req AuthRequest) (*domain.Transaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, xerrors.ErrInvalidAmount
	}
	if req.Presentment == "" {
		req.Presentment = domain.PresentmentOnline
	}

	c, err := s.cards.Get(ctx, userID, req.CardID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.CardActive {
		return nil, xerrors.ErrCardNotActive
	}

	if err := s.checkControls(ctx, c, req); err != nil {
		return nil, err
	}

	hold := req.Amount
	t := &domain.Transaction{
		ID:           id.New("txn"),
		UserID:       userID,
		CardID:       req.CardID,
		MerchantName: req.MerchantName,
		MCC:          req.MCC,
		Country:      req.Country,
		Presentment:  req.Presentment,
		Currency:     req.Currency,
		Amount:       req.Amount,
		Type:         domain.TxnPreauth,
		Status:       domain.TxnPending,
		HoldAmount:   &hold,
		CreatedAt:    s.now(),
	}
	if req.MerchantID != "" {
		merchantID := req.MerchantID
		t.MerchantID = &merchantID
	}

	if err := s.txns.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// checkControls enforces the card's restrictions. A nil allow-list means no
// restriction; an empty one blocks everything.
func (s *Service) checkControls(ctx context.Context, c *domain.Card, req AuthRequest) error {
	ctl := c.Controls

	if ctl.PresentmentModes != nil && !presentmentIn(req.Presentment, ctl.PresentmentModes) {
		return xerrors.ErrPresentmentBlocked
	}
	if ctl.MerchantAllow != nil && !stringIn(req.MerchantID, ctl.MerchantAllow) {
		return xerrors.ErrMerchantBlocked
	}
	if ctl.MCCAllow != nil && !stringIn(req.MCC, ctl.MCCAllow) {
		return xerrors.ErrMCCBlocked
	}
	if ctl.GeoAllowCountries != nil && !stringIn(req.Country, ctl.GeoAllowCountries) {
		return xerrors.ErrCountryBlocked
	}

	if ctl.SpendLimitAmount != nil && ctl.SpendLimitInterval != nil {
		since := windowStart(s.now(), *ctl.SpendLimitInterval)
		spent, err := s.txns.SumCaptured(ctx, c.ID, since)
		if err != nil {
			return err
		}
		if spent.Add(req.Amount).GreaterThan(*ctl.SpendLimitAmount) {
			return xerrors.ErrSpendLimitExceeded
		}
	}

	return nil
}

func windowStart(now time.Time, interval domain.SpendInterval) time.Time {
	switch interval {
	case domain.SpendDaily:
		return now.Add(-24 * time.Hour)
	case domain.SpendWeekly:
		return now.Add(-7 * 24 * time.Hour)
	default: // monthly and rolling_30d share a 30-day window
		return now.Add(-30 * 24 * time.Hour)
	}
}

// Capture posts a pending preauth, optionally for a different amount than the
// hold. A captured one-time card closes itself.
func (s *Service) Capture(ctx context.Context, userID, txnID string, amount *decimal.Decimal) (*domain.Transaction, error) {
	t, err := s.owned(ctx, userID, txnID)
	if err != nil {
		return nil, err
	}
	if t.Type != domain.TxnPreauth || t.Status != domain.TxnPending {
		return nil, xerrors.ErrInvalidTransition
	}

	posted := t.Amount
	if t.HoldAmount != nil {
		posted = *t.HoldAmount
	}
	if amount != nil {
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, xerrors.ErrInvalidAmount
		}
		posted = *amount
	}

	t.Type = domain.TxnCapture
	t.Status = domain.TxnPosted
	t.PostedAmount = &posted
	if err := s.txns.Update(ctx, t); err != nil {
		return nil, err
	}

	if c, err := s.cards.Get(ctx, userID, t.CardID); err == nil &&
		c.Type == domain.CardTypeOneTime && c.Status == domain.CardActive {
		if _, err := s.cards.Close(ctx, userID, c.ID); err != nil && !errors.Is(err, xerrors.ErrInvalidTransition) {
			log.Printf("Failed to close one-time card after capture | CardID=%s | err=%v", c.ID, err)
		}
	}

	return t, nil
}

// Refund posts a negative transaction referencing the original capture.
func (s *Service) Refund(ctx context.Context, userID, txnID string, amount decimal.Decimal) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, xerrors.ErrInvalidAmount
	}

	base, err := s.owned(ctx, userID, txnID)
	if err != nil {
		return nil, err
	}
	if base.Status != domain.TxnPosted {
		return nil, xerrors.ErrInvalidTransition
	}

	refTxnID := base.ID
	refund := &domain.Transaction{
		ID:           id.New("txn"),
		UserID:       userID,
		CardID:       base.CardID,
		MerchantName: base.MerchantName,
		MCC:          base.MCC,
		Currency:     base.Currency,
		Amount:       amount.Neg(),
		Type:         domain.TxnRefund,
		Status:       domain.TxnPosted,
		RefTxnID:     &refTxnID,
		CreatedAt:    s.now(),
	}
	if err := s.txns.Create(ctx, refund); err != nil {
		return nil, err
	}
	return refund, nil
}

// ListByCard returns the card's transactions, newest first, after the
// ownership check on the card itself.
func (s *Service) ListByCard(ctx context.Context, userID, cardID string) ([]*domain.Transaction, error) {
	if _, err := s.cards.Get(ctx, userID, cardID); err != nil {
		return nil, err
	}
	return s.txns.ListByCard(ctx, cardID)
}

func (s *Service) owned(ctx context.Context, userID, txnID string) (*domain.Transaction, error) {
	t, err := s.txns.GetByID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, xerrors.ErrTxnNotFound
	}
	return t, nil
}

func presentmentIn(mode domain.PresentmentMode, set []domain.PresentmentMode) bool {
	for _, m := range set {
		if m == mode {
			return true
		}
	}
	return false
}

func stringIn(s string, set []string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
