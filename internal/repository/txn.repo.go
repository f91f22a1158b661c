package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"

	"github.com/shopspring/decimal"
)

type TxnRepo interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, txnID string) (*domain.Transaction, error)
	Update(ctx context.Context, txn *domain.Transaction) error
	// ListByCard returns the card's transactions, newest first.
	ListByCard(ctx context.Context, cardID string) ([]*domain.Transaction, error)
	// SumCaptured totals posted capture amounts on a card since the given time,
	// feeding spend-limit enforcement.
	SumCaptured(ctx context.Context, cardID string, since time.Time) (decimal.Decimal, error)
}

type MemoryTxnRepo struct {
	mu   sync.Mutex
	txns map[string]domain.Transaction
}

func NewMemoryTxnRepo() *MemoryTxnRepo {
	return &MemoryTxnRepo{txns: make(map[string]domain.Transaction)}
}

func (r *MemoryTxnRepo) Create(_ context.Context, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.txns[txn.ID] = *txn
	return nil
}

func (r *MemoryTxnRepo) GetByID(_ context.Context, txnID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.txns[txnID]
	if !ok {
		return nil, xerrors.ErrTxnNotFound
	}
	out := t
	return &out, nil
}

func (r *MemoryTxnRepo) Update(_ context.Context, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.txns[txn.ID]; !ok {
		return xerrors.ErrTxnNotFound
	}
	r.txns[txn.ID] = *txn
	return nil
}

func (r *MemoryTxnRepo) ListByCard(_ context.Context, cardID string) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var txns []*domain.Transaction
	for _, t := range r.txns {
		if t.CardID != cardID {
			continue
		}
		out := t
		txns = append(txns, &out)
	}
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].ID > txns[j].ID
		}
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns, nil
}

func (r *MemoryTxnRepo) SumCaptured(_ context.Context, cardID string, since time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := decimal.Zero
	for _, t := range r.txns {
		if t.CardID != cardID || t.Type != domain.TxnCapture || t.Status != domain.TxnPosted {
			continue
		}
		if t.CreatedAt.Before(since) {
			continue
		}
		amount := t.Amount
		if t.PostedAmount != nil {
			amount = *t.PostedAmount
		}
		total = total.Add(amount.Abs())
	}
	return total, nil
}
