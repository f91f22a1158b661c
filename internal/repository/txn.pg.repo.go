package repository

import (
	"context"
	"errors"
	"time"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PGTxnRepo struct {
	db *pgxpool.Pool
}

func NewPGTxnRepo(db *pgxpool.Pool) *PGTxnRepo {
	return &PGTxnRepo{db: db}
}

const txnColumns = `id, user_id, card_id, merchant_name, merchant_id, mcc, country,
	presentment_mode, currency, amount, type, status, auth_hold_amount, posted_amount, ref_txn_id, created_at`

func scanTxn(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.CardID, &t.MerchantName, &t.MerchantID,
		&t.MCC, &t.Country, &t.Presentment, &t.Currency, &t.Amount, &t.Type,
		&t.Status, &t.HoldAmount, &t.PostedAmount, &t.RefTxnID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrTxnNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGTxnRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO card_transactions
		(id, user_id, card_id, merchant_name, merchant_id, mcc, country,
		 presentment_mode, currency, amount, type, status, auth_hold_amount, posted_amount, ref_txn_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, txn.ID, txn.UserID, txn.CardID, txn.MerchantName, txn.MerchantID, txn.MCC, txn.Country,
		txn.Presentment, txn.Currency, txn.Amount, txn.Type, txn.Status,
		txn.HoldAmount, txn.PostedAmount, txn.RefTxnID, txn.CreatedAt)
	return err
}

func (r *PGTxnRepo) GetByID(ctx context.Context, txnID string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+txnColumns+` FROM card_transactions WHERE id = $1`, txnID)
	return scanTxn(row)
}

func (r *PGTxnRepo) Update(ctx context.Context, txn *domain.Transaction) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE card_transactions
		SET type = $1, status = $2, posted_amount = $3
		WHERE id = $4
	`, txn.Type, txn.Status, txn.PostedAmount, txn.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrTxnNotFound
	}
	return nil
}

func (r *PGTxnRepo) ListByCard(ctx context.Context, cardID string) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+txnColumns+` FROM card_transactions
		WHERE card_id = $1
		ORDER BY created_at DESC, id DESC
	`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (r *PGTxnRepo) SumCaptured(ctx context.Context, cardID string, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(ABS(COALESCE(posted_amount, amount))), 0)
		FROM card_transactions
		WHERE card_id = $1 AND type = 'capture' AND status = 'posted' AND created_at >= $2
	`, cardID, since).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
