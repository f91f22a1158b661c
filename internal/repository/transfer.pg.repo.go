package repository

import (
	"context"
	"errors"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGTransferRepo struct {
	db *pgxpool.Pool
}

func NewPGTransferRepo(db *pgxpool.Pool) *PGTransferRepo {
	return &PGTransferRepo{db: db}
}

const transferColumns = `id, user_id, reference, send_amount, send_currency, receive_amount,
	receive_currency, rate, fee, beneficiary_name, beneficiary_iban, beneficiary_mobile,
	status, created_at, updated_at`

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var t domain.Transfer
	err := row.Scan(&t.ID, &t.UserID, &t.Reference, &t.SendAmount, &t.SendCurrency,
		&t.ReceiveAmount, &t.ReceiveCurrency, &t.Rate, &t.Fee, &t.BeneficiaryName,
		&t.BeneficiaryIBAN, &t.BeneficiaryMobile, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrTransferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGTransferRepo) Create(ctx context.Context, t *domain.Transfer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO remit_transfers
		(id, user_id, reference, send_amount, send_currency, receive_amount,
		 receive_currency, rate, fee, beneficiary_name, beneficiary_iban, beneficiary_mobile,
		 status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, t.ID, t.UserID, t.Reference, t.SendAmount, t.SendCurrency, t.ReceiveAmount,
		t.ReceiveCurrency, t.Rate, t.Fee, t.BeneficiaryName, t.BeneficiaryIBAN,
		t.BeneficiaryMobile, t.Status, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *PGTransferRepo) GetByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+transferColumns+` FROM remit_transfers WHERE id = $1`, transferID)
	return scanTransfer(row)
}

func (r *PGTransferRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Transfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transferColumns+` FROM remit_transfers
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

func (r *PGTransferRepo) UpdateStatus(ctx context.Context, transferID string, from, to domain.TransferStatus) (*domain.Transfer, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE remit_transfers SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+transferColumns+`
	`, to, transferID, from)

	t, err := scanTransfer(row)
	if errors.Is(err, xerrors.ErrTransferNotFound) {
		if _, getErr := r.GetByID(ctx, transferID); getErr != nil {
			return nil, getErr
		}
		return nil, xerrors.ErrInvalidTransition
	}
	return t, err
}

func (r *PGTransferRepo) ListByStatus(ctx context.Context, status domain.TransferStatus, limit int) ([]*domain.Transfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transferColumns+` FROM remit_transfers
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}
