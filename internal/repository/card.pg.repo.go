package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"issuing-service/internal/domain"
	"issuing-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGCardRepo struct {
	db *pgxpool.Pool
}

func NewPGCardRepo(db *pgxpool.Pool) *PGCardRepo {
	return &PGCardRepo{db: db}
}

const cardColumns = `id, user_id, label, type, status, reissue_count, replaces_card_id, controls, created_at, updated_at`

func scanCard(row pgx.Row) (*domain.Card, error) {
	var c domain.Card
	var controls []byte
	err := row.Scan(&c.ID, &c.UserID, &c.Label, &c.Type, &c.Status,
		&c.ReissueCount, &c.ReplacesCardID, &controls, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(controls) > 0 {
		if err := json.Unmarshal(controls, &c.Controls); err != nil {
			return nil, fmt.Errorf("decode card controls: %w", err)
		}
	}
	return &c, nil
}

func (r *PGCardRepo) Create(ctx context.Context, card *domain.Card) error {
	controls, err := json.Marshal(card.Controls)
	if err != nil {
		return fmt.Errorf("encode card controls: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO cards
		(id, user_id, label, type, status, reissue_count, replaces_card_id, controls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, card.ID, card.UserID, card.Label, card.Type, card.Status,
		card.ReissueCount, card.ReplacesCardID, controls, card.CreatedAt, card.UpdatedAt)
	return err
}

func (r *PGCardRepo) GetByID(ctx context.Context, cardID string) (*domain.Card, error) {
	row := r.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, cardID)
	return scanCard(row)
}

func (r *PGCardRepo) ListByUser(ctx context.Context, userID string, includeClosed bool) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1`
	if !includeClosed {
		query += ` AND status <> 'closed'`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func statusStrings(set []domain.CardStatus) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		out = append(out, string(s))
	}
	return out
}

func (r *PGCardRepo) UpdateStatus(ctx context.Context, cardID string, from []domain.CardStatus, to domain.CardStatus) (*domain.Card, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE cards SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = ANY($3)
		RETURNING `+cardColumns+`
	`, to, cardID, statusStrings(from))

	card, err := scanCard(row)
	if errors.Is(err, xerrors.ErrCardNotFound) {
		// Distinguish a missing card from a failed precondition
		if _, getErr := r.GetByID(ctx, cardID); getErr != nil {
			return nil, getErr
		}
		return nil, xerrors.ErrInvalidTransition
	}
	return card, err
}

func (r *PGCardRepo) UpdateControls(ctx context.Context, cardID string, controls domain.CardControls) (*domain.Card, error) {
	raw, err := json.Marshal(controls)
	if err != nil {
		return nil, fmt.Errorf("encode card controls: %w", err)
	}
	row := r.db.QueryRow(ctx, `
		UPDATE cards SET controls = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+cardColumns+`
	`, raw, cardID)
	return scanCard(row)
}

func (r *PGCardRepo) Reissue(ctx context.Context, oldID string, from []domain.CardStatus, successor *domain.Card) (*domain.Card, *domain.Card, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	// Row lock linearizes concurrent transitions on the same card
	row := tx.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1 FOR UPDATE`, oldID)
	old, err := scanCard(row)
	if err != nil {
		return nil, nil, err
	}
	if !statusIn(old.Status, from) {
		return nil, nil, xerrors.ErrInvalidTransition
	}

	row = tx.QueryRow(ctx, `
		UPDATE cards SET status = 'closed', updated_at = NOW()
		WHERE id = $1
		RETURNING `+cardColumns+`
	`, oldID)
	old, err = scanCard(row)
	if err != nil {
		return nil, nil, err
	}

	controls, err := json.Marshal(successor.Controls)
	if err != nil {
		return nil, nil, fmt.Errorf("encode card controls: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO cards
		(id, user_id, label, type, status, reissue_count, replaces_card_id, controls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, successor.ID, successor.UserID, successor.Label, successor.Type, successor.Status,
		successor.ReissueCount, successor.ReplacesCardID, controls, successor.CreatedAt, successor.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	created := *successor
	return old, &created, nil
}
