package repository

import (
	"context"

	"issuing-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PGTravelRepo struct {
	db *pgxpool.Pool
}

func NewPGTravelRepo(db *pgxpool.Pool) *PGTravelRepo {
	return &PGTravelRepo{db: db}
}

func (r *PGTravelRepo) Create(ctx context.Context, notice *domain.TravelNotice) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO travel_notices (id, user_id, countries, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, notice.ID, notice.UserID, notice.Countries, notice.StartDate, notice.EndDate, notice.CreatedAt)
	return err
}

func (r *PGTravelRepo) ListByUser(ctx context.Context, userID string) ([]*domain.TravelNotice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, countries, start_date, end_date, created_at
		FROM travel_notices
		WHERE user_id = $1
		ORDER BY start_date
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []*domain.TravelNotice
	for rows.Next() {
		var n domain.TravelNotice
		if err := rows.Scan(&n.ID, &n.UserID, &n.Countries, &n.StartDate, &n.EndDate, &n.CreatedAt); err != nil {
			return nil, err
		}
		notices = append(notices, &n)
	}
	return notices, rows.Err()
}
