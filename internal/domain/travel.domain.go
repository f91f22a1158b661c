package domain

import "time"

type TravelNotice struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Countries []string  `json:"countries"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}
