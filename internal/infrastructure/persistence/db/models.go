package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Profile struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	Section        string
	WhatsappNumber string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Project struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Description pgtype.Text
	TeamSize    pgtype.Int4
	CreatorID   uuid.UUID
	CreatedAt   time.Time
}

type Application struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}
