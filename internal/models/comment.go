package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CommentStatusWaiting     = "waiting"
	CommentStatusApproved    = "approved"
	CommentStatusNotApproved = "not_approved"
)

type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Body      string    `json:"body" db:"body"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func ValidCommentStatus(status string) bool {
	switch status {
	case CommentStatusWaiting, CommentStatusApproved, CommentStatusNotApproved:
		return true
	}
	return false
}
