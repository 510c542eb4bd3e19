package user

import (
	"time"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/google/uuid"
)

// RegisterInput is the body of POST /users.
type RegisterInput struct {
	ID   int64  `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required,max=100"`
}

type NotificationDTO struct {
	ID            uuid.UUID `json:"id"`
	Message       string    `json:"message"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Status        string    `json:"status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToNotificationDTOs(ns []events.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, NotificationDTO{
			ID:            n.ID,
			Message:       n.Message,
			TransactionID: n.TransactionID,
			Status:        n.Status,
			CreatedAt:     n.CreatedAt,
		})
	}
	return out
}
