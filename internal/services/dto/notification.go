package dto

import (
	"time"

	"cargolink_backend/internal/models"
)

type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	RelatedID string                  `json:"related_id,omitempty"`
	Payload   any                     `json:"payload,omitempty"`
	IsRead    bool                    `json:"is_read"`
	ReadAt    *time.Time              `json:"read_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	UnreadCount   int64                  `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

type MarkReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}
