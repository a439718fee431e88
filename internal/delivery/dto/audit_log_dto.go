package dto

import (
	"time"

	"ayursetu-backend/internal/domain/entity"
)

// Response DTOs

type AuditLogResponse struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId,omitempty"`
	Action    string      `json:"action"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"createdAt"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
