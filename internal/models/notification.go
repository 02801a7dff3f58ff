package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Title  string     `json:"title"`
	Body   string     `json:"body"`
	ReadAt *time.Time `json:"read_at"`
}
