package domain

import (
	"time"

	"github.com/google/uuid"
)

// GearStatus is the listing lifecycle of a gear item.
type GearStatus string

const (
	GearDraft     GearStatus = "DRAFT"
	GearPublished GearStatus = "PUBLISHED"
	GearArchived  GearStatus = "ARCHIVED"
)

// GearItem represents a single piece of rentable gear listed by its owner.
// BufferHours, when set, overrides the process-wide default handoff buffer
// for this item only.
type GearItem struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DailyRate     int        `json:"daily_rate"`
	DepositAmount int        `json:"deposit_amount"`
	Condition     string     `json:"condition,omitempty"`
	Status        GearStatus `json:"status"`
	BufferHours   *int       `json:"buffer_hours,omitempty"` // nil means use the configured default
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// EffectiveBuffer returns the handoff buffer for this item in hours,
// falling back to defaultHours when no per-item override is set.
func (g GearItem) EffectiveBuffer(defaultHours int) int {
	if g.BufferHours != nil {
		return *g.BufferHours
	}
	return defaultHours
}
