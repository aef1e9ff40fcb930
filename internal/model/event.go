package model

import (
	"time"

	"github.com/google/uuid"
)

// EventCategory 活動分類
type EventCategory string

const (
	CategoryConference EventCategory = "Conférence"
	CategoryWebinar    EventCategory = "Webinar"
	CategoryWorkshop   EventCategory = "Atelier"
	CategoryTraining   EventCategory = "Formation"
	CategoryNetworking EventCategory = "Networking"
	CategoryOther      EventCategory = "Autre"
)

// IsValid 驗證分類是否有效
func (c EventCategory) IsValid() bool {
	switch c {
	case CategoryConference, CategoryWebinar, CategoryWorkshop,
		CategoryTraining, CategoryNetworking, CategoryOther:
		return true
	}
	return false
}

// Event 活動模型。Capacity 為 nil 表示不限人數；
// CapacityLeft 只在 Capacity 非 nil 時追蹤剩餘名額。
type Event struct {
	ID           int            `json:"id" db:"id"`
	EventID      uuid.UUID      `json:"event_id" db:"event_id"`
	Name         string         `json:"name" db:"name"`
	Description  *string        `json:"description,omitempty" db:"description"`
	OwnerID      int            `json:"owner_id" db:"owner_id"`
	StartDate    time.Time      `json:"start_date" db:"start_date"`
	EndDate      time.Time      `json:"end_date" db:"end_date"`
	Location     *string        `json:"location,omitempty" db:"location"`
	Category     *EventCategory `json:"category,omitempty" db:"category"`
	Price        float64        `json:"price" db:"price"`
	Capacity     *int           `json:"capacity" db:"capacity"`
	CapacityLeft *int           `json:"capacity_left" db:"capacity_left"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`

	Owner *User `json:"owner,omitempty" db:"-"`
}

// IsUnlimited 檢查活動是否不限人數
func (e *Event) IsUnlimited() bool {
	return e.Capacity == nil
}

// IsFull 檢查活動是否已滿
func (e *Event) IsFull() bool {
	return e.CapacityLeft != nil && *e.CapacityLeft <= 0
}

// IsFree 檢查活動是否免費
func (e *Event) IsFree() bool {
	return e.Price <= 0
}

type UpdateEventParams struct {
	Name        *string
	Description *string
	OwnerID     *int
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	Category    *EventCategory
	Price       *float64
	Capacity    *int
}

// HasChanges 檢查是否至少有一個欄位要更新
func (p UpdateEventParams) HasChanges() bool {
	return p.Name != nil || p.Description != nil || p.OwnerID != nil ||
		p.StartDate != nil || p.EndDate != nil || p.Location != nil ||
		p.Category != nil || p.Price != nil || p.Capacity != nil
}
