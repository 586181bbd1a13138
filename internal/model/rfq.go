package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuantityScale is the number of fractional digits rfqs.quantity stores.
const QuantityScale int32 = 3

type RFQStatus string

const (
	RFQStatusDraft     RFQStatus = "draft"
	RFQStatusSubmitted RFQStatus = "submitted"
	RFQStatusResponded RFQStatus = "responded"
	RFQStatusAccepted  RFQStatus = "accepted"
	RFQStatusRejected  RFQStatus = "rejected"
	RFQStatusExpired   RFQStatus = "expired"
)

var RFQStatuses = []RFQStatus{
	RFQStatusDraft,
	RFQStatusSubmitted,
	RFQStatusResponded,
	RFQStatusAccepted,
	RFQStatusRejected,
	RFQStatusExpired,
}

func ParseRFQStatus(raw string) (RFQStatus, bool) {
	for _, status := range RFQStatuses {
		if string(status) == raw {
			return status, true
		}
	}
	return "", false
}

// RFQ is a consumer's sourcing request.
type RFQ struct {
	ID            uuid.UUID       `gorm:"column:id" json:"id"`
	CatalogID     *uuid.UUID      `gorm:"column:catalog_id" json:"catalog_id"`
	ConsumerID    uuid.UUID       `gorm:"column:consumer_id" json:"consumer_id"`
	ProviderID    *uuid.UUID      `gorm:"column:provider_id" json:"provider_id"`
	Quantity      decimal.Decimal `gorm:"column:quantity" json:"quantity"`
	Unit          string          `gorm:"column:unit" json:"unit"`
	Message       *string         `gorm:"column:message" json:"message"`
	PreferredDate *time.Time      `gorm:"column:preferred_date" json:"preferred_date"`
	Status        RFQStatus       `gorm:"column:status" json:"status"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (RFQ) TableName() string { return "rfqs" }

// RFQPatch carries scalar fields merged on a transition. Nil means "keep".
type RFQPatch struct {
	CatalogID     *uuid.UUID
	ProviderID    *uuid.UUID
	Quantity      *decimal.Decimal
	Unit          *string
	Message       *string
	PreferredDate *time.Time
}

func (p RFQPatch) IsEmpty() bool {
	return p.CatalogID == nil &&
		p.ProviderID == nil &&
		p.Quantity == nil &&
		p.Unit == nil &&
		p.Message == nil &&
		p.PreferredDate == nil
}

type RFQFilter struct {
	ConsumerID *uuid.UUID
	// ProviderID matches RFQs assigned to the provider or quoted by them.
	ProviderID *uuid.UUID
	Status     *RFQStatus
	Limit      int
	Offset     int

	// OpenOnly restricts to RFQs still collecting quotes.
	OpenOnly bool
}

// RFQStatusEvent is one row of an RFQ's status history.
type RFQStatusEvent struct {
	ID         uuid.UUID  `gorm:"column:id" json:"id"`
	RFQID      uuid.UUID  `gorm:"column:rfq_id" json:"rfq_id"`
	FromStatus *RFQStatus `gorm:"column:from_status" json:"from_status"`
	ToStatus   RFQStatus  `gorm:"column:to_status" json:"to_status"`
	ActorID    uuid.UUID  `gorm:"column:actor_id" json:"actor_id"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (RFQStatusEvent) TableName() string { return "rfq_status_events" }
