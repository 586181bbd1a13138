package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits quotes.price stores.
const PriceScale int32 = 2

type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// Quote is a provider's priced response to one RFQ.
type Quote struct {
	ID              uuid.UUID       `gorm:"column:id" json:"id"`
	RFQID           uuid.UUID       `gorm:"column:rfq_id" json:"rfq_id"`
	ProviderID      uuid.UUID       `gorm:"column:provider_id" json:"provider_id"`
	Price           decimal.Decimal `gorm:"column:price" json:"price"`
	Currency        string          `gorm:"column:currency" json:"currency"`
	DeliveryETADays *int            `gorm:"column:delivery_eta_days" json:"delivery_eta_days"`
	Notes           *string         `gorm:"column:notes" json:"notes"`
	Status          QuoteStatus     `gorm:"column:status" json:"status"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Quote) TableName() string { return "quotes" }

// Arbitration is the outcome of a successful acceptance.
type Arbitration struct {
	RFQ      RFQ     `json:"rfq"`
	Accepted Quote   `json:"accepted"`
	Rejected []Quote `json:"rejected"`
}
