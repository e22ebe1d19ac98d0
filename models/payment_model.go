package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment is one STK push attempt. Records are never deleted; once the
// status leaves pending it is terminal. MpesaReceipt is set exactly once,
// on the succeeded transition, and is nil in every other state.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(10,2);not null;index:idx_payments_match,priority:2" json:"amount"`
	// Canonical 2547XXXXXXXX form. The matching query compares suffixes,
	// so the column is part of the composite match index.
	PhoneNumber  string    `gorm:"size:15;not null;index:idx_payments_match,priority:3" json:"phone_number"`
	MpesaReceipt *string   `gorm:"size:50;unique" json:"mpesa_receipt"`
	Status       string    `gorm:"size:20;not null;default:'pending';index:idx_payments_match,priority:1" json:"status"`
	CreatedAt    time.Time `json:"created_at"`

	Product Product `gorm:"foreignkey:ProductID" json:"-"`
}
