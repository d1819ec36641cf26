package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DonationStatus mirrors the transaction statuses reported by Wompi
type DonationStatus string

const (
	DonationPending  DonationStatus = "PENDING"
	DonationApproved DonationStatus = "APPROVED"
	DonationDeclined DonationStatus = "DECLINED"
	DonationVoided   DonationStatus = "VOIDED"
	DonationError    DonationStatus = "ERROR"
)

// Final reports whether the gateway will not move the status any further
func (s DonationStatus) Final() bool {
	switch s {
	case DonationApproved, DonationDeclined, DonationVoided, DonationError:
		return true
	}
	return false
}

// Donation rows are never deleted; TransactionRef is the reconciliation key.
type Donation struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	Amount               decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	DonorID              *uint           `gorm:"index" json:"donor_id"`
	CreatorID            uint            `gorm:"not null;index" json:"creator_id"`
	GameID               *uint           `gorm:"index" json:"game_id"`
	TransactionRef       string          `gorm:"size:100;uniqueIndex;not null" json:"transaction_ref"`
	Status               DonationStatus  `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	GatewayTransactionID string          `gorm:"size:100" json:"gateway_transaction_id"`
	Timestamp            time.Time       `gorm:"column:created_at;autoCreateTime;index" json:"timestamp"`
	UpdatedAt            time.Time       `json:"updated_at"`

	Donor   *User `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	Creator User  `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Game    *Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
}

// GatewayEvent keeps the raw body of every webhook delivery for audit
type GatewayEvent struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Event          string         `gorm:"size:60" json:"event"`
	Reference      string         `gorm:"size:100;index" json:"reference"`
	Status         string         `gorm:"size:20" json:"status"`
	TransactionID  string         `gorm:"size:100" json:"transaction_id"`
	SignatureValid bool           `json:"signature_valid"`
	Outcome        string         `gorm:"size:40" json:"outcome"`
	Payload        datatypes.JSON `json:"payload"`
	ReceivedAt     time.Time      `gorm:"autoCreateTime" json:"received_at"`
}
