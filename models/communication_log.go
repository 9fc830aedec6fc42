package models

import (
	"time"

	"gorm.io/gorm"
)

// Communication log statuses. Pending transitions once to sent or failed;
// terminal statuses are never revisited.
const (
	LogStatusPending = "pending"
	LogStatusSent    = "sent"
	LogStatusFailed  = "failed"
)

// VendorResponse records the delivery outcome reported by the message
// vendor. Provider distinguishes the simulated vendor from a real one;
// Code and Detail are only populated by real vendor integrations.
type VendorResponse struct {
	Provider  string `json:"provider,omitempty"`
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Code      int    `json:"code,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// CommunicationLog is one delivery attempt record per (campaign, customer)
// pair, created in bulk at campaign creation
type CommunicationLog struct {
	gorm.Model
	CampaignID uint `gorm:"not null;index" json:"campaign_id"`
	CustomerID uint `gorm:"not null;index" json:"customer_id"`

	CustomerName string `json:"customer_name"`
	Message      string `json:"message"`

	Status string     `gorm:"default:'pending';index" json:"status"`
	SentAt *time.Time `json:"sent_at"`

	VendorResponse VendorResponse `gorm:"type:jsonb;serializer:json" json:"vendor_response"`

	Campaign Campaign `json:"-"`
}

// TerminalLogStatus reports whether s is an accepted terminal status
// for a delivery receipt.
func TerminalLogStatus(s string) bool {
	return s == LogStatusSent || s == LogStatusFailed
}
