package models

import (
	"time"

	"gorm.io/gorm"

	"minicrm/segment"
)

// Campaign statuses
const (
	CampaignStatusDraft = "draft"
	CampaignStatusSent  = "sent"
)

// Campaign represents a marketing campaign targeting a customer segment
type Campaign struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	// Rule description as submitted, round-tripped verbatim
	SegmentRules segment.Rules `gorm:"type:jsonb;serializer:json" json:"segment_rules"`

	// Audience snapshot captured at creation time, immutable thereafter
	Audience     []uint `gorm:"type:jsonb;serializer:json" json:"audience"`
	AudienceSize int    `gorm:"default:0" json:"audience_size"`

	// Delivery counters, incremented by the reconciler.
	// Invariant: 0 <= sent+failed <= audience_size.
	Sent   int `gorm:"default:0" json:"sent"`
	Failed int `gorm:"default:0" json:"failed"`

	Status string     `gorm:"default:'draft'" json:"status"`
	SentAt *time.Time `json:"sent_at"`

	Logs []CommunicationLog `gorm:"foreignKey:CampaignID" json:"logs,omitempty"`
}
