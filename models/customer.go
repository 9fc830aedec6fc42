package models

import (
	"time"

	"gorm.io/gorm"
)

// maxVisitHistory bounds the stored visit timestamps per customer.
const maxVisitHistory = 50

// Customer represents a contact in the CRM
type Customer struct {
	gorm.Model

	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Phone string `json:"phone"`

	// Address
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `gorm:"default:'India'" json:"country"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	LastLogin time.Time `json:"last_login"`

	// Aggregates recomputed from the order history on every order write
	TotalSpent   float64 `gorm:"default:0" json:"total_spent"`
	VisitCount   int     `gorm:"default:0" json:"visit_count"`
	InactiveDays int     `gorm:"default:0" json:"inactive_days"`

	// Visit history, newest last, capped at maxVisitHistory entries
	Visits []time.Time `gorm:"type:jsonb;serializer:json" json:"visits"`
}

// RecordVisit appends a visit timestamp and refreshes the derived fields.
// InactiveDays is measured against the previous LastLogin, so it reflects
// how long the customer had been inactive before this visit.
func (c *Customer) RecordVisit(now time.Time) {
	if !c.LastLogin.IsZero() {
		c.InactiveDays = int(now.Sub(c.LastLogin).Hours() / 24)
		if c.InactiveDays < 0 {
			c.InactiveDays = 0
		}
	} else {
		c.InactiveDays = 0
	}

	c.Visits = append(c.Visits, now)
	if len(c.Visits) > maxVisitHistory {
		c.Visits = c.Visits[len(c.Visits)-maxVisitHistory:]
	}
	c.VisitCount = len(c.Visits)
	c.LastLogin = now
}
