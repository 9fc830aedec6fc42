package delivery

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"minicrm/models"
)

var (
	ErrLogNotFound      = errors.New("communication log not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrInvalidStatus    = errors.New("status must be sent or failed")
)

// Store is the persistence boundary of the reconciler. Implementations must
// make MarkTerminal and ApplyOutcome atomic: MarkTerminal is the idempotency
// gate (a log already terminal is never claimed twice), and ApplyOutcome
// must not lose concurrent increments to the same campaign.
type Store interface {
	// MarkTerminal transitions a pending log to the given terminal status.
	// claimed is false when the log exists but was already terminal.
	MarkTerminal(logID uint, status string, resp models.VendorResponse, at time.Time) (log *models.CommunicationLog, claimed bool, err error)

	// PendingLogs returns every pending log of the campaign.
	PendingLogs(campaignID uint) ([]models.CommunicationLog, error)

	// ApplyOutcome folds terminal outcomes into the campaign counters and
	// flips the campaign to sent once sent+failed covers the audience.
	ApplyOutcome(campaignID uint, sent, failed int, at time.Time) error

	// Finalize flips the campaign to sent if its counters already cover the
	// audience (covers empty audiences and resumed bulk runs).
	Finalize(campaignID uint, at time.Time) error
}

// GormStore implements Store on the shared gorm connection
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// MarkTerminal uses a conditional UPDATE as a check-and-set: only a pending
// row is claimed, so a duplicate receipt never reaches the campaign counters.
func (s *GormStore) MarkTerminal(logID uint, status string, resp models.VendorResponse, at time.Time) (*models.CommunicationLog, bool, error) {
	res := s.DB.Model(&models.CommunicationLog{}).
		Where("id = ? AND status = ?", logID, models.LogStatusPending).
		Updates(models.CommunicationLog{
			Status:         status,
			SentAt:         &at,
			VendorResponse: resp,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}

	var log models.CommunicationLog
	if err := s.DB.First(&log, logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrLogNotFound
		}
		return nil, false, err
	}

	return &log, res.RowsAffected > 0, nil
}

func (s *GormStore) PendingLogs(campaignID uint) ([]models.CommunicationLog, error) {
	var logs []models.CommunicationLog
	err := s.DB.
		Where("campaign_id = ? AND status = ?", campaignID, models.LogStatusPending).
		Order("id").
		Find(&logs).Error
	return logs, err
}

// ApplyOutcome increments the counters in the database rather than
// read-modify-write in Go, so concurrent receipts for the same campaign
// cannot under-count.
func (s *GormStore) ApplyOutcome(campaignID uint, sent, failed int, at time.Time) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Campaign{}).
			Where("id = ?", campaignID).
			Updates(map[string]interface{}{
				"sent":   gorm.Expr("sent + ?", sent),
				"failed": gorm.Expr("failed + ?", failed),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCampaignNotFound
		}
		return finalize(tx, campaignID, at)
	})
}

func (s *GormStore) Finalize(campaignID uint, at time.Time) error {
	return finalize(s.DB, campaignID, at)
}

// finalize flips draft -> sent once the counters cover the audience. The
// condition lives in the WHERE clause, so the flip is monotone and safe
// under concurrent callers.
func finalize(tx *gorm.DB, campaignID uint, at time.Time) error {
	return tx.Model(&models.Campaign{}).
		Where("id = ? AND status = ? AND sent + failed >= audience_size", campaignID, models.CampaignStatusDraft).
		Updates(map[string]interface{}{
			"status":  models.CampaignStatusSent,
			"sent_at": at,
		}).Error
}
