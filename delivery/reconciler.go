package delivery

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"minicrm/models"
)

// Reconciler folds per-recipient delivery outcomes into the owning
// campaign's aggregates. Both entry points share one contract: a log is
// claimed exactly once (pending -> terminal), and only a claimed log touches
// the campaign counters.
type Reconciler struct {
	store  Store
	vendor OutcomeSource
	logger *logrus.Logger
}

func NewReconciler(store Store, vendor OutcomeSource, logger *logrus.Logger) *Reconciler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reconciler{store: store, vendor: vendor, logger: logger}
}

// ProcessReceipt records the outcome reported by an external callback for a
// single log. A receipt for an already-terminal log is a no-op: the stored
// log is returned unchanged and the campaign counters are not touched.
// When the owning campaign is gone the log update is still recorded and
// ErrCampaignNotFound is returned.
func (r *Reconciler) ProcessReceipt(logID uint, status string) (*models.CommunicationLog, error) {
	if !models.TerminalLogStatus(status) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	resp := models.VendorResponse{
		Provider: "callback",
		Success:  status == models.LogStatusSent,
	}

	log, claimed, err := r.store.MarkTerminal(logID, status, resp, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		r.logger.WithFields(logrus.Fields{
			"log_id": logID,
			"status": log.Status,
		}).Info("duplicate delivery receipt ignored")
		return log, nil
	}

	sent, failed := 0, 0
	if status == models.LogStatusSent {
		sent = 1
	} else {
		failed = 1
	}

	if err := r.store.ApplyOutcome(log.CampaignID, sent, failed, now); err != nil {
		return log, err
	}
	return log, nil
}

// ProcessPending runs the vendor over every currently-pending log of the
// campaign. Each log's transition commits independently, so an interrupted
// run leaves the remaining logs pending and retryable. Per-log failures are
// isolated and reported; they never abort the batch. The returned counts
// cover only logs this call moved to a terminal state.
func (r *Reconciler) ProcessPending(campaignID uint) (sent, failed int, errs []error) {
	logs, err := r.store.PendingLogs(campaignID)
	if err != nil {
		return 0, 0, []error{err}
	}

	now := time.Now()
	for i := range logs {
		log := &logs[i]
		outcome := r.vendor.Deliver(log)

		status := models.LogStatusFailed
		if outcome.Sent {
			status = models.LogStatusSent
		}

		_, claimed, err := r.store.MarkTerminal(log.ID, status, outcome.Response, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("log %d: %w", log.ID, err))
			continue
		}
		if !claimed {
			// Raced with a concurrent receipt; the other writer owns
			// the counter update.
			continue
		}

		s, f := 0, 0
		if outcome.Sent {
			s = 1
		} else {
			f = 1
		}
		if err := r.store.ApplyOutcome(log.CampaignID, s, f, now); err != nil {
			errs = append(errs, fmt.Errorf("log %d: %w", log.ID, err))
			continue
		}

		sent += s
		failed += f
	}

	if err := r.store.Finalize(campaignID, now); err != nil {
		errs = append(errs, err)
	}

	return sent, failed, errs
}
