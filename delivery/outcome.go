package delivery

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"minicrm/models"
)

// Outcome is a single delivery result produced by a vendor
type Outcome struct {
	Sent     bool
	Response models.VendorResponse
}

// OutcomeSource decides the delivery outcome for one communication log.
// A real vendor integration would implement this against actual response
// codes; the default implementation simulates delivery.
type OutcomeSource interface {
	Deliver(log *models.CommunicationLog) Outcome
}

// SimulatedVendor draws delivery success with a fixed probability
type SimulatedVendor struct {
	mu          sync.Mutex
	rng         *rand.Rand
	successRate float64
}

// NewSimulatedVendor returns a simulated vendor with 90% delivery success.
func NewSimulatedVendor(seed int64) *SimulatedVendor {
	return &SimulatedVendor{
		rng:         rand.New(rand.NewSource(seed)),
		successRate: 0.9,
	}
}

func (v *SimulatedVendor) Deliver(log *models.CommunicationLog) Outcome {
	v.mu.Lock()
	sent := v.rng.Float64() < v.successRate
	v.mu.Unlock()

	return Outcome{
		Sent: sent,
		Response: models.VendorResponse{
			Provider:  "simulated",
			Success:   sent,
			MessageID: uuid.New().String(),
		},
	}
}
