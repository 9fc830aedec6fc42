package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"minicrm/delivery"
	"minicrm/models"
)

type DeliveryController struct {
	DB         *gorm.DB
	Logger     *log.Logger
	Reconciler *delivery.Reconciler
}

func NewDeliveryController(db *gorm.DB, logger *log.Logger, reconciler *delivery.Reconciler) *DeliveryController {
	return &DeliveryController{
		DB:         db,
		Logger:     logger,
		Reconciler: reconciler,
	}
}

// DeliveryReceipt records the outcome reported by the message vendor for a
// single communication log. The endpoint is an unauthenticated callback in
// some deployments, so the body is treated as untrusted input. Duplicate
// receipts for an already-terminal log are acknowledged without touching
// the campaign counters.
func (dc *DeliveryController) DeliveryReceipt(c *fiber.Ctx) error {
	var input struct {
		LogID  uint   `json:"log_id"`
		Status string `json:"status"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if input.LogID == 0 || !models.TerminalLogStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "log_id and a status of sent or failed are required",
		})
	}

	logEntry, err := dc.Reconciler.ProcessReceipt(input.LogID, input.Status)
	switch {
	case errors.Is(err, delivery.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, delivery.ErrLogNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Communication log not found",
		})
	case errors.Is(err, delivery.ErrCampaignNotFound):
		// The log update is already recorded; only the aggregate is gone.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Campaign not found",
		})
	case err != nil:
		dc.Logger.Printf("Failed to process delivery receipt for log %d: %v", input.LogID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update delivery status",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Log updated as %s", input.Status),
		"log":     logEntry,
	})
}
