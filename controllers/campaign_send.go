package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"minicrm/models"
	"minicrm/utils"
)

// SendCampaign runs the delivery reconciler over every pending log of the
// campaign. The returned counters cover only logs this call moved to a
// terminal state; logs already terminal from an earlier interrupted run are
// not re-counted.
func (cc *CampaignController) SendCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.First(&campaign, campaignID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Campaign not found",
			})
		}
		cc.Logger.Printf("Failed to load campaign %d: %v", campaignID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to load campaign",
		})
	}

	if campaign.UserID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to send this campaign",
		})
	}

	if campaign.Status == models.CampaignStatusSent {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Campaign already sent",
		})
	}

	sent, failed, errs := cc.Reconciler.ProcessPending(campaign.ID)
	for _, err := range errs {
		cc.Logger.Printf("Campaign %d delivery error: %v", campaign.ID, err)
	}

	if err := cc.DB.First(&campaign, campaign.ID).Error; err != nil {
		cc.Logger.Printf("Failed to reload campaign %d: %v", campaign.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to reload campaign",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  fmt.Sprintf("Campaign processed. Sent: %d, Failed: %d", sent, failed),
		"sent":     sent,
		"failed":   failed,
		"campaign": campaign,
	})
}
