package controller

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"minicrm/delivery"
	"minicrm/models"
	"minicrm/segment"
)

type CampaignController struct {
	DB         *gorm.DB
	Logger     *log.Logger
	Reconciler *delivery.Reconciler
}

func NewCampaignController(db *gorm.DB, logger *log.Logger, reconciler *delivery.Reconciler) *CampaignController {
	return &CampaignController{
		DB:         db,
		Logger:     logger,
		Reconciler: reconciler,
	}
}

// CreateCampaign resolves the audience for the submitted segment rules and
// persists a draft campaign with one pending communication log per matched
// customer. With preview set, it only reports the audience size.
func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name         string        `json:"name"`
		Description  string        `json:"description"`
		SegmentRules segment.Rules `json:"segment_rules"`
		Preview      bool          `json:"preview"`
	}

	if err := c.BodyParser(&input); err != nil {
		cc.Logger.Printf("Error parsing request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Campaign name is required",
		})
	}

	members, dropped, err := segment.ResolveAudience(cc.DB, input.SegmentRules, time.Now())
	if err != nil {
		cc.Logger.Printf("Failed to resolve audience: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve audience",
		})
	}

	if input.Preview {
		return c.JSON(fiber.Map{
			"success":       true,
			"audience_size": len(members),
			"dropped_rules": dropped,
		})
	}

	audience := make([]uint, len(members))
	for i, m := range members {
		audience[i] = m.ID
	}

	campaign := models.Campaign{
		UserID:       user.ID,
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		SegmentRules: input.SegmentRules,
		Audience:     audience,
		AudienceSize: len(members),
		Status:       models.CampaignStatusDraft,
	}

	if err := cc.persistCampaign(&campaign, members); err != nil {
		cc.Logger.Printf("Failed to create campaign: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create campaign",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"campaign_id":   campaign.ID,
		"audience_size": campaign.AudienceSize,
		"status":        campaign.Status,
		"dropped_rules": dropped,
	})
}

// GetCampaignHistory returns the requester's campaigns, most recent first,
// with the audience snapshot resolved to display fields.
func (cc *CampaignController) GetCampaignHistory(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var campaigns []models.Campaign
	if err := cc.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		cc.Logger.Printf("Failed to fetch campaigns: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch campaign history",
		})
	}

	// Resolve every referenced customer in one query
	idSet := make(map[uint]struct{})
	for _, campaign := range campaigns {
		for _, id := range campaign.Audience {
			idSet[id] = struct{}{}
		}
	}

	byID := make(map[uint]segment.AudienceMember)
	if len(idSet) > 0 {
		ids := make([]uint, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}
		var members []segment.AudienceMember
		if err := cc.DB.Table("customers").
			Select("id, name, email").
			Where("id IN ?", ids).
			Scan(&members).Error; err != nil {
			cc.Logger.Printf("Failed to resolve audience members: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to fetch campaign history",
			})
		}
		for _, m := range members {
			byID[m.ID] = m
		}
	}

	type campaignWithAudience struct {
		models.Campaign
		AudienceMembers []segment.AudienceMember `json:"audience_members"`
	}

	data := make([]campaignWithAudience, len(campaigns))
	for i, campaign := range campaigns {
		resolved := make([]segment.AudienceMember, 0, len(campaign.Audience))
		for _, id := range campaign.Audience {
			if m, ok := byID[id]; ok {
				resolved = append(resolved, m)
			}
		}
		data[i] = campaignWithAudience{Campaign: campaign, AudienceMembers: resolved}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func renderMessage(name string) string {
	return "Hi " + name + ", here's 10% off on your next order!"
}

// buildCommunicationLogs prepares one pending log per audience member.
func buildCommunicationLogs(campaignID uint, members []segment.AudienceMember) []models.CommunicationLog {
	logs := make([]models.CommunicationLog, len(members))
	for i, m := range members {
		logs[i] = models.CommunicationLog{
			CampaignID:   campaignID,
			CustomerID:   m.ID,
			CustomerName: m.Name,
			Message:      renderMessage(m.Name),
			Status:       models.LogStatusPending,
		}
	}
	return logs
}

// persistCampaign commits the campaign row and its log fan-out together:
// either every log for the campaign exists or none do.
func (cc *CampaignController) persistCampaign(campaign *models.Campaign, members []segment.AudienceMember) error {
	tx := cc.DB.Begin()

	if err := tx.Create(campaign).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(members) > 0 {
		logs := buildCommunicationLogs(campaign.ID, members)
		if err := tx.Create(&logs).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}
