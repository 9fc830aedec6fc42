package controller

import (
	"log"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"minicrm/models"
	"minicrm/utils"
)

type CustomerController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCustomerController(db *gorm.DB, logger *log.Logger) *CustomerController {
	return &CustomerController{
		DB:     db,
		Logger: logger,
	}
}

type CustomerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,e164"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

func (cu *CustomerController) CreateCustomer(c *fiber.Ctx) error {
	var req CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", nil)
	}

	var existing models.Customer
	if err := cu.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Email already registered", nil)
	}

	customer := models.Customer{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Country:   req.Country,
		IsActive:  true,
		LastLogin: time.Now(),
	}

	if err := cu.DB.Create(&customer).Error; err != nil {
		cu.Logger.Printf("Failed to create customer: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create customer", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(customer))
}

func (cu *CustomerController) GetCustomers(c *fiber.Ctx) error {
	var customers []models.Customer
	if err := cu.DB.Order("created_at DESC").Find(&customers).Error; err != nil {
		cu.Logger.Printf("Failed to fetch customers: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch customers", nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(customers),
		"data":    customers,
	})
}

func (cu *CustomerController) GetCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := cu.DB.First(&customer, utils.ParseUint(c.Params("id"))).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", nil)
	}
	return c.JSON(utils.SuccessResponse(customer))
}

func (cu *CustomerController) UpdateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := cu.DB.First(&customer, utils.ParseUint(c.Params("id"))).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", nil)
	}

	var req CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", nil)
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Street = req.Street
	customer.City = req.City
	customer.State = req.State
	customer.Zip = req.Zip
	customer.Country = req.Country

	if err := cu.DB.Save(&customer).Error; err != nil {
		cu.Logger.Printf("Failed to update customer %d: %v", customer.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update customer", nil)
	}

	return c.JSON(utils.SuccessResponse(customer))
}

func (cu *CustomerController) DeleteCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := cu.DB.First(&customer, utils.ParseUint(c.Params("id"))).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", nil)
	}

	if err := cu.DB.Delete(&customer).Error; err != nil {
		cu.Logger.Printf("Failed to delete customer %d: %v", customer.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete customer", nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Customer deleted",
	})
}

// RecordCustomerVisit registers a login/visit event and refreshes the
// derived activity fields.
func (cu *CustomerController) RecordCustomerVisit(c *fiber.Ctx) error {
	var customer models.Customer
	if err := cu.DB.First(&customer, utils.ParseUint(c.Params("id"))).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", nil)
	}

	customer.RecordVisit(time.Now())
	if err := cu.DB.Save(&customer).Error; err != nil {
		cu.Logger.Printf("Failed to record visit for customer %d: %v", customer.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record visit", nil)
	}

	return c.JSON(utils.SuccessResponse(customer))
}
