// controllers/service.go
package controllers

import (
	"errors"
	"net/http"

	"vetcare-backend/config"
	"vetcare-backend/models"
	"vetcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateServiceInput defines the expected JSON structure for creating a catalog entry
type CreateServiceInput struct {
	Name        string          `json:"name" binding:"required"`
	ServiceType string          `json:"serviceType" binding:"omitempty,oneof=service test vaccine"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Description string          `json:"description"`
	ProductID   *uuid.UUID      `json:"productId"`
}

// UpdateServiceInput defines the expected JSON structure for updating a catalog entry
type UpdateServiceInput struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"isActive"`
}

// CreateService creates a new catalog entry; a linked product is auto-created
// when none is supplied, configured from the service type
func CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Price must not be negative")
		return
	}

	serviceType := models.ServiceType(input.ServiceType)
	if serviceType == "" {
		serviceType = models.ServiceTypeService
	}

	service := models.Service{
		ID:          uuid.New(),
		Name:        input.Name,
		ServiceType: serviceType,
		Price:       input.Price,
		Description: input.Description,
		IsActive:    true,
		ProductID:   input.ProductID,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if service.ProductID == nil {
		cfg := serviceType.ProductConfig()
		product := models.Product{
			ID:        uuid.New(),
			Name:      input.Name,
			ListPrice: input.Price,
			Type:      cfg.Type,
			Tracking:  cfg.Tracking,
		}
		if err := tx.Create(&product).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create linked product")
			return
		}
		service.ProductID = &product.ID
	}

	if err := tx.Create(&service).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves the catalog, optionally filtered by type
func GetServices(c *gin.Context) {
	query := config.DB.Preload("Product")
	if serviceType := c.Query("type"); serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetService retrieves a specific catalog entry by ID
func GetService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	if err := config.DB.Preload("Product").First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

// UpdateService updates a catalog entry, keeping the linked product in sync
func UpdateService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var service models.Service
	if err := tx.First(&service, "id = ?", serviceUUID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Price must not be negative")
			return
		}
		service.Price = *input.Price
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := tx.Save(&service).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	// Keep the linked product in sync with name/price changes
	if service.ProductID != nil && (input.Name != nil || input.Price != nil) {
		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Price != nil {
			updates["list_price"] = *input.Price
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", *service.ProductID).
			Updates(updates).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to sync linked product")
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusOK, service)
}

// DeleteService deactivates a catalog entry
func DeleteService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Model(&service).Update("is_active", false).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deactivated successfully"})
}
