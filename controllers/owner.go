package controllers

import (
	"errors"
	"net/http"

	"vetcare-backend/config"
	"vetcare-backend/models"
	"vetcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateOwnerInput defines the expected JSON structure for creating an owner
type CreateOwnerInput struct {
	Name    string  `json:"name" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Email   *string `json:"email"`
	Address string  `json:"address"`
	Notes   string  `json:"notes"`
}

// UpdateOwnerInput defines the expected JSON structure for updating an owner
type UpdateOwnerInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// CreateOwner creates a new animal owner
func CreateOwner(c *gin.Context) {
	var input CreateOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate phone format
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if phone already exists
	var existingOwner models.Owner
	if err := config.DB.Where("phone = ?", input.Phone).First(&existingOwner).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Owner with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	owner := models.Owner{
		ID:       uuid.New(),
		Name:     input.Name,
		Phone:    input.Phone,
		Address:  input.Address,
		Notes:    input.Notes,
		IsActive: true,
	}
	if input.Email != nil {
		owner.Email = *input.Email
	}

	if err := config.DB.Create(&owner).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create owner")
		return
	}

	c.JSON(http.StatusCreated, owner)
}

// GetOwners retrieves all owners
func GetOwners(c *gin.Context) {
	var owners []models.Owner
	query := config.DB.Preload("Animals")

	// Optional phone lookup, used by the visit form to auto-fill the owner
	if phone := c.Query("phone"); phone != "" {
		query = query.Where("phone = ?", phone)
	}

	if err := query.Find(&owners).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve owners")
		return
	}

	c.JSON(http.StatusOK, owners)
}

// GetOwner retrieves a specific owner by ID
func GetOwner(c *gin.Context) {
	ownerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	var owner models.Owner
	if err := config.DB.Preload("Animals").Preload("Contact").
		First(&owner, "id = ?", ownerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, owner)
}

// GetOwnerBalance returns the owner's unpaid balance, computed on demand
func GetOwnerBalance(c *gin.Context) {
	ownerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	var excludeVisitIDs []uuid.UUID
	for _, raw := range c.QueryArray("excludeVisit") {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID in excludeVisit: "+raw)
			return
		}
		excludeVisitIDs = append(excludeVisitIDs, id)
	}

	balance, err := billingService.OwnerUnpaidBalance(ownerUUID, excludeVisitIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute balance")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ownerId": ownerUUID, "unpaidBalance": balance})
}

// UpdateOwner updates an existing owner
func UpdateOwner(c *gin.Context) {
	ownerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	var input UpdateOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var owner models.Owner
	if err := config.DB.First(&owner, "id = ?", ownerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		owner.Phone = *input.Phone
	}
	if input.Name != nil {
		owner.Name = *input.Name
	}
	if input.Email != nil {
		owner.Email = *input.Email
	}
	if input.Address != nil {
		owner.Address = *input.Address
	}
	if input.Notes != nil {
		owner.Notes = *input.Notes
	}
	if input.IsActive != nil {
		owner.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&owner).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update owner")
		return
	}

	c.JSON(http.StatusOK, owner)
}

// DeleteOwner soft deletes an owner
func DeleteOwner(c *gin.Context) {
	ownerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	var owner models.Owner
	if err := config.DB.First(&owner, "id = ?", ownerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&owner).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete owner")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Owner deleted successfully"})
}
