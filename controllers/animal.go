package controllers

import (
	"errors"
	"net/http"
	"time"

	"vetcare-backend/config"
	"vetcare-backend/models"
	"vetcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAnimalInput defines the expected JSON structure for creating an animal
type CreateAnimalInput struct {
	OwnerID     uuid.UUID  `json:"ownerId" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Species     string     `json:"species"`
	Breed       string     `json:"breed"`
	MicrochipNo string     `json:"microchipNo"`
	BirthDate   *time.Time `json:"birthDate"`
	Notes       string     `json:"notes"`
}

// UpdateAnimalInput defines the expected JSON structure for updating an animal
type UpdateAnimalInput struct {
	Name        *string    `json:"name"`
	Species     *string    `json:"species"`
	Breed       *string    `json:"breed"`
	MicrochipNo *string    `json:"microchipNo"`
	BirthDate   *time.Time `json:"birthDate"`
	Notes       *string    `json:"notes"`
}

// CreateAnimal registers a new animal for an owner
func CreateAnimal(c *gin.Context) {
	var input CreateAnimalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate owner exists
	var owner models.Owner
	if err := config.DB.First(&owner, "id = ?", input.OwnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	animal := models.Animal{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Species:     input.Species,
		Breed:       input.Breed,
		MicrochipNo: input.MicrochipNo,
		BirthDate:   input.BirthDate,
		Notes:       input.Notes,
	}

	if err := config.DB.Create(&animal).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create animal")
		return
	}

	c.JSON(http.StatusCreated, animal)
}

// GetAnimals lists animals, optionally filtered by owner or microchip number
func GetAnimals(c *gin.Context) {
	query := config.DB.Preload("Owner")

	if ownerID := c.Query("ownerId"); ownerID != "" {
		ownerUUID, err := uuid.Parse(ownerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
			return
		}
		query = query.Where("owner_id = ?", ownerUUID)
	}
	if chip := c.Query("microchipNo"); chip != "" {
		query = query.Where("microchip_no = ?", chip)
	}

	var animals []models.Animal
	if err := query.Find(&animals).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve animals")
		return
	}

	c.JSON(http.StatusOK, animals)
}

// GetAnimal retrieves a specific animal by ID
func GetAnimal(c *gin.Context) {
	animalUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid animal ID format")
		return
	}

	var animal models.Animal
	if err := config.DB.Preload("Owner").First(&animal, "id = ?", animalUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Animal not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, animal)
}

// UpdateAnimal updates an existing animal
func UpdateAnimal(c *gin.Context) {
	animalUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid animal ID format")
		return
	}

	var input UpdateAnimalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var animal models.Animal
	if err := config.DB.First(&animal, "id = ?", animalUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Animal not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		animal.Name = *input.Name
	}
	if input.Species != nil {
		animal.Species = *input.Species
	}
	if input.Breed != nil {
		animal.Breed = *input.Breed
	}
	if input.MicrochipNo != nil {
		animal.MicrochipNo = *input.MicrochipNo
	}
	if input.BirthDate != nil {
		animal.BirthDate = input.BirthDate
	}
	if input.Notes != nil {
		animal.Notes = *input.Notes
	}

	if err := config.DB.Save(&animal).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update animal")
		return
	}

	c.JSON(http.StatusOK, animal)
}
