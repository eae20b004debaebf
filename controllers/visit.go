// controllers/visit.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"vetcare-backend/config"
	"vetcare-backend/models"
	"vetcare-backend/services"
	"vetcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VisitLineInput defines the structure for one billable line of a visit
type VisitLineInput struct {
	ServiceID uuid.UUID        `json:"serviceId" binding:"required"`
	Quantity  *decimal.Decimal `json:"quantity"`
}

// CreateVisitInput defines the expected JSON structure for creating a visit
type CreateVisitInput struct {
	OwnerID         uuid.UUID        `json:"ownerId" binding:"required"`
	AnimalID        uuid.UUID        `json:"animalId" binding:"required"`
	DoctorID        *uuid.UUID       `json:"doctorId"`
	Date            *time.Time       `json:"date"`
	Notes           string           `json:"notes"`
	TreatmentCharge *decimal.Decimal `json:"treatmentCharge"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	DiscountFixed   *decimal.Decimal `json:"discountFixed"`
	Lines           []VisitLineInput `json:"lines"`
}

// UpdateVisitInput defines the expected JSON structure for updating a visit
type UpdateVisitInput struct {
	DoctorID        *uuid.UUID       `json:"doctorId"`
	Date            *time.Time       `json:"date"`
	Notes           *string          `json:"notes"`
	TreatmentCharge *decimal.Decimal `json:"treatmentCharge"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	DiscountFixed   *decimal.Decimal `json:"discountFixed"`
}

// RegisterPaymentInput defines the expected JSON structure for a payment
type RegisterPaymentInput struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required"`
}

// respondServiceError maps the billing error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidationError(err):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case services.IsPreconditionError(err):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case services.IsPaymentError(err):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
	}
}

// buildVisitLine resolves the catalog entry and prices one line.
func buildVisitLine(tx *gorm.DB, visitID uuid.UUID, input VisitLineInput) (*models.VisitLine, error) {
	var service models.Service
	if err := tx.Preload("Product").First(&service, "id = ?", input.ServiceID).Error; err != nil {
		return nil, err
	}

	quantity := decimal.NewFromInt(1)
	if input.Quantity != nil && input.Quantity.IsPositive() {
		quantity = *input.Quantity
	}

	line := models.VisitLine{
		ID:        uuid.New(),
		VisitID:   visitID,
		ServiceID: service.ID,
		Service:   &service,
		LineType:  service.ServiceType,
		Quantity:  quantity,
	}
	line.UnitPrice = line.ResolveUnitPrice()
	line.ComputeSubtotal()
	return &line, nil
}

// CreateVisit creates a new visit with its lines and computed totals
func CreateVisit(c *gin.Context) {
	var input CreateVisitInput
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

	var owner models.Owner
	if err := tx.First(&owner, "id = ?", input.OwnerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var animal models.Animal
	if err := tx.First(&animal, "id = ? AND owner_id = ?", input.AnimalID, owner.ID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Animal not found for this owner")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	visitDate := time.Now()
	if input.Date != nil {
		visitDate = *input.Date
	}

	visit := models.Visit{
		ID:        uuid.New(),
		Reference: "VIS-" + visitDate.Format("20060102") + "-" + utils.GenerateRandomString(6),
		Date:      visitDate,
		OwnerID:   owner.ID,
		AnimalID:  animal.ID,
		DoctorID:  input.DoctorID,
		Notes:     input.Notes,
		State:     models.VisitStateDraft,
	}
	if input.TreatmentCharge != nil {
		visit.TreatmentCharge = *input.TreatmentCharge
	}
	if input.DiscountPercent != nil {
		visit.DiscountPercent = *input.DiscountPercent
	}
	if input.DiscountFixed != nil {
		visit.DiscountFixed = *input.DiscountFixed
	}

	if err := services.CheckDiscountConflict(&visit); err != nil {
		tx.Rollback()
		respondServiceError(c, err)
		return
	}

	for _, lineInput := range input.Lines {
		line, err := buildVisitLine(tx, visit.ID, lineInput)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Service not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		visit.Lines = append(visit.Lines, *line)
	}
	visit.ComputeTotals()

	if err := tx.Create(&visit).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create visit")
		return
	}

	if err := tx.Model(&models.Owner{}).Where("id = ?", owner.ID).
		Update("last_visit", visitDate).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update owner")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, visit)
}

// GetVisits retrieves visits, optionally filtered by owner, animal or state
func GetVisits(c *gin.Context) {
	query := config.DB.Preload("Lines").Preload("Animal").Preload("Owner").
		Order("date desc")

	if ownerID := c.Query("ownerId"); ownerID != "" {
		ownerUUID, err := uuid.Parse(ownerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
			return
		}
		query = query.Where("owner_id = ?", ownerUUID)
	}
	if animalID := c.Query("animalId"); animalID != "" {
		animalUUID, err := uuid.Parse(animalID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid animal ID format")
			return
		}
		query = query.Where("animal_id = ?", animalUUID)
	}
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}

	var visits []models.Visit
	if err := query.Find(&visits).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve visits")
		return
	}

	c.JSON(http.StatusOK, visits)
}

// GetVisit retrieves a specific visit with its lines, invoices and the owner's
// unpaid balance from previous visits
func GetVisit(c *gin.Context) {
	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	var visit models.Visit
	if err := config.DB.Preload("Lines.Service").Preload("Animal").Preload("Owner").
		Preload("Doctor").Preload("Invoices").
		First(&visit, "id = ?", visitUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	balance, err := billingService.OwnerUnpaidBalance(visit.OwnerID, []uuid.UUID{visit.ID})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute owner balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"visit":              visit,
		"ownerUnpaidBalance": balance,
	})
}

// UpdateVisit updates a visit; invoiced visits only accept notes changes
func UpdateVisit(c *gin.Context) {
	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	var input UpdateVisitInput
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

	var visit models.Visit
	if err := tx.Preload("Lines").First(&visit, "id = ?", visitUUID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var changed []string
	if input.DoctorID != nil {
		changed = append(changed, "doctor_id")
	}
	if input.Date != nil {
		changed = append(changed, "date")
	}
	if input.Notes != nil {
		changed = append(changed, "notes")
	}
	if input.TreatmentCharge != nil {
		changed = append(changed, "treatment_charge")
	}
	if input.DiscountPercent != nil {
		changed = append(changed, "discount_percent")
	}
	if input.DiscountFixed != nil {
		changed = append(changed, "discount_fixed")
	}

	if err := services.GuardVisitEdit(&visit, changed); err != nil {
		tx.Rollback()
		respondServiceError(c, err)
		return
	}

	if input.DoctorID != nil {
		visit.DoctorID = input.DoctorID
	}
	if input.Date != nil {
		visit.Date = *input.Date
	}
	if input.Notes != nil {
		visit.Notes = *input.Notes
	}
	if input.TreatmentCharge != nil {
		visit.TreatmentCharge = *input.TreatmentCharge
	}
	if input.DiscountPercent != nil {
		visit.DiscountPercent = *input.DiscountPercent
	}
	if input.DiscountFixed != nil {
		visit.DiscountFixed = *input.DiscountFixed
	}

	if err := services.CheckDiscountConflict(&visit); err != nil {
		tx.Rollback()
		respondServiceError(c, err)
		return
	}
	visit.ComputeTotals()

	if err := tx.Save(&visit).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update visit")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, visit)
}

// AddVisitLine appends a billable line to a visit and recomputes totals
func AddVisitLine(c *gin.Context) {
	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	var input VisitLineInput
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

	var visit models.Visit
	if err := tx.Preload("Lines").First(&visit, "id = ?", visitUUID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := services.GuardVisitEdit(&visit, []string{"lines"}); err != nil {
		tx.Rollback()
		respondServiceError(c, err)
		return
	}

	line, err := buildVisitLine(tx, visit.ID, input)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Create(line).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add visit line")
		return
	}

	visit.Lines = append(visit.Lines, *line)
	visit.ComputeTotals()
	if err := tx.Model(&models.Visit{}).Where("id = ?", visit.ID).
		Updates(map[string]interface{}{
			"subtotal":     visit.Subtotal,
			"total_amount": visit.TotalAmount,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update visit totals")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, line)
}

// ConfirmVisit moves a draft visit to confirmed
func ConfirmVisit(c *gin.Context) {
	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	var visit models.Visit
	if err := config.DB.First(&visit, "id = ?", visitUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if visit.State != models.VisitStateDraft {
		utils.RespondWithError(c, http.StatusConflict, "Only draft visits can be confirmed")
		return
	}

	if err := config.DB.Model(&visit).Update("state", models.VisitStateConfirmed).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to confirm visit")
		return
	}
	visit.State = models.VisitStateConfirmed

	c.JSON(http.StatusOK, visit)
}

// CancelVisit cancels a visit that has not been invoiced yet
func CancelVisit(c *gin.Context) {
	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	var visit models.Visit
	if err := config.DB.Preload("Invoices").First(&visit, "id = ?", visitUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Visit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if len(visit.Invoices) > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Cannot cancel a visit that has an invoice")
		return
	}

	if err := config.DB.Model(&visit).Update("state", models.VisitStateCancel).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel visit")
		return
	}
	visit.State = models.VisitStateCancel

	c.JSON(http.StatusOK, visit)
}

// CreateVisitInvoice creates and posts the visit's invoice
func CreateVisitInvoice(c *gin.Context) {
	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	invoice, err := billingService.CreateVisitInvoice(visitUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// RegisterVisitPayment applies an inbound payment for the visit's customer
func RegisterVisitPayment(c *gin.Context) {
	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	var input RegisterPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	receipt, err := paymentService.RegisterPayment(visitUUID, input.Amount, input.Method)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

// GetVisitActivities returns the audit trail of a visit
func GetVisitActivities(c *gin.Context) {
	visitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
		return
	}

	var activities []models.VisitActivity
	if err := config.DB.Where("visit_id = ?", visitUUID).
		Order("created_at asc").Find(&activities).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve activities")
		return
	}

	c.JSON(http.StatusOK, activities)
}
