// controllers/schedule.go
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

// CreateScheduleInput defines the expected JSON structure for booking an appointment
type CreateScheduleInput struct {
	AnimalID        uuid.UUID  `json:"animalId" binding:"required"`
	DoctorID        uuid.UUID  `json:"doctorId" binding:"required"`
	AppointmentDate *time.Time `json:"appointmentDate"`
	Reason          string     `json:"reason"`
	Notes           string     `json:"notes"`
}

// UpdateScheduleInput defines the expected JSON structure for updating an appointment
type UpdateScheduleInput struct {
	AppointmentDate *time.Time `json:"appointmentDate"`
	Reason          *string    `json:"reason"`
	Notes           *string    `json:"notes"`
}

// CreateSchedule books an appointment. The owner is derived from the animal;
// one animal/doctor/date slot can exist only once.
func CreateSchedule(c *gin.Context) {
	var input CreateScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var animal models.Animal
	if err := config.DB.First(&animal, "id = ?", input.AnimalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Animal not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var doctor models.Doctor
	if err := config.DB.First(&doctor, "id = ?", input.DoctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Doctor not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	appointmentDate := utils.BeginningOfDay(time.Now())
	if input.AppointmentDate != nil {
		appointmentDate = utils.BeginningOfDay(*input.AppointmentDate)
	}

	var existing models.Schedule
	if err := config.DB.Where("animal_id = ? AND doctor_id = ? AND appointment_date = ?",
		animal.ID, doctor.ID, appointmentDate).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "This appointment already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	schedule := models.Schedule{
		ID:              uuid.New(),
		Reference:       "SCH-" + appointmentDate.Format("20060102") + "-" + utils.GenerateRandomString(6),
		AnimalID:        animal.ID,
		OwnerID:         animal.OwnerID,
		DoctorID:        doctor.ID,
		AppointmentDate: appointmentDate,
		Reason:          input.Reason,
		Notes:           input.Notes,
		Status:          models.ScheduleStatusDraft,
		IsActive:        true,
	}

	if err := config.DB.Create(&schedule).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// GetSchedules lists appointments, optionally filtered by animal, doctor,
// owner or status
func GetSchedules(c *gin.Context) {
	query := config.DB.Preload("Animal").Preload("Doctor").
		Where("is_active = ?", true).Order("appointment_date asc")

	if animalID := c.Query("animalId"); animalID != "" {
		animalUUID, err := uuid.Parse(animalID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid animal ID format")
			return
		}
		query = query.Where("animal_id = ?", animalUUID)
	}
	if doctorID := c.Query("doctorId"); doctorID != "" {
		doctorUUID, err := uuid.Parse(doctorID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid doctor ID format")
			return
		}
		query = query.Where("doctor_id = ?", doctorUUID)
	}
	if ownerID := c.Query("ownerId"); ownerID != "" {
		ownerUUID, err := uuid.Parse(ownerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
			return
		}
		query = query.Where("owner_id = ?", ownerUUID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var schedules []models.Schedule
	if err := query.Find(&schedules).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, schedules)
}

// GetSchedule retrieves a specific appointment by ID
func GetSchedule(c *gin.Context) {
	scheduleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var schedule models.Schedule
	if err := config.DB.Preload("Animal").Preload("Doctor").Preload("Owner").
		First(&schedule, "id = ?", scheduleUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// UpdateSchedule updates an appointment's date, reason or notes
func UpdateSchedule(c *gin.Context) {
	scheduleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var schedule models.Schedule
	if err := config.DB.First(&schedule, "id = ?", scheduleUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.AppointmentDate != nil {
		if schedule.Status != models.ScheduleStatusDraft {
			utils.RespondWithError(c, http.StatusConflict, "Only draft appointments can be rescheduled")
			return
		}
		schedule.AppointmentDate = utils.BeginningOfDay(*input.AppointmentDate)
	}
	if input.Reason != nil {
		schedule.Reason = *input.Reason
	}
	if input.Notes != nil {
		schedule.Notes = *input.Notes
	}

	if err := config.DB.Save(&schedule).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	c.JSON(http.StatusOK, schedule)
}

func transitionSchedule(c *gin.Context, to models.ScheduleStatus) {
	scheduleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var schedule models.Schedule
	if err := config.DB.First(&schedule, "id = ?", scheduleUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !schedule.CanTransition(to) {
		utils.RespondWithError(c, http.StatusConflict,
			"Appointment cannot move from "+string(schedule.Status)+" to "+string(to))
		return
	}

	if err := config.DB.Model(&schedule).Update("status", to).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment status")
		return
	}
	schedule.Status = to

	c.JSON(http.StatusOK, schedule)
}

// ConfirmSchedule confirms a draft appointment
func ConfirmSchedule(c *gin.Context) {
	transitionSchedule(c, models.ScheduleStatusConfirmed)
}

// CompleteSchedule marks a confirmed appointment as completed
func CompleteSchedule(c *gin.Context) {
	transitionSchedule(c, models.ScheduleStatusCompleted)
}

// CancelSchedule cancels a draft or confirmed appointment
func CancelSchedule(c *gin.Context) {
	transitionSchedule(c, models.ScheduleStatusCancelled)
}

// ResetSchedule brings an appointment back to draft
func ResetSchedule(c *gin.Context) {
	transitionSchedule(c, models.ScheduleStatusDraft)
}
