// services/reminder_service.go
package services

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"vetcare-backend/models"
)

// ReminderService sends a daily message to owners who still have an
// outstanding balance.
type ReminderService struct {
	db      *gorm.DB
	billing *BillingService
	client  *twilio.RestClient
}

func NewReminderService(db *gorm.DB, billing *BillingService) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db:      db,
		billing: billing,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendBalanceReminders()
	})

	c.Start()
	log.Println("Balance reminder scheduler started")
}

// SendBalanceReminders walks all active owners and messages those whose
// unpaid balance is positive.
func (s *ReminderService) SendBalanceReminders() {
	log.Println("Starting daily balance reminder processing...")

	var template models.ReminderTemplate
	if err := s.db.Where("type = ? AND is_active = true", "balance").
		First(&template).Error; err != nil {
		log.Printf("No active balance reminder template: %v", err)
		return
	}

	var owners []models.Owner
	if err := s.db.Where("is_active = ? AND contact_id IS NOT NULL", true).Find(&owners).Error; err != nil {
		log.Printf("Failed to fetch owners: %v", err)
		return
	}

	for _, owner := range owners {
		balance, err := s.billing.OwnerUnpaidBalance(owner.ID, nil)
		if err != nil {
			log.Printf("Owner %s: failed to compute unpaid balance: %v", owner.ID, err)
			continue
		}
		if !balance.IsPositive() {
			continue
		}
		s.sendReminder(&owner, &template, balance)
	}

	log.Println("Daily balance reminder processing completed")
}

func (s *ReminderService) sendReminder(owner *models.Owner, template *models.ReminderTemplate, balance decimal.Decimal) {
	message := strings.ReplaceAll(template.Message, "[OwnerName]", owner.Name)
	message = strings.ReplaceAll(message, "[Balance]", balance.StringFixed(2))

	to, from, channel := routeMessage(owner.Phone)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	status := "sent"
	errorMsg := ""
	if _, err := s.client.Api.CreateMessage(params); err != nil {
		log.Printf("Failed to send balance reminder to %s: %v", owner.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else {
		log.Printf("Balance reminder sent to %s via %s", owner.Phone, channel)
	}

	reminderLog := models.ReminderLog{
		OwnerID:      owner.ID,
		TemplateID:   template.ID,
		Type:         "balance",
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for owner %s: %v", owner.ID, err)
	}
}
