package services

import (
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"vetcare-backend/models"
)

// ReceiptNotifier sends a payment receipt message to the customer after a
// successful registration. Failures here are diagnostic only.
type ReceiptNotifier struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReceiptNotifier(db *gorm.DB) *ReceiptNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReceiptNotifier{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// SendPaymentReceipt sends the receipt SMS/WhatsApp message. The receipt
// template is optional; when the lookup fails a plain confirmation is sent
// instead.
func (n *ReceiptNotifier) SendPaymentReceipt(contact *models.Contact, visit *models.Visit, amount decimal.Decimal) {
	if contact.Phone == "" {
		return
	}

	message := "We received your payment of " + amount.StringFixed(2) + " for visit " + visit.Reference + ". Thank you!"
	var template models.ReminderTemplate
	if err := n.db.Where("type = ? AND is_active = true", "receipt").
		First(&template).Error; err == nil {
		message = strings.ReplaceAll(template.Message, "[CustomerName]", contact.Name)
		message = strings.ReplaceAll(message, "[Amount]", amount.StringFixed(2))
		message = strings.ReplaceAll(message, "[VisitReference]", visit.Reference)
	} else {
		log.Printf("No receipt template configured, sending plain confirmation: %v", err)
	}

	to, from, channel := routeMessage(contact.Phone)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		log.Printf("Failed to send payment receipt to %s via %s: %v", contact.Phone, channel, err)
		return
	}
	log.Printf("Payment receipt sent to %s via %s", contact.Phone, channel)
}

// routeMessage prefers WhatsApp for E.164 numbers, SMS otherwise.
func routeMessage(phone string) (to, from, channel string) {
	if strings.HasPrefix(phone, "+") {
		return "whatsapp:" + phone, "whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"), "whatsapp"
	}
	return phone, os.Getenv("TWILIO_PHONE_NUMBER"), "sms"
}
