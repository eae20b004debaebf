package controllers

import (
	"vetcare-backend/services"
)

var (
	billingService *services.BillingService
	paymentService *services.PaymentService
)

// InitServices wires the billing core into the handlers. Called once from
// main after the database connection is up.
func InitServices(billing *services.BillingService, payment *services.PaymentService) {
	billingService = billing
	paymentService = payment
}
