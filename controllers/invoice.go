// controllers/invoice.go
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

// Invoices are created through the visit billing flow; these endpoints are
// read-only views over the ledger.

// invoiceListOrder sorts newest first; the unique invoice number breaks ties
// between invoices posted on the same day.
const invoiceListOrder = "invoice_date desc, invoice_number desc"

// GetInvoices retrieves invoices, optionally filtered by contact, visit or payment state
func GetInvoices(c *gin.Context) {
	query := config.DB.Preload("Lines").Order(invoiceListOrder)

	if contactID := c.Query("contactId"); contactID != "" {
		contactUUID, err := uuid.Parse(contactID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid contact ID format")
			return
		}
		query = query.Where("contact_id = ?", contactUUID)
	}
	if visitID := c.Query("visitId"); visitID != "" {
		visitUUID, err := uuid.Parse(visitID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid visit ID format")
			return
		}
		query = query.Where("visit_id = ?", visitUUID)
	}
	if paymentState := c.Query("paymentState"); paymentState != "" {
		query = query.Where("payment_state = ?", paymentState)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice with its lines
func GetInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Lines").First(&invoice, "id = ?", invoiceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoice":    invoice,
		"amountPaid": invoice.AmountPaid(),
	})
}
