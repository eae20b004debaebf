package controllers

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"vetcare-backend/models"
)

// The list ordering must only reference columns that exist on the migrated
// invoices table; Invoice carries no gorm.Model timestamps.
func TestInvoiceListOrderColumnsExist(t *testing.T) {
	parsed, err := schema.Parse(&models.Invoice{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	columns := map[string]bool{}
	for _, field := range parsed.Fields {
		if field.DBName != "" {
			columns[field.DBName] = true
		}
	}

	for _, part := range strings.Split(invoiceListOrder, ",") {
		column := strings.Fields(strings.TrimSpace(part))[0]
		assert.True(t, columns[column], "order clause references missing column %q", column)
	}
}
