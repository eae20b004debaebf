package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerLineOutstanding(t *testing.T) {
	line := LedgerLine{Debit: d("90.00")}
	assert.True(t, line.Outstanding().Equal(d("90.00")))

	line.ReconciledAmount = d("30.00")
	assert.True(t, line.Outstanding().Equal(d("60.00")))

	line.ReconciledAmount = d("90.00")
	assert.True(t, line.Outstanding().IsZero())

	// Credit lines carry no receivable to reconcile
	credit := LedgerLine{Credit: d("50.00")}
	assert.False(t, credit.Outstanding().IsPositive())
}
