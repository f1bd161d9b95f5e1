package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceNumberDefaultTemplate(t *testing.T) {
	got, err := InvoiceNumber(DefaultInvoiceNumberTemplate, time.Now(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "INV-001", got)
}

func TestInvoiceNumberDateTokens(t *testing.T) {
	issued := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	got, err := InvoiceNumber("INV-{YYYY}{MM}{DD}-{SEQ6}", issued, 42)
	assert.NoError(t, err)
	assert.Equal(t, "INV-20260830-000042", got)
}

func TestInvoiceNumberRejectsBadInput(t *testing.T) {
	_, err := InvoiceNumber("", time.Now(), 1)
	assert.Error(t, err)

	_, err = InvoiceNumber("INV-{SEQ}", time.Now(), 0)
	assert.Error(t, err)

	_, err = InvoiceNumber("INV-{NOPE}", time.Now(), 1)
	assert.Error(t, err)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$30.00", Money("$", 30))
	assert.Equal(t, "€12.50", Money("€", 12.5))
	assert.Equal(t, "$7.50", Money("", 7.5))
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "3", Quantity(3))
	assert.Equal(t, "2.5", Quantity(2.5))
	assert.Equal(t, "0.75", Quantity(0.75))
}

func TestRate(t *testing.T) {
	assert.Equal(t, "10%", Rate(10, true))
	assert.Equal(t, "7.5%", Rate(7.5, true))
	assert.Equal(t, "25", Rate(25, false))
}
