package notify

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/danutama/loan-tracker/internal/config"
)

func TestNoop_AlwaysSucceeds(t *testing.T) {
	d := Noop{}

	ok, msg := d.LoanCreated(context.Background(), "+15550001111", LoanNotice{})
	assert.True(t, ok)
	assert.Equal(t, "SMS notifications disabled (test mode)", msg)

	ok, _ = d.PaymentRecorded(context.Background(), "+15550001111", PaymentNotice{})
	assert.True(t, ok)

	ok, _ = d.EMIDue(context.Background(), "+15550001111", ReminderNotice{})
	assert.True(t, ok)
}

func TestTwilio_MissingFromNumberFailsSoft(t *testing.T) {
	// No sender configured means every dispatch reports failure without
	// touching the network.
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	d := NewTwilioDispatcher(config.SMSConfig{
		AccountSID:  "AC00000000000000000000000000000000",
		AuthToken:   "token",
		SendTimeout: time.Second,
	}, logger)

	ok, msg := d.LoanCreated(context.Background(), "+15550001111", LoanNotice{
		BorrowerName: "Alice",
		Principal:    decimal.NewFromInt(100000),
		AnnualRate:   decimal.NewFromInt(10),
		TermMonths:   12,
		EMI:          decimal.RequireFromString("8791.59"),
	})

	assert.False(t, ok)
	assert.Equal(t, "Twilio credentials not configured", msg)
}
