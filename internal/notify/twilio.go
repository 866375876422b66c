package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/danutama/loan-tracker/internal/config"
)

// TwilioDispatcher sends SMS through the Twilio REST API.
type TwilioDispatcher struct {
	rest   *twilio.RestClient
	from   string
	logger *logrus.Logger
}

// NewTwilioDispatcher builds a dispatcher from the SMS configuration. The
// gateway call is bounded by cfg.SendTimeout so a slow gateway cannot hang
// the request that triggered it.
func NewTwilioDispatcher(cfg config.SMSConfig, logger *logrus.Logger) *TwilioDispatcher {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	rest.Client.SetTimeout(cfg.SendTimeout)

	return &TwilioDispatcher{
		rest:   rest,
		from:   cfg.FromNumber,
		logger: logger,
	}
}

func (d *TwilioDispatcher) LoanCreated(ctx context.Context, phone string, notice LoanNotice) (bool, string) {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour loan has been successfully created!\n\nLoan Details:\n- Principal: %s\n- Interest Rate: %s%% per annum\n- Loan Term: %d months\n- Monthly EMI: %s\n\nThank you for using our Loan Management System.",
		notice.BorrowerName,
		notice.Principal.StringFixed(2),
		notice.AnnualRate.String(),
		notice.TermMonths,
		notice.EMI.StringFixed(2),
	)

	return d.send(ctx, phone, body)
}

func (d *TwilioDispatcher) PaymentRecorded(ctx context.Context, phone string, notice PaymentNotice) (bool, string) {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour payment has been recorded successfully!\n\nPayment Details:\n- Loan ID: %s\n- Amount Paid: %s\n- Remaining Balance: %s\n\nThank you!",
		notice.BorrowerName,
		notice.LoanID,
		notice.Amount.StringFixed(2),
		notice.Remaining.StringFixed(2),
	)

	return d.send(ctx, phone, body)
}

func (d *TwilioDispatcher) EMIDue(ctx context.Context, phone string, notice ReminderNotice) (bool, string) {
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder that an EMI of %s is due on loan %s.\nRemaining balance: %s.\n\nThank you!",
		notice.BorrowerName,
		notice.EMI.StringFixed(2),
		notice.LoanID,
		notice.Remaining.StringFixed(2),
	)

	return d.send(ctx, phone, body)
}

func (d *TwilioDispatcher) send(_ context.Context, phone, body string) (bool, string) {
	if d.from == "" {
		return false, "Twilio credentials not configured"
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(d.from)
	params.SetBody(body)

	msg, err := d.rest.Api.CreateMessage(params)
	if err != nil {
		d.logger.WithError(err).WithField("to", phone).Warn("SMS dispatch failed")
		return false, fmt.Sprintf("Failed to send SMS: %v", err)
	}

	sid := ""
	if msg.Sid != nil {
		sid = *msg.Sid
	}
	d.logger.WithFields(logrus.Fields{"to": phone, "sid": sid}).Info("SMS sent")

	return true, fmt.Sprintf("SMS sent successfully (SID: %s)", sid)
}
