package services

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

// CardCharger captures a job's price from the customer's card on file.
// Implemented by StripeCharger; tests substitute a stub.
type CardCharger interface {
	ChargeJob(ctx context.Context, job *models.Job) (paymentIntentID string, err error)
}

// StripeCharger charges off-session against the saved payment method.
type StripeCharger struct{}

func NewStripeCharger(apiKey string) *StripeCharger {
	stripe.Key = apiKey
	return &StripeCharger{}
}

func (c *StripeCharger) ChargeJob(ctx context.Context, job *models.Job) (string, error) {
	if job.StripeCustomerID == nil || job.StripePaymentMethodID == nil {
		return "", fmt.Errorf("job %s has no card on file", job.ID)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(job.PriceCents),
		Currency:      stripe.String(string(stripe.CurrencyUSD)),
		Customer:      job.StripeCustomerID,
		PaymentMethod: job.StripePaymentMethodID,
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
		Description:   stripe.String(fmt.Sprintf("Job %s - %s", job.ID, job.CustomerName)),
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Stripe charge failed for job %s", job.ID)
		return "", err
	}
	return pi.ID, nil
}
