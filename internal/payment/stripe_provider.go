package payment

import (
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"dentalsites_backend/internal/model"
)

// StripeProvider é o caminho alternativo de pagamento, atrás da mesma
// interface. Checkout Session em vez de preferência; parcelamento não se
// aplica (cartão à vista).
type StripeProvider struct{}

func NewStripeProvider(secretKey string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{}
}

func (p *StripeProvider) CreatePreference(req CheckoutRequest) (*CheckoutHandle, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyBRL)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Title),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.FailureURL),
		CustomerEmail:     stripe.String(req.PayerEmail),
		ClientReferenceID: stripe.String(req.ExternalReference),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{"lead_id": req.ExternalReference},
		},
	}

	s, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutHandle{PreferenceID: s.ID, InitPoint: s.URL}, nil
}

func (p *StripeProvider) GetPayment(providerPaymentID string) (*ProviderPayment, error) {
	pi, err := paymentintent.Get(providerPaymentID, nil)
	if err != nil {
		return nil, err
	}
	return &ProviderPayment{
		ID:                pi.ID,
		Status:            mapStripeStatus(pi.Status),
		Amount:            pi.Amount,
		Installments:      1,
		ExternalReference: pi.Metadata["lead_id"],
	}, nil
}

func mapStripeStatus(status stripe.PaymentIntentStatus) model.PaymentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return model.PaymentSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return model.PaymentCanceled
	default: // requires_*, processing
		return model.PaymentPending
	}
}
