package payment

import (
	"math"
	"strconv"

	"dentalsites_backend/internal/model"
	"dentalsites_backend/pkg/mercadopago"
)

// MercadoPagoProvider adapta o cliente do Mercado Pago à capacidade abstrata
// de pagamento. Integração primária.
type MercadoPagoProvider struct {
	Client *mercadopago.Client
}

func NewMercadoPagoProvider(client *mercadopago.Client) *MercadoPagoProvider {
	return &MercadoPagoProvider{Client: client}
}

func (p *MercadoPagoProvider) CreatePreference(req CheckoutRequest) (*CheckoutHandle, error) {
	pref, err := p.Client.CreatePreference(mercadopago.CheckoutPreferenceInput{
		Title:             req.Title,
		AmountCents:       req.Amount,
		PayerName:         req.PayerName,
		PayerEmail:        req.PayerEmail,
		PayerPhone:        req.PayerPhone,
		ExternalReference: req.ExternalReference,
		MaxInstallments:   req.MaxInstallments,
		SuccessURL:        req.SuccessURL,
		FailureURL:        req.FailureURL,
		PendingURL:        req.PendingURL,
		NotificationURL:   req.NotificationURL,
	})
	if err != nil {
		return nil, err
	}
	return &CheckoutHandle{PreferenceID: pref.ID, InitPoint: pref.InitPoint}, nil
}

func (p *MercadoPagoProvider) GetPayment(providerPaymentID string) (*ProviderPayment, error) {
	resp, err := p.Client.GetPayment(providerPaymentID)
	if err != nil {
		return nil, err
	}
	return &ProviderPayment{
		ID:                strconv.FormatInt(resp.ID, 10),
		Status:            mapMercadoPagoStatus(resp.Status),
		Amount:            int64(math.Round(resp.TransactionAmount * 100)),
		Installments:      resp.Installments,
		ExternalReference: resp.ExternalReference,
	}, nil
}

func mapMercadoPagoStatus(status string) model.PaymentStatus {
	switch status {
	case "approved":
		return model.PaymentSucceeded
	case "rejected":
		return model.PaymentFailed
	case "cancelled", "refunded", "charged_back":
		return model.PaymentCanceled
	default: // pending, in_process, in_mediation, authorized
		return model.PaymentPending
	}
}
