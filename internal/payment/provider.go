package payment

import (
	"errors"

	"dentalsites_backend/internal/model"
)

// ErrReconcileConflict: o provedor reportou um estado terminal diferente do
// já gravado. Anomalia para revisão manual; o registro local não muda.
var ErrReconcileConflict = errors.New("conflito de reconciliação: pagamento já está em estado terminal")

// CheckoutRequest é o pedido de checkout neutro de provedor. Valores em
// centavos; a conversão para o formato do provedor acontece no cliente dele.
type CheckoutRequest struct {
	ExternalReference string // id do lead, ecoado de volta pelo provedor
	Title             string
	Amount            int64
	PayerName         string
	PayerEmail        string
	PayerPhone        string
	MaxInstallments   int
	SuccessURL        string
	FailureURL        string
	PendingURL        string
	NotificationURL   string
}

// CheckoutHandle é o identificador de checkout emitido pelo provedor mais a
// URL de redirecionamento.
type CheckoutHandle struct {
	PreferenceID string `json:"preference_id"`
	InitPoint    string `json:"init_point"`
}

// ProviderPayment é o estado de um pagamento visto pelo provedor, já mapeado
// para o vocabulário local.
type ProviderPayment struct {
	ID                string
	Status            model.PaymentStatus
	Amount            int64
	Installments      int
	ExternalReference string
}

// Provider é a capacidade abstrata de pagamento. Uma implementação ativa por
// vez; as colunas da integração antiga ficam inertes.
type Provider interface {
	CreatePreference(req CheckoutRequest) (*CheckoutHandle, error)
	GetPayment(providerPaymentID string) (*ProviderPayment, error)
}
