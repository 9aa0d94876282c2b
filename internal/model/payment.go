package model

import "gorm.io/gorm"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCanceled  PaymentStatus = "canceled"
)

type PaymentType string

const (
	PagamentoEntrada    PaymentType = "entrada"     // legado: depósito 50%
	PagamentoSaldo      PaymentType = "saldo"       // legado: saldo 50%
	PagamentoValorTotal PaymentType = "valor_total" // fluxo atual
)

// Payment é uma tentativa de cobrança. Uma linha por checkout aberto;
// imutável depois de atingir status terminal.
type Payment struct {
	gorm.Model
	LeadID uint          `json:"lead_id" gorm:"index"`
	Tipo   PaymentType   `json:"tipo" gorm:"type:varchar(16)"`
	Valor  int64         `json:"valor"` // centavos
	Status PaymentStatus `json:"status" gorm:"type:varchar(16);default:'pending';index"`

	// Correlação com o provedor que criou a linha
	PreferenceID       string `json:"preference_id"`
	ProviderPaymentID  string `json:"provider_payment_id" gorm:"index"`
	ProviderCustomerID string `json:"provider_customer_id"`

	// Relações
	Lead Lead `json:"-" gorm:"foreignKey:LeadID"`
}

// Terminal: nenhum estado terminal volta para pending nem muda para outro
// terminal.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSucceeded || s == PaymentFailed || s == PaymentCanceled
}
