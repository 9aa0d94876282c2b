package repository

import (
	"errors"
	"time"

	"dentalsites_backend/internal/model"
)

// ErrNotFound padroniza "registro inexistente" para as camadas acima,
// distinguindo de falha de backend.
var ErrNotFound = errors.New("registro não encontrado")

// LeadFilter parametriza a listagem do console administrativo.
type LeadFilter struct {
	Status string
	Origem string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// LeadRepository é o gateway para a tabela leads e suas auxiliares
// (lead_status_histories, lead_notes).
type LeadRepository interface {
	Insert(lead *model.Lead) error
	SelectByID(id uint) (*model.Lead, error)
	SelectByToken(token string) (*model.Lead, error)
	SelectFiltered(f LeadFilter) ([]model.Lead, int64, error)
	Update(lead *model.Lead) error

	// ApplyTransition persiste o lead já mutado e a linha de histórico na
	// mesma transação. Status sem histórico (ou vice-versa) nunca deve
	// acontecer.
	ApplyTransition(lead *model.Lead, old model.LeadStatus, actor string) error

	History(leadID uint) ([]model.LeadStatusHistory, error)
	AddNote(note *model.LeadNote) error
	DeleteNote(id uint) error
}

// PaymentRepository é o gateway para a tabela payments.
type PaymentRepository interface {
	Insert(p *model.Payment) error
	SelectByID(id uint) (*model.Payment, error)
	SelectByProviderPaymentID(providerID string) (*model.Payment, error)
	SelectPendingByLead(leadID uint) (*model.Payment, error)
	ListPollable() ([]model.Payment, error)
	Update(p *model.Payment) error

	// HasSucceededForAmount responde se o lead tem pagamento confirmado no
	// valor esperado. Usado como trava da transição aprovado_pagamento.
	HasSucceededForAmount(leadID uint, valor int64) (bool, error)
}
