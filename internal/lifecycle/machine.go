package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"dentalsites_backend/internal/model"
	"dentalsites_backend/internal/repository"
)

// PublicationWindow é o prazo de publicação contado a partir da aprovação
// final. Informativo (SLA), não bloqueante.
const PublicationWindow = 24 * time.Hour

var (
	// ErrAdjustmentBudget: tentativa de terceira rodada de ajustes.
	ErrAdjustmentBudget = errors.New("rodadas de ajustes esgotadas")

	// ErrPaymentRequired: aprovado_pagamento exigido sem pagamento
	// confirmado no valor esperado.
	ErrPaymentRequired = errors.New("nenhum pagamento confirmado no valor esperado")
)

// TransitionError sinaliza uma transição fora da tabela. Conflito, não
// coerção: o lead permanece como estava.
type TransitionError struct {
	From model.LeadStatus
	To   model.LeadStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transição ilegal: %s -> %s", e.From, e.To)
}

// Transições permitidas. Único retrocesso documentado é o loop de ajustes.
var transitions = map[model.LeadStatus][]model.LeadStatus{
	model.StatusLeadParcial:         {model.StatusNovo},
	model.StatusNovo:                {model.StatusEmProducao},
	model.StatusEmProducao:          {model.StatusAguardandoAprovacao},
	model.StatusAguardandoAprovacao: {model.StatusEmAjustes, model.StatusAprovadoPagamento},
	model.StatusEmAjustes:           {model.StatusAguardandoAprovacao},
	model.StatusAprovadoPagamento:   {model.StatusAprovacaoFinal},
	model.StatusAprovacaoFinal:      {model.StatusNoAr},
	model.StatusNoAr:                {model.StatusConcluido},
	model.StatusConcluido:           {},
}

func CanTransition(from, to model.LeadStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Machine aplica as transições do ciclo de vida do lead. Toda mudança de
// status passa por aqui; nunca por escrita direta do campo.
type Machine struct {
	Leads    repository.LeadRepository
	Payments repository.PaymentRepository
	Now      func() time.Time
}

func NewMachine(leads repository.LeadRepository, payments repository.PaymentRepository) *Machine {
	return &Machine{Leads: leads, Payments: payments, Now: time.Now}
}

// Transition valida e aplica a mudança de status, gravando status,
// updated_at e a linha de histórico na mesma unidade de trabalho.
func (m *Machine) Transition(leadID uint, to model.LeadStatus, actor string) (*model.Lead, error) {
	lead, err := m.Leads.SelectByID(leadID)
	if err != nil {
		return nil, err
	}

	from := lead.Status
	if !CanTransition(from, to) {
		return nil, &TransitionError{From: from, To: to}
	}

	now := m.Now()

	switch to {
	case model.StatusEmAjustes:
		if lead.RodadasAjustesUsadas >= model.MaxAdjustmentRounds {
			return nil, ErrAdjustmentBudget
		}
		lead.RodadasAjustesUsadas++

	case model.StatusAprovadoPagamento:
		// A transição e a confirmação do pagamento são fatos separados;
		// os dois precisam valer.
		paid, err := m.Payments.HasSucceededForAmount(lead.ID, lead.ValorTotal)
		if err != nil {
			return nil, err
		}
		if !paid {
			return nil, ErrPaymentRequired
		}
		if lead.AprovacaoInicialEm == nil {
			lead.AprovacaoInicialEm = &now
		}

	case model.StatusAprovacaoFinal:
		lead.AprovacaoFinalEm = &now
		deadline := now.Add(PublicationWindow)
		lead.DataLimitePublicacao = &deadline
	}

	lead.Status = to
	if err := m.Leads.ApplyTransition(lead, from, actor); err != nil {
		return nil, err
	}
	return lead, nil
}
