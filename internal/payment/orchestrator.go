package payment

import (
	"errors"
	"fmt"
	"strconv"

	"dentalsites_backend/internal/model"
	"dentalsites_backend/internal/repository"
)

// Orchestrator traduz o valor devido de um lead em um checkout no provedor e
// reconcilia o resultado assíncrono de volta nos registros locais.
type Orchestrator struct {
	Provider        Provider
	Leads           repository.LeadRepository
	Payments        repository.PaymentRepository
	MaxInstallments int
	PublicBaseURL   string
}

func NewOrchestrator(provider Provider, leads repository.LeadRepository, payments repository.PaymentRepository, maxInstallments int, publicBaseURL string) *Orchestrator {
	return &Orchestrator{
		Provider:        provider,
		Leads:           leads,
		Payments:        payments,
		MaxInstallments: maxInstallments,
		PublicBaseURL:   publicBaseURL,
	}
}

// CreateCheckout pede o checkout ao provedor. Nenhum campo de lead/payment é
// escrito antes do retorno; falha do provedor volta como erro tipado para o
// chamador oferecer retry, nunca como sucesso implícito.
func (o *Orchestrator) CreateCheckout(lead *model.Lead, amount int64) (*CheckoutHandle, error) {
	req := CheckoutRequest{
		ExternalReference: strconv.FormatUint(uint64(lead.ID), 10),
		Title:             "Site odontológico - " + lead.Name,
		Amount:            amount,
		PayerName:         lead.Name,
		PayerEmail:        lead.Email,
		PayerPhone:        lead.Phone,
		MaxInstallments:   o.MaxInstallments,
		SuccessURL:        o.PublicBaseURL + "/api/payments/success",
		FailureURL:        o.PublicBaseURL + "/api/payments/failure",
		PendingURL:        o.PublicBaseURL + "/api/payments/pending",
		NotificationURL:   o.PublicBaseURL + "/api/webhook/payments",
	}
	return o.Provider.CreatePreference(req)
}

// RecordCheckout é o único ponto que escreve preference id e URL de checkout
// no lead, e abre a linha de Payment pendente correspondente.
func (o *Orchestrator) RecordCheckout(lead *model.Lead, handle *CheckoutHandle, amount int64) (*model.Payment, error) {
	lead.PreferenceID = handle.PreferenceID
	lead.CheckoutURL = handle.InitPoint
	if err := o.Leads.Update(lead); err != nil {
		return nil, err
	}

	p := &model.Payment{
		LeadID:       lead.ID,
		Tipo:         model.PagamentoValorTotal,
		Valor:        amount,
		Status:       model.PaymentPending,
		PreferenceID: handle.PreferenceID,
	}
	if err := o.Payments.Insert(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Reconcile busca o estado atual no provedor e aplica no Payment local.
// Idempotente e monotônico: estado terminal nunca é sobrescrito; terminal
// divergente vira ErrReconcileConflict. Falha do provedor deixa o registro
// como estava.
func (o *Orchestrator) Reconcile(providerPaymentID string) (*model.Payment, error) {
	pp, err := o.Provider.GetPayment(providerPaymentID)
	if err != nil {
		return nil, err
	}

	p, err := o.Payments.SelectByProviderPaymentID(providerPaymentID)
	if errors.Is(err, repository.ErrNotFound) {
		// primeira notificação deste pagamento: correlaciona pelo
		// external_reference que o provedor ecoa
		p, err = o.attach(pp)
	}
	if err != nil {
		return nil, err
	}

	if p.Status.Terminal() {
		if p.Status != pp.Status {
			return p, ErrReconcileConflict
		}
		return p, nil
	}

	if p.Status == pp.Status {
		return p, nil
	}

	p.Status = pp.Status
	if err := o.Payments.Update(p); err != nil {
		return nil, err
	}

	if p.Status == model.PaymentSucceeded {
		if lead, lerr := o.Leads.SelectByID(p.LeadID); lerr == nil {
			lead.ProviderPaymentID = pp.ID
			if uerr := o.Leads.Update(lead); uerr != nil {
				return p, uerr
			}
		}
	}
	return p, nil
}

// attach liga a notificação à linha pendente aberta no checkout do lead. Sem
// pendente (linha antiga, retry tardio) abre uma nova para não perder o fato.
func (o *Orchestrator) attach(pp *ProviderPayment) (*model.Payment, error) {
	leadID, err := LeadIDFromPayment(pp)
	if err != nil {
		return nil, err
	}

	p, err := o.Payments.SelectPendingByLead(leadID)
	if errors.Is(err, repository.ErrNotFound) {
		p = &model.Payment{
			LeadID: leadID,
			Tipo:   model.PagamentoValorTotal,
			Valor:  pp.Amount,
			Status: model.PaymentPending,
		}
		if ierr := o.Payments.Insert(p); ierr != nil {
			return nil, ierr
		}
	} else if err != nil {
		return nil, err
	}

	p.ProviderPaymentID = pp.ID
	if err := o.Payments.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// LeadIDFromPayment resolve o lead dono a partir do external_reference que o
// provedor devolve. Obrigatório porque o webhook só carrega ids do provedor.
func LeadIDFromPayment(pp *ProviderPayment) (uint, error) {
	id, err := strconv.ParseUint(pp.ExternalReference, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("external_reference inválido: %q", pp.ExternalReference)
	}
	return uint(id), nil
}
