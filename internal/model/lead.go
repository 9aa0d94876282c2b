package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LeadStatus string

const (
	StatusLeadParcial         LeadStatus = "lead_parcial"
	StatusNovo                LeadStatus = "novo"
	StatusEmProducao          LeadStatus = "em_producao"
	StatusAguardandoAprovacao LeadStatus = "aguardando_aprovacao"
	StatusEmAjustes           LeadStatus = "em_ajustes"
	StatusAprovadoPagamento   LeadStatus = "aprovado_pagamento"
	StatusAprovacaoFinal      LeadStatus = "aprovacao_final"
	StatusNoAr                LeadStatus = "no_ar"
	StatusConcluido           LeadStatus = "concluido"
)

// Origem values used by the funnel conversion report.
const (
	OrigemFormularioDireto = "formulario_direto"
	OrigemConvertidoDeLead = "convertido_de_lead"
)

// MaxAdjustmentRounds é o teto de rodadas de ajustes por lead.
const MaxAdjustmentRounds = 2

type Lead struct {
	gorm.Model
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"` // WhatsApp, 11 dígitos (DDD + 9 + número)

	Status   LeadStatus     `json:"status" gorm:"type:varchar(32);default:'novo';index"`
	Origem   string         `json:"origem"`
	SiteSlug string         `json:"site_slug" gorm:"index"`
	Briefing datatypes.JSON `json:"briefing" gorm:"type:jsonb"`

	// Marcador opaco da sessão de briefing. Único mecanismo de deduplicação
	// da captura parcial.
	SessionToken string `json:"-" gorm:"index;size:36"`

	// Valores em centavos
	ValorTotal   int64 `json:"valor_total"`
	ValorEntrada int64 `json:"valor_entrada"` // legado: split 50/50
	ValorSaldo   int64 `json:"valor_saldo"`   // legado: split 50/50

	// Correlação com o provedor de pagamento ativo. Escrito apenas pelo
	// RecordCheckout.
	PreferenceID      string `json:"preference_id"`
	ProviderPaymentID string `json:"provider_payment_id"`
	CheckoutURL       string `json:"checkout_url"`

	// Colunas da integração antiga. Somente leitura em código novo.
	AsaasCustomerID string `json:"-"`
	AsaasPaymentID  string `json:"-"`

	RodadasAjustesUsadas int        `json:"rodadas_ajustes_usadas" gorm:"default:0"`
	AprovacaoInicialEm   *time.Time `json:"aprovacao_inicial_em"`
	AprovacaoFinalEm     *time.Time `json:"aprovacao_final_em"`
	DataLimitePublicacao *time.Time `json:"data_limite_publicacao"`

	// Relações
	Payments []Payment           `json:"payments,omitempty"`
	Notes    []LeadNote          `json:"notes,omitempty"`
	History  []LeadStatusHistory `json:"history,omitempty"`
}

// Terminal indica que nenhum avanço é esperado a partir do status.
func (s LeadStatus) Terminal() bool {
	return s == StatusConcluido
}

// ValidStatus valida valores vindos da API administrativa.
func ValidStatus(s string) bool {
	switch LeadStatus(s) {
	case StatusLeadParcial, StatusNovo, StatusEmProducao, StatusAguardandoAprovacao,
		StatusEmAjustes, StatusAprovadoPagamento, StatusAprovacaoFinal,
		StatusNoAr, StatusConcluido:
		return true
	}
	return false
}
