package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dentalsites_backend/internal/model"
)

var fixedNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func newTestMachine(leads *MockLeadRepository, payments *MockPaymentRepository) *Machine {
	m := NewMachine(leads, payments)
	m.Now = func() time.Time { return fixedNow }
	return m
}

func leadAt(status model.LeadStatus) *model.Lead {
	lead := &model.Lead{Status: status, ValorTotal: 199700}
	lead.ID = 7
	return lead
}

func TestTransitionAppendsHistoryWithPriorStatus(t *testing.T) {
	leads := new(MockLeadRepository)
	payments := new(MockPaymentRepository)

	leads.On("SelectByID", uint(7)).Return(leadAt(model.StatusNovo), nil)
	leads.On("ApplyTransition", mock.MatchedBy(func(l *model.Lead) bool {
		return l.Status == model.StatusEmProducao
	}), model.StatusNovo, "ana@equipe.com").Return(nil)

	m := newTestMachine(leads, payments)
	lead, err := m.Transition(7, model.StatusEmProducao, "ana@equipe.com")

	require.NoError(t, err)
	assert.Equal(t, model.StatusEmProducao, lead.Status)
	leads.AssertExpectations(t)
}

func TestIllegalTransitionRejected(t *testing.T) {
	leads := new(MockLeadRepository)
	payments := new(MockPaymentRepository)

	leads.On("SelectByID", uint(7)).Return(leadAt(model.StatusNovo), nil)

	m := newTestMachine(leads, payments)
	_, err := m.Transition(7, model.StatusConcluido, "ana@equipe.com")

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, model.StatusNovo, transitionErr.From)
	assert.Equal(t, model.StatusConcluido, transitionErr.To)
	leads.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestBackwardTransitionRejected(t *testing.T) {
	leads := new(MockLeadRepository)
	payments := new(MockPaymentRepository)

	leads.On("SelectByID", uint(7)).Return(leadAt(model.StatusEmProducao), nil)

	m := newTestMachine(leads, payments)
	_, err := m.Transition(7, model.StatusNovo, "ana@equipe.com")

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	leads.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustmentLoopConsumesBudget(t *testing.T) {
	leads := new(MockLeadRepository)
	payments := new(MockPaymentRepository)

	lead := leadAt(model.StatusAguardandoAprovacao)
	lead.RodadasAjustesUsadas = 1

	leads.On("SelectByID", uint(7)).Return(lead, nil)
	leads.On("ApplyTransition", mock.Anything, model.StatusAguardandoAprovacao, "ana@equipe.com").Return(nil)

	m := newTestMachine(leads, payments)
	updated, err := m.Transition(7, model.StatusEmAjustes, "ana@equipe.com")

	require.NoError(t, err)
	assert.Equal(t, 2, updated.RodadasAjustesUsadas)
}

func TestThirdAdjustmentRoundRejected(t *testing.T) {
	leads := new(MockLeadRepository)
	payments := new(MockPaymentRepository)

	lead := leadAt(model.StatusAguardandoAprovacao)
	lead.RodadasAjustesUsadas = model.MaxAdjustmentRounds

	leads.On("SelectByID", uint(7)).Return(lead, nil)

	m := newTestMachine(leads, payments)
	_, err := m.Transition(7, model.StatusEmAjustes, "ana@equipe.com")

	assert.ErrorIs(t, err, ErrAdjustmentBudget)
	assert.Equal(t, model.MaxAdjustmentRounds, lead.RodadasAjustesUsadas)
	leads.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentApprovalRequiresSucceededPayment(t *testing.T) {
	leads := new(MockLeadRepository)
	payments := new(MockPaymentRepository)

	leads.On("SelectByID", uint(7)).Return(leadAt(model.StatusAguardandoAprovacao), nil)
	payments.On("HasSucceededForAmount", uint(7), int64(199700)).Return(false, nil)

	m := newTestMachine(leads, payments)
	_, err := m.Transition(7, model.StatusAprovadoPagamento, "ana@equipe.com")

	assert.ErrorIs(t, err, ErrPaymentRequired)
	leads.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentApprovalWithConfirmedPayment(t *testing.T) {
	leads := new(MockLeadRepository)
	payments := new(MockPaymentRepository)

	leads.On("SelectByID", uint(7)).Return(leadAt(model.StatusAguardandoAprovacao), nil)
	payments.On("HasSucceededForAmount", uint(7), int64(199700)).Return(true, nil)
	leads.On("ApplyTransition", mock.Anything, model.StatusAguardandoAprovacao, "ana@equipe.com").Return(nil)

	m := newTestMachine(leads, payments)
	lead, err := m.Transition(7, model.StatusAprovadoPagamento, "ana@equipe.com")

	require.NoError(t, err)
	assert.Equal(t, model.StatusAprovadoPagamento, lead.Status)
	require.NotNil(t, lead.AprovacaoInicialEm)
	assert.Equal(t, fixedNow, *lead.AprovacaoInicialEm)
}

func TestFinalApprovalStampsPublicationDeadline(t *testing.T) {
	leads := new(MockLeadRepository)
	payments := new(MockPaymentRepository)

	leads.On("SelectByID", uint(7)).Return(leadAt(model.StatusAprovadoPagamento), nil)
	leads.On("ApplyTransition", mock.Anything, model.StatusAprovadoPagamento, "ana@equipe.com").Return(nil)

	m := newTestMachine(leads, payments)
	lead, err := m.Transition(7, model.StatusAprovacaoFinal, "ana@equipe.com")

	require.NoError(t, err)
	require.NotNil(t, lead.DataLimitePublicacao)
	assert.Equal(t, fixedNow.Add(PublicationWindow), *lead.DataLimitePublicacao)
	require.NotNil(t, lead.AprovacaoFinalEm)
	assert.Equal(t, fixedNow, *lead.AprovacaoFinalEm)
}

func TestFullLifecycleSequence(t *testing.T) {
	sequence := []model.LeadStatus{
		model.StatusEmProducao,
		model.StatusAguardandoAprovacao,
		model.StatusAprovadoPagamento,
		model.StatusAprovacaoFinal,
		model.StatusNoAr,
		model.StatusConcluido,
	}

	lead := leadAt(model.StatusNovo)

	for _, next := range sequence {
		leads := new(MockLeadRepository)
		payments := new(MockPaymentRepository)

		prior := lead.Status
		leads.On("SelectByID", uint(7)).Return(lead, nil)
		payments.On("HasSucceededForAmount", uint(7), int64(199700)).Return(true, nil)
		leads.On("ApplyTransition", mock.Anything, prior, "sistema").Return(nil)

		m := newTestMachine(leads, payments)
		updated, err := m.Transition(7, next, "sistema")

		require.NoError(t, err, "transição %s -> %s", prior, next)
		assert.Equal(t, next, updated.Status)
		lead = updated
	}

	assert.True(t, lead.Status.Terminal())
}

func TestCanTransitionTable(t *testing.T) {
	assert.True(t, CanTransition(model.StatusLeadParcial, model.StatusNovo))
	assert.True(t, CanTransition(model.StatusEmAjustes, model.StatusAguardandoAprovacao))
	assert.False(t, CanTransition(model.StatusNovo, model.StatusConcluido))
	assert.False(t, CanTransition(model.StatusConcluido, model.StatusNoAr))
	assert.False(t, CanTransition(model.StatusAprovadoPagamento, model.StatusAguardandoAprovacao))
}
