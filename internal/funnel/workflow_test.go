package funnel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dentalsites_backend/internal/model"
	"dentalsites_backend/internal/repository"
)

var captureNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestWorkflow(leads *MockLeadRepository) *Workflow {
	w := NewWorkflow(leads)
	w.Now = func() time.Time { return captureNow }
	return w
}

var visitante = Identity{
	Name:  "Dra. Ana Souza",
	Email: "ana@clinicasouza.com.br",
	Phone: "11987654321",
}

func TestCaptureCreatesPartialLead(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("Insert", mock.MatchedBy(func(l *model.Lead) bool {
		return l.Status == model.StatusLeadParcial &&
			l.Name == visitante.Name &&
			l.Email == visitante.Email &&
			l.SessionToken != ""
	})).Return(nil)

	w := newTestWorkflow(leads)
	token, err := w.CaptureIfAbsent("", visitante)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	leads.AssertExpectations(t)
}

func TestCaptureIsIdempotentWithValidMarker(t *testing.T) {
	leads := new(MockLeadRepository)
	existing := &model.Lead{Status: model.StatusLeadParcial, SessionToken: "tok-abc"}
	leads.On("SelectByToken", "tok-abc").Return(existing, nil)

	w := newTestWorkflow(leads)
	token, err := w.CaptureIfAbsent("tok-abc", visitante)

	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	leads.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestCaptureRecreatesOnOrphanMarker(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("SelectByToken", "tok-perdido").Return(nil, repository.ErrNotFound)
	leads.On("Insert", mock.Anything).Return(nil)

	w := newTestWorkflow(leads)
	token, err := w.CaptureIfAbsent("tok-perdido", visitante)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "tok-perdido", token)
}

func TestCaptureReturnsNoMarkerOnInsertFailure(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("Insert", mock.Anything).Return(errors.New("conexão recusada"))

	w := newTestWorkflow(leads)
	token, err := w.CaptureIfAbsent("", visitante)

	assert.Error(t, err)
	assert.Empty(t, token)
}

func fullBriefing() map[string]any {
	return map[string]any{
		"nome":         "Dra. Ana Souza",
		"email":        "ana@clinicasouza.com.br",
		"whatsapp":     "11987654321",
		"nome_clinica": "Clínica Souza Odontologia",
		"servicos":     []any{"implantes", "ortodontia"},
	}
}

func TestPromoteConvertsPartialInPlace(t *testing.T) {
	leads := new(MockLeadRepository)
	partial := &model.Lead{
		Status:       model.StatusLeadParcial,
		SessionToken: "tok-abc",
		Name:         "Ana",
	}
	partial.ID = 3

	leads.On("SelectByToken", "tok-abc").Return(partial, nil)
	leads.On("ApplyTransition", mock.MatchedBy(func(l *model.Lead) bool {
		return l.ID == 3 &&
			l.Status == model.StatusNovo &&
			l.Origem == model.OrigemConvertidoDeLead &&
			l.SiteSlug == "clinica-souza-odontologia"
	}), model.StatusLeadParcial, "visitante").Return(nil)

	w := newTestWorkflow(leads)
	lead, err := w.Promote("tok-abc", fullBriefing())

	require.NoError(t, err)
	assert.Equal(t, model.StatusNovo, lead.Status)
	assert.Equal(t, "Dra. Ana Souza", lead.Name)
	leads.AssertExpectations(t)
	leads.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestPromoteFallsBackToDirectWhenMarkerLost(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("SelectByToken", "tok-sumiu").Return(nil, repository.ErrNotFound)
	leads.On("Insert", mock.MatchedBy(func(l *model.Lead) bool {
		return l.Status == model.StatusNovo && l.Origem == model.OrigemFormularioDireto
	})).Return(nil)

	w := newTestWorkflow(leads)
	lead, err := w.Promote("tok-sumiu", fullBriefing())

	require.NoError(t, err)
	assert.Equal(t, model.OrigemFormularioDireto, lead.Origem)
	leads.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestPromoteDoubleSubmitIsNoOp(t *testing.T) {
	leads := new(MockLeadRepository)
	converted := &model.Lead{
		Status:       model.StatusNovo,
		Origem:       model.OrigemConvertidoDeLead,
		SessionToken: "tok-abc",
	}
	leads.On("SelectByToken", "tok-abc").Return(converted, nil)

	w := newTestWorkflow(leads)
	lead, err := w.Promote("tok-abc", fullBriefing())

	require.NoError(t, err)
	assert.Equal(t, model.StatusNovo, lead.Status)
	leads.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
	leads.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestCreateDirectSlugFallsBackToName(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("Insert", mock.Anything).Return(nil)

	briefing := fullBriefing()
	delete(briefing, "nome_clinica")

	w := newTestWorkflow(leads)
	lead, err := w.CreateDirect(briefing)

	require.NoError(t, err)
	assert.Equal(t, "dra-ana-souza", lead.SiteSlug)
}
