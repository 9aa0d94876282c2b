package lifecycle

import (
	"github.com/stretchr/testify/mock"

	"dentalsites_backend/internal/model"
	"dentalsites_backend/internal/repository"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Insert(lead *model.Lead) error {
	args := m.Called(lead)
	return args.Error(0)
}

func (m *MockLeadRepository) SelectByID(id uint) (*model.Lead, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadRepository) SelectByToken(token string) (*model.Lead, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadRepository) SelectFiltered(f repository.LeadFilter) ([]model.Lead, int64, error) {
	args := m.Called(f)
	var leads []model.Lead
	if args.Get(0) != nil {
		leads = args.Get(0).([]model.Lead)
	}
	return leads, args.Get(1).(int64), args.Error(2)
}

func (m *MockLeadRepository) Update(lead *model.Lead) error {
	args := m.Called(lead)
	return args.Error(0)
}

func (m *MockLeadRepository) ApplyTransition(lead *model.Lead, old model.LeadStatus, actor string) error {
	args := m.Called(lead, old, actor)
	return args.Error(0)
}

func (m *MockLeadRepository) History(leadID uint) ([]model.LeadStatusHistory, error) {
	args := m.Called(leadID)
	var rows []model.LeadStatusHistory
	if args.Get(0) != nil {
		rows = args.Get(0).([]model.LeadStatusHistory)
	}
	return rows, args.Error(1)
}

func (m *MockLeadRepository) AddNote(note *model.LeadNote) error {
	args := m.Called(note)
	return args.Error(0)
}

func (m *MockLeadRepository) DeleteNote(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockPaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Insert(p *model.Payment) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockPaymentRepository) SelectByID(id uint) (*model.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SelectByProviderPaymentID(providerID string) (*model.Payment, error) {
	args := m.Called(providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SelectPendingByLead(leadID uint) (*model.Payment, error) {
	args := m.Called(leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPollable() ([]model.Payment, error) {
	args := m.Called()
	var payments []model.Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]model.Payment)
	}
	return payments, args.Error(1)
}

func (m *MockPaymentRepository) Update(p *model.Payment) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockPaymentRepository) HasSucceededForAmount(leadID uint, valor int64) (bool, error) {
	args := m.Called(leadID, valor)
	return args.Bool(0), args.Error(1)
}
