package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"dentalsites_backend/internal/model"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Insert(p *model.Payment) error {
	return r.db.Create(p).Error
}

func (r *paymentRepository) SelectByID(id uint) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) SelectByProviderPaymentID(providerID string) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.Where("provider_payment_id = ?", providerID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) SelectPendingByLead(leadID uint) (*model.Payment, error) {
	var p model.Payment
	err := r.db.Where("lead_id = ? AND status = ?", leadID, model.PaymentPending).
		Order("created_at desc").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListPollable retorna pendentes que já têm id de pagamento no provedor e
// podem ser consultados por polling (fallback para webhook perdido).
func (r *paymentRepository) ListPollable() ([]model.Payment, error) {
	var payments []model.Payment
	cutoff := time.Now().Add(-5 * time.Minute)
	err := r.db.Where("status = ? AND provider_payment_id <> '' AND updated_at < ?",
		model.PaymentPending, cutoff).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Update(p *model.Payment) error {
	return r.db.Save(p).Error
}

func (r *paymentRepository) HasSucceededForAmount(leadID uint, valor int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Payment{}).
		Where("lead_id = ? AND status = ? AND valor = ?", leadID, model.PaymentSucceeded, valor).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
