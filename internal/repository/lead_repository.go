package repository

import (
	"errors"

	"gorm.io/gorm"

	"dentalsites_backend/internal/model"
)

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Insert(lead *model.Lead) error {
	return r.db.Create(lead).Error
}

func (r *leadRepository) SelectByID(id uint) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) SelectByToken(token string) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.Where("session_token = ?", token).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) SelectFiltered(f LeadFilter) ([]model.Lead, int64, error) {
	query := r.db.Model(&model.Lead{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Origem != "" {
		query = query.Where("origem = ?", f.Origem)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var leads []model.Lead
	if err := query.Order("created_at desc").Find(&leads).Error; err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *leadRepository) Update(lead *model.Lead) error {
	return r.db.Save(lead).Error
}

func (r *leadRepository) ApplyTransition(lead *model.Lead, old model.LeadStatus, actor string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(lead).Error; err != nil {
			return err
		}
		history := model.LeadStatusHistory{
			LeadID:    lead.ID,
			OldStatus: old,
			NewStatus: lead.Status,
			Actor:     actor,
		}
		return tx.Create(&history).Error
	})
}

func (r *leadRepository) History(leadID uint) ([]model.LeadStatusHistory, error) {
	var rows []model.LeadStatusHistory
	err := r.db.Where("lead_id = ?", leadID).Order("created_at asc").Find(&rows).Error
	return rows, err
}

func (r *leadRepository) AddNote(note *model.LeadNote) error {
	return r.db.Create(note).Error
}

func (r *leadRepository) DeleteNote(id uint) error {
	return r.db.Delete(&model.LeadNote{}, id).Error
}
