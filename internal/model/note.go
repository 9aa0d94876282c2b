package model

import "gorm.io/gorm"

// LeadNote é anotação livre da equipe sobre um lead.
type LeadNote struct {
	gorm.Model
	LeadID uint   `json:"lead_id" gorm:"index"`
	Author string `json:"author"`
	Body   string `json:"body" gorm:"type:text"`
}
