package model

import "gorm.io/gorm"

// LeadStatusHistory é trilha de auditoria append-only: uma linha por
// transição de status. Nunca atualizada nem removida.
type LeadStatusHistory struct {
	gorm.Model
	LeadID    uint       `json:"lead_id" gorm:"index"`
	OldStatus LeadStatus `json:"old_status" gorm:"type:varchar(32)"`
	NewStatus LeadStatus `json:"new_status" gorm:"type:varchar(32)"`
	Actor     string     `json:"actor"`
}
