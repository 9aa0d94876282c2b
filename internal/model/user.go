package model

import "gorm.io/gorm"

// User é um membro da equipe com acesso ao console administrativo.
type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Name     string `json:"name"`
	Role     string `json:"role" gorm:"default:'producao'"` // admin, producao
}
