package cron

import (
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"dentalsites_backend/internal/model"
	"dentalsites_backend/pkg/database"
	"dentalsites_backend/pkg/email"
)

// InitPublicationDeadlineCron avisa a equipe sobre leads em aprovação final
// com prazo de publicação vencendo ou vencido. O prazo é SLA informativo,
// nada é forçado automaticamente.
func InitPublicationDeadlineCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		checkPublicationDeadlines()
	})

	if err != nil {
		log.Printf("Could not initialize publication deadline cron: %v", err)
		return
	}

	c.Start()
}

func checkPublicationDeadlines() {
	log.Println("Checking publication deadlines...")

	staffEmail := os.Getenv("ADMIN_EMAIL")
	if staffEmail == "" {
		log.Println("ADMIN_EMAIL not set, skipping deadline warnings")
		return
	}

	var leads []model.Lead
	horizon := time.Now().Add(24 * time.Hour)
	err := database.DB.
		Where("status = ? AND data_limite_publicacao IS NOT NULL AND data_limite_publicacao <= ?",
			model.StatusAprovacaoFinal, horizon).
		Find(&leads).Error
	if err != nil {
		log.Printf("Error fetching leads near deadline: %v", err)
		return
	}

	log.Printf("Found %d leads near publication deadline", len(leads))

	for _, lead := range leads {
		if email.GlobalEmailService == nil {
			continue
		}
		overdue := lead.DataLimitePublicacao.Before(time.Now())
		err := email.GlobalEmailService.SendPublicationDeadlineWarning(
			staffEmail,
			lead.Name,
			lead.SiteSlug,
			*lead.DataLimitePublicacao,
			overdue,
		)
		if err != nil {
			log.Printf("Error sending deadline warning for lead %d: %v", lead.ID, err)
		}
	}
}
