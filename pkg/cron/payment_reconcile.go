package cron

import (
	"errors"
	"log"

	"github.com/robfig/cron/v3"

	"dentalsites_backend/internal/payment"
	"dentalsites_backend/internal/repository"
	"dentalsites_backend/pkg/config"
	"dentalsites_backend/pkg/database"
)

// InitPaymentReconcileCron liga o polling de pagamentos pendentes: fallback
// para notificações de webhook perdidas.
func InitPaymentReconcileCron() {
	c := cron.New()

	_, err := c.AddFunc("*/15 * * * *", func() {
		reconcilePendingPayments()
	})

	if err != nil {
		log.Printf("Could not initialize payment reconcile cron: %v", err)
		return
	}

	c.Start()
}

func reconcilePendingPayments() {
	log.Println("Reconciling pending payments...")

	payments := repository.NewPaymentRepository(database.GetDB())
	leads := repository.NewLeadRepository(database.GetDB())
	orch := payment.NewOrchestrator(
		payment.ActiveProvider(),
		leads,
		payments,
		config.MaxInstallments(),
		config.PublicBaseURL(),
	)

	pending, err := payments.ListPollable()
	if err != nil {
		log.Printf("Error listing pending payments: %v", err)
		return
	}

	for _, p := range pending {
		if _, err := orch.Reconcile(p.ProviderPaymentID); err != nil {
			if errors.Is(err, payment.ErrReconcileConflict) {
				// anomalia: terminal divergente do provedor, fica para revisão manual
				log.Printf("Reconcile conflict on payment %d (provider id %s)", p.ID, p.ProviderPaymentID)
				continue
			}
			log.Printf("Error reconciling payment %d: %v", p.ID, err)
		}
	}

	log.Printf("Reconciled %d pending payments", len(pending))
}
