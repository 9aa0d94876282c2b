package controller

import (
	"errors"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"dentalsites_backend/internal/model"
	"dentalsites_backend/internal/payment"
	"dentalsites_backend/internal/repository"
	"dentalsites_backend/pkg/config"
	"dentalsites_backend/pkg/database"
	"dentalsites_backend/pkg/email"
	"dentalsites_backend/pkg/mercadopago"
)

func newOrchestrator() *payment.Orchestrator {
	return payment.NewOrchestrator(
		payment.ActiveProvider(),
		repository.NewLeadRepository(database.GetDB()),
		repository.NewPaymentRepository(database.GetDB()),
		config.MaxInstallments(),
		config.PublicBaseURL(),
	)
}

// GetLeadInstallments devolve a tabela de parcelamento para exibição.
func GetLeadInstallments(c *fiber.Ctx) error {
	repo := repository.NewLeadRepository(database.GetDB())

	leadID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lead ID",
		})
	}

	lead, err := repo.SelectByID(uint(leadID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	if lead.ValorTotal <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Lead has no total value set",
		})
	}

	table := payment.ComputeInstallments(lead.ValorTotal, config.MaxInstallments(), config.InstallmentRate())
	return c.JSON(fiber.Map{
		"valor_total":  lead.ValorTotal,
		"installments": table,
	})
}

// CreateLeadCheckout abre o checkout no provedor ativo. Falha do provedor
// volta tipada para o painel oferecer retry; nada é gravado antes do retorno
// do provedor.
func CreateLeadCheckout(c *fiber.Ctx) error {
	repo := repository.NewLeadRepository(database.GetDB())

	leadID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lead ID",
		})
	}

	lead, err := repo.SelectByID(uint(leadID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	if lead.ValorTotal <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Lead has no total value set",
		})
	}

	orch := newOrchestrator()

	handle, err := orch.CreateCheckout(lead, lead.ValorTotal)
	if err != nil {
		var apiErr *mercadopago.APIError
		if errors.As(err, &apiErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":           "Payment provider rejected the checkout",
				"provider_status": apiErr.StatusCode,
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not create checkout",
		})
	}

	p, err := orch.RecordCheckout(lead, handle, lead.ValorTotal)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record checkout",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"preference_id": handle.PreferenceID,
		"checkout_url":  handle.InitPoint,
		"payment_id":    p.ID,
	})
}

type webhookInput struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HandlePaymentWebhook recebe a notificação assíncrona do provedor e dispara
// a reconciliação. Conflito terminal vira anomalia logada, nunca aplicada.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	input := new(webhookInput)
	if err := c.BodyParser(input); err != nil {
		input.Type = c.Query("topic", c.Query("type"))
		input.Data.ID = c.Query("id", c.Query("data.id"))
	}
	if input.Data.ID == "" {
		input.Data.ID = c.Query("data.id", c.Query("id"))
	}

	if input.Type != "payment" || input.Data.ID == "" {
		// tópicos que não interessam (merchant_order etc.) são aceitos e ignorados
		return c.SendStatus(fiber.StatusOK)
	}

	// assinatura só é exigida quando a chave está configurada (sandbox dispensa)
	if secret := os.Getenv("MP_WEBHOOK_SECRET"); secret != "" {
		ok := mercadopago.VerifyWebhookSignature(
			secret, c.Get("x-signature"), c.Get("x-request-id"), input.Data.ID,
		)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid webhook signature",
			})
		}
	}

	orch := newOrchestrator()
	p, err := orch.Reconcile(input.Data.ID)
	if err != nil {
		if errors.Is(err, payment.ErrReconcileConflict) {
			log.Printf("Reconcile conflict on provider payment %s: local payment %d stays %s",
				input.Data.ID, p.ID, p.Status)
			return c.JSON(fiber.Map{"status": "conflict_flagged"})
		}
		// falha de consulta deixa o registro intacto; o provedor reenvia
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reconcile payment",
		})
	}

	if p.Status == model.PaymentSucceeded {
		notifyPaymentApproved(p)
	}

	return c.JSON(fiber.Map{"status": string(p.Status)})
}

func notifyPaymentApproved(p *model.Payment) {
	if email.GlobalEmailService == nil {
		return
	}
	staffEmail := os.Getenv("ADMIN_EMAIL")
	if staffEmail == "" {
		return
	}

	repo := repository.NewLeadRepository(database.GetDB())
	lead, err := repo.SelectByID(p.LeadID)
	if err != nil {
		log.Printf("Could not load lead %d for payment notification: %v", p.LeadID, err)
		return
	}

	if err := email.GlobalEmailService.SendPaymentApprovedEmail(staffEmail, lead.Name, p.Valor, lead.ID); err != nil {
		log.Printf("Could not send payment approved email: %v", err)
	}
}

// Destinos de redirecionamento do checkout.
func PaymentSuccess(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Pagamento aprovado! Em breve nossa equipe entra em contato.",
	})
}

func PaymentFailure(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "failure",
		"message": "O pagamento não foi concluído. Você pode tentar novamente pelo mesmo link.",
	})
}

func PaymentPending(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "pending",
		"message": "Pagamento em processamento. Avisaremos assim que confirmar.",
	})
}
