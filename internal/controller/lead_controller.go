package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"dentalsites_backend/internal/lifecycle"
	"dentalsites_backend/internal/model"
	"dentalsites_backend/internal/repository"
	"dentalsites_backend/pkg/database"
	"dentalsites_backend/pkg/utils/jwt"
)

func GetLeads(c *fiber.Ctx) error {
	filter := repository.LeadFilter{
		Status: c.Query("status"),
		Origem: c.Query("origem"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
		})
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid from date, expected YYYY-MM-DD",
			})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid to date, expected YYYY-MM-DD",
			})
		}
		end := t.Add(24*time.Hour - time.Second)
		filter.To = &end
	}

	repo := repository.NewLeadRepository(database.GetDB())
	leads, total, err := repo.SelectFiltered(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch leads",
		})
	}

	return c.JSON(fiber.Map{
		"leads": leads,
		"total": total,
	})
}

func GetLead(c *fiber.Ctx) error {
	var lead model.Lead
	err := database.GetDB().
		Preload("Payments").
		Preload("Notes").
		Preload("History").
		First(&lead, c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}
	return c.JSON(lead)
}

type TransitionInput struct {
	Status string `json:"status"`
}

// TransitionLead é o único caminho de mudança de status pela API. Transições
// ilegais e orçamento de ajustes estourado voltam como conflito, nunca são
// coagidos.
func TransitionLead(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	leadID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lead ID",
		})
	}

	input := new(TransitionInput)
	if err := c.BodyParser(input); err != nil || !model.ValidStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
			"valid_statuses": []string{
				string(model.StatusNovo),
				string(model.StatusEmProducao),
				string(model.StatusAguardandoAprovacao),
				string(model.StatusEmAjustes),
				string(model.StatusAprovadoPagamento),
				string(model.StatusAprovacaoFinal),
				string(model.StatusNoAr),
				string(model.StatusConcluido),
			},
		})
	}

	machine := lifecycle.NewMachine(
		repository.NewLeadRepository(database.GetDB()),
		repository.NewPaymentRepository(database.GetDB()),
	)

	lead, err := machine.Transition(uint(leadID), model.LeadStatus(input.Status), claims.Email)
	if err != nil {
		var transitionErr *lifecycle.TransitionError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lead not found",
			})
		case errors.As(err, &transitionErr):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": transitionErr.Error(),
			})
		case errors.Is(err, lifecycle.ErrAdjustmentBudget):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":       "Rodadas de ajustes esgotadas",
				"rodadas_max": model.MaxAdjustmentRounds,
			})
		case errors.Is(err, lifecycle.ErrPaymentRequired):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Nenhum pagamento confirmado no valor esperado",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update lead status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lead status updated successfully",
		"lead":    lead,
	})
}

func GetLeadTimeline(c *fiber.Ctx) error {
	leadID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lead ID",
		})
	}

	repo := repository.NewLeadRepository(database.GetDB())
	history, err := repo.History(uint(leadID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch lead timeline",
		})
	}
	return c.JSON(history)
}

type NoteInput struct {
	Body string `json:"body"`
}

func AddLeadNote(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	leadID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lead ID",
		})
	}

	input := new(NoteInput)
	if err := c.BodyParser(input); err != nil || input.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	note := model.LeadNote{
		LeadID: uint(leadID),
		Author: claims.Email,
		Body:   input.Body,
	}

	repo := repository.NewLeadRepository(database.GetDB())
	if err := repo.AddNote(&note); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create note",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

func DeleteLeadNote(c *fiber.Ctx) error {
	noteID, err := c.ParamsInt("note_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid note ID",
		})
	}

	repo := repository.NewLeadRepository(database.GetDB())
	if err := repo.DeleteNote(uint(noteID)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete note",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
