package controller

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dentalsites_backend/internal/funnel"
	"dentalsites_backend/internal/intake"
	"dentalsites_backend/internal/model"
	"dentalsites_backend/internal/repository"
	"dentalsites_backend/pkg/database"
	"dentalsites_backend/pkg/email"
)

// sessions guarda os formulários em andamento. Todo acesso a um Form passa
// pelo Access do store, que serializa requisições concorrentes da mesma
// sessão.
var sessions = intake.NewSessionStore(6 * time.Hour)

// SweepSessions descarta sessões abandonadas. Chamado pelo cron.
func SweepSessions() int {
	return sessions.Sweep()
}

func sessionNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Briefing session not found",
	})
}

func CreateBriefingSession(c *fiber.Ctx) error {
	token := uuid.NewString()
	form := intake.NewForm()
	sessions.Put(token, form)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"section": form.Section,
		"answers": form.Answers,
	})
}

func GetBriefingSession(c *fiber.Ctx) error {
	var err error
	ok := sessions.Access(c.Params("token"), func(form *intake.Form) {
		err = c.JSON(form)
	})
	if !ok {
		return sessionNotFound(c)
	}
	return err
}

type FieldInput struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func SetBriefingField(c *fiber.Ctx) error {
	input := new(FieldInput)
	if err := c.BodyParser(input); err != nil || input.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var err error
	ok := sessions.Access(c.Params("token"), func(form *intake.Form) {
		form.SetField(input.Key, input.Value)
		err = c.JSON(fiber.Map{
			"section": form.Section,
			"errors":  form.Errors,
		})
	})
	if !ok {
		return sessionNotFound(c)
	}
	return err
}

// AdvanceBriefing valida a seção atual e move o ponteiro. Uma passada limpa
// pela seção de identidade dispara a captura do lead parcial; falha na
// captura não trava a navegação (o submit cobre via criação direta).
func AdvanceBriefing(c *fiber.Ctx) error {
	var err error
	ok := sessions.Access(c.Params("token"), func(form *intake.Form) {
		wasIdentity := form.Section == intake.SectionIdentidade

		if aerr := form.Advance(); aerr != nil {
			err = c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"section": form.Section,
				"errors":  form.Errors,
			})
			return
		}

		resp := fiber.Map{
			"section": form.Section,
			"errors":  form.Errors,
		}

		if wasIdentity && form.Marker == "" {
			wf := funnel.NewWorkflow(repository.NewLeadRepository(database.GetDB()))
			marker, cerr := wf.CaptureIfAbsent(form.Marker, funnel.Identity{
				Name:  form.Str("nome"),
				Email: form.Str("email"),
				Phone: form.Str("whatsapp"),
			})
			if cerr != nil {
				// marcador segue vazio: sem registro confirmado, sem marcador
				log.Printf("Could not capture partial lead: %v", cerr)
				resp["capture_error"] = "Could not save partial lead"
			} else {
				form.Marker = marker
			}
		}

		err = c.JSON(resp)
	})
	if !ok {
		return sessionNotFound(c)
	}
	return err
}

func RetreatBriefing(c *fiber.Ctx) error {
	var err error
	ok := sessions.Access(c.Params("token"), func(form *intake.Form) {
		form.Retreat()
		err = c.JSON(fiber.Map{
			"section": form.Section,
			"errors":  form.Errors,
		})
	})
	if !ok {
		return sessionNotFound(c)
	}
	return err
}

func AddGroupEntry(c *fiber.Ctx) error {
	entry := make(map[string]any)
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var err error
	ok := sessions.Access(c.Params("token"), func(form *intake.Form) {
		form.AddGroupEntry(c.Params("key"), entry)
		err = c.JSON(fiber.Map{
			"entries": form.GroupEntries(c.Params("key")),
		})
	})
	if !ok {
		return sessionNotFound(c)
	}
	return err
}

func UpdateGroupEntry(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry index",
		})
	}

	entry := make(map[string]any)
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var respErr error
	ok := sessions.Access(c.Params("token"), func(form *intake.Form) {
		if uerr := form.UpdateGroupEntry(c.Params("key"), index, entry); uerr != nil {
			respErr = c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Entry not found",
			})
			return
		}
		respErr = c.JSON(fiber.Map{
			"entries": form.GroupEntries(c.Params("key")),
		})
	})
	if !ok {
		return sessionNotFound(c)
	}
	return respErr
}

func RemoveGroupEntry(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid entry index",
		})
	}

	var respErr error
	ok := sessions.Access(c.Params("token"), func(form *intake.Form) {
		if rerr := form.RemoveGroupEntry(c.Params("key"), index); rerr != nil {
			respErr = c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Entry not found",
			})
			return
		}
		respErr = c.JSON(fiber.Map{
			"entries": form.GroupEntries(c.Params("key")),
			"errors":  form.Errors,
		})
	})
	if !ok {
		return sessionNotFound(c)
	}
	return respErr
}

// SubmitBriefing promove o lead parcial da sessão (ou cria direto quando o
// marcador se perdeu) e só então descarta a sessão local. O lock da sessão
// cobre o submit inteiro: reenvios simultâneos do mesmo token entram em fila
// e o segundo cai no no-op de promoção.
func SubmitBriefing(c *fiber.Ctx) error {
	token := c.Params("token")

	var respErr error
	ok := sessions.Access(token, func(form *intake.Form) {
		if errs := form.ValidateAll(); len(errs) > 0 {
			respErr = c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"errors": errs,
			})
			return
		}

		wf := funnel.NewWorkflow(repository.NewLeadRepository(database.GetDB()))

		var lead *model.Lead
		var err error
		if form.Marker != "" {
			lead, err = wf.Promote(form.Marker, form.Answers)
		} else {
			lead, err = wf.CreateDirect(form.Answers)
		}
		if err != nil {
			// sessão e marcador ficam intactos para o visitante tentar de novo
			respErr = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save briefing",
			})
			return
		}

		sessions.Delete(token)

		if email.GlobalEmailService != nil {
			staffEmail := os.Getenv("ADMIN_EMAIL")
			if staffEmail != "" {
				if err := email.GlobalEmailService.SendBriefingReceivedEmail(
					staffEmail, lead.Name, form.Str("nome_clinica"), lead.Origem, lead.ID,
				); err != nil {
					log.Printf("Could not send briefing notification email: %v", err)
				}
			}
		}

		respErr = c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Briefing enviado com sucesso",
			"lead_id": lead.ID,
			"status":  lead.Status,
			"origem":  lead.Origem,
		})
	})
	if !ok {
		return sessionNotFound(c)
	}
	return respErr
}
