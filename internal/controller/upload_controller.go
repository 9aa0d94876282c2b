package controller

import (
	"github.com/gofiber/fiber/v2"

	"dentalsites_backend/internal/intake"
	"dentalsites_backend/pkg/utils/storage"
)

// UploadBriefingAsset recebe uma imagem de referência do briefing (logo,
// fachada, foto da equipe), converte e devolve a URL pública. O cliente
// coloca a URL no documento de respostas como referência de arquivo.
func UploadBriefingAsset(c *fiber.Ctx) error {
	token := c.Params("token")
	if !sessions.Access(token, func(*intake.Form) {}) {
		return sessionNotFound(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	url, err := storage.UploadBriefingAsset(file, token)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": url,
	})
}
