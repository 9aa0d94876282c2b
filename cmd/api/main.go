package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"dentalsites_backend/internal/controller"
	"dentalsites_backend/internal/middleware"
	"dentalsites_backend/internal/model"
	"dentalsites_backend/pkg/config"
	"dentalsites_backend/pkg/cron"
	"dentalsites_backend/pkg/database"
	"dentalsites_backend/pkg/email"
	"dentalsites_backend/pkg/seed"
	"dentalsites_backend/pkg/utils/storage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/login", controller.Login)

	// Public briefing (intake) routes
	briefing := api.Group("/briefing")
	briefing.Post("/sessions", controller.CreateBriefingSession)
	briefing.Get("/:token", controller.GetBriefingSession)
	briefing.Put("/:token/fields", controller.SetBriefingField)
	briefing.Post("/:token/advance", controller.AdvanceBriefing)
	briefing.Post("/:token/retreat", controller.RetreatBriefing)
	briefing.Post("/:token/groups/:key", controller.AddGroupEntry)
	briefing.Put("/:token/groups/:key/:index", controller.UpdateGroupEntry)
	briefing.Delete("/:token/groups/:key/:index", controller.RemoveGroupEntry)
	briefing.Post("/:token/uploads", controller.UploadBriefingAsset)
	briefing.Post("/:token/submit", controller.SubmitBriefing)

	// Checkout redirect landings + provider webhook
	api.Get("/payments/success", controller.PaymentSuccess)
	api.Get("/payments/failure", controller.PaymentFailure)
	api.Get("/payments/pending", controller.PaymentPending)
	api.Post("/webhook/payments", controller.HandlePaymentWebhook)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	leads := protected.Group("/leads")
	leads.Get("/", controller.GetLeads)
	leads.Get("/:id", controller.GetLead)
	leads.Post("/:id/transitions", controller.TransitionLead)
	leads.Get("/:id/timeline", controller.GetLeadTimeline)
	leads.Post("/:id/notes", controller.AddLeadNote)
	leads.Delete("/:id/notes/:note_id", middleware.RequireRole("admin"), controller.DeleteLeadNote)
	leads.Get("/:id/installments", controller.GetLeadInstallments)
	leads.Post("/:id/checkout", controller.CreateLeadCheckout)

	// Dashboard routes
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
	dashboard.Get("/stats", controller.GetDashboardStats)
}

func main() {
	cfg := config.Load()

	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		if err := email.InitEmailService(key); err != nil {
			log.Printf("Could not initialize email service: %v", err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, email notifications disabled")
	}

	if err := storage.InitStorage(); err != nil {
		log.Printf("Could not initialize storage: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Lead{},
		&model.Payment{},
		&model.LeadStatusHistory{},
		&model.LeadNote{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedAdminUser(database.GetDB())

	cron.InitPaymentReconcileCron()
	cron.InitPublicationDeadlineCron()
	cron.InitSessionSweepCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
