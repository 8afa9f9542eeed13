package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trainhub/backend/config"
	"trainhub/backend/controllers"
	"trainhub/backend/middleware"
	"trainhub/backend/services"
	"trainhub/backend/utils"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, issuer *services.CertificateIssuer, submissions *services.SubmissionService, mailer *utils.Mailer) {
	// Public routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	certificatesController := controllers.NewCertificatesController(db, cfg, issuer, mailer)
	app.Get("/api/certificates/verify/:code", certificatesController.VerifyCertificate)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Middleware
	authMiddleware := middleware.AuthMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Admin user management
	adminUsers := app.Group("/api/admin/users", authMiddleware, middleware.RequireCapability(middleware.CapManageUsers))
	adminUsers.Get("/", userController.ListUsers)
	adminUsers.Put("/:id", userController.UpdateUser)

	// Program routes
	programsController := controllers.NewProgramsController(db, cfg)
	modulesController := controllers.NewModulesController(db, cfg)
	enrollmentsController := controllers.NewEnrollmentsController(db, cfg)
	programs := app.Group("/api/programs", authMiddleware)
	programs.Get("/", programsController.ListPrograms)
	programs.Get("/:id", programsController.GetProgram)
	programs.Get("/:id/structure", programsController.GetProgramStructure)
	programs.Get("/:id/modules", modulesController.ListProgramModules)

	contentController := controllers.NewContentController(db, cfg)
	app.Get("/api/modules/:id/units", authMiddleware, modulesController.ListModuleUnits)
	app.Get("/api/units/:id/content", authMiddleware, contentController.ListUnitContent)

	// Admin routes for programs, modules, units and content
	adminPrograms := app.Group("/api/admin/programs", authMiddleware, middleware.RequireCapability(middleware.CapManagePrograms))
	adminPrograms.Post("/", programsController.CreateProgram)
	adminPrograms.Put("/:id", programsController.UpdateProgram)
	adminPrograms.Delete("/:id", programsController.DeleteProgram)
	adminPrograms.Post("/:id/modules", modulesController.CreateModule)
	adminPrograms.Get("/:id/enrollments", middleware.RequireCapability(middleware.CapManageEnrollments), enrollmentsController.ListProgramEnrollments)

	adminModules := app.Group("/api/admin/modules", authMiddleware, middleware.RequireCapability(middleware.CapManagePrograms))
	adminModules.Put("/:id", modulesController.UpdateModule)
	adminModules.Delete("/:id", modulesController.DeleteModule)
	adminModules.Post("/:id/units", modulesController.CreateUnit)
	adminModules.Get("/:id/units", modulesController.ListModuleUnits)

	adminUnits := app.Group("/api/admin/units", authMiddleware, middleware.RequireCapability(middleware.CapManagePrograms))
	adminUnits.Put("/:id", modulesController.UpdateUnit)
	adminUnits.Delete("/:id", modulesController.DeleteUnit)
	adminUnits.Post("/:id/content", middleware.RequireCapability(middleware.CapManageContent), contentController.UploadContent)
	adminUnits.Get("/:id/content", middleware.RequireCapability(middleware.CapManageContent), contentController.ListUnitContent)

	adminContent := app.Group("/api/admin/content", authMiddleware, middleware.RequireCapability(middleware.CapManageContent))
	adminContent.Delete("/:id", contentController.DeleteContent)

	// Question bank routes
	questionsController := controllers.NewQuestionsController(db, cfg)
	adminQuestions := app.Group("/api/admin/questions", authMiddleware, middleware.RequireCapability(middleware.CapManageQuestions))
	adminQuestions.Post("/", questionsController.CreateQuestion)
	adminQuestions.Get("/", questionsController.ListQuestions)
	adminQuestions.Get("/:id", questionsController.GetQuestion)
	adminQuestions.Put("/:id", questionsController.UpdateQuestion)
	adminQuestions.Delete("/:id", questionsController.DeleteQuestion)

	// Assessment routes
	assessmentsController := controllers.NewAssessmentsController(db, cfg, submissions, mailer)
	assessments := app.Group("/api/assessments", authMiddleware)
	assessments.Get("/", assessmentsController.ListAssessments)
	assessments.Get("/:id", assessmentsController.GetAssessment)
	assessments.Post("/:id/submit", middleware.RequireCapability(middleware.CapSubmitAssessments), assessmentsController.SubmitAssessment)
	assessments.Get("/:id/attempts", assessmentsController.ListMyAttempts)
	assessments.Get("/:id/analytics", middleware.RequireCapability(middleware.CapViewAnalytics), assessmentsController.GetAssessmentAnalytics)

	adminAssessments := app.Group("/api/admin/assessments", authMiddleware, middleware.RequireCapability(middleware.CapManageAssessments))
	adminAssessments.Post("/", assessmentsController.CreateAssessment)
	adminAssessments.Put("/:id", assessmentsController.UpdateAssessment)
	adminAssessments.Delete("/:id", assessmentsController.DeleteAssessment)

	// Enrollment routes
	app.Get("/api/enrollments", authMiddleware, enrollmentsController.ListMyEnrollments)
	adminEnrollments := app.Group("/api/admin/enrollments", authMiddleware, middleware.RequireCapability(middleware.CapManageEnrollments))
	adminEnrollments.Post("/", enrollmentsController.AssignEnrollment)

	// Certificate routes
	app.Get("/api/certificates", authMiddleware, certificatesController.ListMyCertificates)
	adminCertificates := app.Group("/api/admin/certificates", authMiddleware, middleware.RequireCapability(middleware.CapIssueCertificates))
	adminCertificates.Get("/", certificatesController.ListCertificates)
	adminCertificates.Post("/generate", certificatesController.GenerateCertificate)
	adminCertificates.Put("/:id/revoke", middleware.RequireCapability(middleware.CapRevokeCertificates), certificatesController.RevokeCertificate)
}
