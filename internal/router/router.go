package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hireloop/hireloop-api/internal/config"
	"github.com/hireloop/hireloop-api/internal/handler"
	"github.com/hireloop/hireloop-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SubmissionHandler *handler.SubmissionHandler
	QuestionHandler   *handler.QuestionHandler
	JWTMiddleware     fiber.Handler
	RunLimiter        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	assessment := api.Group("/assessment")

	if deps.SubmissionHandler != nil {
		submissions := assessment.Group("/submissions")
		deps.SubmissionHandler.Register(submissions, deps.RunLimiter)
	}

	if deps.QuestionHandler != nil {
		questions := assessment.Group("/questions")
		deps.QuestionHandler.Register(questions)

		// Catalog writes are recruiter-facing and sit behind auth.
		protected := assessment.Group("/questions", jwtMiddleware)
		deps.QuestionHandler.RegisterProtected(protected)
	}
}
