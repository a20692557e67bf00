package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-caller rate limiter. Grading runs are expensive on
// the judge side, so the run endpoint is keyed by candidate when the request
// body names one, falling back to the client IP.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			var probe struct {
				CandidateID uint `json:"candidate_id"`
			}
			if err := c.BodyParser(&probe); err == nil && probe.CandidateID > 0 {
				return fmt.Sprintf("%s:candidate:%d", identifier, probe.CandidateID)
			}
			return fmt.Sprintf("%s:ip:%s", identifier, c.IP())
		},
	})
}
