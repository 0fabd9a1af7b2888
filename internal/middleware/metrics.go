package middleware

import (
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency labelled by the matched route pattern.
// Errors are rendered here so the recorded status is the one the client sees.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		metrics.HTTPRequests.WithLabelValues(c.Method(), route, status).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return nil
	}
}
