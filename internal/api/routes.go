package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opsbridge/zpa-adapter/internal/store"
)

// RegisterRoutes wires the serve-mode HTTP surface onto app.
// st may be nil when no response cache is configured.
func RegisterRoutes(app *fiber.App, st store.Store, handler *ResourceHandler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{
			"store": "disabled",
		}
		status := "ok"
		code := fiber.StatusOK

		if st != nil {
			checks["store"] = "ok"
			healthCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := st.HealthCheck(healthCtx); err != nil {
				checks["store"] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})

	// API routes
	v1 := app.Group("/api/v1")
	v1.Get("/users", handler.Users)
	v1.Get("/servers", handler.ApplicationServers)
	v1.Get("/service-edge-groups", handler.ServiceEdgeGroups)
	v1.Get("/pra-credentials", handler.PRACredentials)
	v1.Get("/pra-approvals", handler.PRAApprovals)
	v1.Get("/timeout-policy-rules", handler.TimeoutPolicyRules)
	v1.Get("/assistant-schedule", handler.AssistantSchedule)
}
