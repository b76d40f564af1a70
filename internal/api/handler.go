package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/opsbridge/zpa-adapter/internal/zpa"
)

// ResourceService defines the upstream operations the handlers expose.
type ResourceService interface {
	Fetch(ctx context.Context, path string) (*zpa.Response, error)
	Users(ctx context.Context) (*zpa.UsersResponse, error)
	ApplicationServers(ctx context.Context) (*zpa.Page[zpa.ApplicationServer], error)
	ServiceEdgeGroups(ctx context.Context) (*zpa.Page[zpa.ServiceEdgeGroup], error)
	PRACredentials(ctx context.Context) (*zpa.Page[zpa.PRACredential], error)
	PRAApprovals(ctx context.Context) (*zpa.Page[zpa.PRAApproval], error)
	TimeoutPolicyRules(ctx context.Context) (*zpa.Page[zpa.PolicyRule], error)
	AssistantSchedule(ctx context.Context) (*zpa.AssistantSchedule, error)
}

// ResourceHandler serves ZPA resources over the local HTTP surface.
type ResourceHandler struct {
	logger  *zap.Logger
	service ResourceService
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(logger *zap.Logger, service ResourceService) *ResourceHandler {
	return &ResourceHandler{
		logger:  logger,
		service: service,
	}
}

// Users handles GET /api/v1/users.
func (h *ResourceHandler) Users(c *fiber.Ctx) error {
	resp, err := h.service.Users(c.Context())
	if err != nil {
		return h.fail(c, "users", err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// ApplicationServers handles GET /api/v1/servers.
func (h *ResourceHandler) ApplicationServers(c *fiber.Ctx) error {
	resp, err := h.service.ApplicationServers(c.Context())
	if err != nil {
		return h.fail(c, "servers", err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// ServiceEdgeGroups handles GET /api/v1/service-edge-groups.
func (h *ResourceHandler) ServiceEdgeGroups(c *fiber.Ctx) error {
	resp, err := h.service.ServiceEdgeGroups(c.Context())
	if err != nil {
		return h.fail(c, "service_edge_groups", err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// PRACredentials handles GET /api/v1/pra-credentials.
func (h *ResourceHandler) PRACredentials(c *fiber.Ctx) error {
	resp, err := h.service.PRACredentials(c.Context())
	if err != nil {
		return h.fail(c, "pra_credentials", err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// PRAApprovals handles GET /api/v1/pra-approvals.
func (h *ResourceHandler) PRAApprovals(c *fiber.Ctx) error {
	resp, err := h.service.PRAApprovals(c.Context())
	if err != nil {
		return h.fail(c, "pra_approvals", err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// TimeoutPolicyRules handles GET /api/v1/timeout-policy-rules.
func (h *ResourceHandler) TimeoutPolicyRules(c *fiber.Ctx) error {
	resp, err := h.service.TimeoutPolicyRules(c.Context())
	if err != nil {
		return h.fail(c, "timeout_policy_rules", err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// AssistantSchedule handles GET /api/v1/assistant-schedule.
func (h *ResourceHandler) AssistantSchedule(c *fiber.Ctx) error {
	resp, err := h.service.AssistantSchedule(c.Context())
	if err != nil {
		return h.fail(c, "assistant_schedule", err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// fail maps the client error taxonomy onto local HTTP statuses.
func (h *ResourceHandler) fail(c *fiber.Ctx, op string, err error) error {
	h.logger.Error("api.fetch_failed",
		zap.String("op", op),
		zap.Error(err))

	var (
		missingErr *zpa.MissingCredentialError
		authErr    *zpa.AuthenticationError
		tokenErr   *zpa.TokenExtractionError
		reqErr     *zpa.RequestError
		transErr   *zpa.TransportError
	)
	switch {
	case errors.As(err, &missingErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": missingErr.Error()})
	case errors.As(err, &authErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":           "upstream sign-in failed",
			"upstream_status": authErr.Status,
			"upstream_body":   authErr.Body,
		})
	case errors.As(err, &tokenErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": tokenErr.Error()})
	case errors.As(err, &reqErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":           "upstream request failed",
			"upstream_status": reqErr.Status,
			"upstream_body":   reqErr.Body,
		})
	case errors.As(err, &transErr):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": transErr.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
