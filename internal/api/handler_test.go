package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsbridge/zpa-adapter/internal/zpa"
)

// stubService implements ResourceService with canned results.
type stubService struct {
	users *zpa.UsersResponse
	err   error
}

func (s *stubService) Fetch(context.Context, string) (*zpa.Response, error) {
	return nil, s.err
}

func (s *stubService) Users(context.Context) (*zpa.UsersResponse, error) {
	return s.users, s.err
}

func (s *stubService) ApplicationServers(context.Context) (*zpa.Page[zpa.ApplicationServer], error) {
	if s.err != nil {
		return nil, s.err
	}
	return &zpa.Page[zpa.ApplicationServer]{List: []zpa.ApplicationServer{{ID: "1", Name: "web-01"}}}, nil
}

func (s *stubService) ServiceEdgeGroups(context.Context) (*zpa.Page[zpa.ServiceEdgeGroup], error) {
	if s.err != nil {
		return nil, s.err
	}
	return &zpa.Page[zpa.ServiceEdgeGroup]{}, nil
}

func (s *stubService) PRACredentials(context.Context) (*zpa.Page[zpa.PRACredential], error) {
	if s.err != nil {
		return nil, s.err
	}
	return &zpa.Page[zpa.PRACredential]{}, nil
}

func (s *stubService) PRAApprovals(context.Context) (*zpa.Page[zpa.PRAApproval], error) {
	if s.err != nil {
		return nil, s.err
	}
	return &zpa.Page[zpa.PRAApproval]{List: []zpa.PRAApproval{{ID: "4", Status: "ACTIVE"}}}, nil
}

func (s *stubService) TimeoutPolicyRules(context.Context) (*zpa.Page[zpa.PolicyRule], error) {
	if s.err != nil {
		return nil, s.err
	}
	return &zpa.Page[zpa.PolicyRule]{List: []zpa.PolicyRule{{ID: "9", Action: "RE_AUTH"}}}, nil
}

func (s *stubService) AssistantSchedule(context.Context) (*zpa.AssistantSchedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &zpa.AssistantSchedule{ID: "2", Enabled: true}, nil
}

func newTestApp(svc ResourceService) *fiber.App {
	app := fiber.New()
	handler := NewResourceHandler(zap.NewNop(), svc)
	RegisterRoutes(app, nil, handler)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(body) > 0 {
		_ = json.Unmarshal(body, &decoded)
	}
	return resp, decoded
}

func TestUsersEndpoint(t *testing.T) {
	app := newTestApp(&stubService{users: &zpa.UsersResponse{Users: []zpa.User{
		{ID: "1", Username: "admin@example.com"},
	}}})

	resp, body := doRequest(t, app, "/api/v1/users")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	users, ok := body["users"].([]any)
	require.True(t, ok)
	assert.Len(t, users, 1)
}

func TestServersEndpoint(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, body := doRequest(t, app, "/api/v1/servers")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "list")
}

func TestPRAApprovalsEndpoint(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, body := doRequest(t, app, "/api/v1/pra-approvals")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	approvals, ok := body["list"].([]any)
	require.True(t, ok)
	assert.Len(t, approvals, 1)
}

func TestTimeoutPolicyRulesEndpoint(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, body := doRequest(t, app, "/api/v1/timeout-policy-rules")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	rules, ok := body["list"].([]any)
	require.True(t, ok)
	require.Len(t, rules, 1)
	rule, ok := rules[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "RE_AUTH", rule["action"])
}

func TestAssistantScheduleEndpoint(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, body := doRequest(t, app, "/api/v1/assistant-schedule")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["enabled"])
}

func TestUpstreamAuthFailureIsBadGateway(t *testing.T) {
	app := newTestApp(&stubService{err: &zpa.AuthenticationError{
		Status: http.StatusUnauthorized,
		Body:   `{"reason":"bad creds"}`,
	}})

	resp, body := doRequest(t, app, "/api/v1/users")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, float64(http.StatusUnauthorized), body["upstream_status"])
}

func TestUpstreamRequestFailureIsBadGateway(t *testing.T) {
	app := newTestApp(&stubService{err: &zpa.RequestError{
		Status: http.StatusForbidden,
		Body:   "token expired",
	}})

	resp, body := doRequest(t, app, "/api/v1/pra-credentials")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "token expired", body["upstream_body"])
}

func TestTransportFailureIsGatewayTimeout(t *testing.T) {
	app := newTestApp(&stubService{err: &zpa.TransportError{Op: "GET /api/v1/users", Err: context.DeadlineExceeded}})

	resp, _ := doRequest(t, app, "/api/v1/service-edge-groups")
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}

func TestMissingCredentialIsInternalError(t *testing.T) {
	app := newTestApp(&stubService{err: &zpa.MissingCredentialError{Field: "ZSCALER_CLIENT_ID"}})

	resp, body := doRequest(t, app, "/api/v1/users")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["error"], "ZSCALER_CLIENT_ID")
}

func TestHealthWithoutStore(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, body := doRequest(t, app, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
