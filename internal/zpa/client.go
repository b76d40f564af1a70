package zpa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/opsbridge/zpa-adapter/internal/httpclient"
)

// Client wraps authenticated HTTP communication with the ZPA management API.
// Every call carries the bearer token of the Session it is given; the token
// is injected exactly once per request via Header.Set.
type Client struct {
	logger     *zap.Logger
	exec       *httpclient.Executor
	baseURL    string
	customerID string
}

// NewClient constructs a ZPA HTTP client for one cloud and customer.
func NewClient(logger *zap.Logger, baseURL, customerID string, opts Options) *Client {
	exec := httpclient.New(logger, NewHTTPClient(logger, opts), "zpa",
		func(status int, body []byte) error {
			var errResp ErrorResponse
			_ = json.Unmarshal(body, &errResp)

			msg := errResp.Reason
			if msg == "" {
				msg = string(body)
			}
			return &RequestError{Status: status, Body: msg}
		},
		func(op string, err error) error {
			return &TransportError{Op: op, Err: err}
		})
	return &Client{
		logger:     logger,
		exec:       exec,
		baseURL:    baseURL,
		customerID: customerID,
	}
}

// GetUsers retrieves the admin user list.
// GET /api/v1/users
func (c *Client) GetUsers(ctx context.Context, session *Session) (*UsersResponse, error) {
	var resp UsersResponse
	if err := c.getJSON(ctx, session, "/api/v1/users", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListApplicationServers retrieves one page of application servers.
// GET /mgmtconfig/v1/admin/customers/{customerId}/server
func (c *Client) ListApplicationServers(ctx context.Context, session *Session) (*Page[ApplicationServer], error) {
	var resp Page[ApplicationServer]
	if err := c.getJSON(ctx, session, c.mgmtPath("/server"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListServiceEdgeGroups retrieves one page of service edge groups.
// GET /mgmtconfig/v1/admin/customers/{customerId}/serviceEdgeGroup
func (c *Client) ListServiceEdgeGroups(ctx context.Context, session *Session) (*Page[ServiceEdgeGroup], error) {
	var resp Page[ServiceEdgeGroup]
	if err := c.getJSON(ctx, session, c.mgmtPath("/serviceEdgeGroup"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListPRACredentials retrieves one page of privileged-remote-access credentials.
// GET /mgmtconfig/v1/admin/customers/{customerId}/credential
func (c *Client) ListPRACredentials(ctx context.Context, session *Session) (*Page[PRACredential], error) {
	var resp Page[PRACredential]
	if err := c.getJSON(ctx, session, c.mgmtPath("/credential"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTimeoutPolicyRules retrieves one page of timeout policy rules.
// GET /mgmtconfig/v1/admin/customers/{customerId}/policySet/rules/policyType/TIMEOUT_POLICY
func (c *Client) ListTimeoutPolicyRules(ctx context.Context, session *Session) (*Page[PolicyRule], error) {
	var resp Page[PolicyRule]
	if err := c.getJSON(ctx, session, c.mgmtPath("/policySet/rules/policyType/TIMEOUT_POLICY"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListPRAApprovals retrieves one page of privileged-remote-access approvals.
// GET /mgmtconfig/v1/admin/customers/{customerId}/approval
func (c *Client) ListPRAApprovals(ctx context.Context, session *Session) (*Page[PRAApproval], error) {
	var resp Page[PRAApproval]
	if err := c.getJSON(ctx, session, c.mgmtPath("/approval"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAssistantSchedule retrieves the app connector auto-delete configuration.
// GET /mgmtconfig/v1/admin/customers/{customerId}/assistantSchedule
func (c *Client) GetAssistantSchedule(ctx context.Context, session *Session) (*AssistantSchedule, error) {
	var resp AssistantSchedule
	if err := c.getJSON(ctx, session, c.mgmtPath("/assistantSchedule"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRaw performs an authenticated GET against an arbitrary resource path and
// returns the status, raw body and decoded JSON (when the body parses).
func (c *Client) GetRaw(ctx context.Context, session *Session, path string) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, session)
	if err != nil {
		return nil, err
	}

	status, body, err := c.exec.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &Response{Status: status, Raw: body}
	if len(body) > 0 {
		var decoded any
		if jsonErr := json.Unmarshal(body, &decoded); jsonErr == nil {
			resp.JSON = decoded
		}
	}
	return resp, nil
}

// getJSON performs an authenticated GET request and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, session *Session, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, session)
	if err != nil {
		return err
	}
	return c.exec.DoJSON(ctx, req, out)
}

// newRequest builds a request with the session's bearer token attached.
func (c *Client) newRequest(ctx context.Context, method, path string, session *Session) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	setHeaders(req, session.Token)
	return req, nil
}

// mgmtPath builds a customer-scoped management API path.
func (c *Client) mgmtPath(suffix string) string {
	return fmt.Sprintf("/mgmtconfig/v1/admin/customers/%s%s", c.customerID, suffix)
}

// setHeaders sets the required headers for authenticated ZPA API requests.
// Header.Set overwrites, so the Authorization header appears exactly once no
// matter how many calls share a Session.
func setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
