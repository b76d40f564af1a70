package zpa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSession() *Session {
	return &Session{Token: "tok123", AcquiredAt: time.Now()}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(zap.NewNop(), server.URL, "216196257331281920", Options{})
	return client, server
}

func TestClient_GetUsers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/users", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"users":[]}`))
	})

	resp, err := client.GetUsers(context.Background(), testSession())
	require.NoError(t, err)
	assert.Empty(t, resp.Users)
}

func TestClient_AuthorizationHeaderSetExactlyOnce(t *testing.T) {
	var headerValues []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headerValues = r.Header.Values("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"users":[]}`))
	})

	session := testSession()
	// The same Session across repeated calls must still yield a single header.
	for i := 0; i < 3; i++ {
		_, err := client.GetUsers(context.Background(), session)
		require.NoError(t, err)
		require.Len(t, headerValues, 1)
		assert.Equal(t, "Bearer tok123", headerValues[0])
	}
}

func TestClient_ListApplicationServers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mgmtconfig/v1/admin/customers/216196257331281920/server", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"totalPages":"1","list":[{"id":"1","name":"web-01","address":"web01.acme.com","enabled":true}]}`))
	})

	page, err := client.ListApplicationServers(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "web-01", page.List[0].Name)
	assert.True(t, page.List[0].Enabled)
}

func TestClient_ListServiceEdgeGroups(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mgmtconfig/v1/admin/customers/216196257331281920/serviceEdgeGroup", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"totalPages":"1","list":[{"id":"7","name":"edge-us","enabled":true}]}`))
	})

	page, err := client.ListServiceEdgeGroups(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "edge-us", page.List[0].Name)
}

func TestClient_ListPRACredentials(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mgmtconfig/v1/admin/customers/216196257331281920/credential", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"totalPages":"1","list":[{"id":"3","name":"root-ssh","credentialType":"USERNAME_PASSWORD"}]}`))
	})

	page, err := client.ListPRACredentials(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "USERNAME_PASSWORD", page.List[0].CredentialType)
}

func TestClient_ListTimeoutPolicyRules(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mgmtconfig/v1/admin/customers/216196257331281920/policySet/rules/policyType/TIMEOUT_POLICY", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"totalPages":"1","list":[{"id":"9","name":"eng-reauth","action":"RE_AUTH","reauthTimeout":"172800","reauthIdleTimeout":"600"}]}`))
	})

	page, err := client.ListTimeoutPolicyRules(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "RE_AUTH", page.List[0].Action)
	assert.Equal(t, "172800", page.List[0].ReauthTimeout)
}

func TestClient_ListPRAApprovals(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mgmtconfig/v1/admin/customers/216196257331281920/approval", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"totalPages":"1","list":[{"id":"4","emailIds":["ops@acme.com"],"status":"ACTIVE","workingHours":{"days":["MON","TUE"],"timeZone":"America/New_York"}}]}`))
	})

	page, err := client.ListPRAApprovals(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, []string{"ops@acme.com"}, page.List[0].EmailIDs)
	require.NotNil(t, page.List[0].WorkingHours)
	assert.Equal(t, "America/New_York", page.List[0].WorkingHours.TimeZone)
}

func TestClient_GetAssistantSchedule(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mgmtconfig/v1/admin/customers/216196257331281920/assistantSchedule", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"2","customerId":"216196257331281920","enabled":true,"frequency":"days","frequencyInterval":"7"}`))
	})

	schedule, err := client.GetAssistantSchedule(context.Background(), testSession())
	require.NoError(t, err)
	assert.True(t, schedule.Enabled)
	assert.Equal(t, "7", schedule.FrequencyInterval)
}

func TestClient_GetRaw(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"users":[]}`))
	})

	resp, err := client.GetRaw(context.Background(), testSession(), "/api/v1/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"users":[]}`, string(resp.Raw))

	decoded, ok := resp.JSON.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, decoded, "users")
}

func TestClient_NonOKStatusIsRequestError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"id":"authz.failed","reason":"token expired"}`))
	})

	_, err := client.GetUsers(context.Background(), testSession())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusForbidden, reqErr.Status)
	assert.Contains(t, reqErr.Body, "token expired")
}

func TestClient_NetworkFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := NewClient(zap.NewNop(), server.URL, "cust", Options{})
	server.Close() // connection refused from here on

	_, err := client.GetUsers(context.Background(), testSession())
	var transErr *TransportError
	require.ErrorAs(t, err, &transErr)
}

func TestClient_RequestCarriesCorrelationID(t *testing.T) {
	var requestID string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"users":[]}`))
	})

	_, err := client.GetUsers(context.Background(), testSession())
	require.NoError(t, err)
	assert.NotEmpty(t, requestID)
}
