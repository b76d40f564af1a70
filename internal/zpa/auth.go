package zpa

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/opsbridge/zpa-adapter/internal/metrics"
)

const (
	// signinPath is the OAuth-style token exchange endpoint.
	signinPath = "/signin"
	// sessionPath is the session-credential exchange endpoint.
	sessionPath = "/api/v1/authenticatedSession"
	// defaultTimeout bounds each sign-in call.
	defaultTimeout = 30 * time.Second
)

// Options controls HTTP behaviour shared by the authenticator and client.
type Options struct {
	// Timeout bounds each HTTP call. Zero means defaultTimeout.
	Timeout time.Duration
	// InsecureSkipTLSVerify disables certificate validation. Never the
	// default; a warning is logged whenever it is set.
	InsecureSkipTLSVerify bool
}

// NewHTTPClient builds the http.Client used for all ZPA calls, honouring the
// timeout and TLS options.
func NewHTTPClient(logger *zap.Logger, opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	c := &http.Client{Timeout: timeout}
	if opts.InsecureSkipTLSVerify {
		logger.Warn("zpa.tls_verification_disabled",
			zap.String("note", "certificate validation is off; exploratory/test use only"))
		c.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		}
	}
	return c
}

// Authenticator performs the sign-in exchange: long-lived credentials in,
// short-lived bearer token out. A Session lives for one run; there is no
// cache and no refresh.
type Authenticator struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
}

// NewAuthenticator creates an Authenticator for the given cloud base URL.
func NewAuthenticator(logger *zap.Logger, baseURL string, opts Options) *Authenticator {
	return &Authenticator{
		logger:  logger,
		client:  NewHTTPClient(logger, opts),
		baseURL: baseURL,
	}
}

// Authenticate validates creds, performs the endpoint exchange matching
// their shape, and returns a live Session.
//
// Failure modes: *MissingCredentialError before any network call,
// *TransportError on network failure, *AuthenticationError on non-2xx,
// *TokenExtractionError when the token field is absent or empty.
func (a *Authenticator) Authenticate(ctx context.Context, creds *Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var (
		token string
		err   error
	)
	switch creds.Shape {
	case ShapeOAuth:
		token, err = a.signin(ctx, creds)
	case ShapeSession:
		token, err = a.authenticatedSession(ctx, creds)
	}
	if err != nil {
		metrics.IncSignin(string(creds.Shape), "error")
		return nil, err
	}

	metrics.IncSignin(string(creds.Shape), "ok")
	a.logger.Info("zpa.auth.session_created",
		zap.String("variant", string(creds.Shape)))

	return &Session{Token: token, AcquiredAt: time.Now()}, nil
}

// signin performs POST /signin with the OAuth-style credential fields.
// The token field in this schema is "access_token".
func (a *Authenticator) signin(ctx context.Context, creds *Credentials) (string, error) {
	payload := SigninRequest{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
	}
	body, err := a.exchange(ctx, http.MethodPost, signinPath, payload)
	if err != nil {
		return "", err
	}

	var resp SigninResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.AccessToken == "" {
		return "", &TokenExtractionError{Field: "access_token"}
	}
	return resp.AccessToken, nil
}

// authenticatedSession performs GET /api/v1/authenticatedSession with the
// session credential fields as JSON body. The token field here is "token".
func (a *Authenticator) authenticatedSession(ctx context.Context, creds *Credentials) (string, error) {
	payload := SessionRequest{
		Username: creds.Username,
		Password: creds.Password,
		APIKey:   creds.APIKey,
	}
	body, err := a.exchange(ctx, http.MethodGet, sessionPath, payload)
	if err != nil {
		return "", err
	}

	var resp SessionResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
		return "", &TokenExtractionError{Field: "token"}
	}
	return resp.Token, nil
}

// exchange issues one sign-in call and returns the raw response body.
func (a *Authenticator) exchange(ctx context.Context, method, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read sign-in response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn("zpa.auth.signin_failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &AuthenticationError{Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
