package zpa

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/opsbridge/zpa-adapter/internal/metrics"
	"github.com/opsbridge/zpa-adapter/internal/store"
)

// CredentialSource yields the credentials a run signs in with. Implemented by
// the resolvers in internal/credentials.
type CredentialSource interface {
	Resolve(ctx context.Context) (*Credentials, error)
}

// Service drives the authenticate-then-call sequence: resolve credentials,
// sign in, fetch the resource. Each invocation creates its own Session; the
// token is never persisted or refreshed.
type Service struct {
	logger   *zap.Logger
	auth     *Authenticator
	client   *Client
	creds    CredentialSource
	cache    store.Store // nil disables caching
	cacheTTL time.Duration
}

// NewService wires the authenticator, client and credential source together.
// cache may be nil, in which case every fetch goes to the upstream API.
func NewService(
	logger *zap.Logger,
	auth *Authenticator,
	client *Client,
	creds CredentialSource,
	cache store.Store,
	cacheTTL time.Duration,
) *Service {
	return &Service{
		logger:   logger,
		auth:     auth,
		client:   client,
		creds:    creds,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Fetch resolves credentials, authenticates, and GETs the resource at path,
// returning the upstream response. The serve-mode cache is consulted first.
func (s *Service) Fetch(ctx context.Context, path string) (*Response, error) {
	if s.cache != nil {
		key := cacheKey(path)
		var cached Response
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			metrics.IncCacheAccess("hit")
			return &cached, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("zpa.cache_read_failed",
				zap.String("key", key),
				zap.Error(err))
		}
		metrics.IncCacheAccess("miss")
	}

	creds, err := s.creds.Resolve(ctx)
	if err != nil {
		metrics.IncError("credentials", "resolve_failed")
		return nil, err
	}

	session, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		metrics.IncError("auth", "signin_failed")
		return nil, err
	}

	resp, err := s.client.GetRaw(ctx, session, path)
	if err != nil {
		metrics.IncError("client", "request_failed")
		return nil, err
	}

	if s.cache != nil {
		key := cacheKey(path)
		if err := s.cache.SetJSON(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("zpa.cache_write_failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	return resp, nil
}

// Users fetches the admin user list through a fresh session.
func (s *Service) Users(ctx context.Context) (*UsersResponse, error) {
	session, err := s.signin(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.GetUsers(ctx, session)
}

// ApplicationServers fetches one page of application servers.
func (s *Service) ApplicationServers(ctx context.Context) (*Page[ApplicationServer], error) {
	session, err := s.signin(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListApplicationServers(ctx, session)
}

// ServiceEdgeGroups fetches one page of service edge groups.
func (s *Service) ServiceEdgeGroups(ctx context.Context) (*Page[ServiceEdgeGroup], error) {
	session, err := s.signin(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListServiceEdgeGroups(ctx, session)
}

// PRACredentials fetches one page of privileged-remote-access credentials.
func (s *Service) PRACredentials(ctx context.Context) (*Page[PRACredential], error) {
	session, err := s.signin(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListPRACredentials(ctx, session)
}

// TimeoutPolicyRules fetches one page of timeout policy rules.
func (s *Service) TimeoutPolicyRules(ctx context.Context) (*Page[PolicyRule], error) {
	session, err := s.signin(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListTimeoutPolicyRules(ctx, session)
}

// PRAApprovals fetches one page of privileged-remote-access approvals.
func (s *Service) PRAApprovals(ctx context.Context) (*Page[PRAApproval], error) {
	session, err := s.signin(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListPRAApprovals(ctx, session)
}

// AssistantSchedule fetches the app connector auto-delete configuration.
func (s *Service) AssistantSchedule(ctx context.Context) (*AssistantSchedule, error) {
	session, err := s.signin(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.GetAssistantSchedule(ctx, session)
}

func (s *Service) signin(ctx context.Context) (*Session, error) {
	creds, err := s.creds.Resolve(ctx)
	if err != nil {
		metrics.IncError("credentials", "resolve_failed")
		return nil, err
	}
	session, err := s.auth.Authenticate(ctx, creds)
	if err != nil {
		metrics.IncError("auth", "signin_failed")
		return nil, err
	}
	return session, nil
}

func cacheKey(path string) string {
	return "zpa:resource:" + path
}
