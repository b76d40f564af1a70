package credentials

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opsbridge/zpa-adapter/internal/zpa"
	"github.com/opsbridge/zpa-adapter/pkg/config"
	pkgsecrets "github.com/opsbridge/zpa-adapter/pkg/secrets"
	"github.com/opsbridge/zpa-adapter/pkg/utils"
)

// Resolver produces the Credentials a run authenticates with. The source is
// selected at configuration time; request logic never branches on it.
type Resolver interface {
	Resolve(ctx context.Context) (*zpa.Credentials, error)
}

// defaultSecretTTL bounds how long resolved AWS secrets stay cached in-memory.
const defaultSecretTTL = 24 * time.Hour

// Environment variable names for the env source, OAuth shape.
const (
	EnvClientID     = "ZSCALER_CLIENT_ID"
	EnvClientSecret = "ZSCALER_CLIENT_SECRET"
	EnvCloudID      = "ZPA_CLOUD_ID"
	EnvCustomerID   = "ZPA_CUSTOMER_ID"
)

// Environment variable names for the env source, session shape.
const (
	EnvUsername = "ZSCALER_USERNAME"
	EnvPassword = "ZSCALER_PASSWORD"
	EnvAPIKey   = "ZSCALER_API_KEY"
)

// NewResolver selects the resolver matching cfg.CredentialSource:
// "env", "inline" or "aws".
func NewResolver(logger *zap.Logger, cfg *config.Config) (Resolver, error) {
	shape := zpa.ShapeOAuth
	if cfg.AuthVariant == "session" {
		shape = zpa.ShapeSession
	}

	switch cfg.CredentialSource {
	case "env":
		return &EnvResolver{logger: logger, shape: shape}, nil
	case "inline":
		return &StaticResolver{logger: logger, creds: credentialsFromConfig(cfg, shape)}, nil
	case "aws":
		provider, err := pkgsecrets.NewAWSProvider(cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("init aws credential source: %w", err)
		}
		return NewAWSResolver(logger, provider, cfg.Env, cfg.SecretName, shape), nil
	default:
		return nil, fmt.Errorf("unknown credential source %q", cfg.CredentialSource)
	}
}

//
// ────────────────────────────────────────────────
//   Env source
// ────────────────────────────────────────────────
//

// EnvResolver reads credentials from process environment variables.
type EnvResolver struct {
	logger *zap.Logger
	shape  zpa.CredentialShape
}

// Resolve builds Credentials from the environment, failing fast with a
// *zpa.MissingCredentialError before any network call when a variable is unset.
func (r *EnvResolver) Resolve(_ context.Context) (*zpa.Credentials, error) {
	creds := &zpa.Credentials{
		Shape:      r.shape,
		CloudID:    os.Getenv(EnvCloudID),
		CustomerID: os.Getenv(EnvCustomerID),
	}

	switch r.shape {
	case zpa.ShapeOAuth:
		creds.ClientID = os.Getenv(EnvClientID)
		creds.ClientSecret = os.Getenv(EnvClientSecret)
		if creds.ClientID == "" {
			return nil, &zpa.MissingCredentialError{Field: EnvClientID}
		}
		if creds.ClientSecret == "" {
			return nil, &zpa.MissingCredentialError{Field: EnvClientSecret}
		}
	case zpa.ShapeSession:
		creds.Username = os.Getenv(EnvUsername)
		creds.Password = os.Getenv(EnvPassword)
		creds.APIKey = os.Getenv(EnvAPIKey)
		if creds.Username == "" {
			return nil, &zpa.MissingCredentialError{Field: EnvUsername}
		}
		if creds.Password == "" {
			return nil, &zpa.MissingCredentialError{Field: EnvPassword}
		}
		if creds.APIKey == "" {
			return nil, &zpa.MissingCredentialError{Field: EnvAPIKey}
		}
	}

	r.logger.Debug("credentials.resolved",
		zap.String("source", "env"),
		zap.String("shape", string(r.shape)))
	return creds, nil
}

//
// ────────────────────────────────────────────────
//   Inline source
// ────────────────────────────────────────────────
//

// StaticResolver returns credentials supplied inline through configuration.
type StaticResolver struct {
	logger *zap.Logger
	creds  *zpa.Credentials
}

// Resolve validates and returns the inline credentials.
func (r *StaticResolver) Resolve(_ context.Context) (*zpa.Credentials, error) {
	if err := r.creds.Validate(); err != nil {
		return nil, err
	}
	r.logger.Debug("credentials.resolved",
		zap.String("source", "inline"),
		zap.String("shape", string(r.creds.Shape)),
		zap.String("client_id", utils.MaskSecret(r.creds.ClientID)))
	return r.creds, nil
}

// credentialsFromConfig maps inline config values onto a Credentials value.
func credentialsFromConfig(cfg *config.Config, shape zpa.CredentialShape) *zpa.Credentials {
	return &zpa.Credentials{
		Shape:        shape,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Username:     cfg.Username,
		Password:     cfg.Password,
		APIKey:       cfg.APIKey,
		CloudID:      cfg.CloudID,
		CustomerID:   cfg.CustomerID,
	}
}

//
// ────────────────────────────────────────────────
//   AWS Secrets Manager source
// ────────────────────────────────────────────────
//

// AWSResolver fetches the credential JSON from AWS Secrets Manager.
// Secret naming convention: {env}/{name}/zpa. When no explicit secret name
// is configured, the resolver discovers it by listing secrets under the
// "{env}/" prefix and picking the single one ending in "/zpa".
// Secret JSON format mirrors the env variable names in lower snake case:
// {"client_id": "...", "client_secret": "...", "customer_id": "...", "cloud_id": "..."}
// or {"username": "...", "password": "...", "api_key": "..."}.
type AWSResolver struct {
	logger     *zap.Logger
	provider   pkgsecrets.Provider
	env        string
	secretName string
	shape      zpa.CredentialShape
	cache      *pkgsecrets.Cache[*zpa.Credentials]
}

// secretSuffix marks ZPA credential secrets within an environment's namespace.
const secretSuffix = "/zpa"

// NewAWSResolver constructs a resolver backed by a secrets Provider.
func NewAWSResolver(logger *zap.Logger, provider pkgsecrets.Provider, env, secretName string, shape zpa.CredentialShape) *AWSResolver {
	return &AWSResolver{
		logger:     logger,
		provider:   provider,
		env:        env,
		secretName: secretName,
		shape:      shape,
		cache:      pkgsecrets.NewCache[*zpa.Credentials](defaultSecretTTL),
	}
}

// Resolve fetches or caches the credentials for this run, discovering the
// secret name first when none was configured.
func (r *AWSResolver) Resolve(ctx context.Context) (*zpa.Credentials, error) {
	secretName := r.secretName
	if secretName == "" {
		discovered, err := r.discoverSecret(ctx)
		if err != nil {
			return nil, err
		}
		secretName = discovered
	}

	key := strings.ToLower(secretName)
	if creds, ok := r.cache.Get(key); ok {
		return creds, nil
	}

	secretMap, err := r.provider.GetSecret(ctx, secretName)
	if err != nil {
		r.logger.Warn("aws.secret_fetch_failed",
			zap.String("key", secretName),
			zap.Error(err))
		return nil, fmt.Errorf("resolve credentials from secret %q: %w", secretName, err)
	}

	creds := &zpa.Credentials{
		Shape:        r.shape,
		ClientID:     secretMap["client_id"],
		ClientSecret: secretMap["client_secret"],
		Username:     secretMap["username"],
		Password:     secretMap["password"],
		APIKey:       secretMap["api_key"],
		CloudID:      secretMap["cloud_id"],
		CustomerID:   secretMap["customer_id"],
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	r.cache.Put(key, creds)
	r.logger.Info("aws.credentials_resolved",
		zap.String("secret", secretName),
		zap.String("shape", string(r.shape)))
	return creds, nil
}

// discoverSecret lists the "{env}/" namespace and returns the one secret
// name ending in "/zpa". Zero matches means no credentials are configured;
// more than one is ambiguous and needs an explicit ZPA_SECRET_NAME.
func (r *AWSResolver) discoverSecret(ctx context.Context) (string, error) {
	prefix := strings.ToLower(r.env + "/")

	names, err := r.provider.ListSecrets(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("discover credential secret under %q: %w", prefix, err)
	}

	var matches []string
	for _, name := range names {
		if strings.HasSuffix(strings.ToLower(name), secretSuffix) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", &zpa.MissingCredentialError{Field: "ZPA_SECRET_NAME"}
	case 1:
		r.logger.Info("aws.secret_discovered",
			zap.String("secret", matches[0]))
		return matches[0], nil
	default:
		return "", fmt.Errorf("found %d candidate secrets under %q, set ZPA_SECRET_NAME explicitly", len(matches), prefix)
	}
}
