package zpa

import "time"

//
// ────────────────────────────────────────────────
//   Credentials & Session
// ────────────────────────────────────────────────
//

// CredentialShape identifies which sign-in exchange a Credentials value drives.
type CredentialShape string

const (
	// ShapeOAuth is the client_id/client_secret exchange against POST /signin.
	ShapeOAuth CredentialShape = "oauth"
	// ShapeSession is the username/password/api-key exchange against
	// GET /api/v1/authenticatedSession.
	ShapeSession CredentialShape = "session"
)

// Credentials holds the long-lived API credentials for one of the two
// supported shapes. Exactly one shape is populated per session.
type Credentials struct {
	Shape CredentialShape

	// ShapeOAuth fields.
	ClientID     string
	ClientSecret string

	// ShapeSession fields.
	Username string
	Password string
	APIKey   string

	// Optional scoping, either shape.
	CloudID    string
	CustomerID string
}

// Validate checks that every field the shape requires is non-empty.
// The returned error is a *MissingCredentialError naming the first gap.
func (c *Credentials) Validate() error {
	switch c.Shape {
	case ShapeOAuth:
		if c.ClientID == "" {
			return &MissingCredentialError{Field: "client_id"}
		}
		if c.ClientSecret == "" {
			return &MissingCredentialError{Field: "client_secret"}
		}
	case ShapeSession:
		if c.Username == "" {
			return &MissingCredentialError{Field: "username"}
		}
		if c.Password == "" {
			return &MissingCredentialError{Field: "password"}
		}
		if c.APIKey == "" {
			return &MissingCredentialError{Field: "api_key"}
		}
	default:
		return &MissingCredentialError{Field: "credential shape"}
	}
	return nil
}

// Session is the in-memory result of a successful sign-in. It lives for the
// duration of one client run; there is no refresh and no persistence.
type Session struct {
	Token      string
	AcquiredAt time.Time
}

//
// ────────────────────────────────────────────────
//   Sign-in wire types (two response schemas, one per endpoint variant)
// ────────────────────────────────────────────────
//

// SigninRequest is the JSON body for POST /signin.
type SigninRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// SigninResponse is the response from POST /signin.
type SigninResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// SessionRequest is the JSON body for GET /api/v1/authenticatedSession.
type SessionRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	APIKey   string `json:"apiKey"`
}

// SessionResponse is the response from GET /api/v1/authenticatedSession.
// Its token field is named "token", not "access_token"; the two schemas
// are kept separate deliberately.
type SessionResponse struct {
	Token string `json:"token"`
}

//
// ────────────────────────────────────────────────
//   API request / response
// ────────────────────────────────────────────────
//

// Response is the outcome of one authenticated call: status code, raw bytes
// and, when the body was JSON, the decoded value.
type Response struct {
	Status int
	Raw    []byte
	JSON   any
}

// Page is the ZPA list envelope returned by the management API. The client
// decodes a single page; it never walks totalPages.
type Page[T any] struct {
	TotalPages string `json:"totalPages"`
	List       []T    `json:"list"`
}

//
// ────────────────────────────────────────────────
//   Management API resources
// ────────────────────────────────────────────────
//

// User is an admin user record from GET /api/v1/users.
type User struct {
	ID          string `json:"id,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
}

// UsersResponse is the envelope from GET /api/v1/users.
type UsersResponse struct {
	Users []User `json:"users"`
}

// ApplicationServer is a server record from the customer-scoped /server endpoint.
type ApplicationServer struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Address           string   `json:"address"`
	Enabled           bool     `json:"enabled"`
	AppServerGroupIDs []string `json:"appServerGroupIds,omitempty"`
}

// ServiceEdgeGroup is a group record from the /serviceEdgeGroup endpoint.
type ServiceEdgeGroup struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Enabled          bool   `json:"enabled"`
	City             string `json:"cityCountry,omitempty"`
	CountryCode      string `json:"countryCode,omitempty"`
	Latitude         string `json:"latitude,omitempty"`
	Longitude        string `json:"longitude,omitempty"`
	IsPublic         string `json:"isPublic,omitempty"`
	UpgradeDay       string `json:"upgradeDay,omitempty"`
	UpgradeTimeInSec string `json:"upgradeTimeInSecs,omitempty"`
}

// PRACredential is a privileged-remote-access credential record from the
// /credential endpoint.
type PRACredential struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	CredentialType string `json:"credentialType,omitempty"`
	UserDomain     string `json:"userDomain,omitempty"`
	Username       string `json:"userName,omitempty"`
}

// PolicyRule is a rule record from the policy set endpoint. Only the
// timeout policy type is fetched here; the action for those rules is RE_AUTH.
type PolicyRule struct {
	ID                string `json:"id,omitempty"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Action            string `json:"action,omitempty"`
	CustomMsg         string `json:"customMsg,omitempty"`
	Operator          string `json:"operator,omitempty"`
	PolicyType        string `json:"policyType,omitempty"`
	Priority          string `json:"priority,omitempty"`
	RuleOrder         string `json:"ruleOrder,omitempty"`
	DefaultRule       bool   `json:"defaultRule,omitempty"`
	ReauthTimeout     string `json:"reauthTimeout,omitempty"`
	ReauthIdleTimeout string `json:"reauthIdleTimeout,omitempty"`
}

// PRAApproval is a privileged-remote-access approval record from the
// /approval endpoint.
type PRAApproval struct {
	ID           string           `json:"id,omitempty"`
	EmailIDs     []string         `json:"emailIds,omitempty"`
	StartTime    string           `json:"startTime,omitempty"`
	EndTime      string           `json:"endTime,omitempty"`
	Status       string           `json:"status,omitempty"`
	WorkingHours *PRAWorkingHours `json:"workingHours,omitempty"`
}

// PRAWorkingHours bounds when a privileged approval is active.
type PRAWorkingHours struct {
	Days          []string `json:"days,omitempty"`
	StartTime     string   `json:"startTime,omitempty"`
	StartTimeCron string   `json:"startTimeCron,omitempty"`
	EndTime       string   `json:"endTime,omitempty"`
	EndTimeCron   string   `json:"endTimeCron,omitempty"`
	TimeZone      string   `json:"timeZone,omitempty"`
}

// AssistantSchedule is the auto-delete configuration for disconnected app
// connectors. The /assistantSchedule endpoint returns a single object, not
// a page.
type AssistantSchedule struct {
	ID                string `json:"id,omitempty"`
	CustomerID        string `json:"customerId,omitempty"`
	Enabled           bool   `json:"enabled"`
	DeleteDisabled    bool   `json:"deleteDisabled"`
	Frequency         string `json:"frequency,omitempty"`
	FrequencyInterval string `json:"frequencyInterval,omitempty"`
}

// ErrorResponse is the ZPA API error envelope.
type ErrorResponse struct {
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason,omitempty"`
}
