package sdk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBackend is the wazo-auth backend validating internal users.
const DefaultBackend = "wazo_user"

// Token is a session token issued by wazo-auth.
type Token struct {
	Token        string   `json:"token"`
	AuthID       string   `json:"auth_id"`
	UserUUID     string   `json:"xivo_user_uuid,omitempty"`
	IssuedAt     string   `json:"issued_at"`
	ExpiresAt    string   `json:"expires_at"`
	UTCIssuedAt  string   `json:"utc_issued_at,omitempty"`
	UTCExpiresAt string   `json:"utc_expires_at,omitempty"`
	ACL          []string `json:"acl,omitempty"`
}

// wazo-auth emits naive ISO 8601 timestamps, with or without a zone.
var tokenTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Expiry returns the UTC expiration time of the token, or the zero time when
// the server did not send a parseable one.
func (t *Token) Expiry() time.Time {
	for _, raw := range []string{t.UTCExpiresAt, t.ExpiresAt} {
		if raw == "" {
			continue
		}
		for _, layout := range tokenTimeLayouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts.UTC()
			}
		}
	}
	return time.Time{}
}

// IsExpired reports whether the token expiry is known and in the past.
func (t *Token) IsExpired() bool {
	expiry := t.Expiry()
	return !expiry.IsZero() && time.Now().After(expiry)
}

// OAuth2 converts the token for use with an oauth2.TokenSource.
func (t *Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: t.Token,
		Expiry:      t.Expiry(),
	}
}

// CreateTokenInput holds the credentials exchanged for a new token.
type CreateTokenInput struct {
	Username string
	Password string
	Backend  string
	// Expiration is the token lifetime; zero lets the server pick.
	Expiration time.Duration
}

// CreateToken exchanges credentials for a new token. The client keeps using
// whatever token it had before; call SetToken to adopt the new one.
func (c *Client) CreateToken(ctx context.Context, input CreateTokenInput) (*Token, error) {
	if input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("username and password are required to create a token")
	}

	backend := input.Backend
	if backend == "" {
		backend = DefaultBackend
	}

	body := map[string]any{"backend": backend}
	if input.Expiration > 0 {
		body["expiration"] = int(input.Expiration / time.Second)
	}

	var resp struct {
		Data Token `json:"data"`
	}
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/token",
		body:     body,
		username: input.Username,
		password: input.Password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Data.Token == "" {
		return nil, fmt.Errorf("wazo-auth returned an empty token")
	}
	return &resp.Data, nil
}

// RevokeToken invalidates token on the server.
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/token/" + escape(token),
	}, nil)
}
