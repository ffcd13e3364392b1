// Package session bootstraps the authenticated wazo-auth client shared by all
// commands of one CLI invocation.
package session

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/logging"
	"github.com/wazo-platform/wazo-auth-cli/pkg/sdk"
	"golang.org/x/oauth2"
)

// TokenExpiration is the lifetime requested for self-issued tokens.
const TokenExpiration = time.Hour

// APIVersion is the path prefix of the wazo-auth REST API.
const APIVersion = "0.1"

// Options are the connection settings resolved from flags, environment and
// configuration file.
type Options struct {
	Hostname string
	Port     int
	// Verify is "true"/"True", "false"/"False" or the path of a CA bundle.
	Verify string

	Token    string
	Username string
	Password string
	Backend  string

	// UserAgent is sent with every request when set.
	UserAgent string
}

// Session is an authenticated client plus the ownership of its token.
type Session struct {
	client *sdk.Client
	token  string
	owned  bool
}

// Verification is the parsed form of the verify option.
type Verification struct {
	Skip   bool
	CAFile string
}

// ParseVerify interprets the verify option. Anything that is not a boolean
// literal is taken as a CA bundle path.
func ParseVerify(value string) Verification {
	switch value {
	case "", "true", "True":
		return Verification{}
	case "false", "False":
		return Verification{Skip: true}
	default:
		return Verification{CAFile: value}
	}
}

// TLSConfig builds the client TLS configuration for v.
func (v Verification) TLSConfig() (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if v.Skip {
		cfg.InsecureSkipVerify = true
		return cfg, nil
	}
	if v.CAFile == "" {
		return cfg, nil
	}

	pem, err := os.ReadFile(v.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificate found in %s", v.CAFile)
	}
	cfg.RootCAs = pool
	return cfg, nil
}

// BaseURL returns the API root for opts.
func (o Options) BaseURL() string {
	host := net.JoinHostPort(o.Hostname, strconv.Itoa(o.Port))
	return "https://" + host + "/" + APIVersion
}

// New builds the client and authenticates it. A supplied token is adopted
// as is; otherwise a token is issued from the credentials and the session
// becomes responsible for revoking it.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Hostname == "" {
		return nil, errors.New("hostname is required")
	}

	verification := ParseVerify(opts.Verify)
	tlsConfig, err := verification.TLSConfig()
	if err != nil {
		return nil, err
	}

	logging.Debug.Printfln("client: url=%s skip_verify=%t ca_file=%q", opts.BaseURL(), verification.Skip, verification.CAFile)
	clientOpts := []sdk.ClientOption{sdk.WithTLSConfig(tlsConfig)}
	if opts.UserAgent != "" {
		clientOpts = append(clientOpts, sdk.WithUserAgent(opts.UserAgent))
	}
	client := sdk.NewClient(opts.BaseURL(), clientOpts...)

	if opts.Token != "" {
		client.SetToken(opts.Token)
		return &Session{client: client, token: opts.Token}, nil
	}

	if opts.Username == "" || opts.Password == "" {
		return nil, errors.New("either --token or --username and --password are required")
	}

	logging.Debug.Printfln("creating a token for %q on backend %q", opts.Username, opts.Backend)
	token, err := client.CreateToken(ctx, sdk.CreateTokenInput{
		Username:   opts.Username,
		Password:   opts.Password,
		Backend:    opts.Backend,
		Expiration: TokenExpiration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	logging.Debug.Printfln("token issued, expires at %s", token.Expiry().Format(time.RFC3339))
	client.SetTokenSource(oauth2.StaticTokenSource(token.OAuth2()))

	return &Session{client: client, token: token.Token, owned: true}, nil
}

// Client returns the authenticated client.
func (s *Session) Client() *sdk.Client {
	return s.client
}

// OwnsToken reports whether Close will revoke the token.
func (s *Session) OwnsToken() bool {
	return s.owned
}

// Close revokes the token when the session issued it. Calling Close again
// does nothing.
func (s *Session) Close(ctx context.Context) error {
	if s == nil || !s.owned {
		return nil
	}
	s.owned = false

	logging.Debug.Println("revoking the session token")
	if err := s.client.RevokeToken(ctx, s.token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
