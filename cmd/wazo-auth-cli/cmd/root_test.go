package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/logging"
	"github.com/wazo-platform/wazo-auth-cli/pkg/sdk"
)

const (
	aliceUUID = "6f7d4f7a-64d4-4f2e-9e4c-7a0dfc1b64a1"
	adminUUID = "3c9f6a72-0c1f-44c7-a2b4-0d6a4c90d6c5"
)

// fakeWazoAuth serves the endpoints the CLI calls and counts token usage.
type fakeWazoAuth struct {
	server  *httptest.Server
	issued  int
	revoked []string
	calls   []string
	seen    []string
	created map[string]any
}

func newFakeWazoAuth(t *testing.T) *fakeWazoAuth {
	t.Helper()
	f := &fakeWazoAuth{}
	users := []map[string]any{
		{"uuid": aliceUUID, "username": "alice", "emails": []any{}},
	}

	r := chi.NewRouter()
	r.Route("/0.1", func(r chi.Router) {
		r.Post("/token", func(w http.ResponseWriter, r *http.Request) {
			user, pass, _ := r.BasicAuth()
			if user != "admin" || pass != "secret" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Authentication Failed"})
				return
			}
			f.issued++
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"token": "issued-token"}})
		})
		r.Delete("/token/{token}", func(w http.ResponseWriter, r *http.Request) {
			f.revoked = append(f.revoked, chi.URLParam(r, "token"))
			w.WriteHeader(http.StatusOK)
		})

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					f.calls = append(f.calls, r.Method+" "+r.URL.Path)
					f.seen = append(f.seen, r.Header.Get(sdk.TokenHeader))
					next.ServeHTTP(w, r)
				})
			})
			r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
				items := []map[string]any{}
				for _, u := range users {
					if name := r.URL.Query().Get("username"); name == "" || name == u["username"] {
						items = append(items, u)
					}
				}
				writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(users), "filtered": len(items)})
			})
			r.Post("/users", func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&f.created)
				writeJSON(w, http.StatusOK, map[string]any{"uuid": aliceUUID, "username": f.created["username"]})
			})
			r.Delete("/users/{uuid}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
			r.Get("/policies", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"items": []any{
					map[string]any{"uuid": adminUUID, "name": "admin"},
				}})
			})
			r.Put("/users/{uuid}/policies/{policy}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	f.server = httptest.NewTLSServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// connection returns the global flags pointing at the fake server.
func (f *fakeWazoAuth) connection(t *testing.T) []string {
	t.Helper()
	host, port, err := net.SplitHostPort(f.server.Listener.Addr().String())
	require.NoError(t, err)
	return []string{"--hostname", host, "--port", port, "--verify", "false"}
}

// resetFlags restores every flag of the tree to its default. Command flags
// are package variables that outlive one execution.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	err := Run(context.Background(), args)
	return out.String(), err
}

func TestRun_IssuesAndRevokesToken(t *testing.T) {
	f := newFakeWazoAuth(t)
	args := append(f.connection(t), "--username", "admin", "--password", "secret", "user", "list", "-f", "value")

	out, err := execute(t, args...)
	require.NoError(t, err)

	assert.Equal(t, aliceUUID+" alice \n", out)
	assert.Equal(t, 1, f.issued)
	assert.Equal(t, []string{"issued-token"}, f.revoked)
	assert.Equal(t, []string{"issued-token"}, f.seen)
}

func TestRun_ListColumns(t *testing.T) {
	f := newFakeWazoAuth(t)
	args := append(f.connection(t), "--token", "t", "user", "list", "-f", "csv", "-c", "username", "--sort-column", "username")

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "username\nalice\n", out)
}

func TestRun_RevokesTokenWhenCommandFails(t *testing.T) {
	f := newFakeWazoAuth(t)
	args := append(f.connection(t), "--username", "admin", "--password", "secret", "user", "delete", "mallory")

	_, err := execute(t, args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown user "mallory"`)

	assert.Equal(t, []string{"GET /0.1/users"}, f.calls)
	assert.Equal(t, []string{"issued-token"}, f.revoked)
}

func TestRun_SuppliedTokenIsNotRevoked(t *testing.T) {
	f := newFakeWazoAuth(t)
	args := append(f.connection(t), "--token", "caller-token", "user", "add", "alice", "--policy", "admin")

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Empty(t, out)

	assert.Zero(t, f.issued)
	assert.Empty(t, f.revoked)
	assert.Equal(t, []string{
		"GET /0.1/users",
		"GET /0.1/policies",
		"PUT /0.1/users/" + aliceUUID + "/policies/" + adminUUID,
	}, f.calls)
	for _, tok := range f.seen {
		assert.Equal(t, "caller-token", tok)
	}
}

func TestRun_BadCredentialsRunNothing(t *testing.T) {
	f := newFakeWazoAuth(t)
	args := append(f.connection(t), "--username", "admin", "--password", "wrong", "user", "delete", aliceUUID)

	_, err := execute(t, args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication Failed")
	assert.Empty(t, f.calls)
	assert.Empty(t, f.revoked)
}

func TestRun_ArgumentErrorsBeforeAnyRemoteCall(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "token with credentials",
			args: []string{"--token", "t", "--username", "admin", "user", "list"},
			want: "none of the others can be",
		},
		{
			name: "token with backend",
			args: []string{"--token", "t", "--backend", "ldap_user", "user", "list"},
			want: "none of the others can be",
		},
		{
			name: "create without password",
			args: []string{"--username", "admin", "--password", "secret", "user", "create", "carol"},
			want: `required flag(s) "password" not set`,
		},
		{
			name: "add without relation",
			args: []string{"--username", "admin", "--password", "secret", "user", "add", "alice"},
			want: "at least one of the flags in the group [policy] is required",
		},
		{
			name: "delete without identifier",
			args: []string{"--username", "admin", "--password", "secret", "user", "delete"},
			want: "accepts 1 arg(s), received 0",
		},
		{
			name: "unknown list format",
			args: []string{"--token", "t", "user", "list", "-f", "xml"},
			want: `invalid format "xml"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeWazoAuth(t)

			_, err := execute(t, append(f.connection(t), tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, f.calls)
			assert.Zero(t, f.issued-len(f.revoked), "every issued token is revoked")
		})
	}
}

func TestRun_CreateKeepsBothPasswords(t *testing.T) {
	f := newFakeWazoAuth(t)
	args := append(f.connection(t), "--username", "admin", "--password", "secret", "user", "create", "carol", "--password", "new-password")

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, aliceUUID+"\n", out)
	assert.Equal(t, 1, f.issued)
	assert.Equal(t, map[string]any{"username": "carol", "password": "new-password"}, f.created)
}

func TestRun_DebugNeverShowsSecrets(t *testing.T) {
	f := newFakeWazoAuth(t)
	var log bytes.Buffer
	logging.SetOutput(&log)
	t.Cleanup(func() {
		logging.SetOutput(os.Stderr)
		logging.SetDebug(false)
	})
	args := append(f.connection(t), "--debug", "--username", "admin", "--password", "secret", "user", "delete", "alice")

	_, err := execute(t, args...)
	require.NoError(t, err)

	assert.Contains(t, log.String(), "deleting user "+aliceUUID)
	assert.Contains(t, log.String(), "revoking the session token")
	assert.NotContains(t, log.String(), "secret")
	assert.NotContains(t, log.String(), "issued-token")
}

func TestRun_TokenFromEnvironmentWins(t *testing.T) {
	f := newFakeWazoAuth(t)
	var log bytes.Buffer
	logging.SetOutput(&log)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })
	t.Setenv("WAZO_AUTH_CLI_AUTH_TOKEN", "env-token")

	_, err := execute(t, append(f.connection(t), "--username", "admin", "--password", "secret", "user", "list")...)
	require.NoError(t, err)

	assert.Zero(t, f.issued)
	assert.Equal(t, []string{"env-token"}, f.seen)
	assert.Contains(t, log.String(), "using the token")
}

func TestRun_MissingCredentials(t *testing.T) {
	f := newFakeWazoAuth(t)

	_, err := execute(t, append(f.connection(t), "user", "list")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--username and --password are required")
	assert.Zero(t, f.issued)
}

func TestRun_HelpAndVersionSkipTheSession(t *testing.T) {
	f := newFakeWazoAuth(t)

	out, err := execute(t, append(f.connection(t), "--version")...)
	require.NoError(t, err)
	assert.Contains(t, out, "wazo-auth-cli version "+Version)

	out, err = execute(t, append(f.connection(t), "help", "user")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Commands for creating, deleting, listing")

	assert.Zero(t, f.issued)
	assert.Empty(t, f.calls)
}
