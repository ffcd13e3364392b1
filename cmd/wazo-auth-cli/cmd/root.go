package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/cmd/user"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/config"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/logging"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/session"
	"github.com/wazo-platform/wazo-auth-cli/pkg/sdk"
	"golang.org/x/term"
)

// Version is overridden at build time with -ldflags.
var Version = "0.0.1"

var (
	hostname   string
	port       int
	verify     string
	token      string
	username   string
	password   string
	backend    string
	configFile string
	debug      bool

	// current is the session of the running invocation, closed by Run.
	current *session.Session
)

var rootCmd = &cobra.Command{
	Use:   "wazo-auth-cli",
	Short: "wazo-auth CLI - manage users and policies of a wazo-auth server",
	Long: `wazo-auth-cli is the command-line interface of wazo-auth. Use it to create,
delete, list and inspect users and to manage their policies.

Connection settings are read from flags, WAZO_AUTH_CLI_* environment variables
and the configuration file, in that order of precedence. Unless --token is
given, a token is created from --username and --password for the duration of
the command and revoked on exit.

Global flags go before the command name: "user create --password" sets the
password of the new user, not the one used to authenticate.`,
	// Each command parses its own flags so that the global --password and
	// the user create --password do not collide.
	TraverseChildren:  true,
	PersistentPreRunE: bootstrap,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the CLI with the process arguments and prints any error on
// stderr.
func Execute() error {
	err := Run(context.Background(), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// Run executes one command line. The self-issued token, if any, is revoked
// once the command is done, whatever its outcome.
func Run(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	defer teardown(ctx)
	return rootCmd.ExecuteContext(ctx)
}

func teardown(ctx context.Context) {
	s := current
	current = nil
	if err := s.Close(ctx); err != nil {
		logging.Debug.Printfln("%v", err)
	}
}

// bootstrap loads the configuration and opens the session before any command
// runs.
func bootstrap(cmd *cobra.Command, args []string) error {
	if skipSession(cmd) {
		return nil
	}

	// Argument errors must be reported before any remote call.
	if err := cmd.ValidateRequiredFlags(); err != nil {
		return err
	}
	if err := cmd.ValidateFlagGroups(); err != nil {
		return err
	}
	if err := cmd.Root().ValidateFlagGroups(); err != nil {
		return err
	}

	settings, err := config.Load(cmd.Root().PersistentFlags(), configFile)
	if err != nil {
		return err
	}
	logging.SetDebug(settings.Debug)
	if settings.File != "" {
		logging.Debug.Printfln("configuration read from %s", settings.File)
	}

	if settings.Token != "" && settings.Username != "" {
		logging.Warning.Println("both a token and credentials are configured, using the token")
	}
	if settings.Token == "" && settings.Username != "" && settings.Password == "" {
		settings.Password, err = promptPassword()
		if err != nil {
			return err
		}
	}

	opts := settings.SessionOptions()
	opts.UserAgent = "wazo-auth-cli/" + Version
	s, err := session.New(cmd.Context(), opts)
	if err != nil {
		return err
	}
	current = s

	cmd.SetContext(config.InjectConfig(cmd.Context(), &config.GlobalConfig{
		Settings: settings,
		Session:  s,
	}))
	return nil
}

// skipSession reports whether cmd is a help or completion command, which
// never talk to the server.
func skipSession(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// promptPassword reads the password from the terminal with echo disabled.
// Without a terminal the password stays empty and the session reports it.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pass), nil
}

func init() {
	rootCmd.Version = Version

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&hostname, "hostname", "localhost", "The wazo-auth hostname")
	flags.IntVar(&port, "port", 9497, "The wazo-auth port")
	flags.StringVar(&verify, "verify", "true", "Verify the server certificate: true, false or the path of a CA bundle")
	flags.StringVar(&token, "token", "", "An existing token to use instead of creating one")
	flags.StringVar(&username, "username", "", "The username used to create a token")
	flags.StringVar(&password, "password", "", "The password used to create a token")
	flags.StringVar(&backend, "backend", sdk.DefaultBackend, "The authentication backend used to create a token")
	flags.StringVar(&configFile, "config", "", "Configuration file (default $XDG_CONFIG_HOME/wazo-auth-cli/config.yml)")
	flags.BoolVar(&debug, "debug", false, "Print debug messages on stderr")

	rootCmd.MarkFlagsMutuallyExclusive("token", "username")
	rootCmd.MarkFlagsMutuallyExclusive("token", "password")
	rootCmd.MarkFlagsMutuallyExclusive("token", "backend")

	rootCmd.AddCommand(user.UserCmd)
}
