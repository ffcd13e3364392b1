package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/session"
	"github.com/wazo-platform/wazo-auth-cli/pkg/sdk"
)

// EnvPrefix prefixes every environment variable read by the CLI, e.g.
// WAZO_AUTH_CLI_AUTH_HOSTNAME.
const EnvPrefix = "WAZO_AUTH_CLI"

// SystemConfigFile is read when no user configuration file exists.
const SystemConfigFile = "/etc/wazo-auth-cli/config.yml"

// Config is the merged view of defaults, configuration file, environment and
// command-line flags.
type Config struct {
	Hostname string
	Port     int
	Verify   string
	Token    string
	Username string
	Password string
	Backend  string
	Debug    bool

	// File is the configuration file that was read, if any.
	File string
}

// flagKeys maps global flag names to configuration keys.
var flagKeys = map[string]string{
	"hostname": "auth.hostname",
	"port":     "auth.port",
	"verify":   "auth.verify_certificate",
	"token":    "auth.token",
	"username": "auth.username",
	"password": "auth.password",
	"backend":  "auth.backend",
	"debug":    "debug",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("auth.hostname", "localhost")
	v.SetDefault("auth.port", 9497)
	v.SetDefault("auth.verify_certificate", "true")
	v.SetDefault("auth.backend", sdk.DefaultBackend)
	v.SetDefault("debug", false)
}

// Load merges configuration sources. configFile forces a file; when empty the
// user then system locations are tried and a missing file is not an error.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	file := configFile
	if file == "" {
		file = defaultConfigFile()
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read configuration file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Hostname: v.GetString("auth.hostname"),
		Port:     v.GetInt("auth.port"),
		Verify:   v.GetString("auth.verify_certificate"),
		Token:    v.GetString("auth.token"),
		Username: v.GetString("auth.username"),
		Password: v.GetString("auth.password"),
		Backend:  v.GetString("auth.backend"),
		Debug:    v.GetBool("debug"),
		File:     file,
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

// SessionOptions converts the configuration for the session bootstrapper.
// A token takes precedence over credentials.
func (c *Config) SessionOptions() session.Options {
	opts := session.Options{
		Hostname: c.Hostname,
		Port:     c.Port,
		Verify:   c.Verify,
		Token:    c.Token,
	}
	if c.Token == "" {
		opts.Username = c.Username
		opts.Password = c.Password
		opts.Backend = c.Backend
	}
	return opts
}

// defaultConfigFile returns the first existing configuration file among the
// user and system locations.
func defaultConfigFile() string {
	candidates := []string{}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "wazo-auth-cli", "config.yml"))
	}
	candidates = append(candidates, SystemConfigFile)

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
