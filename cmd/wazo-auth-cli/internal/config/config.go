package config

import (
	"context"

	"github.com/wazo-platform/wazo-auth-cli/cmd/wazo-auth-cli/internal/session"
)

type contextKey string

const configKey contextKey = "wazo-auth-cli-config"

// GlobalConfig holds shared state for all commands of one invocation.
// The root command's PersistentPreRunE injects it into the cobra command
// context once the session is established.
type GlobalConfig struct {
	Settings *Config
	Session  *session.Session
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// Only command RunE functions may use it: the root command guarantees the
// injection before they run.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("wazo-auth-cli: config not found in context - this is a bug in wazo-auth-cli")
	}
	return cfg
}
