// Package profile holds the runtime configuration of the server
// process, resolved once at startup.
package profile

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the effective server configuration.
type Profile struct {
	// Mode is "prod" or "dev". Dev mode enables debug logging.
	Mode string
	// Addr is the bind address of the HTTP listener.
	Addr string
	// Port is the bind port of the HTTP listener.
	Port int
	// Version is the release version reported to MCP clients.
	Version string
	// RateLimitRPS is the per-client sustained request rate.
	RateLimitRPS float64
	// RateLimitBurst is the per-client burst allowance.
	RateLimitBurst int
	// MaxConcurrentCalls bounds tool calls executing at once.
	MaxConcurrentCalls int64
	// DefaultTimezoneOffset, when set, is the process-wide default for
	// the timezone_offset tool argument. Nil means no default.
	DefaultTimezoneOffset *int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// ListenAddr returns the host:port string for the HTTP listener.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		return errors.Errorf("unsupported mode %q", p.Mode)
	}
	if p.Port < 1 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.RateLimitRPS <= 0 || p.RateLimitBurst <= 0 {
		return errors.New("rate limit must be positive")
	}
	if p.MaxConcurrentCalls <= 0 {
		return errors.New("max concurrent calls must be positive")
	}
	return nil
}

// FromEnv builds a profile from CHRONO_MCP_* environment variables,
// falling back to defaults suitable for local development.
func FromEnv(version string) (*Profile, error) {
	v := viper.New()
	v.SetEnvPrefix("chrono_mcp")
	v.AutomaticEnv()

	v.SetDefault("mode", "dev")
	v.SetDefault("addr", "")
	v.SetDefault("port", 8230)
	v.SetDefault("rate_limit_rps", 10.0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("max_concurrent_calls", 8)

	p := &Profile{
		Mode:               v.GetString("mode"),
		Addr:               v.GetString("addr"),
		Port:               v.GetInt("port"),
		Version:            version,
		RateLimitRPS:       v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		MaxConcurrentCalls: v.GetInt64("max_concurrent_calls"),
	}

	if raw := v.GetString("default_timezone_offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Wrap(err, "parsing CHRONO_MCP_DEFAULT_TIMEZONE_OFFSET")
		}
		p.DefaultTimezoneOffset = &offset
	}

	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return p, nil
}
