package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	p, err := FromEnv("1.0.0")
	require.NoError(t, err)

	assert.Equal(t, "dev", p.Mode)
	assert.True(t, p.IsDev())
	assert.Equal(t, ":8230", p.ListenAddr())
	assert.Equal(t, "1.0.0", p.Version)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CHRONO_MCP_MODE", "prod")
	t.Setenv("CHRONO_MCP_PORT", "9000")
	t.Setenv("CHRONO_MCP_ADDR", "127.0.0.1")

	p, err := FromEnv("1.0.0")
	require.NoError(t, err)

	assert.False(t, p.IsDev())
	assert.Equal(t, "127.0.0.1:9000", p.ListenAddr())
}

func TestFromEnvDefaultTimezoneOffset(t *testing.T) {
	p, err := FromEnv("1.0.0")
	require.NoError(t, err)
	assert.Nil(t, p.DefaultTimezoneOffset)

	t.Setenv("CHRONO_MCP_DEFAULT_TIMEZONE_OFFSET", "540")
	p, err = FromEnv("1.0.0")
	require.NoError(t, err)
	require.NotNil(t, p.DefaultTimezoneOffset)
	assert.Equal(t, 540, *p.DefaultTimezoneOffset)

	t.Setenv("CHRONO_MCP_DEFAULT_TIMEZONE_OFFSET", "not-a-number")
	_, err = FromEnv("1.0.0")
	assert.Error(t, err)
}

func TestFromEnvInvalid(t *testing.T) {
	t.Setenv("CHRONO_MCP_PORT", "not-a-port")
	_, err := FromEnv("1.0.0")
	assert.Error(t, err)

	t.Setenv("CHRONO_MCP_PORT", "70000")
	_, err = FromEnv("1.0.0")
	assert.Error(t, err)

	t.Setenv("CHRONO_MCP_PORT", "8230")
	t.Setenv("CHRONO_MCP_MODE", "weird")
	_, err = FromEnv("1.0.0")
	assert.Error(t, err)
}
