package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	p := &Profile{
		Mode: "invalid-mode",
		Data: t.TempDir(),
	}
	err := p.Validate()
	require.NoError(t, err)

	require.Equal(t, "demo", p.Mode)
	require.Equal(t, "sqlite", p.Driver)
	require.Contains(t, p.DSN, "learnloop_demo.db")
	require.Equal(t, 300*time.Second, p.DashboardTTL)
	require.Equal(t, 10*time.Second, p.FanoutTimeout)
	require.Equal(t, 10, p.BatchChunkSize)
}

func TestValidatePostgresRequiresDSN(t *testing.T) {
	p := &Profile{
		Mode:   "dev",
		Data:   t.TempDir(),
		Driver: "postgres",
	}
	err := p.Validate()
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LEARNLOOP_REDIS_ADDR", "localhost:6379")
	t.Setenv("LEARNLOOP_DASHBOARD_TTL", "2m")

	p := &Profile{}
	p.FromEnv()

	require.Equal(t, "localhost:6379", p.RedisAddr)
	require.Equal(t, 2*time.Minute, p.DashboardTTL)
}
