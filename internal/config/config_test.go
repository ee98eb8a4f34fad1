package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUpdateFromOverwritesOnlyNonZero(t *testing.T) {
	cfg := Default()

	cfg.UpdateFrom(Config{Addr: ":9090"})
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout, "unspecified fields must keep defaults")

	cfg.UpdateFrom(Config{ShutdownTimeout: 30 * time.Second})
	require.Equal(t, ":9090", cfg.Addr, "prior override must survive an unrelated update")
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestDefaultIsDevModeOff(t *testing.T) {
	cfg := Default()
	require.False(t, cfg.DevMode)
	require.Equal(t, "info", cfg.LogLevel)
}
