package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owe/sim/internal/grid"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
width = 8
height = 4
tick_rate = "50ms"
direction = "left"
start_x = 7

[database]
enabled = true
dsn = "postgres://x@db/sim"

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Simulation.Width)
	assert.Equal(t, 4, cfg.Simulation.Height)
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, 7, cfg.Simulation.StartX)
	assert.Equal(t, 64, cfg.Simulation.CellsPerTick)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "postgres://x@db/sim", cfg.Database.DSN)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Database.RunID)

	dir, err := cfg.Simulation.CursorDirection()
	require.NoError(t, err)
	assert.Equal(t, grid.Left, dir)
}

func TestLoadRejectsInvalidSimulation(t *testing.T) {
	cases := map[string]string{
		"direction":  "[simulation]\ndirection = \"diagonal\"\n",
		"size":       "[simulation]\nwidth = 0\n",
		"start":      "[simulation]\nwidth = 4\nheight = 4\nstart_y = 4\n",
		"steps":      "[simulation]\ncells_per_tick = 0\n",
		"tick rate":  "[simulation]\ntick_rate = \"0s\"\n",
		"bad syntax": "[simulation\n",
		"run id":     "[database]\nrun_id = \"not-a-uuid\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
