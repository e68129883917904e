package injector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/helium/internal/config"
	"github.com/zeusync/helium/internal/core/observability/log"
	"github.com/zeusync/helium/internal/core/render"
	"github.com/zeusync/helium/internal/core/render/wsview"
)

func TestInitializeHostDefaults(t *testing.T) {
	h, err := InitializeHost("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), h.Config)
	require.Same(t, h.Config, h.Engine.Config())
	require.Nil(t, h.Viewer)

	sc, err := h.Engine.Manager().RenderConfig()
	require.NoError(t, err)
	require.Equal(t, render.SurfaceConfig{Width: 1280, Height: 720}, sc)
}

func TestInitializeHostFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helium.yaml")
	doc := "simulation:\n  max_ticks: 10\nviewer:\n  enabled: true\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	h, err := InitializeHost(ConfigPath(path))
	require.NoError(t, err)
	require.Equal(t, uint64(10), h.Config.Simulation.MaxTicks)
	require.NotNil(t, h.Viewer)

	_, err = InitializeHost(ConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestProvideBackend(t *testing.T) {
	cfg := config.Default()
	require.IsType(t, &render.Headless{}, ProvideBackend(cfg, nil))

	v := wsview.New(surface(cfg), log.NewNop())
	require.Same(t, v, ProvideBackend(cfg, v))
}
