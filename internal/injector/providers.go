package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/helium/internal/app"
	"github.com/zeusync/helium/internal/config"
	"github.com/zeusync/helium/internal/core/observability/log"
	"github.com/zeusync/helium/internal/core/render"
	"github.com/zeusync/helium/internal/core/render/wsview"
)

// ConfigPath is the YAML file to load; empty means defaults.
type ConfigPath string

// Host is everything cmd/helium needs to run. Viewer is nil unless the
// websocket viewer is enabled.
type Host struct {
	Config *config.Config
	Logger log.Log
	Engine *app.Engine
	Viewer *wsview.Viewer
}

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideViewer,
	ProvideBackend,
	ProvideEngine,
	wire.Struct(new(Host), "*"),
)

func ProvideConfig(path ConfigPath) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(string(path))
}

func ProvideLogger(cfg *config.Config) log.Log {
	return log.New(cfg.LogLevel())
}

func surface(cfg *config.Config) render.SurfaceConfig {
	return render.SurfaceConfig{Width: cfg.Surface.Width, Height: cfg.Surface.Height}
}

func ProvideViewer(cfg *config.Config, logger log.Log) *wsview.Viewer {
	if !cfg.Viewer.Enabled {
		return nil
	}
	return wsview.New(surface(cfg), logger)
}

// ProvideBackend renders through the viewer when there is one and into a
// headless recorder otherwise.
func ProvideBackend(cfg *config.Config, viewer *wsview.Viewer) render.Backend {
	if viewer != nil {
		return viewer
	}
	return render.NewHeadless(surface(cfg))
}

func ProvideEngine(cfg *config.Config, logger log.Log, backend render.Backend) *app.Engine {
	return app.New(cfg, logger, backend)
}
