package main

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/helium/internal/app"
	"github.com/zeusync/helium/internal/config"
	"github.com/zeusync/helium/internal/core/ecs"
	"github.com/zeusync/helium/internal/core/models"
	"github.com/zeusync/helium/internal/core/observability/log"
	"github.com/zeusync/helium/internal/core/render"
	"github.com/zeusync/helium/internal/core/system"
)

func TestDemoSceneLands(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.TickRate = 1000
	cfg.Simulation.MaxTicks = 3

	h := render.NewHeadless(render.SurfaceConfig{Width: 640, Height: 480})
	// a frozen clock keeps the engine's own ticks at zero delta
	frozen := time.Unix(1_700_000_000, 0)
	e := app.New(cfg, log.NewNop(), h,
		app.WithManagerOptions(system.WithClock(func() time.Time { return frozen })),
	)
	s := newScene(cfg)
	s.register(e)

	require.NoError(t, e.Run(context.Background()))
	m := e.Manager()

	_, ok := m.Camera()
	require.True(t, ok)
	cam, found := h.Camera()
	require.True(t, found)
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, cam.Eye)

	labels, err := system.EntitiesWith(m, func(models.Label) bool { return true })
	require.NoError(t, err)
	assert.ElementsMatch(t, labels, []ecs.Entity{s.box, s.spinner})

	// at 60Hz the box moves well under half its height per tick, so it
	// lands on top of the floor rather than passing its center through it
	for range 200 {
		require.NoError(t, m.Tick(1.0 / 60))
	}
	tr, found, err := system.Get[models.Transform](m, s.box)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, mgl32.Vec3{0, -9.5, 0}, tr.Position())
	assert.True(t, s.landed[s.box])
}
