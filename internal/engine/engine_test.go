package engine_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"portfolio.dev/portfolio/internal/engine"
	"portfolio.dev/portfolio/internal/frame"
	"portfolio.dev/portfolio/internal/layout"
	"portfolio.dev/portfolio/internal/page"
)

// fixture is a page with a full-viewport surface at the document origin.
type fixture struct {
	page    *page.Page
	surface *page.Surface
	ticker  *frame.Manual
	engine  *engine.Engine
}

func newFixture(t *testing.T, opts ...engine.Option) *fixture {
	t.Helper()
	p := page.New(1280, 800)
	ticker := frame.NewManual()
	return &fixture{
		page:    p,
		surface: p.NewSurface(layout.NewRect(0, 0, 1280, 800)),
		ticker:  ticker,
		engine:  engine.New(p, ticker, opts...),
	}
}

func (f *fixture) mount(id string, x1, y1, x2, y2 float64) {
	f.engine.RegisterNode(id, f.page.Mount(id, layout.NewRect(x1, y1, x2, y2)))
}

func pathCount(markup string) int {
	return strings.Count(markup, "<path ")
}

func TestConnect(t *testing.T) {
	t.Run("identical connections are drawn once", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 20, 20, 30, 30)
		f.engine.Connect("A", "B")
		f.engine.Connect("A", "B")

		f.engine.Render(f.surface)
		require.Len(t, f.engine.Edges(), 1)
		require.Equal(t, 1, pathCount(f.surface.Content()))
	})

	t.Run("reversed connection keeps the first orientation", func(t *testing.T) {
		f := newFixture(t)
		f.engine.Connect("A", "B")
		f.engine.Connect("B", "A")

		require.Equal(t, []engine.Edge{{A: "A", B: "B"}}, f.engine.Edges())
	})

	t.Run("unregistered anchors are accepted", func(t *testing.T) {
		f := newFixture(t)
		f.engine.Connect("ghost", "phantom")
		f.engine.Render(f.surface)

		require.Len(t, f.engine.Edges(), 1)
		require.Zero(t, pathCount(f.surface.Content()))
	})

	t.Run("clear connections", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 20, 20, 30, 30)
		f.engine.Connect("A", "B")
		f.engine.ClearConnections()
		f.engine.Render(f.surface)

		require.Empty(t, f.engine.Edges())
		require.Zero(t, pathCount(f.surface.Content()))

		f.engine.Connect("A", "B")
		f.engine.Redraw()
		require.Equal(t, 1, pathCount(f.surface.Content()))
	})
}

func TestRegisterNode(t *testing.T) {
	t.Run("nil removes the anchor", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 20, 20, 30, 30)
		f.engine.Connect("A", "B")
		f.engine.Render(f.surface)
		require.Equal(t, 1, pathCount(f.surface.Content()))

		f.engine.RegisterNode("A", nil)
		_, ok := f.engine.Node("A")
		require.False(t, ok)

		f.engine.Redraw()
		require.Zero(t, pathCount(f.surface.Content()))
	})

	t.Run("typed nil removes the anchor", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 0, 10, 10)

		var missing *page.Element
		f.engine.RegisterNode("A", missing)
		_, ok := f.engine.Node("A")
		require.False(t, ok)
	})

	t.Run("removing an absent anchor is a no-op", func(t *testing.T) {
		f := newFixture(t)
		require.NotPanics(t, func() {
			f.engine.UnregisterNode("nope")
			f.engine.RegisterNode("nope", nil)
		})
	})

	t.Run("registration does not redraw", func(t *testing.T) {
		f := newFixture(t)
		f.engine.Render(f.surface)
		before := f.surface.Replacements()

		f.mount("A", 0, 0, 10, 10)
		require.Equal(t, before, f.surface.Replacements())
	})

	t.Run("re-registering overwrites", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 20, 20, 30, 30)
		f.engine.Connect("A", "B")

		moved := f.page.Mount("A-moved", layout.NewRect(100, 100, 110, 110))
		f.engine.RegisterNode("A", moved)
		f.engine.Render(f.surface)

		routes := f.engine.Routes()
		require.Len(t, routes, 1)
		require.Equal(t, gg.Pt(105, 105), routes[0].Start())
	})
}

func TestRedrawVisibility(t *testing.T) {
	tests := []struct {
		name  string
		a     layout.Rect
		b     layout.Rect
		drawn bool
	}{
		{
			name:  "both visible",
			a:     layout.NewRect(0, 100, 10, 110),
			b:     layout.NewRect(200, 300, 210, 310),
			drawn: true,
		},
		{
			name:  "only first visible",
			a:     layout.NewRect(0, 700, 10, 710),
			b:     layout.NewRect(0, 900, 10, 910),
			drawn: true,
		},
		{
			name:  "only second visible",
			a:     layout.NewRect(0, -200, 10, -150),
			b:     layout.NewRect(0, 50, 10, 60),
			drawn: true,
		},
		{
			name:  "both above the viewport",
			a:     layout.NewRect(0, -300, 10, -250),
			b:     layout.NewRect(0, -100, 10, -50),
			drawn: false,
		},
		{
			name:  "both below the viewport",
			a:     layout.NewRect(0, 900, 10, 910),
			b:     layout.NewRect(0, 1200, 10, 1210),
			drawn: false,
		},
		{
			name:  "one above one below",
			a:     layout.NewRect(0, -300, 10, -250),
			b:     layout.NewRect(0, 850, 10, 860),
			drawn: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.engine.RegisterNode("A", f.page.Mount("A", tt.a))
			f.engine.RegisterNode("B", f.page.Mount("B", tt.b))
			f.engine.Connect("A", "B")
			f.engine.Render(f.surface)

			if tt.drawn {
				require.Equal(t, 1, pathCount(f.surface.Content()))
			} else {
				require.Zero(t, pathCount(f.surface.Content()))
			}
		})
	}
}

func TestRedrawDistance(t *testing.T) {
	t.Run("long connectors are skipped", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 950, 0, 960, 10)
		f.engine.Connect("A", "B")
		f.engine.Render(f.surface)

		require.Zero(t, pathCount(f.surface.Content()))
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 940, 0, 950, 10)
		f.engine.Connect("A", "B")
		f.engine.Render(f.surface)

		require.Equal(t, 1, pathCount(f.surface.Content()))
	})

	t.Run("custom threshold", func(t *testing.T) {
		f := newFixture(t, engine.WithMaxDistance(10))
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 20, 20, 30, 30)
		f.engine.Connect("A", "B")
		f.engine.Render(f.surface)

		require.Zero(t, pathCount(f.surface.Content()))
	})
}

func TestScenario(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("motion", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 20, 20, 30, 30)
		f.engine.Connect("A", "B")
		f.engine.Render(f.surface)

		routes := f.engine.Routes()
		require.Len(t, routes, 1)
		require.Equal(t, gg.Pt(5, 5), routes[0].Start())
		require.Equal(t, gg.Pt(25, 25), routes[0].End())

		// Control point sits 20 units from the midpoint, perpendicular to the chord
		ctrl := routes[0].Control()
		require.InDelta(t, 0.857864, ctrl.X, 1e-6)
		require.InDelta(t, 29.142135, ctrl.Y, 1e-6)
		require.InDelta(t, 20, ctrl.Distance(gg.Pt(15, 15)), 1e-9)
		require.InDelta(t, 0, ctrl.Sub(gg.Pt(15, 15)).Dot(gg.Pt(20, 20)), 1e-9)

		g.Assert(t, "scenario_motion", []byte(f.surface.Content()))
	})

	t.Run("reduced motion", func(t *testing.T) {
		f := newFixture(t)
		f.engine.SetReducedMotion(true)
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 20, 20, 30, 30)
		f.engine.Connect("A", "B")
		f.engine.Render(f.surface)

		g.Assert(t, "scenario_reduced_motion", []byte(f.surface.Content()))
	})
}

func TestSurfaceLocalCoordinates(t *testing.T) {
	f := newFixture(t)
	f.surface = f.page.NewSurface(layout.NewRect(100, 50, 1380, 850))
	f.mount("A", 100, 50, 110, 60)
	f.mount("B", 120, 70, 130, 80)
	f.engine.Connect("A", "B")
	f.engine.Render(f.surface)

	routes := f.engine.Routes()
	require.Len(t, routes, 1)
	require.Equal(t, gg.Pt(5, 5), routes[0].Start())
	require.Equal(t, gg.Pt(25, 25), routes[0].End())
}

func TestCurveDirectionIsConsistent(t *testing.T) {
	f := newFixture(t)
	f.mount("A", 0, 0, 10, 10)
	f.mount("B", 200, 0, 210, 10)
	f.mount("C", 0, 200, 10, 210)
	f.engine.Connect("A", "B")
	f.engine.Connect("A", "C")
	f.engine.Render(f.surface)

	routes := f.engine.Routes()
	require.Len(t, routes, 2)
	for _, r := range routes {
		chord := r.End().Sub(r.Start())
		bow := r.Control().Sub(r.Start().Lerp(r.End(), 0.5))
		// Every control point lies on the same side of its chord
		require.Positive(t, chord.Cross(bow), "edge %s", r.Edge)
	}
}

func TestControlPoint(t *testing.T) {
	t.Run("zero length chord", func(t *testing.T) {
		p := gg.Pt(7, 7)
		require.Equal(t, p, engine.ControlPoint(p, p, 20))
	})

	t.Run("horizontal chord", func(t *testing.T) {
		ctrl := engine.ControlPoint(gg.Pt(0, 0), gg.Pt(100, 0), 20)
		require.Equal(t, gg.Pt(50, 20), ctrl)
	})
}

func TestFormatNumber(t *testing.T) {
	require.Equal(t, "5", engine.FormatNumber(5))
	require.Equal(t, "0.86", engine.FormatNumber(0.857864))
	require.Equal(t, "0", engine.FormatNumber(-0.001))
	require.Equal(t, "-12.5", engine.FormatNumber(-12.5))
}

func TestLoop(t *testing.T) {
	t.Run("render starts the loop and frames repaint", func(t *testing.T) {
		f := newFixture(t)
		f.engine.Render(f.surface)
		require.Equal(t, engine.StateRunning, f.engine.State())
		require.Equal(t, uint64(1), f.engine.Frames())

		require.True(t, f.ticker.Tick())
		require.True(t, f.ticker.Tick())
		require.Equal(t, uint64(3), f.engine.Frames())
	})

	t.Run("repeated render does not double start or double attach", func(t *testing.T) {
		f := newFixture(t)
		f.engine.Render(f.surface)
		f.engine.Render(f.surface)

		require.Equal(t, 1, f.ticker.Starts())
		require.Equal(t, 1, f.page.ListenerCount(engine.EventScroll))
		require.Equal(t, 1, f.page.ListenerCount(engine.EventResize))
		require.Equal(t, 1, f.page.ListenerCount(engine.EventVisibilityChange))
	})

	t.Run("reduced motion stops the loop and drops markers", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 0, 10, 10)
		f.mount("B", 20, 20, 30, 30)
		f.engine.Connect("A", "B")
		f.engine.Render(f.surface)
		require.Contains(t, f.surface.Content(), "<animateMotion")

		f.engine.SetReducedMotion(true)
		require.Equal(t, engine.StateIdle, f.engine.State())
		require.False(t, f.ticker.Tick())

		f.engine.Redraw()
		require.NotContains(t, f.surface.Content(), "<animateMotion")
		require.Equal(t, 1, pathCount(f.surface.Content()))
	})

	t.Run("disabling reduced motion restarts the loop", func(t *testing.T) {
		f := newFixture(t)
		f.engine.SetReducedMotion(true)
		f.engine.Render(f.surface)
		require.Equal(t, engine.StateIdle, f.engine.State())

		f.engine.SetReducedMotion(false)
		require.Equal(t, engine.StateRunning, f.engine.State())
		require.False(t, f.engine.ReducedMotion())
	})

	t.Run("disabling reduced motion without a surface stays idle", func(t *testing.T) {
		f := newFixture(t)
		f.engine.SetReducedMotion(false)
		require.Equal(t, engine.StateIdle, f.engine.State())
		require.Zero(t, f.ticker.Starts())
	})

	t.Run("hidden page does not start the loop", func(t *testing.T) {
		f := newFixture(t)
		f.page.SetHidden(true)
		f.engine.Render(f.surface)

		require.Equal(t, engine.StateIdle, f.engine.State())
		require.Equal(t, 1, f.surface.Replacements())
	})

	t.Run("visibility stops and restarts the loop", func(t *testing.T) {
		f := newFixture(t)
		f.engine.Render(f.surface)

		f.page.SetHidden(true)
		require.Equal(t, engine.StateIdle, f.engine.State())
		before := f.surface.Replacements()

		f.page.SetHidden(false)
		require.Equal(t, engine.StateRunning, f.engine.State())
		require.Equal(t, before+1, f.surface.Replacements())
		require.Equal(t, 2, f.ticker.Starts())
	})

	t.Run("visible again with reduced motion only repaints", func(t *testing.T) {
		f := newFixture(t)
		f.engine.SetReducedMotion(true)
		f.engine.Render(f.surface)
		f.page.SetHidden(true)
		f.page.SetHidden(false)

		require.Equal(t, engine.StateIdle, f.engine.State())
		require.Equal(t, 2, f.surface.Replacements())
	})

	t.Run("scroll and resize repaint", func(t *testing.T) {
		f := newFixture(t)
		f.mount("A", 0, 900, 10, 910)
		f.mount("B", 20, 950, 30, 960)
		f.engine.Connect("A", "B")
		f.engine.SetReducedMotion(true)
		f.engine.Render(f.surface)
		require.Zero(t, pathCount(f.surface.Content()))

		f.page.ScrollTo(200)
		require.Equal(t, 1, pathCount(f.surface.Content()))

		f.page.Resize(1280, 100)
		require.Zero(t, pathCount(f.surface.Content()))
	})
}

func TestDestroy(t *testing.T) {
	t.Run("before render", func(t *testing.T) {
		f := newFixture(t)
		require.NotPanics(t, f.engine.Destroy)
		require.NotPanics(t, f.engine.Destroy)

		f.engine.Render(f.surface)
		require.Equal(t, engine.StateRunning, f.engine.State())
		require.True(t, f.engine.Mounted())
	})

	t.Run("detaches listeners and stops the loop", func(t *testing.T) {
		f := newFixture(t)
		f.engine.Render(f.surface)
		f.engine.Destroy()

		require.Equal(t, engine.StateIdle, f.engine.State())
		require.False(t, f.engine.Mounted())
		require.Zero(t, f.page.ListenerCount(engine.EventScroll))
		require.Zero(t, f.page.ListenerCount(engine.EventResize))
		require.Zero(t, f.page.ListenerCount(engine.EventVisibilityChange))
		require.False(t, f.ticker.Tick())

		before := f.surface.Replacements()
		f.page.ScrollTo(100)
		f.engine.Redraw()
		require.Equal(t, before, f.surface.Replacements())
	})

	t.Run("render again after destroy", func(t *testing.T) {
		f := newFixture(t)
		f.engine.Render(f.surface)
		f.engine.Destroy()
		f.engine.Render(f.surface)

		require.Equal(t, engine.StateRunning, f.engine.State())
		require.Equal(t, 1, f.page.ListenerCount(engine.EventScroll))
	})
}

func TestRoutesWithoutSurface(t *testing.T) {
	f := newFixture(t)
	f.mount("A", 0, 0, 10, 10)
	f.mount("B", 20, 20, 30, 30)
	f.engine.Connect("A", "B")

	routes := f.engine.Routes()
	require.Len(t, routes, 1)
	require.True(t, routes[0].Pulse)
	require.Equal(t, "M 5 5 Q 0.86 29.14 25 25", engine.PathData(routes[0]))
}

func TestWallClockLoop(t *testing.T) {
	p := page.New(1280, 800)
	surface := p.NewSurface(layout.NewRect(0, 0, 1280, 800))
	e := engine.New(p, frame.NewTicker(time.Millisecond))
	e.RegisterNode("A", p.Mount("A", layout.NewRect(0, 0, 10, 10)))
	e.RegisterNode("B", p.Mount("B", layout.NewRect(20, 20, 30, 30)))
	e.Connect("A", "B")

	e.Render(surface)
	require.Eventually(t, func() bool { return e.Frames() > 5 }, time.Second, time.Millisecond)

	// Page events and frames interleave freely
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.ScrollTo(float64(i * 10))
			e.Connect("A", "B")
		}(i)
	}
	wg.Wait()

	e.SetReducedMotion(true)
	require.Equal(t, engine.StateIdle, e.State())
	e.Destroy()
	require.Equal(t, 1, pathCount(surface.Content()))
}
