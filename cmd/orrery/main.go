// orrery - a solar system viewer for the terminal.
//
// Controls:
//
//	W/S         - Move forward/back
//	A/D         - Move left/right
//	Q/E         - Move up/down
//	Arrow keys  - Look around
//	1/2         - Zoom in/out
//	B           - Bird's-eye view of the whole system
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/internal/logger"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/scene"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("fatal", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// smoothAxis tracks one look axis with spring-damped velocity so a
// tapped key eases the camera instead of snapping it.
type smoothAxis struct {
	velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func newSmoothAxis(fps int) smoothAxis {
	// Critically damped: velocity decays to zero without overshoot.
	return smoothAxis{velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// update decays velocity toward zero and returns the step to apply
// this frame.
func (a *smoothAxis) update() float64 {
	step := a.velocity
	a.velocity, a.velAccel = a.velSpring.Update(a.velocity, a.velAccel, 0)
	return step
}

func (a *smoothAxis) impulse(v float64) {
	a.velocity += v
}

// hud renders the status line overlay with raw escape codes, above
// the cell buffer the presenter owns.
type hud struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func (h *hud) tick() {
	h.fpsFrames++
	if elapsed := time.Since(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *hud) render(width int, bodies int, stats render.CullingStats) {
	const (
		reset     = "\x1b[0m"
		bgBlack   = "\x1b[40m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	fmt.Printf("\x1b[1;1H%s%s%s %.0f FPS %s", clearLine, bgBlack, fgGreen, h.fps, reset)

	info := fmt.Sprintf(" %d bodies, %d culled ", bodies, stats.Culled)
	col := max(width-len(info), 1)
	fmt.Printf("\x1b[1;%dH%s%s%s%s", col, bgBlack, fgCyan, info, reset)
}

func run(cfg *config.Config) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	presenter := render.NewTerminalPresenter(term, cols, rows)
	fbWidth, fbHeight := presenter.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	camera := render.NewCamera()
	camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))
	camera.SetFOV(cfg.Camera.FOVDegrees * math.Pi / 180)
	camera.SetClipPlanes(cfg.Camera.Near, cfg.Camera.Far)
	camera.MoveStep = cfg.Camera.MoveStep

	workers := cfg.Graphics.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	rasterizer := render.NewRasterizer(camera, fb)
	rasterizer.Workers = workers
	rasterizer.DisableBackfaceCulling = !cfg.Graphics.BackfaceCulling

	loader := scene.SphereLoader(cfg.Scene.SphereRings, cfg.Scene.SphereSegments)
	if cfg.Scene.ModelPath != "" {
		loader = scene.FileLoader(cfg.Scene.ModelPath, loader, logger.Log)
	}
	system := scene.DefaultSystem(loader, logger.Log)
	if len(system.Bodies) == 0 {
		cleanup()
		return fmt.Errorf("no renderable bodies in scene")
	}

	logger.Info("starting",
		zap.Int("cols", cols),
		zap.Int("rows", rows),
		zap.Int("workers", workers),
		zap.Int("fps_limit", cfg.Graphics.FPSLimit))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Events are translated off the input goroutine and applied on
	// the render loop, which owns the camera.
	controls := make(chan render.ControlEvent, 64)
	resizes := make(chan [2]int, 4)
	hudToggles := make(chan struct{}, 4)

	fps := cfg.Graphics.FPSLimit
	if fps <= 0 {
		fps = 30
	}
	const lookStep = 0.06

	go func() {
		pushed := func(ev render.ControlEvent) {
			select {
			case controls <- ev:
			default: // drop input rather than stall the terminal reader
			}
		}
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case resizes <- [2]int{ev.Width, ev.Height}:
				default:
				}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("w"):
					pushed(render.MoveEvent{Dir: render.MoveForward})
				case ev.MatchString("s"):
					pushed(render.MoveEvent{Dir: render.MoveBack})
				case ev.MatchString("a"):
					pushed(render.MoveEvent{Dir: render.MoveLeft})
				case ev.MatchString("d"):
					pushed(render.MoveEvent{Dir: render.MoveRight})
				case ev.MatchString("q"):
					pushed(render.MoveEvent{Dir: render.MoveUp})
				case ev.MatchString("e"):
					pushed(render.MoveEvent{Dir: render.MoveDown})
				case ev.MatchString("up"):
					pushed(render.RotateEvent{DeltaPitch: lookStep})
				case ev.MatchString("down"):
					pushed(render.RotateEvent{DeltaPitch: -lookStep})
				case ev.MatchString("left"):
					pushed(render.RotateEvent{DeltaYaw: lookStep})
				case ev.MatchString("right"):
					pushed(render.RotateEvent{DeltaYaw: -lookStep})
				case ev.MatchString("1"):
					pushed(render.ZoomEvent{Delta: -0.05})
				case ev.MatchString("2"):
					pushed(render.ZoomEvent{Delta: 0.05})
				case ev.MatchString("b"):
					pushed(render.BirdViewEvent{})
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					select {
					case hudToggles <- struct{}{}:
					default:
					}
				}
			}
		}
	}()

	pitch := newSmoothAxis(fps)
	yaw := newSmoothAxis(fps)

	showHUD := cfg.Graphics.ShowHUD
	overlay := &hud{fpsTime: time.Now()}

	targetDuration := time.Second / time.Duration(fps)
	start := time.Now()
	var (
		lastFrame  *render.Frame
		skipRender bool
	)

	for {
		select {
		case <-ctx.Done():
			cleanup()
			logger.Info("shutting down")
			return nil
		default:
		}

		frameStart := time.Now()

		// Drain pending input.
	drain:
		for {
			select {
			case size := <-resizes:
				cols, rows = size[0], size[1]
				term.Erase()
				term.Resize(cols, rows)
				presenter = render.NewTerminalPresenter(term, cols, rows)
				fbWidth, fbHeight = presenter.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				rasterizer = render.NewRasterizer(camera, fb)
				rasterizer.Workers = workers
				rasterizer.DisableBackfaceCulling = !cfg.Graphics.BackfaceCulling
				camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))
				lastFrame = nil
				logger.Debug("resized", zap.Int("cols", cols), zap.Int("rows", rows))
			case <-hudToggles:
				showHUD = !showHUD
			case ev := <-controls:
				if rot, ok := ev.(render.RotateEvent); ok {
					pitch.impulse(rot.DeltaPitch)
					yaw.impulse(rot.DeltaYaw)
					continue
				}
				camera.Apply(ev)
			default:
				break drain
			}
		}

		if dp, dy := pitch.update(), yaw.update(); dp != 0 || dy != 0 {
			camera.Apply(render.RotateEvent{DeltaPitch: dp, DeltaYaw: dy})
		}

		// One monotonic clock drives orbits, spin and shaders, so a
		// skipped frame never rewinds the simulation.
		simTime := time.Since(start).Seconds() * cfg.Scene.TimeScale
		system.Advance(simTime)

		var frame *render.Frame
		if skipRender && lastFrame != nil {
			// Previous render blew the budget: re-present it and
			// spend this slot catching up instead of queueing lag.
			frame = lastFrame
			skipRender = false
		} else {
			fb.Clear(render.ColorSpace)
			system.Draw(rasterizer, camera.Position)
			frame = fb.Present()
			skipRender = time.Since(frameStart) > 2*targetDuration
		}
		lastFrame = frame

		presenter.Render(frame)
		if err := presenter.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		overlay.tick()
		if showHUD {
			overlay.render(cols, len(system.Bodies), rasterizer.CullingStats)
		}

		if remaining := targetDuration - time.Since(frameStart); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}
