package ipc

import (
	"bytes"
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matjam/driftpaper/internal/compositor"
	"github.com/matjam/driftpaper/internal/eglctx"
	"github.com/matjam/driftpaper/internal/glapi"
	"github.com/matjam/driftpaper/internal/types"
	"github.com/matjam/driftpaper/internal/wayland"
	"github.com/spf13/viper"
)

// Manager owns the wallpaper rotation: the surface, the GL context, the
// compositor and the list of wallpapers to cycle through. Run drives all of
// it from a single goroutine; the socket server only enqueues commands.
type Manager struct {
	sync.Mutex
	wallpapers       []string
	cmds             chan Command
	currentWallpaper string

	surface  *wayland.Surface
	egl      *eglctx.Context
	gl       glapi.API
	renderer *compositor.Renderer
	mode     types.BackgroundMode
}

// NewManager connects to the compositor, brings up EGL on the layer surface
// and builds the GL pipeline. It must be called on the goroutine that will
// call Run.
func NewManager(wallpapers []string) (*Manager, error) {
	mode, err := types.ParseBackgroundMode(viper.GetString("mode"))
	if err != nil {
		return nil, err
	}

	surface, err := wayland.Connect()
	if err != nil {
		return nil, fmt.Errorf("connecting to the compositor: %w", err)
	}

	egl, err := eglctx.New(surface.DisplayHandle(), surface.SurfaceHandle())
	if err != nil {
		surface.Close()
		return nil, fmt.Errorf("creating the EGL context: %w", err)
	}
	if err := egl.MakeCurrent(); err != nil {
		egl.Destroy()
		surface.Close()
		return nil, err
	}

	g, err := glapi.Load(egl.ProcAddress)
	if err != nil {
		egl.Destroy()
		surface.Close()
		return nil, fmt.Errorf("loading GL: %w", err)
	}

	renderer, err := compositor.New(g, surface.Info())
	if err != nil {
		egl.Destroy()
		surface.Close()
		return nil, fmt.Errorf("building the render pipeline: %w", err)
	}

	m := &Manager{
		wallpapers: wallpapers,
		cmds:       make(chan Command, 1),
		surface:    surface,
		egl:        egl,
		gl:         g,
		renderer:   renderer,
		mode:       mode,
	}

	// The placeholder surface is 10x10; the configure event has the real
	// size by now.
	if err := m.applyResize(); err != nil {
		m.cleanup()
		return nil, err
	}
	return m, nil
}

func (m *Manager) CurrentWallpaper() string {
	m.Lock()
	defer m.Unlock()
	return m.currentWallpaper
}

func (m *Manager) GetWallpapers() []string {
	m.Lock()
	defer m.Unlock()
	return m.wallpapers
}

func (m *Manager) SetWallpapers(wallpapers []string) {
	m.Lock()
	defer m.Unlock()
	m.wallpapers = wallpapers
}

// NextWallpaper rotates the list and returns the new head.
func (m *Manager) NextWallpaper() string {
	m.Lock()
	defer m.Unlock()
	if len(m.wallpapers) == 0 {
		return ""
	}
	next := m.wallpapers[0]
	m.wallpapers = append(m.wallpapers[1:], next)

	m.currentWallpaper = next

	return next
}

func (m *Manager) Shuffle() {
	m.Lock()
	defer m.Unlock()

	rand.Shuffle(len(m.wallpapers), func(i, j int) {
		m.wallpapers[i], m.wallpapers[j] = m.wallpapers[j], m.wallpapers[i]
	})
}

func (m *Manager) Stop() {
	m.Lock()
	defer m.Unlock()

	if len(m.cmds) == 0 {
		m.cmds <- Command{
			Type: CommandStop,
			Args: []string{},
		}
	}
}

func (m *Manager) EnqueueCommand(cmd Command) {
	m.Lock()
	defer m.Unlock()

	m.cmds <- cmd
}

// Run blocks until stopped, fading to the next wallpaper every delay
// seconds and servicing commands from the control socket in between.
func (m *Manager) Run() {
	log.Info("Starting wallpaper manager...")

	timeChanged := time.Now()

	m.Next()

	delay := viper.GetInt("delay")
	if delay == 0 {
		delay = 10
	}

	running := true

	for running {
		if len(m.cmds) > 0 {
			cmd := <-m.cmds
			switch cmd.Type {
			case CommandStop:
				log.Info("Stopping wallpaper manager ...")
				running = false
				continue
			case CommandNext:
				log.Info("Received next command")
				m.Next()
				timeChanged = time.Now()
			case CommandLoad:
				log.Info("Received load command")
				if len(cmd.Args) == 0 {
					log.Error("No wallpapers specified for load command")
					continue
				}
				m.SetWallpapers(cmd.Args)
				log.Infof("Loaded %d wallpapers", len(cmd.Args))
				m.Shuffle()
				m.Next()
				timeChanged = time.Now()
			default:
				log.Error("Unknown command:", cmd.Type)
			}
		} else if time.Since(timeChanged) > time.Duration(delay)*time.Second {
			m.Next()
			timeChanged = time.Now()
		}

		if err := m.surface.Roundtrip(); err != nil {
			log.Error("Wayland roundtrip failed:", err)
			running = false
			continue
		}
		if m.surface.Closed() {
			log.Info("Layer surface closed, exiting")
			running = false
			continue
		}
		if m.surface.TakeResize() {
			if err := m.applyResize(); err != nil {
				log.Error("Resize failed:", err)
			}
			if err := m.drawStill(); err != nil {
				log.Error("Redraw after resize failed:", err)
			}
		}

		time.Sleep(500 * time.Millisecond)
	}

	m.cleanup()
	log.Info("Wallpaper manager stopped.")
}

// Next decodes the next wallpaper and crossfades to it.
func (m *Manager) Next() {
	nextFile := m.NextWallpaper()
	if nextFile == "" {
		log.Fatal("No next wallpaper found")
		os.Exit(1)
	}

	nextImgData, err := os.ReadFile(nextFile)
	if err != nil {
		log.Fatal("Failed to read next image file:", err)
		os.Exit(1)
	}
	nextImg, _, err := image.Decode(bytes.NewReader(nextImgData))
	if err != nil {
		log.Fatal("Failed to decode next image:", err)
		os.Exit(1)
	}
	log.Infof("loading %v (%vx%v)", nextFile, nextImg.Bounds().Max.X, nextImg.Bounds().Max.Y)

	if err := m.transition(nextImg); err != nil {
		log.Errorf("Failed to transition images: %v", err)
	}
}

// transition runs the crossfade to its end, pacing frames to the configured
// framerate limit. The animation clock runs in ticks; wall-clock time is
// mapped onto it so the fade takes fade_speed seconds regardless of the
// achieved framerate.
func (m *Manager) transition(next image.Image) error {
	if err := m.renderer.LoadWallpaper(next, m.mode); err != nil {
		return err
	}

	fade := viper.GetFloat64("fade_speed")
	if fade <= 0 {
		fade = 1
	}
	framerate := viper.GetInt("framerate_limit")
	if framerate <= 0 {
		framerate = 60
	}
	frameBudget := time.Second / time.Duration(framerate)

	m.renderer.StartAnimation(0)
	started := time.Now()

	for {
		frameStart := time.Now()

		elapsed := frameStart.Sub(started).Seconds()
		tick := uint32(elapsed / fade * float64(compositor.AnimationDuration))
		if tick > compositor.AnimationDuration {
			tick = compositor.AnimationDuration
		}

		if err := m.drawFrame(tick); err != nil {
			return err
		}

		if m.surface.TakeResize() {
			if err := m.applyResize(); err != nil {
				return err
			}
		}
		if m.surface.Closed() {
			return nil
		}

		if !m.renderer.IsDrawingAnimation(tick) {
			return nil
		}

		if wait := frameBudget - time.Since(frameStart); wait > 0 {
			time.Sleep(wait)
		}
	}
}

func (m *Manager) drawFrame(tick uint32) error {
	if err := m.renderer.Draw(tick, m.mode); err != nil {
		return err
	}
	if err := m.egl.SwapBuffers(); err != nil {
		return err
	}
	return m.surface.Roundtrip()
}

// drawStill repaints the settled state of the last transition.
func (m *Manager) drawStill() error {
	return m.drawFrame(compositor.AnimationDuration)
}

// applyResize recreates the EGL surface at the output's current size and
// points the viewport at it.
func (m *Manager) applyResize() error {
	info := m.surface.Info()
	if err := m.egl.Resize(m.surface.SurfaceHandle(), info.AdjustedWidth(), info.AdjustedHeight()); err != nil {
		return err
	}
	if err := m.egl.MakeCurrent(); err != nil {
		return err
	}
	return m.renderer.Resize()
}

func (m *Manager) cleanup() {
	m.renderer.Destroy()
	m.egl.Destroy()
	m.surface.Close()
}
