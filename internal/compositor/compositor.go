// Package compositor renders the wallpaper surface and crossfades between
// the previous and the current image. It owns the GPU objects involved (two
// wallpaper textures, a transparent placeholder, the shader pipeline) and a
// per-frame animation timeline; everything else — the display surface, image
// decoding, the event loop and its clock — is supplied by the caller.
//
// All methods must run on the thread holding the current GL context.
package compositor

import (
	"image"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/matjam/driftpaper/internal/display"
	"github.com/matjam/driftpaper/internal/glapi"
	"github.com/matjam/driftpaper/internal/types"
)

// Renderer orchestrates the two wallpaper slots, the shared pipeline and the
// transition timeline.
type Renderer struct {
	gl       glapi.API
	pipeline *pipeline
	display  *display.Info

	old     *wallpaper
	current *wallpaper

	// transparent is the 1x1 placeholder texture a fit-mode transition
	// fades through at its midpoint.
	transparent uint32

	anim timeline
	// fitSwapped latches the one-time midpoint texture/geometry swap of the
	// running fit-mode transition. StartAnimation clears it.
	fitSwapped bool
}

// New builds the shared pipeline and the empty wallpaper slots. The GL
// context must already be current; the calling goroutine is locked to its
// thread for the renderer's lifetime.
func New(g glapi.API, info *display.Info) (*Renderer, error) {
	runtime.LockOSThread()

	p, err := buildPipeline(g)
	if err != nil {
		return nil, err
	}

	transparent, err := uploadTexture(g, transparentImage())
	if err != nil {
		p.release(g)
		return nil, err
	}

	return &Renderer{
		gl:          g,
		pipeline:    p,
		display:     info,
		old:         newWallpaper(info),
		current:     newWallpaper(info),
		transparent: transparent,
		anim:        newTimeline(),
	}, nil
}

// LoadWallpaper makes img the current wallpaper: the slots swap roles, the
// image is uploaded into the now-current slot, and geometry and texture
// bindings are set up for the mode. Fit mode keeps the old image's geometry
// and binds the transparent placeholder instead of the new image; the swap
// to the new image happens mid-transition in Draw.
//
// The animation timer is untouched; call StartAnimation to begin the fade.
func (r *Renderer) LoadWallpaper(img image.Image, mode types.BackgroundMode) error {
	r.old, r.current = r.current, r.old
	if err := r.current.loadImage(r.gl, img); err != nil {
		return err
	}

	log.Debug("wallpaper loaded",
		"width", r.current.imageWidth, "height", r.current.imageHeight, "mode", mode)

	switch mode {
	case types.BackgroundStretch, types.BackgroundFill, types.BackgroundTile:
		if err := r.setMode(mode, false); err != nil {
			return err
		}
		if err := r.bindUnit(glapi.Texture0, r.old); err != nil {
			return err
		}
		return r.bindUnit(glapi.Texture1, r.current)
	case types.BackgroundFit:
		if err := r.bindUnit(glapi.Texture0, r.old); err != nil {
			return err
		}
		return r.bindTransparent(glapi.Texture1)
	}
	return nil
}

// StartAnimation begins a transition at the given tick and resets the
// fit-mode midpoint latch. Call it once per transition, before the next
// Draw.
func (r *Renderer) StartAnimation(now uint32) {
	r.anim.start(now)
	r.fitSwapped = false
}

// Draw renders one frame of the transition at the given tick. For fit mode
// the first frame past the midpoint rebinds the texture units to the new
// image and re-derives its letterboxed geometry, exactly once per
// transition.
func (r *Renderer) Draw(now uint32, mode types.BackgroundMode) error {
	r.gl.Clear(glapi.ColorBufferBit)
	if err := checkError(r.gl, "clearing the framebuffer"); err != nil {
		return err
	}

	progress := r.anim.progress(now)

	switch mode {
	case types.BackgroundStretch, types.BackgroundFill, types.BackgroundTile:
		// Plain crossfade, blend factor is the progress itself.
	case types.BackgroundFit:
		if r.anim.phase(now) == phasePostMidpoint && !r.fitSwapped {
			// The old image has faded out against the placeholder. Drop the
			// placeholder, bind the new image and give it its own geometry
			// for the fade back in.
			if err := r.bindTransparent(glapi.Texture0); err != nil {
				return err
			}
			if err := r.bindUnit(glapi.Texture1, r.current); err != nil {
				return err
			}
			r.fitSwapped = true
			if err := r.setMode(mode, true); err != nil {
				return err
			}
		}
		progress = fitBlend(progress)
	}

	r.gl.Uniform1f(r.pipeline.progressLoc, progress)
	if err := checkError(r.gl, "setting the progress uniform"); err != nil {
		return err
	}

	r.gl.DrawElements(glapi.Triangles, int32(len(quadIndices)))
	return checkError(r.gl, "drawing the quad")
}

// setMode rewrites the vertex buffer for the given mode. For fit mode,
// halfAnimation selects between the old image's geometry (first half of the
// transition) and the current image's letterboxed placement (second half).
func (r *Renderer) setMode(mode types.BackgroundMode, halfAnimation bool) error {
	var data [24]float32

	switch mode {
	case types.BackgroundStretch, types.BackgroundFill, types.BackgroundTile:
		data = vertexData(
			defaultVertexCoordinates(),
			r.current.textureCoordinates(mode),
			r.old.textureCoordinates(mode))
	case types.BackgroundFit:
		vertex := r.old.textureCoordinates(mode)
		if halfAnimation {
			vertex = r.current.vertexCoordinatesForFit()
		}
		data = vertexData(vertex, defaultTextureCoordinates(), r.old.textureCoordinates(mode))
	}

	r.gl.BufferSubDataFloat(glapi.ArrayBuffer, 0, data[:])
	return checkError(r.gl, "rewriting the vertex buffer")
}

// Resize re-applies the viewport from the display's rotation-adjusted
// dimensions. Call it after the surface itself has been recreated and made
// current again.
func (r *Renderer) Resize() error {
	r.gl.Viewport(0, 0, r.display.AdjustedWidth(), r.display.AdjustedHeight())
	return checkError(r.gl, "resizing the viewport")
}

// IsDrawingAnimation reports whether the transition still needs frames at
// the given tick.
func (r *Renderer) IsDrawingAnimation(now uint32) bool {
	return r.anim.active(now)
}

// Destroy releases every GPU object the renderer created. It runs to
// completion regardless of prior errors; the GL API frees nothing on its
// own.
func (r *Renderer) Destroy() {
	r.current.release(r.gl)
	r.old.release(r.gl)
	if r.transparent != 0 {
		r.gl.DeleteTexture(r.transparent)
		r.transparent = 0
	}
	r.pipeline.release(r.gl)
}

func (r *Renderer) bindUnit(unit uint32, w *wallpaper) error {
	r.gl.ActiveTexture(unit)
	if err := checkError(r.gl, "activating a texture unit"); err != nil {
		return err
	}
	return w.bind(r.gl)
}

func (r *Renderer) bindTransparent(unit uint32) error {
	r.gl.ActiveTexture(unit)
	if err := checkError(r.gl, "activating a texture unit"); err != nil {
		return err
	}
	r.gl.BindTexture(r.transparent)
	return checkError(r.gl, "binding the transparent texture")
}
