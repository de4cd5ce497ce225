// Package wayland maintains the layer-shell surface the compositor draws
// into: one background-layer surface anchored to every edge of the first
// output, plus the configure/scale/transform bookkeeping that keeps the
// display geometry current. The handles it exposes are opaque to the rest
// of the program; only eglctx consumes them.
//
// The layer-shell protocol glue is generated from the wlr-protocols tree:
//
//go:generate sh -c "wayland-scanner client-header /usr/share/wlr-protocols/unstable/wlr-layer-shell-unstable-v1.xml wlr-layer-shell-unstable-v1-client-protocol.h"
//go:generate sh -c "wayland-scanner private-code /usr/share/wlr-protocols/unstable/wlr-layer-shell-unstable-v1.xml wlr-layer-shell-unstable-v1-protocol.c"
package wayland

/*
#cgo LDFLAGS: -lwayland-client
#include <stdlib.h>
#include <stdint.h>
#include <wayland-client.h>
#include "wlr-layer-shell-unstable-v1-client-protocol.h"

extern void goRegistryGlobal(uintptr_t handle, struct wl_registry *registry, uint32_t name, char *iface, uint32_t version);
extern void goRegistryGlobalRemove(uintptr_t handle, uint32_t name);
extern void goLayerSurfaceConfigure(uintptr_t handle, struct zwlr_layer_surface_v1 *surface, uint32_t serial, uint32_t width, uint32_t height);
extern void goLayerSurfaceClosed(uintptr_t handle);
extern void goOutputGeometry(uintptr_t handle, int32_t transform);
extern void goOutputScale(uintptr_t handle, int32_t factor);

static void registry_global(void *data, struct wl_registry *registry,
		uint32_t name, const char *iface, uint32_t version) {
	goRegistryGlobal((uintptr_t)data, registry, name, (char *)iface, version);
}

static void registry_global_remove(void *data, struct wl_registry *registry, uint32_t name) {
	goRegistryGlobalRemove((uintptr_t)data, name);
}

static const struct wl_registry_listener registry_listener = {
	.global = registry_global,
	.global_remove = registry_global_remove,
};

const struct wl_registry_listener *dp_registry_listener(void) {
	return &registry_listener;
}

static void layer_surface_configure(void *data, struct zwlr_layer_surface_v1 *surface,
		uint32_t serial, uint32_t width, uint32_t height) {
	goLayerSurfaceConfigure((uintptr_t)data, surface, serial, width, height);
}

static void layer_surface_closed(void *data, struct zwlr_layer_surface_v1 *surface) {
	goLayerSurfaceClosed((uintptr_t)data);
}

static const struct zwlr_layer_surface_v1_listener layer_surface_listener = {
	.configure = layer_surface_configure,
	.closed = layer_surface_closed,
};

const struct zwlr_layer_surface_v1_listener *dp_layer_surface_listener(void) {
	return &layer_surface_listener;
}

static void output_geometry(void *data, struct wl_output *output,
		int32_t x, int32_t y, int32_t physical_width, int32_t physical_height,
		int32_t subpixel, const char *make, const char *model, int32_t transform) {
	goOutputGeometry((uintptr_t)data, transform);
}

static void output_mode(void *data, struct wl_output *output,
		uint32_t flags, int32_t width, int32_t height, int32_t refresh) {
}

static void output_done(void *data, struct wl_output *output) {
}

static void output_scale(void *data, struct wl_output *output, int32_t factor) {
	goOutputScale((uintptr_t)data, factor);
}

static const struct wl_output_listener output_listener = {
	.geometry = output_geometry,
	.mode = output_mode,
	.done = output_done,
	.scale = output_scale,
};

const struct wl_output_listener *dp_output_listener(void) {
	return &output_listener;
}
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"time"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/matjam/driftpaper/internal/display"
)

// Surface is the wallpaper's layer-shell surface on one output.
type Surface struct {
	displayConn *C.struct_wl_display
	registry    *C.struct_wl_registry
	compositor  *C.struct_wl_compositor
	layerShell  *C.struct_zwlr_layer_shell_v1
	output      *C.struct_wl_output
	surface     *C.struct_wl_surface
	layerSurf   *C.struct_zwlr_layer_surface_v1

	handle cgo.Handle
	info   *display.Info

	configChan chan struct{}
	configured bool
	resized    bool
	closed     bool
}

// Connect opens the Wayland display, binds the required globals and maps a
// background layer surface anchored to all four edges. It blocks until the
// compositor sends the first configure event.
func Connect() (*Surface, error) {
	conn := C.wl_display_connect(nil)
	if conn == nil {
		return nil, fmt.Errorf("connecting to the wayland display")
	}

	s := &Surface{
		displayConn: conn,
		info:        display.NewInfo(1, 1, 1, display.TransformNormal),
		configChan:  make(chan struct{}, 1),
	}
	s.handle = cgo.NewHandle(s)

	s.registry = C.wl_display_get_registry(conn)
	if s.registry == nil {
		s.Close()
		return nil, fmt.Errorf("getting the wayland registry")
	}
	C.wl_registry_add_listener(s.registry, C.dp_registry_listener(), unsafe.Pointer(uintptr(s.handle)))

	// Two roundtrips: one for the globals, one for the output events the
	// first bind triggers.
	C.wl_display_roundtrip(conn)
	C.wl_display_roundtrip(conn)

	if s.compositor == nil || s.layerShell == nil || s.output == nil {
		s.Close()
		return nil, fmt.Errorf("compositor is missing wl_compositor, wl_output or zwlr_layer_shell_v1")
	}

	if err := s.createLayerSurface(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Surface) createLayerSurface() error {
	s.surface = C.wl_compositor_create_surface(s.compositor)
	if s.surface == nil {
		return fmt.Errorf("creating the wl_surface")
	}

	namespace := C.CString("driftpaper")
	defer C.free(unsafe.Pointer(namespace))

	s.layerSurf = C.zwlr_layer_shell_v1_get_layer_surface(
		s.layerShell, s.surface, s.output,
		C.ZWLR_LAYER_SHELL_V1_LAYER_BACKGROUND, namespace)
	if s.layerSurf == nil {
		return fmt.Errorf("creating the layer surface")
	}
	C.zwlr_layer_surface_v1_add_listener(s.layerSurf, C.dp_layer_surface_listener(),
		unsafe.Pointer(uintptr(s.handle)))

	C.zwlr_layer_surface_v1_set_anchor(s.layerSurf,
		C.ZWLR_LAYER_SURFACE_V1_ANCHOR_TOP|
			C.ZWLR_LAYER_SURFACE_V1_ANCHOR_BOTTOM|
			C.ZWLR_LAYER_SURFACE_V1_ANCHOR_LEFT|
			C.ZWLR_LAYER_SURFACE_V1_ANCHOR_RIGHT)
	C.zwlr_layer_surface_v1_set_exclusive_zone(s.layerSurf, -1)
	C.zwlr_layer_surface_v1_set_size(s.layerSurf, 0, 0)
	C.zwlr_layer_surface_v1_set_keyboard_interactivity(s.layerSurf, 0)
	C.wl_surface_commit(s.surface)
	C.wl_display_roundtrip(s.displayConn)

	select {
	case <-s.configChan:
		log.Debug("layer surface configured",
			"width", s.info.ScaledWidth(), "height", s.info.ScaledHeight())
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timed out waiting for the layer surface configure")
	}
	return nil
}

// Info is the live output geometry. The surface layer mutates it from
// configure events; everything else reads it.
func (s *Surface) Info() *display.Info {
	return s.info
}

// DisplayHandle is the native wayland display pointer for EGL.
func (s *Surface) DisplayHandle() unsafe.Pointer {
	return unsafe.Pointer(s.displayConn)
}

// SurfaceHandle is the native wl_surface pointer for EGL window creation.
func (s *Surface) SurfaceHandle() unsafe.Pointer {
	return unsafe.Pointer(s.surface)
}

// Roundtrip processes pending Wayland events, blocking until the
// compositor has answered.
func (s *Surface) Roundtrip() error {
	if C.wl_display_roundtrip(s.displayConn) == -1 {
		return fmt.Errorf("wayland display roundtrip failed")
	}
	return nil
}

// TakeResize reports whether a configure event changed the surface size
// since the last call, clearing the flag.
func (s *Surface) TakeResize() bool {
	resized := s.resized
	s.resized = false
	return resized
}

// Closed reports whether the compositor has closed the layer surface.
func (s *Surface) Closed() bool {
	return s.closed
}

// Close tears down the surface and the display connection.
func (s *Surface) Close() {
	if s.layerSurf != nil {
		C.zwlr_layer_surface_v1_destroy(s.layerSurf)
		s.layerSurf = nil
	}
	if s.surface != nil {
		C.wl_surface_destroy(s.surface)
		s.surface = nil
	}
	if s.displayConn != nil {
		C.wl_display_disconnect(s.displayConn)
		s.displayConn = nil
	}
	if s.handle != 0 {
		s.handle.Delete()
		s.handle = 0
	}
}
