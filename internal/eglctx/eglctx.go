// Package eglctx owns the EGL side of the wallpaper surface: the connection
// between the Wayland display and the GL context, and the window surface
// frames are presented into. Resizing is destroy-and-recreate; EGL has no
// in-place resize for window surfaces, so after Resize the caller must make
// the context current again and reapply its viewport.
package eglctx

/*
#cgo LDFLAGS: -lEGL -lwayland-egl
#include <stdlib.h>
#include <EGL/egl.h>
#include <wayland-egl.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Placeholder size for the first window surface; the output's real size is
// unknown until the first configure event, after which Resize runs.
const initialSize = 10

// Context binds a Wayland surface to an EGL context and window surface.
type Context struct {
	display C.EGLDisplay
	context C.EGLContext
	config  C.EGLConfig
	window  *C.struct_wl_egl_window
	surface C.EGLSurface
}

// New initializes EGL on the Wayland display, picks a config with at least
// 8 bits per color channel, creates a 3.2 context and wraps wlSurface in a
// window surface at a placeholder size.
func New(waylandDisplay, wlSurface unsafe.Pointer) (*Context, error) {
	dpy := C.eglGetDisplay(C.EGLNativeDisplayType(waylandDisplay))
	if dpy == nil {
		return nil, fmt.Errorf("no EGL display for the wayland connection")
	}
	if C.eglInitialize(dpy, nil, nil) == C.EGL_FALSE {
		return nil, eglError("initializing EGL")
	}
	if C.eglBindAPI(C.EGL_OPENGL_API) == C.EGL_FALSE {
		return nil, eglError("binding the OpenGL API")
	}

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_WINDOW_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var numConfigs C.EGLint
	if C.eglChooseConfig(dpy, &configAttribs[0], &config, 1, &numConfigs) == C.EGL_FALSE {
		return nil, eglError("choosing an EGL config")
	}
	if numConfigs == 0 {
		return nil, fmt.Errorf("no EGL config with 8 bits per color channel")
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_MAJOR_VERSION, 3,
		C.EGL_CONTEXT_MINOR_VERSION, 2,
		C.EGL_NONE,
	}
	context := C.eglCreateContext(dpy, config, nil, &contextAttribs[0])
	if context == nil {
		return nil, eglError("creating the EGL context")
	}

	c := &Context{display: dpy, context: context, config: config}
	if err := c.createSurface(wlSurface, initialSize, initialSize); err != nil {
		C.eglDestroyContext(dpy, context)
		return nil, err
	}
	return c, nil
}

// MakeCurrent binds the display, surface and context to the calling thread.
func (c *Context) MakeCurrent() error {
	if C.eglMakeCurrent(c.display, c.surface, c.surface, c.context) == C.EGL_FALSE {
		return eglError("making the context current")
	}
	return nil
}

// SwapBuffers presents the finished frame.
func (c *Context) SwapBuffers() error {
	if C.eglSwapBuffers(c.display, c.surface) == C.EGL_FALSE {
		return eglError("posting the surface content")
	}
	return nil
}

// Resize destroys the window surface and recreates it at the new size.
// The current-context binding is invalidated; call MakeCurrent afterwards,
// then reapply the viewport.
func (c *Context) Resize(wlSurface unsafe.Pointer, width, height int32) error {
	C.eglDestroySurface(c.display, c.surface)
	c.surface = nil
	if c.window != nil {
		C.wl_egl_window_destroy(c.window)
		c.window = nil
	}
	return c.createSurface(wlSurface, width, height)
}

// Destroy releases the surface, window and context. The EGL display itself
// stays initialized; terminating it would tear down any other context on
// the same Wayland connection.
func (c *Context) Destroy() {
	if c.surface != nil {
		C.eglDestroySurface(c.display, c.surface)
		c.surface = nil
	}
	if c.window != nil {
		C.wl_egl_window_destroy(c.window)
		c.window = nil
	}
	if c.context != nil {
		C.eglDestroyContext(c.display, c.context)
		c.context = nil
	}
}

// ProcAddress resolves a GL entry point through EGL, for handing to the GL
// bindings loader.
func (c *Context) ProcAddress(name string) unsafe.Pointer {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return unsafe.Pointer(C.eglGetProcAddress(cname))
}

func (c *Context) createSurface(wlSurface unsafe.Pointer, width, height int32) error {
	window := C.wl_egl_window_create((*C.struct_wl_surface)(wlSurface), C.int(width), C.int(height))
	if window == nil {
		return fmt.Errorf("creating the wl_egl_window")
	}

	surface := C.eglCreateWindowSurface(c.display, c.config,
		C.EGLNativeWindowType(uintptr(unsafe.Pointer(window))), nil)
	if surface == nil {
		C.wl_egl_window_destroy(window)
		return eglError("creating the EGL window surface")
	}

	c.window = window
	c.surface = surface
	return nil
}

func eglError(op string) error {
	return fmt.Errorf("%s: %s", op, errorName(C.eglGetError()))
}

func errorName(code C.EGLint) string {
	switch code {
	case C.EGL_SUCCESS:
		return "EGL_SUCCESS"
	case C.EGL_NOT_INITIALIZED:
		return "EGL_NOT_INITIALIZED"
	case C.EGL_BAD_ACCESS:
		return "EGL_BAD_ACCESS"
	case C.EGL_BAD_ALLOC:
		return "EGL_BAD_ALLOC"
	case C.EGL_BAD_ATTRIBUTE:
		return "EGL_BAD_ATTRIBUTE"
	case C.EGL_BAD_CONFIG:
		return "EGL_BAD_CONFIG"
	case C.EGL_BAD_CONTEXT:
		return "EGL_BAD_CONTEXT"
	case C.EGL_BAD_CURRENT_SURFACE:
		return "EGL_BAD_CURRENT_SURFACE"
	case C.EGL_BAD_DISPLAY:
		return "EGL_BAD_DISPLAY"
	case C.EGL_BAD_MATCH:
		return "EGL_BAD_MATCH"
	case C.EGL_BAD_NATIVE_PIXMAP:
		return "EGL_BAD_NATIVE_PIXMAP"
	case C.EGL_BAD_NATIVE_WINDOW:
		return "EGL_BAD_NATIVE_WINDOW"
	case C.EGL_BAD_PARAMETER:
		return "EGL_BAD_PARAMETER"
	case C.EGL_BAD_SURFACE:
		return "EGL_BAD_SURFACE"
	case C.EGL_CONTEXT_LOST:
		return "EGL_CONTEXT_LOST"
	default:
		return fmt.Sprintf("0x%04x", int(code))
	}
}
