package wayland

/*
#include <stdint.h>
#include <wayland-client.h>
#include "wlr-layer-shell-unstable-v1-client-protocol.h"

extern const struct wl_output_listener *dp_output_listener(void);
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/matjam/driftpaper/internal/display"
)

func surfaceFromHandle(handle C.uintptr_t) *Surface {
	return cgo.Handle(uintptr(handle)).Value().(*Surface)
}

//export goRegistryGlobal
func goRegistryGlobal(handle C.uintptr_t, registry *C.struct_wl_registry,
	name C.uint32_t, iface *C.char, version C.uint32_t) {
	s := surfaceFromHandle(handle)

	switch C.GoString(iface) {
	case "wl_compositor":
		proxy := C.wl_registry_bind(registry, name, &C.wl_compositor_interface, 4)
		s.compositor = (*C.struct_wl_compositor)(proxy)
	case "zwlr_layer_shell_v1":
		proxy := C.wl_registry_bind(registry, name, &C.zwlr_layer_shell_v1_interface, 1)
		s.layerShell = (*C.struct_zwlr_layer_shell_v1)(proxy)
	case "wl_output":
		// First output only.
		if s.output != nil {
			return
		}
		proxy := C.wl_registry_bind(registry, name, &C.wl_output_interface, 3)
		s.output = (*C.struct_wl_output)(proxy)
		C.wl_output_add_listener(s.output, C.dp_output_listener(),
			unsafe.Pointer(uintptr(handle)))
	}
}

//export goRegistryGlobalRemove
func goRegistryGlobalRemove(handle C.uintptr_t, name C.uint32_t) {
}

//export goLayerSurfaceConfigure
func goLayerSurfaceConfigure(handle C.uintptr_t, surface *C.struct_zwlr_layer_surface_v1,
	serial C.uint32_t, width C.uint32_t, height C.uint32_t) {
	s := surfaceFromHandle(handle)

	C.zwlr_layer_surface_v1_ack_configure(surface, serial)
	if width == 0 || height == 0 {
		return
	}

	changed := s.info.SetMode(int32(width), int32(height))
	if s.configured && changed {
		s.resized = true
	}
	if !s.configured {
		s.configured = true
		select {
		case s.configChan <- struct{}{}:
		default:
		}
	}
	log.Debug("layer surface configure", "width", width, "height", height)
}

//export goLayerSurfaceClosed
func goLayerSurfaceClosed(handle C.uintptr_t) {
	s := surfaceFromHandle(handle)
	s.closed = true
	log.Debug("layer surface closed by the compositor")
}

//export goOutputGeometry
func goOutputGeometry(handle C.uintptr_t, transform C.int32_t) {
	s := surfaceFromHandle(handle)

	// Flipped variants rotate the same way as their plain counterparts.
	var t display.Transform
	switch transform % 4 {
	case 1:
		t = display.Transform90
	case 2:
		t = display.Transform180
	case 3:
		t = display.Transform270
	default:
		t = display.TransformNormal
	}
	if s.info.SetTransform(t) && s.configured {
		s.resized = true
	}
}

//export goOutputScale
func goOutputScale(handle C.uintptr_t, factor C.int32_t) {
	s := surfaceFromHandle(handle)
	if s.info.SetScale(int32(factor)) && s.configured {
		s.resized = true
	}
}
