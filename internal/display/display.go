// Package display tracks the geometry of the output a wallpaper surface is
// mapped onto. The surface layer owns and mutates an Info; the compositor
// only reads it. Access is single-threaded by construction (everything runs
// on the GL thread), so there is no locking here.
package display

// Transform is the output rotation reported by the compositor.
type Transform int32

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
)

// rotated reports whether the transform swaps the axes of the output.
func (t Transform) rotated() bool {
	return t == Transform90 || t == Transform270
}

// Info holds the current mode of one output. Width and height are logical
// pixels as configured by the compositor; both are always positive.
type Info struct {
	width     int32
	height    int32
	scale     int32
	transform Transform
}

func NewInfo(width, height, scale int32, transform Transform) *Info {
	if scale < 1 {
		scale = 1
	}
	return &Info{width: width, height: height, scale: scale, transform: transform}
}

// SetMode replaces the logical dimensions of the output, reporting whether
// they changed.
func (i *Info) SetMode(width, height int32) bool {
	if i.width == width && i.height == height {
		return false
	}
	i.width = width
	i.height = height
	return true
}

func (i *Info) SetScale(scale int32) bool {
	if scale < 1 {
		scale = 1
	}
	if i.scale == scale {
		return false
	}
	i.scale = scale
	return true
}

func (i *Info) SetTransform(transform Transform) bool {
	if i.transform == transform {
		return false
	}
	i.transform = transform
	return true
}

// ScaledWidth is the buffer width after applying the output scale factor.
// Aspect-ratio math uses the scaled dimensions.
func (i *Info) ScaledWidth() int32 {
	return i.width * i.scale
}

func (i *Info) ScaledHeight() int32 {
	return i.height * i.scale
}

// AdjustedWidth is the scaled width after applying the output rotation.
// The viewport uses the adjusted dimensions.
func (i *Info) AdjustedWidth() int32 {
	if i.transform.rotated() {
		return i.ScaledHeight()
	}
	return i.ScaledWidth()
}

func (i *Info) AdjustedHeight() int32 {
	if i.transform.rotated() {
		return i.ScaledWidth()
	}
	return i.ScaledHeight()
}
