package compositor

import "github.com/matjam/driftpaper/internal/types"

// Coordinates is an axis-aligned rectangle used both for vertex positions in
// normalized device space and for texture sampling positions. It is a value
// type; geometry is always recomputed, never mutated in place.
type Coordinates struct {
	Left   float32
	Right  float32
	Bottom float32
	Top    float32
}

// Device-space quad bounds. Bottom/top follow the y-down texture origin of
// the platform, so bottom is +1 and top is -1.
const (
	vertexLeft   float32 = -1.0
	vertexRight  float32 = 1.0
	vertexBottom float32 = 1.0
	vertexTop    float32 = -1.0

	texLeft   float32 = 0.0
	texRight  float32 = 1.0
	texBottom float32 = 0.0
	texTop    float32 = 1.0
)

func defaultVertexCoordinates() Coordinates {
	return Coordinates{Left: vertexLeft, Right: vertexRight, Bottom: vertexBottom, Top: vertexTop}
}

func defaultTextureCoordinates() Coordinates {
	return Coordinates{Left: texLeft, Right: texRight, Bottom: texBottom, Top: texTop}
}

// textureCoordinates maps display and image dimensions to the texture-space
// rectangle sampled for the given mode. Stretch and fit always sample the
// full texture (fit corrects aspect in vertex space instead, see
// vertexCoordinatesForFit). Fill crops the longer axis symmetrically. Tile
// scales the right/top bounds past 1 and relies on repeat wrapping.
//
// Ratio equality is exact float32 equality, matching the fill boundary
// behavior of the original renderer. Dimensions that are ratio-equal but not
// bit-identical after division take one of the crop branches with a
// zero-sized inset, which renders identically.
func textureCoordinates(displayWidth, displayHeight, imageWidth, imageHeight int32, mode types.BackgroundMode) Coordinates {
	displayRatio := float32(displayWidth) / float32(displayHeight)
	imageRatio := float32(imageWidth) / float32(imageHeight)

	switch mode {
	case types.BackgroundStretch, types.BackgroundFit:
		return defaultTextureCoordinates()
	case types.BackgroundFill:
		switch {
		case displayRatio == imageRatio:
			return defaultTextureCoordinates()
		case displayRatio > imageRatio:
			// Display is wider: crop top and bottom. The inset is half of
			// what the image height exceeds the display-shaped height by,
			// which simplifies to (1 - displayRatio/imageRatio)/2.
			y := (1.0 - displayRatio/imageRatio) / 2.0
			return Coordinates{Left: texLeft, Right: texRight, Bottom: texBottom - y, Top: texTop + y}
		default:
			// Display is taller: same inset mirrored onto the x axis.
			x := (1.0 - displayRatio/imageRatio) / 2.0
			return Coordinates{Left: texLeft + x, Right: texRight - x, Bottom: texBottom, Top: texTop}
		}
	case types.BackgroundTile:
		// Repeat the image at its native size across the display.
		x := float32(displayWidth) / float32(imageWidth)
		y := float32(displayHeight) / float32(imageHeight)
		return Coordinates{Left: texLeft, Right: x, Bottom: texBottom, Top: y}
	}
	return defaultTextureCoordinates()
}

// vertexCoordinatesForFit places the image rectangle inside device space so
// the whole image stays visible: pillarboxed when the display is wider than
// the image, letterboxed when it is taller.
func vertexCoordinatesForFit(displayWidth, displayHeight, imageWidth, imageHeight int32) Coordinates {
	displayRatio := float32(displayWidth) / float32(displayHeight)
	imageRatio := float32(imageWidth) / float32(imageHeight)

	switch {
	case displayRatio == imageRatio:
		return defaultVertexCoordinates()
	case displayRatio > imageRatio:
		x := imageRatio / displayRatio
		return Coordinates{Left: -x, Right: x, Bottom: vertexBottom, Top: vertexTop}
	default:
		y := 1.0 - displayRatio/imageRatio
		return Coordinates{Left: vertexLeft, Right: vertexRight, Bottom: vertexBottom - y, Top: vertexTop + y}
	}
}
