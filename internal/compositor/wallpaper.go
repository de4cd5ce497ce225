package compositor

import (
	"image"

	"github.com/matjam/driftpaper/internal/display"
	"github.com/matjam/driftpaper/internal/glapi"
	"github.com/matjam/driftpaper/internal/types"
)

// wallpaper is one of the two image slots the renderer crossfades between.
// It owns exactly one GPU texture handle; loading a new image releases the
// previous one. The renderer swaps the roles of its two slots when a new
// image arrives, never their contents.
type wallpaper struct {
	texture     uint32
	imageWidth  int32
	imageHeight int32
	display     *display.Info
}

// newWallpaper returns an empty slot. The placeholder dimensions keep the
// geometry math defined before the first image is loaded.
func newWallpaper(info *display.Info) *wallpaper {
	return &wallpaper{texture: 0, imageWidth: 10, imageHeight: 10, display: info}
}

// loadImage uploads the decoded image into a fresh texture and releases the
// slot's previous handle.
func (w *wallpaper) loadImage(g glapi.API, img image.Image) error {
	texture, err := uploadTexture(g, img)
	if err != nil {
		return err
	}
	if w.texture != 0 {
		g.DeleteTexture(w.texture)
	}
	w.texture = texture
	w.imageWidth = int32(img.Bounds().Dx())
	w.imageHeight = int32(img.Bounds().Dy())
	return nil
}

// bind makes this slot's texture current on the active texture unit.
func (w *wallpaper) bind(g glapi.API) error {
	g.BindTexture(w.texture)
	return checkError(g, "binding the wallpaper texture")
}

func (w *wallpaper) release(g glapi.API) {
	if w.texture != 0 {
		g.DeleteTexture(w.texture)
		w.texture = 0
	}
}

// textureCoordinates derives this slot's sampling rectangle for the mode
// from the scaled display dimensions. Rotation is not applied here: GL draws
// in the same orientation as the display.
func (w *wallpaper) textureCoordinates(mode types.BackgroundMode) Coordinates {
	return textureCoordinates(
		w.display.ScaledWidth(), w.display.ScaledHeight(),
		w.imageWidth, w.imageHeight, mode)
}

// vertexCoordinatesForFit derives this slot's letterboxed quad placement.
func (w *wallpaper) vertexCoordinatesForFit() Coordinates {
	return vertexCoordinatesForFit(
		w.display.ScaledWidth(), w.display.ScaledHeight(),
		w.imageWidth, w.imageHeight)
}
