package types

import "fmt"

// BackgroundMode selects how a wallpaper image is mapped onto an output.
// The set is closed; every switch over it handles all four values.
type BackgroundMode string

const (
	// BackgroundStretch distorts the image to the full output rectangle.
	BackgroundStretch BackgroundMode = "stretch"
	// BackgroundFill covers the whole output, cropping the image on one axis.
	BackgroundFill BackgroundMode = "fill"
	// BackgroundFit letterboxes the image so all of it stays visible.
	BackgroundFit BackgroundMode = "fit"
	// BackgroundTile repeats the image at its native size.
	BackgroundTile BackgroundMode = "tile"
)

// ParseBackgroundMode converts a config string into a BackgroundMode.
func ParseBackgroundMode(s string) (BackgroundMode, error) {
	switch BackgroundMode(s) {
	case BackgroundStretch, BackgroundFill, BackgroundFit, BackgroundTile:
		return BackgroundMode(s), nil
	default:
		return "", fmt.Errorf("unknown background mode %q", s)
	}
}
