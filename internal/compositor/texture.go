package compositor

import (
	"image"
	"image/draw"

	"github.com/matjam/driftpaper/internal/glapi"
)

// uploadTexture creates one GPU texture from a decoded image: RGBA8 at the
// image's native size, full mipmap chain, linear filtering, repeat wrapping.
// Repeat wrapping matters for tile mode, whose texture coordinates run past
// [0,1]. Every GL call is checked immediately; on failure the half-built
// texture is deleted and the error returned.
func uploadTexture(g glapi.API, img image.Image) (uint32, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		tmp := image.NewRGBA(img.Bounds())
		draw.Draw(tmp, tmp.Bounds(), img, img.Bounds().Min, draw.Src)
		rgba = tmp
	}

	texture := g.GenTexture()
	if err := checkError(g, "generating a texture"); err != nil {
		return 0, err
	}

	steps := []struct {
		op   string
		call func()
	}{
		{"activating texture unit 0", func() { g.ActiveTexture(glapi.Texture0) }},
		{"binding the texture", func() { g.BindTexture(texture) }},
		{"uploading the texture image", func() {
			b := rgba.Bounds()
			g.TexImage2D(int32(b.Dx()), int32(b.Dy()), rgba.Pix)
		}},
		{"generating the mipmap", func() { g.GenerateMipmap() }},
		{"setting the min filter", func() { g.TexParameteri(glapi.TextureMinFilter, glapi.Linear) }},
		{"setting the mag filter", func() { g.TexParameteri(glapi.TextureMagFilter, glapi.Linear) }},
		{"setting horizontal wrapping", func() { g.TexParameteri(glapi.TextureWrapS, glapi.Repeat) }},
		{"setting vertical wrapping", func() { g.TexParameteri(glapi.TextureWrapT, glapi.Repeat) }},
	}
	for _, step := range steps {
		step.call()
		if err := checkError(g, step.op); err != nil {
			g.DeleteTexture(texture)
			return 0, err
		}
	}

	return texture, nil
}

// transparentImage is the 1x1 fully transparent placeholder sampled during
// the first half of a fit-mode transition.
func transparentImage() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

// checkError folds the GL error flag into the compositor's error taxonomy.
func checkError(g glapi.API, op string) error {
	if code := g.GetError(); code != glapi.NoError {
		return &glapi.Error{Op: op, Code: code}
	}
	return nil
}
