package compositor

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/matjam/driftpaper/internal/display"
	"github.com/matjam/driftpaper/internal/glapi"
	"github.com/matjam/driftpaper/internal/types"
)

func testImage(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func newTestRenderer(t *testing.T) (*Renderer, *fakeGL) {
	t.Helper()
	g := newFakeGL()
	info := display.NewInfo(1920, 1080, 1, display.TransformNormal)
	r, err := New(g, info)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r, g
}

func lastProgress(t *testing.T, g *fakeGL) float32 {
	t.Helper()
	loc, ok := g.uniformLocs["u_progress"]
	if !ok {
		t.Fatal("u_progress location never resolved")
	}
	values := g.floatUniforms[loc]
	if len(values) == 0 {
		t.Fatal("u_progress never written")
	}
	return values[len(values)-1]
}

func TestNewBuildsPipeline(t *testing.T) {
	_, g := newTestRenderer(t)

	if len(g.vboData) != 24 {
		t.Fatalf("vertex buffer allocated with %d floats, want 24", len(g.vboData))
	}
	for i, v := range g.vboData {
		if v != 0 {
			t.Fatalf("vertex buffer float %d = %v, want zero-initialized", i, v)
		}
	}

	wantEBO := []uint32{0, 1, 2, 2, 3, 0}
	if len(g.eboData) != len(wantEBO) {
		t.Fatalf("element buffer has %d indices, want %d", len(g.eboData), len(wantEBO))
	}
	for i, v := range wantEBO {
		if g.eboData[i] != v {
			t.Errorf("element buffer[%d] = %d, want %d", i, g.eboData[i], v)
		}
	}

	// Samplers: old image on unit 0, current on unit 1.
	if got := g.intUniforms[g.uniformLocs["u_old_texture"]]; got != 0 {
		t.Errorf("u_old_texture bound to unit %d, want 0", got)
	}
	if got := g.intUniforms[g.uniformLocs["u_current_texture"]]; got != 1 {
		t.Errorf("u_current_texture bound to unit %d, want 1", got)
	}

	// Interleaved layout: 2 floats per attribute, 24-byte stride.
	for index, want := range map[uint32][3]int32{0: {2, 24, 0}, 1: {2, 24, 8}, 2: {2, 24, 16}} {
		if got := g.attribs[index]; got != want {
			t.Errorf("attribute %d = %v, want %v", index, got, want)
		}
		if !g.enabledAttribs[index] {
			t.Errorf("attribute %d not enabled", index)
		}
	}
}

func TestNewShaderFailureIncludesInfoLog(t *testing.T) {
	g := newFakeGL()
	g.failCompile = true
	info := display.NewInfo(100, 100, 1, display.TransformNormal)
	if _, err := New(g, info); err == nil {
		t.Fatal("New() with failing compile returned nil error")
	}
}

func TestLoadWallpaperKeepsTwoLiveTextures(t *testing.T) {
	r, g := newTestRenderer(t)

	// One texture (the transparent placeholder) exists after construction.
	if got := len(g.liveTextures); got != 1 {
		t.Fatalf("live textures after New = %d, want 1", got)
	}

	for i := 0; i < 4; i++ {
		if err := r.LoadWallpaper(testImage(640, 480), types.BackgroundFill); err != nil {
			t.Fatalf("LoadWallpaper #%d error = %v", i+1, err)
		}
		slots := 0
		if r.old.texture != 0 {
			slots++
		}
		if r.current.texture != 0 {
			slots++
		}
		// At most two wallpaper textures plus the placeholder are ever live.
		if got := len(g.liveTextures); got != slots+1 {
			t.Fatalf("after load #%d: %d live textures, want %d", i+1, got, slots+1)
		}
	}

	// The slots never share a handle, and no deleted handle is still bound.
	if r.old.texture == r.current.texture {
		t.Error("old and current slots share a texture handle")
	}
	for _, dead := range g.deletedTextures {
		if dead == r.old.texture || dead == r.current.texture {
			t.Errorf("deleted texture %d still referenced by a slot", dead)
		}
	}
}

func TestLoadWallpaperRoleSwap(t *testing.T) {
	r, _ := newTestRenderer(t)

	if err := r.LoadWallpaper(testImage(640, 480), types.BackgroundFill); err != nil {
		t.Fatal(err)
	}
	first := r.current.texture
	if err := r.LoadWallpaper(testImage(800, 600), types.BackgroundFill); err != nil {
		t.Fatal(err)
	}
	if r.old.texture != first {
		t.Errorf("old slot texture = %d, want previous current %d", r.old.texture, first)
	}
	if r.old.imageWidth != 640 || r.old.imageHeight != 480 {
		t.Errorf("old slot dims = %dx%d, want 640x480", r.old.imageWidth, r.old.imageHeight)
	}
	if r.current.imageWidth != 800 || r.current.imageHeight != 600 {
		t.Errorf("current slot dims = %dx%d, want 800x600", r.current.imageWidth, r.current.imageHeight)
	}
}

func TestUploadTextureParameters(t *testing.T) {
	r, g := newTestRenderer(t)
	if err := r.LoadWallpaper(testImage(64, 64), types.BackgroundTile); err != nil {
		t.Fatal(err)
	}

	params := g.texParams[r.current.texture]
	if got := params[glapi.TextureMinFilter]; got != glapi.Linear {
		t.Errorf("min filter = %#x, want GL_LINEAR", got)
	}
	if got := params[glapi.TextureMagFilter]; got != glapi.Linear {
		t.Errorf("mag filter = %#x, want GL_LINEAR", got)
	}
	// Tile mode samples outside [0,1]; without repeat wrapping the edges
	// would smear.
	if got := params[glapi.TextureWrapS]; got != glapi.Repeat {
		t.Errorf("wrap s = %#x, want GL_REPEAT", got)
	}
	if got := params[glapi.TextureWrapT]; got != glapi.Repeat {
		t.Errorf("wrap t = %#x, want GL_REPEAT", got)
	}
	if !g.mipmapped[r.current.texture] {
		t.Error("mipmap chain not generated")
	}
	if got := g.texSizes[r.current.texture]; got != [2]int32{64, 64} {
		t.Errorf("texture uploaded at %v, want native 64x64", got)
	}
}

func TestLoadWallpaperPropagatesGLError(t *testing.T) {
	r, g := newTestRenderer(t)
	g.pendingErrors = []uint32{glapi.OutOfMemory}

	err := r.LoadWallpaper(testImage(16, 16), types.BackgroundFill)
	var glErr *glapi.Error
	if !errors.As(err, &glErr) {
		t.Fatalf("LoadWallpaper error = %v, want *glapi.Error", err)
	}
	if glErr.Code != glapi.OutOfMemory {
		t.Errorf("error code = %#x, want GL_OUT_OF_MEMORY", glErr.Code)
	}
}

func TestDrawProgress(t *testing.T) {
	r, g := newTestRenderer(t)
	if err := r.LoadWallpaper(testImage(1920, 1080), types.BackgroundStretch); err != nil {
		t.Fatal(err)
	}
	r.StartAnimation(500)

	cases := []struct {
		now  uint32
		want float32
	}{
		{500, 0},
		{650, 0.5},
		{800, 1},
		{2000, 1},
	}
	for _, tc := range cases {
		if err := r.Draw(tc.now, types.BackgroundStretch); err != nil {
			t.Fatalf("Draw(%d) error = %v", tc.now, err)
		}
		if got := lastProgress(t, g); got != tc.want {
			t.Errorf("Draw(%d) progress = %v, want %v", tc.now, got, tc.want)
		}
	}
	if g.drawCount != 6 {
		t.Errorf("DrawElements count = %d, want 6", g.drawCount)
	}
}

func TestFitTransitionMidpointSwap(t *testing.T) {
	r, g := newTestRenderer(t)

	// Two loads so both slots hold real textures.
	if err := r.LoadWallpaper(testImage(1000, 1000), types.BackgroundFit); err != nil {
		t.Fatal(err)
	}
	if err := r.LoadWallpaper(testImage(1000, 1000), types.BackgroundFit); err != nil {
		t.Fatal(err)
	}

	// After a fit-mode load the new image stays hidden behind the
	// transparent placeholder on unit 1.
	if got := g.unitBindings[glapi.Texture1]; got != r.transparent {
		t.Fatalf("unit 1 bound to %d after load, want transparent %d", got, r.transparent)
	}
	if got := g.unitBindings[glapi.Texture0]; got != r.old.texture {
		t.Fatalf("unit 0 bound to %d after load, want old %d", got, r.old.texture)
	}

	r.StartAnimation(0)
	writesBefore := g.vboSubWrites

	// First half: no swap yet.
	if err := r.Draw(100, types.BackgroundFit); err != nil {
		t.Fatal(err)
	}
	if r.fitSwapped {
		t.Fatal("fit swap ran before the midpoint")
	}
	if g.vboSubWrites != writesBefore {
		t.Fatal("vertex buffer rewritten before the midpoint")
	}

	// Just past the midpoint: swap runs exactly once.
	if err := r.Draw(151, types.BackgroundFit); err != nil {
		t.Fatal(err)
	}
	if !r.fitSwapped {
		t.Fatal("fit swap did not run past the midpoint")
	}
	if g.vboSubWrites != writesBefore+1 {
		t.Fatalf("vertex buffer writes = %d, want %d", g.vboSubWrites, writesBefore+1)
	}
	if got := g.unitBindings[glapi.Texture0]; got != r.transparent {
		t.Errorf("unit 0 bound to %d after swap, want transparent", got)
	}
	if got := g.unitBindings[glapi.Texture1]; got != r.current.texture {
		t.Errorf("unit 1 bound to %d after swap, want current", got)
	}

	// The rewritten quad is the current image's pillarboxed placement:
	// 1:1 image on a 16:9 display shrinks x by imageRatio/displayRatio.
	wantX := float32(1.0) / (float32(1920) / float32(1080))
	if got := g.vboData[0]; got != -wantX {
		t.Errorf("top-left x = %v, want %v", got, -wantX)
	}

	// Remapped blend just past the midpoint is near zero.
	if got := lastProgress(t, g); math.Abs(float64(got)-0.00666) > 1e-3 {
		t.Errorf("blend just past midpoint = %v, want ~0.0067", got)
	}

	// Later frames do not swap again.
	if err := r.Draw(200, types.BackgroundFit); err != nil {
		t.Fatal(err)
	}
	if g.vboSubWrites != writesBefore+1 {
		t.Error("fit swap ran more than once per transition")
	}

	// End of the transition lands fully opaque.
	if err := r.Draw(300, types.BackgroundFit); err != nil {
		t.Fatal(err)
	}
	if got := lastProgress(t, g); got != 1.0 {
		t.Errorf("blend at end of transition = %v, want 1.0", got)
	}
}

func TestStartAnimationResetsFitLatch(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.LoadWallpaper(testImage(500, 500), types.BackgroundFit); err != nil {
		t.Fatal(err)
	}
	r.StartAnimation(0)
	if err := r.Draw(200, types.BackgroundFit); err != nil {
		t.Fatal(err)
	}
	if !r.fitSwapped {
		t.Fatal("expected latch set after midpoint draw")
	}

	r.StartAnimation(1000)
	if r.fitSwapped {
		t.Error("StartAnimation did not clear the fit latch")
	}
}

func TestIsDrawingAnimation(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.StartAnimation(10)

	if !r.IsDrawingAnimation(10) {
		t.Error("IsDrawingAnimation(10) = false at start")
	}
	if !r.IsDrawingAnimation(309) {
		t.Error("IsDrawingAnimation(309) = false, want true")
	}
	if r.IsDrawingAnimation(310) {
		t.Error("IsDrawingAnimation(310) = true, want false")
	}
}

func TestResizeAppliesAdjustedViewport(t *testing.T) {
	g := newFakeGL()
	info := display.NewInfo(1920, 1080, 1, display.Transform90)
	r, err := New(g, info)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Resize(); err != nil {
		t.Fatal(err)
	}
	if got := g.viewport; got != [4]int32{0, 0, 1080, 1920} {
		t.Errorf("viewport = %v, want rotation-adjusted [0 0 1080 1920]", got)
	}
}

func TestDestroyReleasesEverything(t *testing.T) {
	r, g := newTestRenderer(t)
	if err := r.LoadWallpaper(testImage(100, 100), types.BackgroundFill); err != nil {
		t.Fatal(err)
	}
	if err := r.LoadWallpaper(testImage(100, 100), types.BackgroundFill); err != nil {
		t.Fatal(err)
	}

	r.Destroy()

	if len(g.liveTextures) != 0 {
		t.Errorf("%d textures still live after Destroy", len(g.liveTextures))
	}
	if len(g.liveBuffers) != 0 {
		t.Errorf("%d buffers still live after Destroy", len(g.liveBuffers))
	}
	if len(g.liveArrays) != 0 {
		t.Errorf("%d vertex arrays still live after Destroy", len(g.liveArrays))
	}
	if len(g.livePrograms) != 0 {
		t.Errorf("%d programs still live after Destroy", len(g.livePrograms))
	}
}
