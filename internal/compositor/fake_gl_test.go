package compositor

import (
	"github.com/matjam/driftpaper/internal/glapi"
)

// fakeGL records enough GL state to verify the renderer's binding order,
// buffer contents and object lifetimes without a GPU.
type fakeGL struct {
	nextID uint32

	liveTextures    map[uint32]bool
	deletedTextures []uint32
	texParams       map[uint32]map[uint32]int32
	mipmapped       map[uint32]bool
	texSizes        map[uint32][2]int32

	activeUnit   uint32
	unitBindings map[uint32]uint32

	liveBuffers    map[uint32]bool
	boundBuffers   map[uint32]uint32
	vboData        []float32
	vboSubWrites   int
	eboData        []uint32
	liveArrays     map[uint32]bool
	attribs        map[uint32][3]int32 // index -> size, stride, offset
	enabledAttribs map[uint32]bool

	livePrograms map[uint32]bool
	liveShaders  map[uint32]bool
	usedProgram  uint32
	failCompile  bool
	failLink     bool

	uniformLocs   map[string]int32
	nextLoc       int32
	intUniforms   map[int32]int32
	floatUniforms map[int32][]float32

	clears    int
	draws     int
	drawCount int32
	viewport  [4]int32

	// pendingErrors is drained by GetError, one code per call.
	pendingErrors []uint32
}

func newFakeGL() *fakeGL {
	return &fakeGL{
		liveTextures:   map[uint32]bool{},
		texParams:      map[uint32]map[uint32]int32{},
		mipmapped:      map[uint32]bool{},
		texSizes:       map[uint32][2]int32{},
		unitBindings:   map[uint32]uint32{},
		liveBuffers:    map[uint32]bool{},
		boundBuffers:   map[uint32]uint32{},
		liveArrays:     map[uint32]bool{},
		attribs:        map[uint32][3]int32{},
		enabledAttribs: map[uint32]bool{},
		livePrograms:   map[uint32]bool{},
		liveShaders:    map[uint32]bool{},
		uniformLocs:    map[string]int32{},
		intUniforms:    map[int32]int32{},
		floatUniforms:  map[int32][]float32{},
		activeUnit:     glapi.Texture0,
	}
}

func (f *fakeGL) id() uint32 {
	f.nextID++
	return f.nextID
}

func (f *fakeGL) Clear(mask uint32)         { f.clears++ }
func (f *fakeGL) Viewport(x, y, w, h int32) { f.viewport = [4]int32{x, y, w, h} }

func (f *fakeGL) GetError() uint32 {
	if len(f.pendingErrors) > 0 {
		code := f.pendingErrors[0]
		f.pendingErrors = f.pendingErrors[1:]
		return code
	}
	return glapi.NoError
}

func (f *fakeGL) CreateShader(kind uint32) uint32 {
	s := f.id()
	f.liveShaders[s] = true
	return s
}
func (f *fakeGL) ShaderSource(shader uint32, src string) {}
func (f *fakeGL) CompileShader(shader uint32)            {}
func (f *fakeGL) ShaderCompiled(shader uint32) bool      { return !f.failCompile }
func (f *fakeGL) ShaderInfoLog(shader uint32) string     { return "0:1: fake compile failure" }
func (f *fakeGL) DeleteShader(shader uint32)             { delete(f.liveShaders, shader) }

func (f *fakeGL) CreateProgram() uint32 {
	p := f.id()
	f.livePrograms[p] = true
	return p
}
func (f *fakeGL) AttachShader(program, shader uint32)                  {}
func (f *fakeGL) BindAttribLocation(program, index uint32, name string) {}
func (f *fakeGL) LinkProgram(program uint32)                           {}
func (f *fakeGL) ProgramLinked(program uint32) bool                    { return !f.failLink }
func (f *fakeGL) ProgramInfoLog(program uint32) string                 { return "fake link failure" }
func (f *fakeGL) UseProgram(program uint32)                            { f.usedProgram = program }
func (f *fakeGL) DeleteProgram(program uint32)                         { delete(f.livePrograms, program) }

func (f *fakeGL) UniformLocation(program uint32, name string) int32 {
	if loc, ok := f.uniformLocs[name]; ok {
		return loc
	}
	loc := f.nextLoc
	f.nextLoc++
	f.uniformLocs[name] = loc
	return loc
}
func (f *fakeGL) Uniform1i(location, value int32) { f.intUniforms[location] = value }
func (f *fakeGL) Uniform1f(location int32, value float32) {
	f.floatUniforms[location] = append(f.floatUniforms[location], value)
}

func (f *fakeGL) GenVertexArray() uint32 {
	a := f.id()
	f.liveArrays[a] = true
	return a
}
func (f *fakeGL) BindVertexArray(array uint32)   {}
func (f *fakeGL) DeleteVertexArray(array uint32) { delete(f.liveArrays, array) }

func (f *fakeGL) GenBuffer() uint32 {
	b := f.id()
	f.liveBuffers[b] = true
	return b
}
func (f *fakeGL) BindBuffer(target, buffer uint32) { f.boundBuffers[target] = buffer }
func (f *fakeGL) DeleteBuffer(buffer uint32)       { delete(f.liveBuffers, buffer) }

func (f *fakeGL) BufferDataFloat(target uint32, data []float32, usage uint32) {
	if target == glapi.ArrayBuffer {
		f.vboData = append([]float32(nil), data...)
	}
}
func (f *fakeGL) BufferDataUint(target uint32, data []uint32, usage uint32) {
	if target == glapi.ElementArrayBuffer {
		f.eboData = append([]uint32(nil), data...)
	}
}
func (f *fakeGL) BufferSubDataFloat(target uint32, offset int, data []float32) {
	if target == glapi.ArrayBuffer {
		f.vboSubWrites++
		copy(f.vboData[offset/4:], data)
	}
}

func (f *fakeGL) VertexAttribFloat(index uint32, size, stride int32, offset int) {
	f.attribs[index] = [3]int32{size, stride, int32(offset)}
}
func (f *fakeGL) EnableVertexAttribArray(index uint32) { f.enabledAttribs[index] = true }

func (f *fakeGL) GenTexture() uint32 {
	t := f.id()
	f.liveTextures[t] = true
	f.texParams[t] = map[uint32]int32{}
	return t
}
func (f *fakeGL) ActiveTexture(unit uint32) { f.activeUnit = unit }
func (f *fakeGL) BindTexture(texture uint32) {
	f.unitBindings[f.activeUnit] = texture
}
func (f *fakeGL) TexImage2D(width, height int32, pixels []byte) {
	f.texSizes[f.bound()] = [2]int32{width, height}
}
func (f *fakeGL) TexParameteri(pname uint32, param int32) {
	if params, ok := f.texParams[f.bound()]; ok {
		params[pname] = param
	}
}
func (f *fakeGL) GenerateMipmap() { f.mipmapped[f.bound()] = true }
func (f *fakeGL) DeleteTexture(texture uint32) {
	delete(f.liveTextures, texture)
	f.deletedTextures = append(f.deletedTextures, texture)
}

func (f *fakeGL) DrawElements(mode uint32, count int32) {
	f.draws++
	f.drawCount = count
}

// bound is the texture on the active unit.
func (f *fakeGL) bound() uint32 {
	return f.unitBindings[f.activeUnit]
}
