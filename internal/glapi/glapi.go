// Package glapi narrows the OpenGL surface the compositor touches down to
// the calls it actually makes, behind an interface. The real implementation
// forwards to go-gl; tests substitute a recording fake so the compositor's
// binding and lifetime rules can be checked without a GPU.
package glapi

import "fmt"

// GL enum values used by the compositor. Only 2D textures and float vertex
// attributes are supported, so the per-call target/type parameters of the C
// API are folded into the methods.
const (
	NoError              uint32 = 0
	InvalidEnum          uint32 = 0x0500
	InvalidValue         uint32 = 0x0501
	InvalidOperation     uint32 = 0x0502
	OutOfMemory          uint32 = 0x0505
	ColorBufferBit       uint32 = 0x4000
	Texture0             uint32 = 0x84C0
	Texture1             uint32 = 0x84C1
	TextureMinFilter     uint32 = 0x2801
	TextureMagFilter     uint32 = 0x2800
	TextureWrapS         uint32 = 0x2802
	TextureWrapT         uint32 = 0x2803
	Linear               int32  = 0x2601
	Repeat               int32  = 0x2901
	ArrayBuffer          uint32 = 0x8892
	ElementArrayBuffer   uint32 = 0x8893
	StaticDraw           uint32 = 0x88E4
	VertexShader         uint32 = 0x8B31
	FragmentShader       uint32 = 0x8B30
	Triangles            uint32 = 0x0004
)

// API is the set of GL entry points the compositor uses. Implementations are
// not safe for concurrent use; all calls must come from the thread holding
// the current context.
type API interface {
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	GetError() uint32

	CreateShader(kind uint32) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	BindAttribLocation(program, index uint32, name string)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location, value int32)
	Uniform1f(location int32, value float32)

	GenVertexArray() uint32
	BindVertexArray(array uint32)
	DeleteVertexArray(array uint32)
	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferDataFloat(target uint32, data []float32, usage uint32)
	BufferDataUint(target uint32, data []uint32, usage uint32)
	BufferSubDataFloat(target uint32, offset int, data []float32)
	DeleteBuffer(buffer uint32)
	VertexAttribFloat(index uint32, size, stride int32, offset int)
	EnableVertexAttribArray(index uint32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(texture uint32)
	TexImage2D(width, height int32, pixels []byte)
	TexParameteri(pname uint32, param int32)
	GenerateMipmap()
	DeleteTexture(texture uint32)

	DrawElements(mode uint32, count int32)
}

// Error is a failed GL call, detected via GetError immediately after the
// call that produced it.
type Error struct {
	Op   string
	Code uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("opengl error while %s: 0x%04x (%s)", e.Op, e.Code, ErrorName(e.Code))
}

// ErrorName gives the symbolic name for a GL error code.
func ErrorName(code uint32) string {
	switch code {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	default:
		return "unknown"
	}
}
