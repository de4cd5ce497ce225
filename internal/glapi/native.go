package glapi

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.2-core/gl"
)

// native forwards to the go-gl 3.2 core bindings.
type native struct{}

// Load resolves the GL entry points through the context's proc-address
// lookup and returns the live API. The context must be current.
func Load(procAddr func(name string) unsafe.Pointer) (API, error) {
	if err := gl.InitWithProcAddrFunc(procAddr); err != nil {
		return nil, fmt.Errorf("loading opengl functions: %w", err)
	}
	return native{}, nil
}

func (native) Clear(mask uint32)                { gl.Clear(mask) }
func (native) Viewport(x, y, w, h int32)        { gl.Viewport(x, y, w, h) }
func (native) GetError() uint32                 { return gl.GetError() }
func (native) CreateShader(kind uint32) uint32  { return gl.CreateShader(kind) }
func (native) CompileShader(shader uint32)      { gl.CompileShader(shader) }
func (native) DeleteShader(shader uint32)       { gl.DeleteShader(shader) }
func (native) CreateProgram() uint32            { return gl.CreateProgram() }
func (native) AttachShader(p, s uint32)         { gl.AttachShader(p, s) }
func (native) LinkProgram(program uint32)       { gl.LinkProgram(program) }
func (native) UseProgram(program uint32)        { gl.UseProgram(program) }
func (native) DeleteProgram(program uint32)     { gl.DeleteProgram(program) }
func (native) Uniform1i(loc, v int32)           { gl.Uniform1i(loc, v) }
func (native) Uniform1f(loc int32, v float32)   { gl.Uniform1f(loc, v) }
func (native) BindVertexArray(array uint32)     { gl.BindVertexArray(array) }
func (native) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }
func (native) EnableVertexAttribArray(i uint32) { gl.EnableVertexAttribArray(i) }
func (native) ActiveTexture(unit uint32)        { gl.ActiveTexture(unit) }
func (native) BindTexture(texture uint32)       { gl.BindTexture(gl.TEXTURE_2D, texture) }
func (native) GenerateMipmap()                  { gl.GenerateMipmap(gl.TEXTURE_2D) }
func (native) DrawElements(mode uint32, count int32) {
	gl.DrawElements(mode, count, gl.UNSIGNED_INT, nil)
}

func (native) ShaderSource(shader uint32, src string) {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (native) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (native) ShaderInfoLog(shader uint32) string {
	var length int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gl.GetShaderInfoLog(shader, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (native) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
}

func (native) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (native) ProgramInfoLog(program uint32) string {
	var length int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gl.GetProgramInfoLog(program, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (native) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (native) GenVertexArray() uint32 {
	var array uint32
	gl.GenVertexArrays(1, &array)
	return array
}

func (native) DeleteVertexArray(array uint32) {
	gl.DeleteVertexArrays(1, &array)
}

func (native) GenBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (native) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (native) BufferDataFloat(target uint32, data []float32, usage uint32) {
	gl.BufferData(target, len(data)*4, gl.Ptr(data), usage)
}

func (native) BufferDataUint(target uint32, data []uint32, usage uint32) {
	gl.BufferData(target, len(data)*4, gl.Ptr(data), usage)
}

func (native) BufferSubDataFloat(target uint32, offset int, data []float32) {
	gl.BufferSubData(target, offset, len(data)*4, gl.Ptr(data))
}

func (native) VertexAttribFloat(index uint32, size, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, gl.FLOAT, false, stride, uintptr(offset))
}

func (native) GenTexture() uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	return texture
}

func (native) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (native) TexImage2D(width, height int32, pixels []byte) {
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

func (native) TexParameteri(pname uint32, param int32) {
	gl.TexParameteri(gl.TEXTURE_2D, pname, param)
}
