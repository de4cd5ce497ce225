package compositor

import (
	"fmt"

	"github.com/matjam/driftpaper/internal/glapi"
)

const vertexShaderSource = `#version 150

in vec2 a_position;
in vec2 a_current_texcoord;
in vec2 a_old_texcoord;

out vec2 v_current_texcoord;
out vec2 v_old_texcoord;

void main() {
    gl_Position = vec4(a_position, 1.0, 1.0);
    v_current_texcoord = a_current_texcoord;
    v_old_texcoord = a_old_texcoord;
}
`

const fragmentShaderSource = `#version 150

in vec2 v_current_texcoord;
in vec2 v_old_texcoord;

uniform sampler2D u_old_texture;
uniform sampler2D u_current_texture;
uniform float u_progress;

out vec4 frag_color;

void main() {
    frag_color = mix(texture(u_old_texture, v_old_texcoord),
                     texture(u_current_texture, v_current_texcoord),
                     u_progress);
}
`

// Vertex attribute locations, bound before linking. The interleaved buffer
// layout in vertexData must match this order.
const (
	attribPosition        uint32 = 0
	attribCurrentTexcoord uint32 = 1
	attribOldTexcoord     uint32 = 2
)

// pipeline holds the GPU objects shared by every frame. They are created
// once at renderer construction and released together at teardown.
type pipeline struct {
	program     uint32
	vao         uint32
	vbo         uint32
	ebo         uint32
	progressLoc int32
}

// buildPipeline compiles and links the shader program, allocates the vertex
// and element buffers, and declares the vertex layout. The vertex buffer is
// sized for the 24-float quad and rewritten on every geometry change; the
// element buffer is written once and never again.
func buildPipeline(g glapi.API) (*pipeline, error) {
	program, err := linkProgram(g)
	if err != nil {
		return nil, err
	}

	g.UseProgram(program)
	if err := checkError(g, "selecting the program"); err != nil {
		return nil, err
	}

	vao := g.GenVertexArray()
	if err := checkError(g, "generating the vertex array"); err != nil {
		return nil, err
	}
	g.BindVertexArray(vao)
	if err := checkError(g, "binding the vertex array"); err != nil {
		return nil, err
	}

	vbo := g.GenBuffer()
	if err := checkError(g, "generating the vertex buffer"); err != nil {
		return nil, err
	}
	g.BindBuffer(glapi.ArrayBuffer, vbo)
	if err := checkError(g, "binding the vertex buffer"); err != nil {
		return nil, err
	}
	g.BufferDataFloat(glapi.ArrayBuffer, make([]float32, 24), glapi.StaticDraw)
	if err := checkError(g, "allocating the vertex buffer"); err != nil {
		return nil, err
	}

	ebo := g.GenBuffer()
	if err := checkError(g, "generating the element buffer"); err != nil {
		return nil, err
	}
	g.BindBuffer(glapi.ElementArrayBuffer, ebo)
	if err := checkError(g, "binding the element buffer"); err != nil {
		return nil, err
	}
	g.BufferDataUint(glapi.ElementArrayBuffer, quadIndices, glapi.StaticDraw)
	if err := checkError(g, "uploading the element buffer"); err != nil {
		return nil, err
	}

	stride := int32(vertexComponents * 4)
	attribs := []struct {
		index  uint32
		offset int
		op     string
	}{
		{attribPosition, 0, "position"},
		{attribCurrentTexcoord, 2 * 4, "current texcoord"},
		{attribOldTexcoord, 4 * 4, "old texcoord"},
	}
	for _, a := range attribs {
		g.VertexAttribFloat(a.index, 2, stride, a.offset)
		if err := checkError(g, "declaring the "+a.op+" attribute"); err != nil {
			return nil, err
		}
		g.EnableVertexAttribArray(a.index)
		if err := checkError(g, "enabling the "+a.op+" attribute"); err != nil {
			return nil, err
		}
	}

	// Old image samples from texture unit 0, current from unit 1. The draw
	// path depends on this binding order.
	g.Uniform1i(g.UniformLocation(program, "u_old_texture"), 0)
	if err := checkError(g, "binding the old sampler"); err != nil {
		return nil, err
	}
	g.Uniform1i(g.UniformLocation(program, "u_current_texture"), 1)
	if err := checkError(g, "binding the current sampler"); err != nil {
		return nil, err
	}

	return &pipeline{
		program:     program,
		vao:         vao,
		vbo:         vbo,
		ebo:         ebo,
		progressLoc: g.UniformLocation(program, "u_progress"),
	}, nil
}

func linkProgram(g glapi.API) (uint32, error) {
	vertex, err := compileShader(g, glapi.VertexShader, vertexShaderSource)
	if err != nil {
		return 0, err
	}
	fragment, err := compileShader(g, glapi.FragmentShader, fragmentShaderSource)
	if err != nil {
		g.DeleteShader(vertex)
		return 0, err
	}

	program := g.CreateProgram()
	if err := checkError(g, "creating the program"); err != nil {
		return 0, err
	}
	g.AttachShader(program, vertex)
	g.AttachShader(program, fragment)
	g.BindAttribLocation(program, attribPosition, "a_position")
	g.BindAttribLocation(program, attribCurrentTexcoord, "a_current_texcoord")
	g.BindAttribLocation(program, attribOldTexcoord, "a_old_texcoord")
	g.LinkProgram(program)
	if !g.ProgramLinked(program) {
		log := g.ProgramInfoLog(program)
		g.DeleteProgram(program)
		return 0, fmt.Errorf("linking the program: %s", log)
	}

	// Shaders are owned by the linked program from here on.
	g.DeleteShader(vertex)
	g.DeleteShader(fragment)

	return program, nil
}

func compileShader(g glapi.API, kind uint32, source string) (uint32, error) {
	shader := g.CreateShader(kind)
	if err := checkError(g, "creating a shader"); err != nil {
		return 0, err
	}
	g.ShaderSource(shader, source)
	g.CompileShader(shader)
	if !g.ShaderCompiled(shader) {
		log := g.ShaderInfoLog(shader)
		g.DeleteShader(shader)
		return 0, fmt.Errorf("compiling a shader: %s", log)
	}
	return shader, nil
}

func (p *pipeline) release(g glapi.API) {
	g.DeleteBuffer(p.ebo)
	g.DeleteBuffer(p.vbo)
	g.DeleteVertexArray(p.vao)
	g.DeleteProgram(p.program)
}
