package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/fcurrie/led-shine-golang/internal/state"
)

// The quad is drawn as a single triangle strip across the three panels.
// The degenerate middle vertices split the strip so each panel gets its own
// slice of the circular coordinate space.
var quadVerts = []float32{
	-1, -1, 0, -1, 1, 0,
	-0.33, -1, 0, -0.33, 1, 0,
	-0.33, -1, 0, -0.33, 1, 0,
	0.33, -1, 0, 0.33, 1, 0,
	0.33, -1, 0, 0.33, 1, 0,
	1, -1, 0, 1, 1, 0,
}

var quadCoords = []float32{
	-0.866, -0.5, -0.866, 0.5,
	0, -1, 0, 0,
	0, -1, 0.866, -0.5,
	0, 0, 0.866, 0.5,
	0, 0, 0.866, 0.5,
	-0.866, 0.5, 0, 1,
}

// Pipeline wraps the compiled shader program, the panel quad and the
// readback buffer. Not safe for use off the GL thread.
type Pipeline struct {
	width, height int

	program uint32
	vao     uint32
	vbos    [2]uint32

	uTime    int32
	uAge     int32
	uHeat    int32
	uSegment int32
	uGeom    int32
	uBg      int32
	uElement int32
	uWidth   int32
	uPercent int32

	pix []byte
}

// NewPipeline compiles and links the shader pair, uploads the quad and
// caches every uniform location. The context must already be current.
func NewPipeline(width, height int, vertexSrc, fragmentSrc string) (*Pipeline, error) {
	program, err := newProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	gl.UseProgram(program)

	p := &Pipeline{
		width:   width,
		height:  height,
		program: program,
		pix:     make([]byte, width*height*3),
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)
	gl.GenBuffers(2, &p.vbos[0])

	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbos[0])
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(quadVerts), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbos[1])
	gl.BufferData(gl.ARRAY_BUFFER, len(quadCoords)*4, gl.Ptr(quadCoords), gl.STATIC_DRAW)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)

	p.uTime = gl.GetUniformLocation(program, gl.Str("time\x00"))
	p.uAge = gl.GetUniformLocation(program, gl.Str("age\x00"))
	p.uHeat = gl.GetUniformLocation(program, gl.Str("heatLevel\x00"))
	p.uSegment = gl.GetUniformLocation(program, gl.Str("segment\x00"))
	p.uGeom = gl.GetUniformLocation(program, gl.Str("geom\x00"))
	p.uBg = gl.GetUniformLocation(program, gl.Str("bgColor\x00"))
	p.uElement = gl.GetUniformLocation(program, gl.Str("elementColor\x00"))
	p.uWidth = gl.GetUniformLocation(program, gl.Str("width\x00"))
	p.uPercent = gl.GetUniformLocation(program, gl.Str("percent\x00"))

	gl.Viewport(0, 0, int32(width), int32(height))

	return p, nil
}

// Draw renders one frame and reads it back as tightly packed RGB with a
// bottom-left origin. The returned slice is reused between calls.
func (p *Pipeline) Draw(f state.Frame, renderTime float64) []byte {
	gl.UseProgram(p.program)
	gl.BindVertexArray(p.vao)

	gl.Uniform1f(p.uTime, float32(renderTime))
	gl.Uniform1f(p.uAge, float32(f.Age))
	gl.Uniform1f(p.uHeat, f.Heat)
	seg := f.Segments
	gl.Uniform1fv(p.uSegment, int32(len(seg)), &seg[0])
	gl.Uniform1i(p.uGeom, int32(f.Geometry))
	gl.Uniform3f(p.uBg, f.BackgroundColor[0], f.BackgroundColor[1], f.BackgroundColor[2])
	gl.Uniform3f(p.uElement, f.ElementColor[0], f.ElementColor[1], f.ElementColor[2])
	gl.Uniform1f(p.uWidth, f.Width)
	gl.Uniform1f(p.uPercent, f.Percent)

	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 12)
	gl.ReadPixels(0, 0, int32(p.width), int32(p.height), gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(p.pix))

	return p.pix
}

// Close releases the GL objects.
func (p *Pipeline) Close() {
	gl.DeleteBuffers(2, &p.vbos[0])
	gl.DeleteVertexArrays(1, &p.vao)
	gl.DeleteProgram(p.program)
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logBytes := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &logBytes[0])
		gl.DeleteShader(shader)
		kind := "vertex"
		if shaderType == gl.FRAGMENT_SHADER {
			kind = "fragment"
		}
		return 0, fmt.Errorf("compile %s shader: %s", kind, strings.TrimRight(string(logBytes), "\x00"))
	}
	return shader, nil
}

func newProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logBytes := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &logBytes[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link shader program: %s", strings.TrimRight(string(logBytes), "\x00"))
	}

	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	return program, nil
}
