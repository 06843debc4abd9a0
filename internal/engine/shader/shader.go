// Package shader compiles OpenGL programs and caches their uniform locations.
package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program is a linked shader program.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// New compiles vertex and fragment sources and links them.
func New(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{ID: id, uniforms: make(map[string]int32)}, nil
}

// Use binds the program.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Uniform returns the location of a uniform, or -1 if it is inactive.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// Delete releases the program.
func (p *Program) Delete() {
	if p != nil && p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

// CompileProgram compiles both stages and links them. The stage objects are
// released whether or not linking succeeds.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compile(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compile(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var ok int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(func(n int32, buf *uint8) { gl.GetProgramInfoLog(prog, n, nil, buf) },
			func(n *int32) { gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, n) })
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link: %s", msg)
	}
	return prog, nil
}

func compile(kind uint32, source string) (uint32, error) {
	sh := gl.CreateShader(kind)
	src, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, src, nil)
	free()
	gl.CompileShader(sh)

	var ok int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(func(n int32, buf *uint8) { gl.GetShaderInfoLog(sh, n, nil, buf) },
			func(n *int32) { gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, n) })
		gl.DeleteShader(sh)
		return 0, errors.New(msg)
	}
	return sh, nil
}

// infoLog reads a shader or program log through the matching GL getters.
func infoLog(read func(n int32, buf *uint8), length func(n *int32)) string {
	var n int32
	length(&n)
	if n <= 0 {
		return "no info log"
	}
	buf := make([]byte, n+1)
	read(n, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n ")
}
