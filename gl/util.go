package gl

import (
	"strings"

	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Program is a linked shader program.
//
type Program struct {
	id       uint32
	uniforms map[string]int32
}

// Release deletes the program.
//
func (p *Program) Release() error {
	if p.id == 0 {
		return errors.New("program already released")
	}
	gl.DeleteProgram(p.id)
	p.id = 0
	return nil
}

// UniformLocation returns the location of the named uniform, or -1 if the
// program has no such active uniform.
//
func (p *Program) UniformLocation(name string) int32 {
	if l, ok := p.uniforms[name]; ok {
		return l
	}
	l := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = l
	return l
}

func newShader(typ uint32, source []byte) (uint32, error) {
	s := gl.CreateShader(typ)
	src, free := gl.Strs(string(source) + "\x00")
	gl.ShaderSource(s, 1, src, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n)+1)
		gl.GetShaderInfoLog(s, n, nil, gl.Str(log))
		gl.DeleteShader(s)
		return 0, errors.New(strings.TrimRight(log, "\x00\n"))
	}
	return s, nil
}

// CreateProgram compiles and links a program from the given vertex and
// fragment shader sources. Compile and link errors carry the info log.
//
func (d *Device) CreateProgram(vertex, fragment []byte) (gpu.Program, error) {
	vs, err := newShader(gl.VERTEX_SHADER, vertex)
	if err != nil {
		return nil, errors.Wrap(err, "compile vertex shader")
	}
	defer gl.DeleteShader(vs)
	fs, err := newShader(gl.FRAGMENT_SHADER, fragment)
	if err != nil {
		return nil, errors.Wrap(err, "compile fragment shader")
	}
	defer gl.DeleteShader(fs)

	p := gl.CreateProgram()
	gl.AttachShader(p, vs)
	gl.AttachShader(p, fs)
	gl.LinkProgram(p)

	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n)+1)
		gl.GetProgramInfoLog(p, n, nil, gl.Str(log))
		gl.DeleteProgram(p)
		return nil, errors.Errorf("link program: %s", strings.TrimRight(log, "\x00\n"))
	}
	gl.DetachShader(p, vs)
	gl.DetachShader(p, fs)
	return &Program{id: p, uniforms: make(map[string]int32)}, nil
}

func asProgram(p gpu.Program) (*Program, error) {
	prg, ok := p.(*Program)
	if !ok || prg.id == 0 {
		return nil, errors.New("invalid program")
	}
	return prg, nil
}

// UseProgram implements gpu.Device.
//
func (d *Device) UseProgram(p gpu.Program) error {
	prg, err := asProgram(p)
	if err != nil {
		return err
	}
	if d.program != prg {
		gl.UseProgram(prg.id)
		d.program = prg
	}
	return d.check("use program")
}

// SetUniformMatrix implements gpu.Device. The program is made current if it
// is not.
//
func (d *Device) SetUniformMatrix(p gpu.Program, name string, m *mgl32.Mat4) error {
	if err := d.UseProgram(p); err != nil {
		return err
	}
	l := d.program.UniformLocation(name)
	if l < 0 {
		return errors.Errorf("unknown uniform %s", name)
	}
	gl.UniformMatrix4fv(l, 1, false, &m[0])
	return d.check("set uniform " + name)
}
