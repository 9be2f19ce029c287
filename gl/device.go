// Package gl implements gpu.Device on top of OpenGL 3.3 core.
//
// A Device must be created and used from the goroutine owning the current
// OpenGL context, after the context has been made current.
//
package gl

import (
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

type config struct {
	debug bool
}

// Option is implemented by options of New.
//
type Option interface {
	set(*config)
}

type optionFunc func(*config)

func (f optionFunc) set(cfg *config) {
	f(cfg)
}

// Debug enables checking glGetError after every device call that returns an
// error.
//
func Debug(enabled bool) Option {
	return optionFunc(func(cfg *config) {
		cfg.debug = enabled
	})
}

// Device is an OpenGL gpu.Device.
//
type Device struct {
	cfg         config
	vao         uint32
	maxUnits    int
	anisotropy  float32 // 0 if unsupported
	samplers    []uint32
	program     *Program
	vb, ib      *Buffer
	version     string
	renderer    string
	initialized bool
}

var _ gpu.Device = (*Device)(nil)

// New initializes the OpenGL bindings and returns a new Device.
//
func New(opts ...Option) (*Device, error) {
	d := new(Device)
	for _, o := range opts {
		o.set(&d.cfg)
	}
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "init OpenGL")
	}
	d.version = gl.GoStr(gl.GetString(gl.VERSION))
	d.renderer = gl.GoStr(gl.GetString(gl.RENDERER))

	var n int32
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &n)
	d.maxUnits = int(n)
	d.samplers = make([]uint32, d.maxUnits)
	if hasExtension("GL_EXT_texture_filter_anisotropic") || hasExtension("GL_ARB_texture_filter_anisotropic") {
		gl.GetFloatv(maxTextureMaxAnisotropy, &d.anisotropy)
	}

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	if err := d.check("create vertex array"); err != nil {
		return nil, err
	}
	d.initialized = true

	sprite.Logger().Info("OpenGL device",
		"version", d.version,
		"renderer", d.renderer,
		"textureUnits", d.maxUnits,
		"maxAnisotropy", d.anisotropy)
	return d, nil
}

// anisotropic filtering constants, core in 4.6 only.
const (
	textureMaxAnisotropy    = 0x84FE
	maxTextureMaxAnisotropy = 0x84FF
)

func hasExtension(name string) bool {
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := int32(0); i < n; i++ {
		if gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))) == name {
			return true
		}
	}
	return false
}

// Version returns the GL_VERSION string.
//
func (d *Device) Version() string { return d.version }

// Renderer returns the GL_RENDERER string.
//
func (d *Device) Renderer() string { return d.renderer }

// MaxTextureUnits returns the number of texture units.
//
func (d *Device) MaxTextureUnits() int { return d.maxUnits }

// Release releases the device resources. Buffers, textures and programs
// created by the device must be released separately.
//
func (d *Device) Release() error {
	if !d.initialized {
		return nil
	}
	for i, s := range d.samplers {
		if s != 0 {
			gl.DeleteSamplers(1, &d.samplers[i])
		}
	}
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &d.vao)
	d.initialized = false
	return d.check("release device")
}

func (d *Device) check(op string) error {
	if !d.cfg.debug {
		return nil
	}
	if e := gl.GetError(); e != gl.NO_ERROR {
		return errors.Errorf("%s: GL error 0x%04x", op, e)
	}
	return nil
}

// Viewport returns the current OpenGL viewport.
//
func (d *Device) Viewport() gpu.Viewport {
	var v [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &v[0])
	return gpu.Viewport{X: int(v[0]), Y: int(v[1]), Width: int(v[2]), Height: int(v[3])}
}

// SetViewport sets the OpenGL viewport.
//
func (d *Device) SetViewport(vp gpu.Viewport) {
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
}

// Clear clears the color buffer with c and the depth buffer with 1. The depth
// buffer is only cleared if depth writes are enabled.
//
func (d *Device) Clear(c sprite.Color) {
	v := c.Vec4()
	gl.ClearColor(v[0], v[1], v[2], v[3])
	gl.ClearDepth(1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}
