package gl

import (
	"image"

	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Texture is an RGBA OpenGL texture with a full mipmap chain.
//
type Texture struct {
	id            uint32
	width, height int
}

func (t *Texture) Width() int       { return t.width }
func (t *Texture) Height() int      { return t.height }
func (t *Texture) NativeID() uint32 { return t.id }

// Release deletes the texture.
//
func (t *Texture) Release() error {
	if t.id == 0 {
		return errors.New("texture already released")
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
	return nil
}

// CreateTexture creates a new texture of the same dimensions as the source
// image. Regardless of the source image type, the resulting texture is always
// in RGBA format.
//
func (d *Device) CreateTexture(src image.Image) (gpu.Texture, error) {
	var (
		sr  = src.Bounds()
		dr  = image.Rectangle{Max: sr.Size()}
		pix []uint8
	)
	if dr.Empty() {
		return nil, errors.Errorf("create texture: empty image %v", sr)
	}
	if i, ok := src.(*image.RGBA); ok && i.Stride == 4*dr.Dx() {
		pix = i.Pix[i.PixOffset(sr.Min.X, sr.Min.Y):]
	} else {
		dst := image.NewRGBA(dr)
		draw.Draw(dst, dr, src, sr.Min, draw.Src)
		pix = dst.Pix
	}

	t := &Texture{width: dr.Dx(), height: dr.Dy()}
	gl.GenTextures(1, &t.id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.width), int32(t.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	if err := d.check("create texture"); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, err
	}
	return t, nil
}

// BindTexture implements gpu.Device. A nil texture unbinds the unit.
//
func (d *Device) BindTexture(unit int, t gpu.Texture) error {
	if unit < 0 || unit >= d.maxUnits {
		return errors.Errorf("texture unit %d out of range [0, %d)", unit, d.maxUnits)
	}
	var id uint32
	if t != nil {
		tex, ok := t.(*Texture)
		if !ok || tex.id == 0 {
			return errors.Errorf("invalid texture %v", t)
		}
		id = tex.id
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
	return d.check("bind texture")
}

// SetSampler implements gpu.StateDevice using sampler objects.
//
func (d *Device) SetSampler(unit int, s gpu.SamplerDesc) {
	if unit < 0 || unit >= d.maxUnits {
		return
	}
	id := d.samplers[unit]
	if id == 0 {
		gl.GenSamplers(1, &id)
		d.samplers[unit] = id
		gl.BindSampler(uint32(unit), id)
	}
	min, mag := filter(s.Filter)
	gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, min)
	gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, mag)
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_S, addressMode(s.AddressU))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_T, addressMode(s.AddressV))
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_R, addressMode(s.AddressW))
	bc := s.BorderColor.Vec4()
	gl.SamplerParameterfv(id, gl.TEXTURE_BORDER_COLOR, &bc[0])
	gl.SamplerParameterf(id, gl.TEXTURE_LOD_BIAS, s.MipMapLODBias)
	// MaxMipLevel is the most detailed level used
	gl.SamplerParameterf(id, gl.TEXTURE_MIN_LOD, float32(s.MaxMipLevel))
	if d.anisotropy > 0 {
		a := float32(1)
		if s.Filter == gpu.FilterAnisotropic {
			a = float32(s.MaxAnisotropy)
			if a > d.anisotropy {
				a = d.anisotropy
			}
			if a < 1 {
				a = 1
			}
		}
		gl.SamplerParameterf(id, textureMaxAnisotropy, a)
	}
}
