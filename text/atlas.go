package text

import (
	"image"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ASCII returns the printable ASCII characters.
//
func ASCII() []rune {
	rs := make([]rune, 0, 0x7f-0x20)
	for r := rune(0x20); r < 0x7f; r++ {
		rs = append(rs, r)
	}
	return rs
}

// FromFace rasterizes the given runes of face into a texture atlas and
// returns the corresponding SpriteFont. A nil runes slice selects ASCII().
// Runes missing from the face are skipped.
//
// Glyphs are packed in rows, left to right, with a 1 pixel padding. The atlas
// is a single texture: an error is returned if the glyphs do not fit.
//
func FromFace(dev gpu.Device, face font.Face, runes []rune, opts ...Option) (*SpriteFont, error) {
	cfg := newConfig(opts)
	if runes == nil {
		runes = ASCII()
	}
	sz := cfg.textureSize
	if sz <= 0 {
		return nil, errors.Errorf("invalid texture size %d", sz)
	}
	m := face.Metrics()
	dot := fixed.Point26_6{Y: m.Ascent}

	var (
		img    = image.NewRGBA(image.Rect(0, 0, sz, sz))
		glyphs = make(map[rune]Glyph, len(runes))
		p      image.Point // current point
		lh     int         // current row height
		found  []rune
	)
	for _, r := range runes {
		if _, dup := glyphs[r]; dup {
			continue
		}
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if !ok {
			continue
		}
		g := Glyph{
			Width:    float32(advance) / 64,
			Cropping: mgl32.Vec2{float32(dr.Min.X), float32(dr.Min.Y)},
		}
		if !dr.Empty() {
			tr := dr.Sub(dr.Min).Add(p)
			if tr.Max.X > sz {
				p = image.Pt(0, p.Y+lh)
				lh = 0
				tr = dr.Sub(dr.Min).Add(p)
			}
			if tr.Max.X > sz || tr.Max.Y > sz {
				return nil, errors.Errorf("glyph %q does not fit in a %dx%d atlas", r, sz, sz)
			}
			draw.DrawMask(img, tr, image.White, image.Point{}, mask, maskp, draw.Over)
			g.Bounds = tr
			p.X += tr.Dx() + 1
			if h := tr.Dy() + 1; h > lh {
				lh = h
			}
		}
		glyphs[r] = g
		found = append(found, r)
	}

	tex, err := dev.CreateTexture(img)
	if err != nil {
		return nil, errors.Wrap(err, "create font texture")
	}
	f, err := NewSpriteFont(tex, glyphs, float32(m.Height)/64, opts...)
	if err != nil {
		tex.Release()
		return nil, err
	}
	if cfg.kerning {
		for _, a := range found {
			for _, b := range found {
				if k := face.Kern(a, b); k != 0 {
					f.SetKerning(a, b, float32(k)/64)
				}
			}
		}
	}
	sprite.Logger().Debug("sprite font created", "glyphs", len(glyphs), "kerning pairs", len(f.kerning), "rows", p.Y+lh)
	return f, nil
}
