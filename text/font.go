// Package text provides sprite fonts: glyph atlases and the layout rules used
// to draw strings with a sprite batch.
//
package text

import (
	"image"
	"sort"

	"github.com/db47h/sprite/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// A Glyph describes a character of a SpriteFont.
//
type Glyph struct {
	// Bounds is the region of the glyph image in the font texture.
	Bounds image.Rectangle
	// Cropping is the offset of the glyph image relative to the pen position,
	// which is at the top of the line.
	Cropping mgl32.Vec2
	// Horizontal metrics. The pen advances by LeftSideBearing before the glyph
	// is drawn (except for the first glyph of a line when negative), and by
	// Width+RightSideBearing after.
	LeftSideBearing  float32
	Width            float32
	RightSideBearing float32
}

// A SpriteFont is a set of glyphs in a single texture.
//
type SpriteFont struct {
	texture     gpu.Texture
	glyphs      map[rune]*Glyph
	kerning     map[[2]rune]float32
	lineSpacing float32
	spacing     float32
	defChar     rune
	hasDefault  bool
}

// NewSpriteFont returns a new SpriteFont using the given texture and glyphs.
// Only the DefaultCharacter and Spacing options apply.
//
func NewSpriteFont(tex gpu.Texture, glyphs map[rune]Glyph, lineSpacing float32, opts ...Option) (*SpriteFont, error) {
	cfg := newConfig(opts)
	f := &SpriteFont{
		texture:     tex,
		glyphs:      make(map[rune]*Glyph, len(glyphs)),
		kerning:     make(map[[2]rune]float32),
		lineSpacing: lineSpacing,
		spacing:     cfg.spacing,
	}
	for r, g := range glyphs {
		g := g
		f.glyphs[r] = &g
	}
	if cfg.hasDefault {
		if err := f.SetDefaultCharacter(cfg.defChar); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Texture returns the font texture.
//
func (f *SpriteFont) Texture() gpu.Texture { return f.texture }

// LineSpacing returns the vertical distance between two consecutive lines.
//
func (f *SpriteFont) LineSpacing() float32 { return f.lineSpacing }

// Spacing returns the extra horizontal space between characters.
//
func (f *SpriteFont) Spacing() float32 { return f.spacing }

func (f *SpriteFont) SetLineSpacing(v float32) { f.lineSpacing = v }
func (f *SpriteFont) SetSpacing(v float32)     { f.spacing = v }

// DefaultCharacter returns the character drawn in place of characters missing
// from the font.
//
func (f *SpriteFont) DefaultCharacter() (rune, bool) { return f.defChar, f.hasDefault }

// SetDefaultCharacter sets the character drawn in place of missing characters.
// r must be in the font.
//
func (f *SpriteFont) SetDefaultCharacter(r rune) error {
	if _, ok := f.glyphs[r]; !ok {
		return errors.Errorf("default character %q not in font", r)
	}
	f.defChar, f.hasDefault = r, true
	return nil
}

// ClearDefaultCharacter makes missing characters to be skipped.
//
func (f *SpriteFont) ClearDefaultCharacter() { f.defChar, f.hasDefault = 0, false }

// Glyph returns the glyph for r, or the glyph of the default character if r
// is missing.
//
func (f *SpriteFont) Glyph(r rune) (*Glyph, bool) {
	if g, ok := f.glyphs[r]; ok {
		return g, true
	}
	if f.hasDefault {
		return f.glyphs[f.defChar], true
	}
	return nil, false
}

// Runes returns the sorted list of characters in the font.
//
func (f *SpriteFont) Runes() []rune {
	rs := make([]rune, 0, len(f.glyphs))
	for r := range f.glyphs {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return rs
}

// Kern returns the horizontal adjustment for the pair (a, b).
//
func (f *SpriteFont) Kern(a, b rune) float32 { return f.kerning[[2]rune{a, b}] }

// SetKerning sets the horizontal adjustment for the pair (a, b).
//
func (f *SpriteFont) SetKerning(a, b rune, k float32) {
	if k == 0 {
		delete(f.kerning, [2]rune{a, b})
		return
	}
	f.kerning[[2]rune{a, b}] = k
}

// Layout calls fn for every drawable glyph of s with the position of its
// top-left corner, relative to the top-left corner of the text. It returns
// the size of the text, as MeasureString.
//
// '\n' moves the pen to the start of the next line and '\r' is ignored.
// Characters missing from the font are replaced by the default character or
// skipped. Glyphs with an empty image are not reported but still advance the
// pen.
//
func (f *SpriteFont) Layout(s string, fn func(r rune, g *Glyph, p mgl32.Vec2)) mgl32.Vec2 {
	if len(s) == 0 {
		return mgl32.Vec2{}
	}
	var (
		pen       mgl32.Vec2
		width     float32
		firstChar = true
		prev      = rune(-1)
	)
	lines := 1
	for _, r := range s {
		switch r {
		case '\r':
			continue
		case '\n':
			pen[0] = 0
			pen[1] += f.lineSpacing
			lines++
			firstChar = true
			prev = -1
			continue
		}
		g, ok := f.Glyph(r)
		if !ok {
			continue
		}
		if firstChar {
			if g.LeftSideBearing > 0 {
				pen[0] = g.LeftSideBearing
			}
			firstChar = false
		} else {
			pen[0] += f.spacing + g.LeftSideBearing
		}
		if prev >= 0 {
			pen[0] += f.Kern(prev, r)
		}
		if fn != nil && !g.Bounds.Empty() {
			fn(r, g, pen.Add(g.Cropping))
		}
		pen[0] += g.Width + g.RightSideBearing
		if pen[0] > width {
			width = pen[0]
		}
		prev = r
	}
	return mgl32.Vec2{width, float32(lines) * f.lineSpacing}
}

// MeasureString returns the size of s when drawn with f. The height is the
// number of lines times the line spacing.
//
func (f *SpriteFont) MeasureString(s string) mgl32.Vec2 {
	return f.Layout(s, nil)
}

// MeasureBytes is like MeasureString for a byte slice.
//
func (f *SpriteFont) MeasureBytes(b []byte) mgl32.Vec2 {
	return f.Layout(string(b), nil)
}
