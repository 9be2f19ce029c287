package asset

import (
	"io"
	"io/ioutil"

	"github.com/db47h/sprite/text"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/xerrors"
)

type fnt struct {
	f  *truetype.Font
	sf map[fntOpts]*spriteFont
}

type spriteFont struct {
	face font.Face
	sf   *text.SpriteFont
}

type fntOpts struct {
	sz      float64
	hinting font.Hinting
	runes   string
}

func (f *fnt) Close() error {
	var errs errorList
	for opts, s := range f.sf {
		if err := s.sf.Texture().Release(); err != nil {
			errs = append(errs, xerrors.Errorf("release font texture %v: %w", opts.sz, err))
		}
		if err := s.face.Close(); err != nil {
			errs = append(errs, xerrors.Errorf("close face %v: %w", opts.sz, err))
		}
	}
	f.sf = nil
	return errs.err()
}

func loadFont(r io.Reader) (interface{}, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &fnt{f: ttf, sf: make(map[fntOpts]*spriteFont)}, nil
}

func (m *Manager) font(name string) (*fnt, error) {
	a, err := m.load(Font(name))
	if err != nil {
		return nil, err
	}
	f, ok := a.(*fnt)
	if !ok {
		return nil, xerrors.Errorf("asset %s is not a font", name)
	}
	return f, nil
}

// Font returns the named font asset.
//
func (m *Manager) Font(name string) (*truetype.Font, error) {
	m.m.Lock()
	defer m.m.Unlock()
	f, err := m.font(name)
	if err != nil {
		return nil, err
	}
	return f.f, nil
}

// SpriteFont returns a text.SpriteFont rasterized from the named font at the
// given size (with a DPI of 72) and full hinting. A nil runes slice selects
// text.ASCII().
//
// SpriteFonts are cached per size and rune set. The options are only used
// when the SpriteFont is first created. The only way to clean the cache is to
// Discard the corresponding font asset.
//
// SpriteFont must be called from the goroutine owning the device.
//
func (m *Manager) SpriteFont(name string, size float64, runes []rune, opts ...text.Option) (*text.SpriteFont, error) {
	if m.dev == nil {
		return nil, xerrors.Errorf("sprite font %s: no device", name)
	}
	if runes == nil {
		runes = text.ASCII()
	}
	m.m.Lock()
	defer m.m.Unlock()
	f, err := m.font(name)
	if err != nil {
		return nil, err
	}
	key := fntOpts{size, font.HintingFull, string(runes)}
	if s := f.sf[key]; s != nil {
		return s.sf, nil
	}
	face := truetype.NewFace(f.f, &truetype.Options{
		Size:    size,
		Hinting: key.hinting,
		DPI:     72,
	})
	sf, err := text.FromFace(m.dev, face, runes, opts...)
	if err != nil {
		face.Close()
		return nil, xerrors.Errorf("sprite font %s (%v): %w", name, size, err)
	}
	f.sf[key] = &spriteFont{face, sf}
	return sf, nil
}
