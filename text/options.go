package text

// DefaultTextureSize is the default width and height of font atlas textures.
// It should not be larger than the device maximum texture size.
//
const DefaultTextureSize = 1024

type config struct {
	textureSize int
	defChar     rune
	hasDefault  bool
	spacing     float32
	kerning     bool
}

func newConfig(opts []Option) *config {
	cfg := &config{textureSize: DefaultTextureSize, kerning: true}
	for _, o := range opts {
		o.set(cfg)
	}
	return cfg
}

// Option is implemented by the options of FromFace and NewSpriteFont.
//
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// TextureSize sets the size of the atlas texture.
//
func TextureSize(n int) Option {
	return cfn(func(cfg *config) {
		cfg.textureSize = n
	})
}

// DefaultCharacter sets the character drawn in place of missing characters.
//
func DefaultCharacter(r rune) Option {
	return cfn(func(cfg *config) {
		cfg.defChar, cfg.hasDefault = r, true
	})
}

// Spacing sets the extra space added between characters.
//
func Spacing(s float32) Option {
	return cfn(func(cfg *config) {
		cfg.spacing = s
	})
}

// Kerning enables or disables the import of kerning pairs from the font face.
// Enabled by default.
//
func Kerning(enabled bool) Option {
	return cfn(func(cfg *config) {
		cfg.kerning = enabled
	})
}
