package debug

import (
	"fmt"
	"image"
	"strings"

	"github.com/db47h/sprite"
	"github.com/db47h/sprite/batch"
	"github.com/db47h/sprite/gpu"
	"github.com/db47h/sprite/text"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Corner selects where the overlay is drawn.
//
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

const padding = 2

// Overlay draws text in a box at one corner of the screen.
//
type Overlay struct {
	Corner     Corner
	Background sprite.Color
	Foreground sprite.Color

	font  *text.SpriteFont
	pixel gpu.Texture
}

// NewOverlay returns a new Overlay drawing text with font.
//
func NewOverlay(dev gpu.Device, font *text.SpriteFont) (*Overlay, error) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0], img.Pix[1], img.Pix[2], img.Pix[3] = 0xff, 0xff, 0xff, 0xff
	pixel, err := dev.CreateTexture(img)
	if err != nil {
		return nil, errors.Wrap(err, "create overlay texture")
	}
	return &Overlay{
		Background: sprite.RGBA(0, 0, 0, 0xc0),
		Foreground: sprite.RGBA(0xff, 0xff, 0xff, 0xff),
		font:       font,
		pixel:      pixel,
	}, nil
}

// Bounds returns the box enclosing s, placed in the overlay corner of the
// screen rectangle r.
//
func (o *Overlay) Bounds(r image.Rectangle, s string) image.Rectangle {
	sz := o.font.MeasureString(s)
	w, h := int(sz[0]+0.5)+2*padding, int(sz[1]+0.5)+2*padding
	var p image.Point
	switch o.Corner {
	case TopLeft:
		p = r.Min
	case TopRight:
		p = image.Pt(r.Max.X-w, r.Min.Y)
	case BottomLeft:
		p = image.Pt(r.Min.X, r.Max.Y-h)
	case BottomRight:
		p = image.Pt(r.Max.X-w, r.Max.Y-h)
	}
	return image.Rectangle{Min: p, Max: p.Add(image.Pt(w, h))}
}

// Draw draws s with sb, which must have begun, in the overlay corner of the
// screen rectangle r.
//
func (o *Overlay) Draw(sb *batch.SpriteBatch, r image.Rectangle, s string) {
	b := o.Bounds(r, s)
	sb.DrawDest(o.pixel, b, nil, o.Background, 0, mgl32.Vec2{}, sprite.FlipNone, 0)
	sb.DrawText(o.font, s, mgl32.Vec2{float32(b.Min.X + padding), float32(b.Min.Y + padding)}, o.Foreground)
}

// Release releases the overlay texture. The font is not released.
//
func (o *Overlay) Release() error {
	return o.pixel.Release()
}

// Format formats the frame rate measured by t and the batch statistics st.
//
func Format(t *Timer, st ...batch.Stats) string {
	var sb strings.Builder
	avg := t.Average()
	fmt.Fprintf(&sb, "%.1f fps (%.2f ms)", t.AveragePerSecond(), float64(avg.Microseconds())/1000)
	var sum batch.Stats
	for _, s := range st {
		sum.Sprites += s.Sprites
		sum.DrawCalls += s.DrawCalls
		sum.Runs += s.Runs
		sum.Fills += s.Fills
	}
	if len(st) > 0 {
		fmt.Fprintf(&sb, "\nsprites %d, draw calls %d, runs %d, fills %d", sum.Sprites, sum.DrawCalls, sum.Runs, sum.Fills)
	}
	return sb.String()
}
