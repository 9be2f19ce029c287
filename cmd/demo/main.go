package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/db47h/ofs"
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/asset"
	"github.com/db47h/sprite/batch"
	"github.com/db47h/sprite/debug"
	"github.com/db47h/sprite/gl"
	"github.com/db47h/sprite/gpu"
	"github.com/db47h/sprite/loop"
	"github.com/db47h/sprite/state"
	"github.com/db47h/sprite/text"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func init() {
	// This is needed to arrange that main() runs on main thread.
	// See documentation for functions that are only allowed to be called from the main thread.
	runtime.LockOSThread()
}

var (
	vsync    = flag.Int("v", 1, "vsync value for glfw.SwapInterval")
	count    = flag.Int("n", 10000, "number of sprites")
	sortMode = flag.String("sort", "Deferred", "sort mode: Deferred, Immediate, Texture, BackToFront or FrontToBack")
	verbose  = flag.Bool("debug", false, "enable debug logging and GL error checks")
)

var sortModes = []sprite.SortMode{sprite.Deferred, sprite.Immediate, sprite.Texture, sprite.BackToFront, sprite.FrontToBack}

func parseSortMode(s string) (sprite.SortMode, error) {
	for _, m := range sortModes {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, errors.Errorf("unknown sort mode %q", s)
}

type sprt struct {
	tex      int
	pos      mgl32.Vec2
	vel      mgl32.Vec2
	rot, rv  float32
	scale    float32
	depth    float32
	color    sprite.Color
	flip     sprite.Flip
	srcIndex int
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	sprite.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	log := sprite.Logger()

	mode, err := parseSortMode(*sortMode)
	if err != nil {
		log.Error("invalid flag", "err", err)
		os.Exit(2)
	}

	// Init GLFW & window
	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)
	window, err := glfw.CreateWindow(1280, 720, "sprite demo", nil, nil)
	if err != nil {
		panic(err)
	}
	window.MakeContextCurrent()
	log.Info("glfw", "version", glfw.GetVersionString())

	dev, err := gl.New(gl.Debug(*verbose))
	if err != nil {
		panic(err)
	}
	dev.SetViewport(gpu.Viewport{Width: fbWidth(window), Height: fbHeight(window)})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width int, height int) {
		dev.SetViewport(gpu.Viewport{Width: width, Height: height})
	})

	// assets
	var ovl ofs.Overlay
	if err := ovl.Add(false, "assets", "cmd/demo/assets"); err != nil {
		panic(err)
	}
	mgr := asset.NewManager(&ovl, dev,
		asset.TexturePath("textures"),
		asset.FontPath("fonts"),
		asset.FilePath("."))
	rc, n := mgr.Preload([]asset.Asset{
		asset.Texture("box.png"),
		asset.Texture("ball.png"),
		asset.Font("Go-Regular.ttf"),
	}, false)
	log.Info("preloading assets", "count", n)
	if err := asset.Wait(rc); err != nil {
		log.Warn("preload failed, using generated assets", "err", err)
	}

	textures := []gpu.Texture{
		loadTexture(mgr, dev, "box.png", boxImage),
		loadTexture(mgr, dev, "ball.png", ballImage),
		loadTexture(mgr, dev, "tiles.png", tilesImage),
	}
	go16 := loadFont(mgr, dev, "Go-Regular.ttf", 16)
	go32 := loadFont(mgr, dev, "Go-Regular.ttf", 32)

	sb, err := batch.New(dev)
	if err != nil {
		panic(err)
	}
	// overlay pass with its own batcher, sharing the state cache
	ob, err := batch.New(dev, batch.Capacity(256), batch.WithStateCache(sb.Cache()))
	if err != nil {
		panic(err)
	}
	overlay, err := debug.NewOverlay(dev, go16)
	if err != nil {
		panic(err)
	}

	// sprites
	rnd := rand.New(rand.NewSource(424242))
	sprites := make([]sprt, *count)
	vp := dev.Viewport()
	for i := range sprites {
		s := &sprites[i]
		s.tex = rnd.Intn(len(textures))
		s.pos = mgl32.Vec2{rnd.Float32() * float32(vp.Width), rnd.Float32() * float32(vp.Height)}
		a := rnd.Float64() * 2 * math.Pi
		v := 20 + rnd.Float32()*80
		s.vel = mgl32.Vec2{v * float32(math.Cos(a)), v * float32(math.Sin(a))}
		s.rv = (rnd.Float32() - 0.5) * 4
		s.scale = 0.5 + rnd.Float32()
		s.depth = rnd.Float32()
		s.color = sprite.NRGBA(uint8(128+rnd.Intn(128)), uint8(128+rnd.Intn(128)), uint8(128+rnd.Intn(128)), 255)
		s.flip = sprite.Flip(rnd.Intn(4))
		s.srcIndex = rnd.Intn(4)
	}

	d := &demo{
		window:   window,
		dev:      dev,
		sb:       sb,
		ob:       ob,
		overlay:  overlay,
		textures: textures,
		title:    go32,
		sprites:  sprites,
		mode:     mode,
		bgColor:  sprite.NRGBA(0x33, 0x33, 0x33, 0xff),
	}
	window.SetKeyCallback(d.key)
	glfw.SwapInterval(*vsync)

	var l loop.FixedStep
	l.DT = time.Second / 120
	l.Run(d)
	if d.err != nil {
		log.Error("draw", "err", d.err)
	}
	log.Info("done", "frames", l.Frames(), "updates", l.Updates())

	// release device resources while the context is alive
	overlay.Release()
	ob.Release()
	sb.Release()
	// textures from the manager are released by mgr.Close
	for _, t := range generated {
		t.Release()
	}
	if err := mgr.Close(); err != nil {
		log.Warn("close assets", "err", err)
	}
	dev.Release()
}

type demo struct {
	window   *glfw.Window
	dev      *gl.Device
	sb, ob   *batch.SpriteBatch
	overlay  *debug.Overlay
	textures []gpu.Texture
	title    *text.SpriteFont
	sprites  []sprt
	timer    debug.Timer
	mode     sprite.SortMode
	paused   bool
	angle    float32
	bgColor  sprite.Color
	err      error
}

func (d *demo) key(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeySpace:
		d.paused = !d.paused
	case glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4, glfw.Key5:
		d.mode = sortModes[key-glfw.Key1]
		sprite.Logger().Info("sort mode", "mode", d.mode)
	}
}

func (d *demo) ProcessEvents() bool {
	d.window.SwapBuffers()
	glfw.PollEvents()
	return d.window.ShouldClose() || d.err != nil
}

func (d *demo) Update(dt time.Duration) {
	if d.paused {
		return
	}
	vp := d.dev.Viewport()
	secs := float32(dt.Seconds())
	d.angle += secs
	for i := range d.sprites {
		s := &d.sprites[i]
		s.pos = s.pos.Add(s.vel.Mul(secs))
		if s.pos[0] < 0 || s.pos[0] > float32(vp.Width) {
			s.vel[0] = -s.vel[0]
		}
		if s.pos[1] < 0 || s.pos[1] > float32(vp.Height) {
			s.vel[1] = -s.vel[1]
		}
		s.rot += s.rv * secs
	}
}

func (d *demo) Draw(frameTime time.Duration, alpha float32) {
	d.timer.Add(frameTime)
	vp := d.dev.Viewport()
	d.dev.Clear(d.bgColor)

	sb := d.sb
	sb.Begin(batch.Settings{SortMode: d.mode, Sampler: state.LinearClamp})
	for i := range d.sprites {
		s := &d.sprites[i]
		tex := d.textures[s.tex]
		w, h := tex.Width(), tex.Height()
		var src *image.Rectangle
		if s.tex == 2 {
			// 2x2 tile atlas
			r := image.Rect(0, 0, w/2, h/2).Add(image.Pt(s.srcIndex%2*w/2, s.srcIndex/2*h/2))
			src = &r
			w, h = w/2, h/2
		}
		origin := mgl32.Vec2{float32(w) / 2, float32(h) / 2}
		sb.DrawScaled(tex, s.pos, src, s.color, s.rot, origin, mgl32.Vec2{s.scale, s.scale}, s.flip, s.depth)
	}
	c := mgl32.Vec2{float32(vp.Width) / 2, float32(vp.Height) / 2}
	msg := "Hello, sprites!"
	sz := d.title.MeasureString(msg)
	sb.DrawString(d.title, msg, c, sprite.White, d.angle/4, sz.Mul(0.5), mgl32.Vec2{1, 1}, sprite.FlipNone, 0)
	if d.err = sb.End(); d.err != nil {
		return
	}

	d.ob.Begin(batch.Settings{Sampler: state.PointClamp})
	d.overlay.Draw(d.ob, vp.Bounds(), fmt.Sprintf("%s\nmode %s (1-5), %d sprites", debug.Format(&d.timer, sb.Stats()), d.mode, len(d.sprites)))
	d.err = d.ob.End()
}

func fbWidth(w *glfw.Window) int {
	width, _ := w.GetFramebufferSize()
	return width
}

func fbHeight(w *glfw.Window) int {
	_, height := w.GetFramebufferSize()
	return height
}

var generated []gpu.Texture

func loadTexture(mgr *asset.Manager, dev gpu.Device, name string, gen func() image.Image) gpu.Texture {
	t, err := mgr.Texture(name)
	if err == nil {
		return t
	}
	sprite.Logger().Debug("generating texture", "name", name, "err", err)
	t, err = dev.CreateTexture(gen())
	if err != nil {
		panic(err)
	}
	generated = append(generated, t)
	return t
}

func loadFont(mgr *asset.Manager, dev gpu.Device, name string, size float64) *text.SpriteFont {
	f, err := mgr.SpriteFont(name, size, nil, text.DefaultCharacter('?'))
	if err == nil {
		return f
	}
	sprite.Logger().Debug("using embedded Go font", "name", name, "err", err)
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: size, Hinting: font.HintingFull})
	f, err = text.FromFace(dev, face, nil, text.DefaultCharacter('?'))
	if err != nil {
		panic(err)
	}
	return f
}

func boxImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBA{0xc0, 0x80, 0x40, 0xff}
			if x < 4 || y < 4 || x >= 60 || y >= 60 {
				c = color.NRGBA{0x60, 0x40, 0x20, 0xff}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func ballImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			dx, dy := float64(x)-15.5, float64(y)-15.5
			d := math.Sqrt(dx*dx + dy*dy)
			if d < 16 {
				a := uint8(255 * math.Min(1, 16-d))
				img.SetNRGBA(x, y, color.NRGBA{0xff, 0xff, 0xff, a})
			}
		}
	}
	return img
}

func tilesImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	colors := []color.NRGBA{{0xff, 0x40, 0x40, 0xff}, {0x40, 0xff, 0x40, 0xff}, {0x40, 0x40, 0xff, 0xff}, {0xff, 0xff, 0x40, 0xff}}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c := colors[y/16*2+x/16]
			if (x/4+y/4)%2 == 0 {
				c.A = 0xa0
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
