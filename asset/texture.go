package asset

import (
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"io"

	"github.com/db47h/sprite/gpu"
	"golang.org/x/xerrors"
)

// texImage is a decoded image not yet uploaded to the device.
//
type texImage struct {
	img image.Image
}

type tex struct {
	gpu.Texture
}

func (t *tex) Close() error {
	return t.Release()
}

func loadTexture(r io.Reader) (interface{}, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return &texImage{img}, nil
}

// Texture returns the named texture asset. The texture is created on the
// device upon the first call to Texture, whether the image was preloaded or
// not, and cached afterwards.
//
// Texture must be called from the goroutine owning the device.
//
func (m *Manager) Texture(name string) (gpu.Texture, error) {
	if m.dev == nil {
		return nil, xerrors.Errorf("texture %s: no device", name)
	}
	m.m.Lock()
	defer m.m.Unlock()
	a := Texture(name)
	data, err := m.load(a)
	if err != nil {
		return nil, err
	}
	switch t := data.(type) {
	case *tex:
		return t.Texture, nil
	case *texImage:
		gt, err := m.dev.CreateTexture(t.img)
		if err != nil {
			return nil, xerrors.Errorf("create %s: %w", a, err)
		}
		m.assets[a] = &tex{gt}
		return gt, nil
	}
	return nil, xerrors.Errorf("asset %s is not a texture", name)
}

// Image returns the decoded image of the named texture asset, if it has not
// been uploaded to the device yet.
//
func (m *Manager) Image(name string) (image.Image, error) {
	m.m.Lock()
	defer m.m.Unlock()
	data, err := m.load(Texture(name))
	if err != nil {
		return nil, err
	}
	if t, ok := data.(*texImage); ok {
		return t.img, nil
	}
	return nil, xerrors.Errorf("texture %s already uploaded", name)
}
