// Package asset provides an asset manager for textures, fonts and raw files,
// loaded from an ofs.FileSystem.
//
// Files are read and decoded in any goroutine, either synchronously or in bulk
// with Preload. Device resources (textures, sprite font atlases) are only
// created by the Texture and SpriteFont methods, which must be called from the
// goroutine owning the device.
//
package asset

import "golang.org/x/xerrors"

var errMissingAsset = xerrors.New("asset not found")

// Type designates the type of an asset.
//
type Type int

const (
	TypeFont Type = iota
	TypeTexture
	TypeFile
	typeLast
)

// Asset uniquely describes an asset.
//
type Asset struct {
	Type
	Name string
}

func (a Asset) String() string {
	switch a.Type {
	case TypeFont:
		return "font asset " + a.Name
	case TypeTexture:
		return "texture asset " + a.Name
	case TypeFile:
		return "file asset " + a.Name
	}
	return "unknown asset " + a.Name
}

func Font(name string) Asset    { return Asset{TypeFont, name} }
func Texture(name string) Asset { return Asset{TypeTexture, name} }
func File(name string) Asset    { return Asset{TypeFile, name} }

// Result wraps the result from preloading an asset.
//
type Result struct {
	Asset
	Err error
}

// Closer is implemented by cached assets holding resources.
//
type Closer interface {
	Close() error
}
