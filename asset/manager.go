package asset

import (
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/db47h/ofs"
	"github.com/db47h/sprite"
	"github.com/db47h/sprite/gpu"
	"golang.org/x/xerrors"
)

type errorList []error

func (e errorList) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e errorList) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// A Manager manages asynchronous (pre)loading and caching of textures, fonts
// and raw files. A Manager is safe for concurrent use, but see the package
// documentation for the methods creating device resources.
//
type Manager struct {
	fs      ofs.FileSystem
	dev     gpu.Device
	cfg     config
	m       sync.Mutex
	cond    *sync.Cond
	assets  map[Asset]interface{}
	pending map[Asset]struct{}
}

type config struct {
	texturePath string
	fontPath    string
	filePath    string
	workers     int
}

// Option is implemented by option functions passed as arguments to NewManager.
//
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// TexturePath returns an Option that sets the default texture path.
//
func TexturePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.texturePath = name
	})
}

// FontPath returns an Option that sets the default font path.
//
func FontPath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.fontPath = name
	})
}

// FilePath returns an Option that sets the default path for raw files.
//
func FilePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.filePath = name
	})
}

// Workers sets the maximum number of files loaded concurrently by Preload.
// The default is twice the number of CPUs.
//
func Workers(n int) Option {
	return cfn(func(cfg *config) {
		cfg.workers = n
	})
}

// NewManager returns a new asset Manager. dev is used to create textures and
// may be nil if the manager is only used for raw files and fonts.
//
func NewManager(fs ofs.FileSystem, dev gpu.Device, options ...Option) *Manager {
	m := &Manager{
		fs:      fs,
		dev:     dev,
		cfg:     config{workers: 2 * runtime.NumCPU()},
		assets:  make(map[Asset]interface{}),
		pending: make(map[Asset]struct{}),
	}
	for _, o := range options {
		o.set(&m.cfg)
	}
	if m.cfg.workers < 1 {
		m.cfg.workers = 1
	}
	m.cond = sync.NewCond(&m.m)
	return m
}

type loadState int

const (
	stateMissing loadState = iota
	statePending
	stateLoaded
)

func (m *Manager) lookup(a Asset) (data interface{}, state loadState) {
	if data, ok := m.assets[a]; ok {
		return data, stateLoaded
	}
	if _, ok := m.pending[a]; ok {
		return nil, statePending
	}
	return nil, stateMissing
}

func (m *Manager) assetPath(a Asset) string {
	switch a.Type {
	case TypeFont:
		return path.Join(m.cfg.fontPath, a.Name)
	case TypeTexture:
		return path.Join(m.cfg.texturePath, a.Name)
	case TypeFile:
		return path.Join(m.cfg.filePath, a.Name)
	}
	return a.Name
}

// decode reads and decodes an asset. It does not access the cache.
//
func (m *Manager) decode(a Asset) (interface{}, error) {
	start := time.Now()
	f, err := m.fs.Open(m.assetPath(a))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var data interface{}
	switch a.Type {
	case TypeFont:
		data, err = loadFont(f)
	case TypeTexture:
		data, err = loadTexture(f)
	case TypeFile:
		data, err = loadFile(f)
	default:
		return nil, xerrors.Errorf("invalid asset type %d", a.Type)
	}
	if err == nil {
		sprite.Logger().Debug("asset loaded", "asset", a.String(), "duration", time.Since(start))
	}
	return data, err
}

// load returns an asset from cache or synchronously loads it if not in the
// cache. If this asset is being loaded from another goroutine, load will wait
// for the asset to be loaded and return the cached version.
//
// m.m must be held.
//
func (m *Manager) load(a Asset) (interface{}, error) {
	for {
		data, s := m.lookup(a)
		switch s {
		case stateMissing:
			m.pending[a] = struct{}{}
			m.m.Unlock()
			data, err := m.decode(a)
			m.m.Lock()
			delete(m.pending, a)
			m.cond.Broadcast()
			if err != nil {
				return nil, xerrors.Errorf("load %s: %w", a, err)
			}
			m.assets[a] = data
			return data, nil
		case stateLoaded:
			return data, nil
		}
		m.cond.Wait()
	}
}

// Loaded returns true if the given asset is in the cache.
//
func (m *Manager) Loaded(a Asset) bool {
	m.m.Lock()
	defer m.m.Unlock()
	_, s := m.lookup(a)
	return s == stateLoaded
}

// Discard removes the given asset from the cache and releases its resources.
//
func (m *Manager) Discard(a Asset) (err error) {
	defer func() {
		if err != nil {
			err = xerrors.Errorf("discard %s: %w", a, err)
		}
	}()
	m.m.Lock()
	for {
		if data, ok := m.assets[a]; ok {
			delete(m.assets, a)
			m.m.Unlock()
			if cl, ok := data.(Closer); ok {
				return cl.Close()
			}
			return nil
		}
		if _, ok := m.pending[a]; !ok {
			m.m.Unlock()
			return errMissingAsset
		}
		m.cond.Wait()
	}
}

// Close discards all assets. Pending loads are not waited for.
//
func (m *Manager) Close() error {
	m.m.Lock()
	defer m.m.Unlock()
	var errs errorList
	for a, data := range m.assets {
		if cl, ok := data.(Closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, xerrors.Errorf("close %s: %w", a, err))
			}
		}
		delete(m.assets, a)
	}
	return errs.err()
}

// Preload bulk preloads assets. If the flush argument is true, cached assets
// not present in the asset list will be discarded. It returns a channel to
// read preload results from as well as the number of items that will actually
// be preloaded. This item count is informational only and callers should rely
// on the rc channel being closed to ensure that the operation is complete.
//
// While preload starts immediately, it will stall after a few assets have been
// preloaded until the rc channel is read from (or Wait is called).
//
// Calling Preload concurrently may result in unexpected side effects, like
// flushing assets that should not be. An alternative is to build the assets
// slice concurrently and have a single goroutine call Preload and Wait.
//
func (m *Manager) Preload(assets []Asset, flush bool) (rc <-chan Result, n int) {
	want := make(map[Asset]struct{}, len(assets))
	for _, a := range assets {
		if a.Type < 0 || a.Type >= typeLast {
			panic(xerrors.Errorf("invalid asset type %d", a.Type))
		}
		want[a] = struct{}{}
	}

	var discarded []Closer
	m.m.Lock()
	if flush {
		for a, data := range m.assets {
			if _, ok := want[a]; !ok {
				delete(m.assets, a)
				if cl, ok := data.(Closer); ok {
					discarded = append(discarded, cl)
				}
			}
		}
	}
	// mark assets as pending and ignore duplicates and loaded/pending assets
	todo := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if _, s := m.lookup(a); s != stateMissing {
			continue
		}
		m.pending[a] = struct{}{}
		todo = append(todo, a)
	}
	m.m.Unlock()

	for _, cl := range discarded {
		if err := cl.Close(); err != nil {
			sprite.Logger().Warn("discard asset", "err", err)
		}
	}

	c := make(chan Result)
	go m.preload(todo, c)
	return c, len(todo)
}

func (m *Manager) preload(assets []Asset, rc chan Result) {
	// we use a buffered channel as a semaphore to spawn a limited number of
	// workers. This is to prevent excessive simultaneous disk access on
	// mechanical hard drives.
	//
	// goroutines release the semaphore as soon as they have finished loading
	// the asset but remain alive until they have sent their result over rc.
	//
	sem := make(chan struct{}, m.cfg.workers)
	var wg sync.WaitGroup
	for _, a := range assets {
		sem <- struct{}{}
		wg.Add(1)
		go func(a Asset) {
			defer wg.Done()
			data, err := m.decode(a)
			m.m.Lock()
			if err != nil {
				err = xerrors.Errorf("preload %s: %w", a, err)
			} else {
				m.assets[a] = data
			}
			delete(m.pending, a)
			m.cond.Broadcast()
			m.m.Unlock()
			<-sem
			rc <- Result{Asset: a, Err: err}
		}(a)
	}
	wg.Wait()
	close(rc)
}

// Wait waits for completion of a previous Preload and returns any load errors.
//
func Wait(rc <-chan Result) error {
	var errs errorList
	for r := range rc {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs.err()
}
