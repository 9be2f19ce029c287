package asset

import (
	"io"
	"io/ioutil"

	"golang.org/x/xerrors"
)

type file []byte

func loadFile(r io.Reader) (interface{}, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return file(data), nil
}

// File returns the content of the named raw file asset. The returned slice
// is shared and must not be modified.
//
func (m *Manager) File(name string) ([]byte, error) {
	m.m.Lock()
	defer m.m.Unlock()
	data, err := m.load(File(name))
	if err != nil {
		return nil, err
	}
	f, ok := data.(file)
	if !ok {
		return nil, xerrors.Errorf("asset %s is not a file", name)
	}
	return f, nil
}
