package batch

import "github.com/pkg/errors"

// Usage errors. These are never returned: they are the values wrapped by the
// panics raised on API misuse and can be tested with errors.Is after a
// recover.
//
var (
	ErrNotBegun      = errors.New("Begin must be called first")
	ErrAlreadyBegun  = errors.New("End must be called before Begin")
	ErrFlushing      = errors.New("batch is being flushed")
	ErrDoubleRelease = errors.New("item released twice")
	ErrNilTexture    = errors.New("nil texture")
)

func misuse(err error, op string) {
	panic(errors.Wrap(err, op))
}
