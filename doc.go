// Package sprite holds the value types shared by the sprite batching engine:
// colors, sort modes and flip flags, as well as the package-wide logger.
//
// The engine itself lives in the batch sub-package. State objects and their
// diffing cache are in the state package, the GPU device abstraction in gpu,
// and an OpenGL implementation of that device in gl.
//
package sprite
