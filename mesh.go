package boxcad

import (
	"github.com/solidkit/boxcad/kernel"
)

// Mesh is a triangulated preview of a model: a flat position buffer (x, y, z
// per vertex) and a triangle index buffer. It is produced by the kernel's
// tessellation path alongside the exchange bytes; preview renderers consume
// only this, never kernel objects.
type Mesh = kernel.Mesh
