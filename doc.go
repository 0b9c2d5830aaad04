// Package boxcad turns a small set of dimensional parameters into a solid
// model and serializes it to a neutral BREP exchange format (STEP).
//
// # Overview
//
// boxcad synthesizes parametric boxes and cases: a hollow base shell with an
// optional clearance-fitted lid that slides over it. The pipeline builds
// rounded-rectangle (or circular) profile curves, extrudes them into prisms,
// subtracts an inner cavity to form the shell, and composes base and lid into
// a multi-body compound ready for export.
//
// # Quick Start
//
//	import (
//	    "github.com/solidkit/boxcad"
//	    _ "github.com/solidkit/boxcad/kernel/occt" // registers the builtin kernel
//	)
//
//	params := boxcad.Params{
//	    Shape:        boxcad.ShapeBox,
//	    InsideWidth:  40,
//	    InsideDepth:  30,
//	    InsideHeight: 20,
//	    Mode:         boxcad.ThicknessUniform,
//	    Thickness:    2,
//	    IncludeLid:   true,
//	    Clearance:    0.2,
//	}
//	step, err := boxcad.BuildModel(params)
//
// # Geometry kernel
//
// The pipeline consumes a geometry kernel only through the capability surface
// in package kernel. Kernel builds expose differently-named constructors for
// the same primitives, so every operation is resolved by probing an ordered
// candidate list and memoizing the first that works. The builtin kernel lives
// in kernel/occt and is registered by blank import.
//
// # Degenerate inputs
//
// Oversized corner radii are clamped, never rejected: a radius larger than
// half the shorter planar span silently becomes the clamped value, and a
// clamped radius at or below zero degrades to square corners. A build either
// succeeds and returns export bytes, or fails and leaves no partial artifact.
//
// # Concurrency
//
// A build is synchronous CPU work against a process-wide kernel instance that
// offers no internal concurrency guarantees. Callers must serialize builds;
// issuing a second build before the first completes is undefined.
package boxcad

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
