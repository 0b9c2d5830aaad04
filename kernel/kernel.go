// Package kernel defines the capability surface the boxcad pipeline requires
// from a geometry kernel, and the Adapter that resolves each primitive
// operation against a concrete kernel build.
//
// A Kernel is expensive to initialize, so the package keeps a single
// registered instance that is initialized lazily on first use and reused for
// the remainder of the process. Kernel implementations register themselves,
// typically from an init function behind a blank import:
//
//	import _ "github.com/solidkit/boxcad/kernel/occt" // registers the builtin kernel
//
// The pipeline never calls Invoke directly; it goes through an Adapter, which
// hides the naming and arity differences between kernel builds (see adapter.go).
package kernel

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/spf13/afero"
)

// ErrNotSupported is returned by Kernel.Invoke when the kernel build does not
// provide the requested operation. The Adapter treats it as a signal to try
// the next candidate; any other error is recorded in the trace and probing
// continues with the remaining candidates.
var ErrNotSupported = errors.New("kernel: operation not supported")

// ErrNoKernel is returned when no kernel implementation has been registered.
var ErrNoKernel = errors.New("kernel: no kernel registered")

// XYZ is a raw coordinate triple in kernel space.
// It doubles as point, direction, and displacement depending on the operation.
type XYZ struct {
	X, Y, Z float64
}

// Shape is an opaque handle to a kernel object (edge, wire, face, solid or
// compound). A Shape is owned by exactly one caller and is logically consumed
// when passed into a constructive operation; the kernel may reuse or
// invalidate it afterwards.
type Shape struct {
	v any
}

// WrapShape wraps a raw kernel object in an opaque handle.
// Kernel implementations use it when returning results from Invoke.
func WrapShape(v any) Shape { return Shape{v: v} }

// Raw returns the underlying kernel object. Only kernel implementations
// should inspect it.
func (s Shape) Raw() any { return s.v }

// IsNil reports whether the handle is empty.
func (s Shape) IsNil() bool { return s.v == nil }

// Mesh is a triangulated preview of a shape: a flat position buffer
// (x,y,z per vertex) and a triangle index buffer.
type Mesh struct {
	Positions []float32
	Indices   []uint32
}

// Kernel is the dispatch surface a geometry kernel exposes.
//
// Operations are resolved by name because the set of constructors (and their
// names) varies between kernel builds; the Adapter probes an ordered list of
// candidate names per primitive and memoizes the first that works.
type Kernel interface {
	// Name identifies the kernel implementation (e.g. "occt").
	Name() string

	// Version returns the kernel build version as a semantic version string.
	// The Adapter uses it to gate version-specific candidate operations.
	Version() string

	// Init prepares the kernel for use. Called once, lazily, on first use.
	Init() error

	// Close releases kernel resources.
	Close()

	// Invoke dispatches a named operation. Unknown operations must return
	// ErrNotSupported; known operations given invalid operands return a
	// descriptive error.
	Invoke(op string, args ...any) (any, error)

	// FS returns the transient filesystem the kernel's exchange writer
	// addresses. Export results are read back from here.
	FS() afero.Fs
}

// loggerSetter is implemented by kernels that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

var (
	regMu      sync.Mutex
	registered Kernel
	initDone   bool
	initErr    error
	logger     *slog.Logger
)

// Register installs k as the process-wide kernel. Registering a second kernel
// replaces the first; the previous instance is closed if it was initialized.
// Initialization is deferred until Default is first called.
func Register(k Kernel) {
	regMu.Lock()
	defer regMu.Unlock()
	if registered != nil && initDone && initErr == nil {
		registered.Close()
	}
	registered = k
	initDone = false
	initErr = nil
	if logger != nil {
		propagateLogger(k, logger)
	}
}

// Default returns the registered kernel, initializing it on first call.
// The same instance (or the same init error) is returned for the remainder
// of the session.
func Default() (Kernel, error) {
	regMu.Lock()
	defer regMu.Unlock()
	if registered == nil {
		return nil, ErrNoKernel
	}
	if !initDone {
		initErr = registered.Init()
		initDone = true
	}
	if initErr != nil {
		return nil, initErr
	}
	return registered, nil
}

// SetLogger passes a logger to the registered kernel (and any kernel
// registered later). Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	regMu.Lock()
	defer regMu.Unlock()
	logger = l
	if registered != nil {
		propagateLogger(registered, l)
	}
}

func propagateLogger(k Kernel, l *slog.Logger) {
	if ls, ok := k.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
