package boxcad

import (
	"sync"

	"github.com/solidkit/boxcad/kernel"
)

// Builder runs the solid-synthesis pipeline against one kernel instance.
//
// A Builder is single-threaded: the kernel offers no internal concurrency
// guarantees, so a second build must not be issued before the first
// completes. The package-level entry points serialize builds on a shared
// default Builder; construct separate Builders only around separate kernels.
type Builder struct {
	ad    *kernel.Adapter
	trace *kernel.Trace
}

// BuilderOption configures a Builder during creation.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	k     kernel.Kernel
	trace *kernel.Trace
}

// WithKernel runs the pipeline against a specific, already initialized
// kernel instead of the registered default.
func WithKernel(k kernel.Kernel) BuilderOption {
	return func(o *builderOptions) {
		o.k = k
	}
}

// WithTrace attaches a caller-owned diagnostic trace. Construction failures
// carry the trace's recent events, so a caller that keeps the trace can
// analyze a failed build without re-running the kernel.
func WithTrace(t *kernel.Trace) BuilderOption {
	return func(o *builderOptions) {
		o.trace = t
	}
}

// NewBuilder creates a pipeline builder. Without options it acquires the
// process-wide registered kernel, initializing it on first use.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	var o builderOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.trace == nil {
		o.trace = kernel.NewTrace()
	}
	k := o.k
	if k == nil {
		var err error
		k, err = kernel.Default()
		if err != nil {
			return nil, err
		}
	}
	return &Builder{
		ad:    kernel.NewAdapter(k, o.trace),
		trace: o.trace,
	}, nil
}

// Trace returns the builder's diagnostic trace.
func (b *Builder) Trace() *kernel.Trace { return b.trace }

// BuildModel synthesizes the model described by the parameters and returns
// its exchange bytes. The build either succeeds, or fails with no partial
// artifact.
func (b *Builder) BuildModel(p Params) ([]byte, error) {
	solids, err := b.buildSolids(p)
	if err != nil {
		return nil, err
	}
	return b.export(solids...)
}

// BuildModelWithMesh additionally returns a triangulated preview mesh of the
// composed body. Exchange bytes and mesh describe the same geometry.
func (b *Builder) BuildModelWithMesh(p Params) ([]byte, *Mesh, error) {
	solids, err := b.buildSolids(p)
	if err != nil {
		return nil, nil, err
	}
	shape, err := b.assemble(solids)
	if err != nil {
		return nil, nil, err
	}
	mesh, err := b.ad.Tessellate(shape)
	if err != nil {
		return nil, nil, err
	}
	data, err := b.ad.WriteExchange(shape)
	if err != nil {
		return nil, nil, err
	}
	return data, mesh, nil
}

// BuildInnerCavityOnly exports only the rounded inner-cavity tool solid, for
// offline inspection of the cavity geometry in isolation. It returns
// (nil, nil) unless the shape is rectangular with rounded corners in effect.
func (b *Builder) BuildInnerCavityOnly(p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Shape != ShapeBox || !p.rounded() {
		return nil, nil
	}
	t := p.ResolveThickness()
	cavity, err := b.extrude(
		RoundedRectProfile(P3(t.Wall, t.Wall, t.Bottom), p.InsideWidth, p.InsideDepth, p.insideRadius()),
		p.InsideHeight)
	if err != nil {
		return nil, err
	}
	return b.export(cavity)
}

// buildSolids runs the synthesis stages shared by all entry points: resolve
// thickness once, build the base shell, then the optional lid.
func (b *Builder) buildSolids(p Params) ([]kernel.Shape, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	t := p.ResolveThickness()

	base, err := b.buildBaseShell(p, t)
	if err != nil {
		return nil, err
	}
	solids := []kernel.Shape{base}

	if p.IncludeLid {
		lid, err := b.buildLid(p, t)
		if err != nil {
			return nil, err
		}
		solids = append(solids, lid)
	}
	return solids, nil
}

// The package-level entry points share one lazily created Builder and
// serialize builds behind a mutex, which enforces the one-build-at-a-time
// contract for callers that never touch Builder directly.
var (
	defaultMu      sync.Mutex
	defaultBuilder *Builder
)

func acquireDefault() (*Builder, error) {
	if defaultBuilder != nil {
		return defaultBuilder, nil
	}
	b, err := NewBuilder()
	if err != nil {
		return nil, err
	}
	defaultBuilder = b
	return b, nil
}

// BuildModel builds a model with the default Builder. See Builder.BuildModel.
func BuildModel(p Params) ([]byte, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	b, err := acquireDefault()
	if err != nil {
		return nil, err
	}
	return b.BuildModel(p)
}

// BuildModelWithMesh builds a model and its preview mesh with the default
// Builder. See Builder.BuildModelWithMesh.
func BuildModelWithMesh(p Params) ([]byte, *Mesh, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	b, err := acquireDefault()
	if err != nil {
		return nil, nil, err
	}
	return b.BuildModelWithMesh(p)
}

// BuildInnerCavityOnly exports the cavity tool solid with the default
// Builder. See Builder.BuildInnerCavityOnly.
func BuildInnerCavityOnly(p Params) ([]byte, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	b, err := acquireDefault()
	if err != nil {
		return nil, err
	}
	return b.BuildInnerCavityOnly(p)
}
