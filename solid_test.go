package boxcad

import (
	"fmt"
	"testing"

	"github.com/solidkit/boxcad/kernel"
	"github.com/solidkit/boxcad/kernel/occt"
)

// noPrismKernel hides every prism-style extrusion op, forcing the synthesis
// pipeline onto the sweep-along-spine fallback.
type noPrismKernel struct {
	kernel.Kernel
}

func (k *noPrismKernel) Invoke(op string, args ...any) (any, error) {
	switch op {
	case "MakePrism", "ExtrudeLinear":
		return nil, fmt.Errorf("%w: %s", kernel.ErrNotSupported, op)
	}
	return k.Kernel.Invoke(op, args...)
}

func TestExtrudeFallsBackToSweep(t *testing.T) {
	inner := occt.New()
	if err := inner.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer inner.Close()

	trace := kernel.NewTrace()
	b, err := NewBuilder(WithKernel(&noPrismKernel{Kernel: inner}), WithTrace(trace))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	p := boxParams()
	p.IncludeLid = true
	p.Clearance = 0.2
	data, err := b.BuildModel(p)
	if err != nil {
		t.Fatalf("BuildModel via sweep fallback: %v", err)
	}
	if n := solidCount(t, data); n != 2 {
		t.Errorf("solid count = %d, want 2", n)
	}

	// The fallback leaves a diagnostic breadcrumb.
	found := false
	for _, e := range trace.Events() {
		if e.Label == "prism" {
			found = true
		}
	}
	if !found {
		t.Error("sweep fallback not recorded in the trace")
	}
}

func TestSweepAndPrismAgree(t *testing.T) {
	inner := occt.New()
	if err := inner.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer inner.Close()

	swept, err := NewBuilder(WithKernel(&noPrismKernel{Kernel: inner}))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	direct, err := NewBuilder(WithKernel(inner))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	p := boxParams()
	a, err := swept.BuildModel(p)
	if err != nil {
		t.Fatalf("sweep build: %v", err)
	}
	c, err := direct.BuildModel(p)
	if err != nil {
		t.Fatalf("prism build: %v", err)
	}
	if string(a) != string(c) {
		t.Error("sweep fallback and planar extrusion produced different geometry")
	}
}
