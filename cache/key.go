package cache

import (
	"fmt"
	"hash/fnv"

	"github.com/solidkit/boxcad"
)

// Key derives the cache key for one build: an FNV-1a hash over the
// canonicalized parameters and the kernel identity. Two builds share a key
// exactly when they are guaranteed to produce identical export bytes, which
// holds for identical parameters on the same kernel build.
func Key(p boxcad.Params, kernelName, kernelVersion string) string {
	t := p.ResolveThickness()
	canonical := fmt.Sprintf(
		"v1|%s|%s|shape=%s|w=%.9g|d=%.9g|h=%.9g|lid=%t|cl=%.9g|rr=%t|r=%.9g|tw=%.9g|tt=%.9g|tb=%.9g",
		kernelName, kernelVersion,
		p.Shape, p.InsideWidth, p.InsideDepth, p.InsideHeight,
		p.IncludeLid, p.Clearance,
		p.IncludeInsideRadius, p.InsideRadius,
		t.Wall, t.Top, t.Bottom,
	)
	h := fnv.New64a()
	_, _ = h.Write([]byte(canonical)) // fnv.Write never returns an error
	return fmt.Sprintf("%016x", h.Sum64())
}
