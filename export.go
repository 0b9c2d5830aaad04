package boxcad

import (
	"github.com/solidkit/boxcad/kernel"
)

// assemble groups the given solids for export. A single solid is exported
// directly; several are grouped into a compound of disjoint, independently
// extractable bodies. No geometric fusion takes place.
func (b *Builder) assemble(solids []kernel.Shape) (kernel.Shape, error) {
	if len(solids) == 1 {
		return solids[0], nil
	}
	return b.ad.Compound(solids)
}

// export serializes a shape to exchange bytes. Success means a non-empty
// byte buffer was read back from the kernel's write target; the writer's
// own status is not trusted (see kernel.Adapter.WriteExchange). On failure
// no partial artifact is produced.
func (b *Builder) export(solids ...kernel.Shape) ([]byte, error) {
	shape, err := b.assemble(solids)
	if err != nil {
		return nil, err
	}
	data, err := b.ad.WriteExchange(shape)
	if err != nil {
		return nil, err
	}
	Logger().Debug("model exported", "bytes", len(data), "bodies", len(solids))
	return data, nil
}
