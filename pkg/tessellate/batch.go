package tessellate

import (
	"context"
	"fmt"

	"github.com/trestlecad/trestle/pkg/brep"
	"github.com/trestlecad/trestle/pkg/mesh"
)

// Batch drives consolidation of many shapes in an environment where
// long synchronous work starves everything else. Consolidating one
// shape is never interrupted; between shapes the batch invokes the
// Yield hook and checks for cancellation. Responsiveness is the
// caller's concern, which is why the hook lives here and not in
// Consolidate.
type Batch struct {
	// Yield is called between shapes so the host can run other work.
	// Nil means no yielding.
	Yield func()
}

// Run consolidates every shape in order. Cancellation is honored only
// at shape boundaries: the shape in progress always completes. On
// cancellation the meshes consolidated so far are returned along with
// the context error.
func (b *Batch) Run(ctx context.Context, shapes []*brep.Shape) ([]*mesh.Mesh, error) {
	meshes := make([]*mesh.Mesh, 0, len(shapes))
	for i, s := range shapes {
		if err := ctx.Err(); err != nil {
			return meshes, fmt.Errorf("tessellate: batch cancelled after %d of %d shapes: %w", i, len(shapes), err)
		}
		meshes = append(meshes, Consolidate(s))
		if b.Yield != nil && i < len(shapes)-1 {
			b.Yield()
		}
	}
	return meshes, nil
}
