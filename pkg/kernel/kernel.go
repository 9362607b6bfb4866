// Package kernel defines the abstract geometry kernel interface.
// Implementations (prim, sdfx, occt) provide solid construction and
// incremental meshing behind this interface. The kernel abstraction
// allows swapping backends without changing the rest of the system.
package kernel

import "github.com/trestlecad/trestle/pkg/brep"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Default meshing deflections. Deflection bounds the deviation between
// a curved face and its triangle approximation: linear in model units,
// angular in radians.
const (
	DefaultLinearDeflection  = 0.1
	DefaultAngularDeflection = 0.5
)

// Options controls incremental meshing. The zero value requests the
// default deflection pair. Parallel affects throughput only; output
// face order and content are identical either way.
type Options struct {
	LinearDeflection  float64
	AngularDeflection float64
	Parallel          bool
}

// DefaultOptions returns the application's standard meshing options.
func DefaultOptions() Options {
	return Options{
		LinearDeflection:  DefaultLinearDeflection,
		AngularDeflection: DefaultAngularDeflection,
	}
}

// WithDefaults fills zero deflections with the defaults.
func (o Options) WithDefaults() Options {
	if o.LinearDeflection <= 0 {
		o.LinearDeflection = DefaultLinearDeflection
	}
	if o.AngularDeflection <= 0 {
		o.AngularDeflection = DefaultAngularDeflection
	}
	return o
}

// Mesher performs incremental meshing: it triangulates every face of a
// solid at the requested deflections and returns the resulting B-rep
// shape. Single faces that fail to mesh are reported on the face itself
// (brep.Face.Err), not as a shape-level error.
type Mesher interface {
	Triangulate(s Solid, o Options) (*brep.Shape, error)
}

// Kernel is the modeling interface for CSG-capable backends.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	Mesher
}
