// Package brep models the output side of a boundary-representation
// geometry kernel: shapes made of faces, per-face triangulation records
// with 1-based node and triangle accessors, face orientation, and a
// per-node normal service. The consolidation engine consumes this
// surface; kernel backends produce it.
package brep

import (
	"fmt"

	"github.com/trestlecad/trestle/pkg/geom"
)

// Orientation tells whether a face's parameterization agrees with its
// outward side. Triangles of a Reversed face wind inward as stored and
// need winding correction when consolidated.
type Orientation int

const (
	Forward Orientation = iota
	Reversed
)

// String returns the orientation name.
func (o Orientation) String() string {
	if o == Reversed {
		return "reversed"
	}
	return "forward"
}

// Triangle is a triple of 1-based node indices into a face's
// triangulation.
type Triangle [3]int

// Triangulation is one face's triangle approximation. Node and triangle
// accessors are 1-based, matching the kernel convention. A Triangulation
// is a kernel-side resource: callers must Release it when the face's
// processing is done.
type Triangulation struct {
	nodes     []geom.Vec3
	triangles []Triangle
	released  bool
}

// NewTriangulation builds a triangulation record from model-space nodes
// and 1-based triangles. It panics if any triangle references a node
// outside [1, len(nodes)]; backends are required to produce in-range
// indices.
func NewTriangulation(nodes []geom.Vec3, triangles []Triangle) *Triangulation {
	for ti, tri := range triangles {
		for _, n := range tri {
			if n < 1 || n > len(nodes) {
				panic(fmt.Sprintf("brep: triangle %d references node %d, valid range [1, %d]", ti+1, n, len(nodes)))
			}
		}
	}
	return &Triangulation{nodes: nodes, triangles: triangles}
}

// NbNodes returns the node count.
func (t *Triangulation) NbNodes() int {
	return len(t.nodes)
}

// NbTriangles returns the triangle count.
func (t *Triangulation) NbTriangles() int {
	return len(t.triangles)
}

// Node returns the i-th node in model space, 1-based.
func (t *Triangulation) Node(i int) geom.Vec3 {
	return t.nodes[i-1]
}

// Triangle returns the i-th triangle, 1-based.
func (t *Triangulation) Triangle(i int) Triangle {
	return t.triangles[i-1]
}

// Release returns the record's buffers to the kernel. Safe to call more
// than once; accessors must not be used afterward.
func (t *Triangulation) Release() {
	if t.released {
		return
	}
	t.released = true
	t.nodes = nil
	t.triangles = nil
}

// Released reports whether Release has been called.
func (t *Triangulation) Released() bool {
	return t.released
}

// Face is one bounding face of a shape: a triangulation record (nil for
// degenerate faces), an orientation flag, and a local-to-world location.
type Face struct {
	tri    *Triangulation
	orient Orientation
	loc    geom.Trsf
	err    error
}

// NewFace builds a face. tri may be nil for degenerate (zero-area)
// faces; such faces contribute nothing when consolidated.
func NewFace(tri *Triangulation, orient Orientation, loc geom.Trsf) *Face {
	return &Face{tri: tri, orient: orient, loc: loc}
}

// NewFailedFace records a face whose meshing failed kernel-side. The
// consolidation engine skips it without aborting the shape.
func NewFailedFace(err error) *Face {
	return &Face{err: err, loc: geom.Identity()}
}

// Triangulation returns the face's triangulation record, or nil when the
// face is degenerate.
func (f *Face) Triangulation() *Triangulation {
	return f.tri
}

// Orientation returns the face orientation flag.
func (f *Face) Orientation() Orientation {
	return f.orient
}

// Location returns the face's local-to-world transform.
func (f *Face) Location() geom.Trsf {
	return f.loc
}

// Err returns the kernel-side meshing error for this face, if any.
func (f *Face) Err() error {
	return f.err
}

// Shape is an ordered list of faces, the unit the consolidation engine
// operates on. Face order is the kernel's traversal order and is
// preserved through consolidation.
type Shape struct {
	faces []*Face
}

// NewShape builds a shape from faces in traversal order.
func NewShape(faces ...*Face) *Shape {
	return &Shape{faces: faces}
}

// NbFaces returns the face count.
func (s *Shape) NbFaces() int {
	return len(s.faces)
}

// Face returns the i-th face, 0-based.
func (s *Shape) Face(i int) *Face {
	return s.faces[i]
}

// BoundingBox returns the model-space bounding box over all face nodes.
// Faces already released or degenerate contribute nothing.
func (s *Shape) BoundingBox() geom.Box3 {
	box := geom.EmptyBox3()
	for _, f := range s.faces {
		t := f.tri
		if t == nil || t.released {
			continue
		}
		for i := 1; i <= t.NbNodes(); i++ {
			box.Extend(f.loc.Apply(t.Node(i)))
		}
	}
	return box
}
