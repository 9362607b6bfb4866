//go:build occt

// Package occt provides a CGo-based geometry kernel binding to Open
// CASCADE Technology (https://dev.opencascade.org) through the
// occtwrap C shim, which flattens the OCCT C++ surface the backend
// needs: primitive construction, booleans, transforms, and incremental
// meshing with per-face triangulation access.
//
// This package requires the occtwrap shared library and OCCT itself to
// be installed. Build with: go build -tags=occt
package occt

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -locctwrap

#include <stdlib.h>
#include <occtwrap.h>
*/
import "C"

import (
	"fmt"
	"runtime"

	"github.com/trestlecad/trestle/pkg/brep"
	"github.com/trestlecad/trestle/pkg/geom"
	"github.com/trestlecad/trestle/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*OcctKernel)(nil)
	_ kernel.Solid  = (*occtSolid)(nil)
)

// occtSolid wraps a C OcctShape pointer and implements kernel.Solid.
type occtSolid struct {
	ptr *C.OcctShape
}

// newSolid wraps a C OcctShape pointer with a Go-side finalizer for
// automatic memory management.
func newSolid(ptr *C.OcctShape) *occtSolid {
	s := &occtSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *occtSolid) {
		if s.ptr != nil {
			C.occt_shape_delete(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *occtSolid) BoundingBox() (min, max [3]float64) {
	var box C.OcctBox
	C.occt_shape_bounds(s.ptr, &box)
	min = [3]float64{float64(box.min[0]), float64(box.min[1]), float64(box.min[2])}
	max = [3]float64{float64(box.max[0]), float64(box.max[1]), float64(box.max[2])}
	return min, max
}

// OcctKernel implements kernel.Kernel using OCCT.
type OcctKernel struct{}

// New returns an OcctKernel, or an error if the OCCT runtime cannot be
// initialized.
func New() (kernel.Kernel, error) {
	if C.occt_init() != 0 {
		return nil, fmt.Errorf("occt: runtime initialization failed")
	}
	return &OcctKernel{}, nil
}

func unwrap(s kernel.Solid) *C.OcctShape {
	return s.(*occtSolid).ptr
}

// Box creates a box with its minimum corner at the origin.
func (k *OcctKernel) Box(x, y, z float64) kernel.Solid {
	return newSolid(C.occt_make_box(C.double(x), C.double(y), C.double(z)))
}

// Cylinder creates a cylinder with the given height and radius.
func (k *OcctKernel) Cylinder(height, radius float64) kernel.Solid {
	return newSolid(C.occt_make_cylinder(C.double(height), C.double(radius)))
}

// Union returns the union of two solids.
func (k *OcctKernel) Union(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.occt_boolean(unwrap(a), unwrap(b), C.OCCT_BOOL_FUSE))
}

// Difference returns the difference a - b.
func (k *OcctKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.occt_boolean(unwrap(a), unwrap(b), C.OCCT_BOOL_CUT))
}

// Intersection returns the intersection of two solids.
func (k *OcctKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.occt_boolean(unwrap(a), unwrap(b), C.OCCT_BOOL_COMMON))
}

// Translate moves a solid by (x, y, z).
func (k *OcctKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return newSolid(C.occt_translate(unwrap(s), C.double(x), C.double(y), C.double(z)))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *OcctKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return newSolid(C.occt_rotate(unwrap(s), C.double(x), C.double(y), C.double(z)))
}

// Triangulate runs OCCT incremental meshing at the requested
// deflections and copies every face's triangulation into brep records.
// A face whose meshing failed is carried as a failed face so
// consolidation can skip it without aborting the shape.
func (k *OcctKernel) Triangulate(s kernel.Solid, o kernel.Options) (*brep.Shape, error) {
	o = o.WithDefaults()
	mesh := C.occt_mesh_incremental(unwrap(s),
		C.double(o.LinearDeflection), C.double(o.AngularDeflection),
		C.int(boolToInt(o.Parallel)))
	if mesh == nil {
		return nil, fmt.Errorf("occt: incremental meshing failed")
	}
	defer C.occt_mesh_delete(mesh)

	nFaces := int(C.occt_mesh_face_count(mesh))
	faces := make([]*brep.Face, 0, nFaces)
	for fi := 0; fi < nFaces; fi++ {
		face, err := copyFace(mesh, fi)
		if err != nil {
			faces = append(faces, brep.NewFailedFace(err))
			continue
		}
		faces = append(faces, face)
	}
	return brep.NewShape(faces...), nil
}

// copyFace extracts one face's triangulation and location out of the C
// mesh result.
func copyFace(mesh *C.OcctMesh, fi int) (*brep.Face, error) {
	if C.occt_face_failed(mesh, C.int(fi)) != 0 {
		return nil, fmt.Errorf("occt: face %d meshing failed", fi)
	}

	nNodes := int(C.occt_face_node_count(mesh, C.int(fi)))
	nTris := int(C.occt_face_triangle_count(mesh, C.int(fi)))
	if nNodes == 0 || nTris == 0 {
		// Degenerate face: carried without a triangulation record.
		return brep.NewFace(nil, brep.Forward, geom.Identity()), nil
	}

	nodes := make([]geom.Vec3, nNodes)
	for i := 0; i < nNodes; i++ {
		var p C.OcctPoint
		C.occt_face_node(mesh, C.int(fi), C.int(i+1), &p)
		nodes[i] = geom.Vec3{X: float64(p.x), Y: float64(p.y), Z: float64(p.z)}
	}

	tris := make([]brep.Triangle, nTris)
	for i := 0; i < nTris; i++ {
		var t C.OcctTriangle
		C.occt_face_triangle(mesh, C.int(fi), C.int(i+1), &t)
		tris[i] = brep.Triangle{int(t.n1), int(t.n2), int(t.n3)}
	}

	orient := brep.Forward
	if C.occt_face_reversed(mesh, C.int(fi)) != 0 {
		orient = brep.Reversed
	}

	var trsf C.OcctTrsf
	C.occt_face_location(mesh, C.int(fi), &trsf)
	loc := geom.Translation(geom.Vec3{
		X: float64(trsf.t[0]), Y: float64(trsf.t[1]), Z: float64(trsf.t[2]),
	})

	return brep.NewFace(brep.NewTriangulation(nodes, tris), orient, loc), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
