package sdfx_test

import (
	"testing"

	"github.com/trestlecad/trestle/pkg/brep"
	"github.com/trestlecad/trestle/pkg/kernel"
	"github.com/trestlecad/trestle/pkg/kernel/sdfx"
	"github.com/trestlecad/trestle/pkg/tessellate"
)

func TestBoxBoundingBox(t *testing.T) {
	k := sdfx.New()
	min, max := k.Box(2, 3, 4).BoundingBox()

	// Boxes sit with their minimum corner at the origin.
	for a := 0; a < 3; a++ {
		if min[a] > 1e-9 || min[a] < -1e-9 {
			t.Errorf("min[%d] = %v, want 0", a, min[a])
		}
	}
	want := [3]float64{2, 3, 4}
	for a := 0; a < 3; a++ {
		if diff := max[a] - want[a]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("max[%d] = %v, want %v", a, max[a], want[a])
		}
	}
}

func TestTranslate(t *testing.T) {
	k := sdfx.New()
	s := k.Translate(k.Box(1, 1, 1), 10, 0, 0)
	min, _ := s.BoundingBox()
	if min[0] < 9.9 || min[0] > 10.1 {
		t.Errorf("translated min x = %v, want 10", min[0])
	}
}

func TestTriangulateBox(t *testing.T) {
	k := sdfx.New()
	shape, err := k.Triangulate(k.Box(2, 2, 2), kernel.DefaultOptions())
	if err != nil {
		t.Fatalf("Triangulate() error: %v", err)
	}

	// An SDF triangulates to a single forward soup face.
	if got := shape.NbFaces(); got != 1 {
		t.Fatalf("NbFaces() = %d, want 1", got)
	}
	face := shape.Face(0)
	if face.Orientation() != brep.Forward {
		t.Error("soup face should be forward")
	}
	tri := face.Triangulation()
	if tri.NbTriangles() == 0 {
		t.Fatal("no triangles from marching cubes")
	}
	// Nodes are duplicated per triangle.
	if tri.NbNodes() != 3*tri.NbTriangles() {
		t.Errorf("%d nodes for %d triangles, want exactly 3 per triangle",
			tri.NbNodes(), tri.NbTriangles())
	}
}

func TestDifferenceConsolidates(t *testing.T) {
	k := sdfx.New()
	plate := k.Box(4, 4, 1)
	hole := k.Translate(k.Cylinder(2, 1), 2, 2, 0.5)
	shape, err := k.Triangulate(k.Difference(plate, hole), kernel.Options{LinearDeflection: 0.2})
	if err != nil {
		t.Fatalf("Triangulate() error: %v", err)
	}

	m := tessellate.Consolidate(shape)
	if m.IsEmpty() {
		t.Fatal("difference consolidated to an empty mesh")
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals not aligned: %d vs %d floats", len(m.Normals), len(m.Vertices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= m.VertexCount() {
			t.Fatalf("index %d = %d out of range", i, idx)
		}
	}
}
