package prim_test

import (
	"testing"

	"github.com/trestlecad/trestle/pkg/brep"
	"github.com/trestlecad/trestle/pkg/kernel"
	"github.com/trestlecad/trestle/pkg/kernel/prim"
	"github.com/trestlecad/trestle/pkg/tessellate"
)

func triangulate(t *testing.T, s kernel.Solid, o kernel.Options) *brep.Shape {
	t.Helper()
	shape, err := prim.NewMesher().Triangulate(s, o)
	if err != nil {
		t.Fatalf("Triangulate() error: %v", err)
	}
	return shape
}

func TestBoxShape(t *testing.T) {
	shape := triangulate(t, prim.NewBox(2, 3, 4), kernel.DefaultOptions())
	if got := shape.NbFaces(); got != 6 {
		t.Fatalf("NbFaces() = %d, want 6", got)
	}

	forward, reversed := 0, 0
	for i := 0; i < shape.NbFaces(); i++ {
		f := shape.Face(i)
		tri := f.Triangulation()
		if tri == nil {
			t.Fatalf("face %d has no triangulation", i)
		}
		if tri.NbNodes() != 4 || tri.NbTriangles() != 2 {
			t.Errorf("face %d: %d nodes, %d triangles, want 4 and 2",
				i, tri.NbNodes(), tri.NbTriangles())
		}
		if f.Orientation() == brep.Reversed {
			reversed++
		} else {
			forward++
		}
	}
	// Opposing faces share a parameterization, so half are reversed.
	if forward != 3 || reversed != 3 {
		t.Errorf("orientation split = %d forward / %d reversed, want 3/3", forward, reversed)
	}
}

func TestBoxConsolidated(t *testing.T) {
	shape := triangulate(t, prim.NewBox(2, 3, 4), kernel.DefaultOptions())
	m := tessellate.Consolidate(shape)

	if got := m.VertexCount(); got != 24 {
		t.Errorf("VertexCount() = %d, want 24 (4 per face)", got)
	}
	if got := m.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount() = %d, want 12", got)
	}
	b := m.Bounds()
	if b.Min != [3]float32{0, 0, 0} || b.Max != [3]float32{2, 3, 4} {
		t.Errorf("Bounds = %v..%v, want (0,0,0)..(2,3,4)", b.Min, b.Max)
	}
}

// signedVolume computes the signed volume of a closed consolidated
// mesh via the divergence theorem. It matches the true volume only
// when every triangle winds outward; a winding error on any face drags
// the total far off.
func signedVolume(verts []float32, idx []uint32) float64 {
	var vol float64
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := int(idx[i])*3, int(idx[i+1])*3, int(idx[i+2])*3
		ax, ay, az := float64(verts[a]), float64(verts[a+1]), float64(verts[a+2])
		bx, by, bz := float64(verts[b]), float64(verts[b+1]), float64(verts[b+2])
		cx, cy, cz := float64(verts[c]), float64(verts[c+1]), float64(verts[c+2])
		vol += (ax*(by*cz-bz*cy) - ay*(bx*cz-bz*cx) + az*(bx*cy-by*cx)) / 6
	}
	return vol
}

func TestBoxWindingOutward(t *testing.T) {
	shape := triangulate(t, prim.NewBox(2, 3, 4), kernel.DefaultOptions())
	m := tessellate.Consolidate(shape)

	vol := signedVolume(m.Vertices, m.Indices)
	if vol < 23.9 || vol > 24.1 {
		t.Errorf("signed volume = %v, want 24 (outward-consistent winding)", vol)
	}
}

func TestStepBeamShape(t *testing.T) {
	shape := triangulate(t, prim.NewStepBeam(400, 50, 110, 20), kernel.DefaultOptions())
	// Six walls plus two end caps.
	if got := shape.NbFaces(); got != 8 {
		t.Fatalf("NbFaces() = %d, want 8", got)
	}

	// End caps carry the six-node step profile.
	for _, fi := range []int{6, 7} {
		tri := shape.Face(fi).Triangulation()
		if tri.NbNodes() != 6 || tri.NbTriangles() != 4 {
			t.Errorf("cap %d: %d nodes, %d triangles, want 6 and 4",
				fi, tri.NbNodes(), tri.NbTriangles())
		}
	}
	if shape.Face(6).Orientation() != brep.Forward {
		t.Error("far cap should be forward")
	}
	if shape.Face(7).Orientation() != brep.Reversed {
		t.Error("near cap should be reversed")
	}
}

func TestStepBeamVolume(t *testing.T) {
	// 400×50×110 prism minus the 20×20 step notch along the length.
	shape := triangulate(t, prim.NewStepBeam(400, 50, 110, 20), kernel.DefaultOptions())
	m := tessellate.Consolidate(shape)

	want := 400.0 * (50*110 - 20*20)
	vol := signedVolume(m.Vertices, m.Indices)
	if vol < want*0.999 || vol > want*1.001 {
		t.Errorf("signed volume = %v, want %v", vol, want)
	}
}

func TestStepBeamNotchCorner(t *testing.T) {
	// Beam 50 wide, 110 deep, 20 step: the notch removes the y<20, z>90
	// corner, so cross-section vertices sit exactly on y ∈ {0, 20, 50}
	// and z ∈ {0, 90, 110} and none falls inside the removed square.
	shape := triangulate(t, prim.NewStepBeam(400, 50, 110, 20), kernel.DefaultOptions())
	m := tessellate.Consolidate(shape)

	ys := map[float32]bool{}
	zs := map[float32]bool{}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		y, z := m.Vertices[i+1], m.Vertices[i+2]
		ys[y] = true
		zs[z] = true
		if y < 20 && z > 90 {
			t.Fatalf("vertex (y=%v, z=%v) lies inside the notch", y, z)
		}
	}
	for _, y := range []float32{0, 20, 50} {
		if !ys[y] {
			t.Errorf("no vertex at y=%v", y)
		}
	}
	for _, z := range []float32{0, 90, 110} {
		if !zs[z] {
			t.Errorf("no vertex at z=%v", z)
		}
	}
	if len(ys) != 3 || len(zs) != 3 {
		t.Errorf("cross-section has %d y-values and %d z-values, want 3 each", len(ys), len(zs))
	}
}

func TestCylinderShape(t *testing.T) {
	shape := triangulate(t, prim.NewCylinder(10, 5), kernel.DefaultOptions())
	if got := shape.NbFaces(); got != 3 {
		t.Fatalf("NbFaces() = %d, want 3 (wall and two caps)", got)
	}

	wall := shape.Face(0).Triangulation()
	n := wall.NbTriangles() / 2
	if wall.NbNodes() != 2*(n+1) {
		t.Errorf("wall: %d nodes for %d segments", wall.NbNodes(), n)
	}

	// Tighter deflection means more wall segments.
	fine := triangulate(t, prim.NewCylinder(10, 5), kernel.Options{
		LinearDeflection:  0.01,
		AngularDeflection: 0.1,
	})
	if fine.Face(0).Triangulation().NbTriangles() <= wall.NbTriangles() {
		t.Error("tighter deflection did not refine the wall")
	}
}

func TestCylinderVolume(t *testing.T) {
	shape := triangulate(t, prim.NewCylinder(10, 5), kernel.Options{
		LinearDeflection:  0.01,
		AngularDeflection: 0.05,
	})
	m := tessellate.Consolidate(shape)

	// Inscribed polygon underestimates π r² slightly; 1% is plenty at
	// this refinement.
	want := 3.14159265 * 25 * 10
	vol := signedVolume(m.Vertices, m.Indices)
	if vol < want*0.99 || vol > want*1.01 {
		t.Errorf("signed volume = %v, want ≈%v", vol, want)
	}
}

func TestFaceBufferInvariants(t *testing.T) {
	solids := []struct {
		name  string
		solid kernel.Solid
	}{
		{"box", prim.NewBox(1, 2, 3)},
		{"plate", prim.NewPlate(100, 50, 5)},
		{"beam", prim.NewStepBeam(400, 50, 110, 20)},
		{"cylinder", prim.NewCylinder(10, 5)},
	}
	for _, tt := range solids {
		t.Run(tt.name, func(t *testing.T) {
			shape := triangulate(t, tt.solid, kernel.DefaultOptions())
			for fi, fb := range tessellate.ExtractFaces(shape) {
				nodes := len(fb.Vertices) / 3
				if len(fb.Vertices)%3 != 0 {
					t.Errorf("face %d: vertex floats not a multiple of 3", fi)
				}
				if len(fb.Normals) != len(fb.Vertices) {
					t.Errorf("face %d: %d normal floats, want %d", fi, len(fb.Normals), len(fb.Vertices))
				}
				if len(fb.Indices) != 3*fb.Triangles {
					t.Errorf("face %d: %d indices for %d triangles", fi, len(fb.Indices), fb.Triangles)
				}
				for _, idx := range fb.Indices {
					if int(idx) >= nodes {
						t.Errorf("face %d: index %d out of range [0,%d)", fi, idx, nodes)
					}
				}
			}
		})
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	serial := triangulate(t, prim.NewStepBeam(400, 50, 110, 20), kernel.DefaultOptions())
	po := kernel.DefaultOptions()
	po.Parallel = true
	parallel := triangulate(t, prim.NewStepBeam(400, 50, 110, 20), po)

	ms := tessellate.Consolidate(serial)
	mp := tessellate.Consolidate(parallel)

	if ms.VertexCount() != mp.VertexCount() || ms.TriangleCount() != mp.TriangleCount() {
		t.Fatalf("parallel output differs: %d/%d vs %d/%d vertices/triangles",
			ms.VertexCount(), ms.TriangleCount(), mp.VertexCount(), mp.TriangleCount())
	}
	for i := range ms.Vertices {
		if ms.Vertices[i] != mp.Vertices[i] {
			t.Fatalf("vertex float %d differs: %v vs %v", i, ms.Vertices[i], mp.Vertices[i])
		}
	}
	for i := range ms.Indices {
		if ms.Indices[i] != mp.Indices[i] {
			t.Fatalf("index %d differs: %d vs %d", i, ms.Indices[i], mp.Indices[i])
		}
	}
}

func TestBoundingBoxes(t *testing.T) {
	min, max := prim.NewStepBeam(400, 50, 110, 20).BoundingBox()
	if min != [3]float64{0, 0, 0} || max != [3]float64{400, 50, 110} {
		t.Errorf("beam bounds = %v..%v", min, max)
	}
	min, max = prim.NewCylinder(10, 5).BoundingBox()
	if min != [3]float64{-5, -5, 0} || max != [3]float64{5, 5, 10} {
		t.Errorf("cylinder bounds = %v..%v", min, max)
	}
}

func TestUnsupportedSolid(t *testing.T) {
	var bogus fakeSolid
	if _, err := prim.NewMesher().Triangulate(bogus, kernel.DefaultOptions()); err == nil {
		t.Error("Triangulate accepted a foreign solid")
	}
}

type fakeSolid struct{}

func (fakeSolid) BoundingBox() (min, max [3]float64) { return }
