// Package tessellate is the mesh consolidation engine: it walks the
// faces of a triangulated B-rep shape, extracts per-face vertex,
// normal, and index buffers, corrects winding on reversed faces, and
// joins the per-face buffers into one consolidated mesh with globally
// consistent indices.
package tessellate

import (
	"go.uber.org/zap"

	"github.com/trestlecad/trestle/pkg/brep"
	"github.com/trestlecad/trestle/pkg/logger"
	"github.com/trestlecad/trestle/pkg/mesh"
)

// FaceBuffer is one face's extracted geometry: world-space vertex and
// normal coordinates (3 per vertex, index-aligned) and 0-based
// winding-corrected triangle indices local to this face.
type FaceBuffer struct {
	Vertices  []float32
	Normals   []float32
	Indices   []uint32
	Triangles int
}

// ExtractFaces walks the shape's faces in kernel traversal order and
// extracts a FaceBuffer per triangulated face. Degenerate faces (no
// triangulation, zero nodes, or zero triangles) contribute nothing and
// are not an error. A face whose kernel-side meshing failed is skipped
// with a warning; one bad face never aborts the shape.
func ExtractFaces(s *brep.Shape) []FaceBuffer {
	if s == nil {
		return nil
	}
	var out []FaceBuffer
	for i := 0; i < s.NbFaces(); i++ {
		f := s.Face(i)
		if err := f.Err(); err != nil {
			logger.Warn("skipping face after kernel error",
				zap.Int("face", i), zap.Error(err))
			continue
		}
		fb, ok := extractFace(f)
		if !ok {
			logger.Debug("skipping degenerate face", zap.Int("face", i))
			continue
		}
		out = append(out, fb)
	}
	return out
}

// extractFace copies one face's triangulation into flat buffers. The
// triangulation record and the normal scratch are kernel-side resources
// released before returning, on every path.
func extractFace(f *brep.Face) (FaceBuffer, bool) {
	tri := f.Triangulation()
	if tri == nil {
		return FaceBuffer{}, false
	}
	defer tri.Release()

	n := tri.NbNodes()
	if n == 0 || tri.NbTriangles() == 0 {
		return FaceBuffer{}, false
	}

	loc := f.Location()
	fb := FaceBuffer{
		Vertices: make([]float32, 0, 3*n),
		Normals:  make([]float32, 0, 3*n),
		Indices:  make([]uint32, 0, 3*tri.NbTriangles()),
	}

	// Nodes are 1-based kernel-side; storage here is 0-based contiguous.
	for i := 1; i <= n; i++ {
		p := loc.Apply(tri.Node(i))
		fb.Vertices = append(fb.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}

	scratch := brep.ComputeNormals(f, tri)
	defer scratch.Release()
	for i := 1; i <= n; i++ {
		d := loc.ApplyVec(scratch.Normal(i))
		fb.Normals = append(fb.Normals, float32(d.X), float32(d.Y), float32(d.Z))
	}

	reversed := f.Orientation() == brep.Reversed
	for i := 1; i <= tri.NbTriangles(); i++ {
		t := tri.Triangle(i)
		a, b, c := uint32(t[0]-1), uint32(t[1]-1), uint32(t[2]-1)
		// Reversed faces store inward-winding triangles; swapping the
		// first two indices flips them outward. Forward faces are
		// emitted as stored.
		if reversed {
			a, b = b, a
		}
		fb.Indices = append(fb.Indices, a, b, c)
		fb.Triangles++
	}
	return fb, true
}

// Join merges per-face buffers into one consolidated mesh. Indices of
// each face are rebased by the vertex count of all previously merged
// faces; the offset advances once per face, after that face's vertices
// are appended. Empty input yields a valid empty mesh.
func Join(faces []FaceBuffer) *mesh.Mesh {
	m := mesh.Empty()
	var offset uint32
	for _, f := range faces {
		m.Vertices = append(m.Vertices, f.Vertices...)
		m.Normals = append(m.Normals, f.Normals...)
		for _, idx := range f.Indices {
			m.Indices = append(m.Indices, idx+offset)
		}
		m.Triangles += f.Triangles
		offset += uint32(len(f.Vertices) / 3)
	}
	return m
}

// Consolidate runs extraction and joining in one call. It is
// synchronous and runs to completion; callers driving many shapes wrap
// it in a Batch for yields and cancellation.
func Consolidate(s *brep.Shape) *mesh.Mesh {
	return Join(ExtractFaces(s))
}
