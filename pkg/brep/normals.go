package brep

import (
	"sync"

	"github.com/trestlecad/trestle/pkg/geom"
)

// scratchPool recycles the per-face normal accumulation buffers. One
// buffer is checked out per face being processed and returned by
// NormalScratch.Release.
var scratchPool = sync.Pool{
	New: func() any {
		return &NormalScratch{}
	},
}

// NormalScratch holds one unit normal per triangulation node, 1-based
// like the triangulation itself. It is a pooled kernel-side resource:
// Release it when the face's processing is done.
type NormalScratch struct {
	normals  []geom.Vec3
	released bool
}

// Normal returns the i-th node normal, 1-based, in model space.
func (s *NormalScratch) Normal(i int) geom.Vec3 {
	return s.normals[i-1]
}

// NbNormals returns the normal count, equal to the face's node count.
func (s *NormalScratch) NbNormals() int {
	return len(s.normals)
}

// Release returns the scratch to the pool. The scratch must not be used
// afterward. Safe to call more than once.
func (s *NormalScratch) Release() {
	if s.released {
		return
	}
	s.released = true
	scratchPool.Put(s)
}

// ComputeNormals is the per-node normal service: it accumulates
// area-weighted triangle normals at each node of the face's
// triangulation and normalizes. Orientation is handled here — normals
// of a Reversed face are flipped to point outward — so consolidation
// only ever corrects winding, never normals. The returned scratch is in
// model space; apply the face location's rotation for world space.
func ComputeNormals(f *Face, t *Triangulation) *NormalScratch {
	s := scratchPool.Get().(*NormalScratch)
	s.released = false

	n := t.NbNodes()
	if cap(s.normals) < n {
		s.normals = make([]geom.Vec3, n)
	} else {
		s.normals = s.normals[:n]
		for i := range s.normals {
			s.normals[i] = geom.Vec3{}
		}
	}

	for i := 1; i <= t.NbTriangles(); i++ {
		tri := t.Triangle(i)
		p0 := t.Node(tri[0])
		p1 := t.Node(tri[1])
		p2 := t.Node(tri[2])
		// Cross product magnitude carries the area weight.
		fn := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, ni := range tri {
			s.normals[ni-1] = s.normals[ni-1].Add(fn)
		}
	}

	flip := f.Orientation() == Reversed
	for i := range s.normals {
		nrm := s.normals[i].Normalize()
		if flip {
			nrm = nrm.Scale(-1)
		}
		s.normals[i] = nrm
	}
	return s
}
