// Package mesh defines the consolidated triangle mesh handed to
// rendering collaborators: flat vertex, normal, and index buffers with
// globally consistent 0-based indices, plus the index-width policy and
// the non-indexed flattened layout for consumers without indexed-draw
// support.
package mesh

import "github.com/chewxy/math32"

// NarrowIndexLimit is the vertex count at which the index buffer must
// widen from uint16 to uint32. At 65,535 vertices narrow indices still
// hold every value; at 65,536 they no longer can. This is a bandwidth
// optimization for the renderer, not a correctness property of the
// uint32 buffer itself.
const NarrowIndexLimit = 1 << 16

// Mesh is a consolidated triangle mesh suitable for rendering.
// All arrays are flat: Vertices has 3 floats per vertex (x,y,z),
// Normals has 3 floats per vertex, Indices has 3 uint32s per triangle,
// each valid as an offset into the merged vertex buffer.
type Mesh struct {
	Vertices  []float32 `json:"vertices"`  // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32 `json:"normals"`   // [nx0,ny0,nz0, ...]
	Indices   []uint32  `json:"indices"`   // [i0,i1,i2, ...] triangles
	Triangles int       `json:"triangles"` // valid-triangle count
}

// Empty returns a valid mesh with zero geometry. A shape with no
// triangulatable faces consolidates to this, not to an error.
func Empty() *Mesh {
	return &Mesh{
		Vertices: []float32{},
		Normals:  []float32{},
		Indices:  []uint32{},
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return m.Triangles
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// IndexWidth returns the index element width in bytes a renderer should
// upload: 2 below NarrowIndexLimit vertices, 4 at or above.
func (m *Mesh) IndexWidth() int {
	if m.VertexCount() < NarrowIndexLimit {
		return 2
	}
	return 4
}

// NarrowIndices converts the index buffer to uint16 when every vertex is
// addressable narrowly. The second return is false when the mesh has too
// many vertices; callers must then upload the wide buffer unchanged.
func (m *Mesh) NarrowIndices() ([]uint16, bool) {
	if m.VertexCount() >= NarrowIndexLimit {
		return nil, false
	}
	narrow := make([]uint16, len(m.Indices))
	for i, v := range m.Indices {
		narrow[i] = uint16(v)
	}
	return narrow, true
}

// Bounds is the mesh's axis-aligned bounding box in render space.
type Bounds struct {
	Min [3]float32 `json:"min"`
	Max [3]float32 `json:"max"`
}

// Bounds computes the bounding box over all vertices. An empty mesh
// yields the zero Bounds.
func (m *Mesh) Bounds() Bounds {
	if m.IsEmpty() {
		return Bounds{}
	}
	b := Bounds{
		Min: [3]float32{math32.Inf(1), math32.Inf(1), math32.Inf(1)},
		Max: [3]float32{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)},
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := m.Vertices[i+a]
			b.Min[a] = math32.Min(b.Min[a], v)
			b.Max[a] = math32.Max(b.Max[a], v)
		}
	}
	return b
}

// ApproxMemory returns the approximate retained size of the mesh
// buffers in bytes.
func (m *Mesh) ApproxMemory() int {
	return 4 * (len(m.Vertices) + len(m.Normals) + len(m.Indices))
}
