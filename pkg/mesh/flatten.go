package mesh

import "github.com/chewxy/math32"

// FlatGeometry is the non-indexed layout: three vertices and three
// normals per triangle, duplicated, with no shared indexing. Strictly
// more bandwidth than the indexed triple; produce it only for
// collaborators lacking indexed-draw support.
type FlatGeometry struct {
	Positions []float32 `json:"positions"` // 9 floats per triangle
	Normals   []float32 `json:"normals"`   // 9 floats per triangle
	Triangles int       `json:"triangles"`
}

// Flatten expands the indexed mesh into FlatGeometry. Triangle order is
// preserved. Meshes without a normal buffer get one computed first.
func (m *Mesh) Flatten() *FlatGeometry {
	if len(m.Normals) != len(m.Vertices) {
		m.SmoothNormals()
	}
	fg := &FlatGeometry{
		Positions: make([]float32, 0, 9*m.Triangles),
		Normals:   make([]float32, 0, 9*m.Triangles),
		Triangles: m.Triangles,
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		for j := 0; j < 3; j++ {
			base := int(m.Indices[i+j]) * 3
			fg.Positions = append(fg.Positions, m.Vertices[base], m.Vertices[base+1], m.Vertices[base+2])
			fg.Normals = append(fg.Normals, m.Normals[base], m.Normals[base+1], m.Normals[base+2])
		}
	}
	return fg
}

// SmoothNormals recomputes per-vertex normals by averaging the face
// normals of every triangle sharing a vertex position. Positions are
// quantized so coincident vertices from different faces smooth across
// the seam. Meshes without a normal buffer get one allocated.
func (m *Mesh) SmoothNormals() {
	if m.IsEmpty() {
		return
	}
	if len(m.Normals) != len(m.Vertices) {
		m.Normals = make([]float32, len(m.Vertices))
	} else {
		for i := range m.Normals {
			m.Normals[i] = 0
		}
	}

	type key [3]int32
	const quantum = 1e4
	quant := func(vi uint32) key {
		base := int(vi) * 3
		return key{
			int32(m.Vertices[base] * quantum),
			int32(m.Vertices[base+1] * quantum),
			int32(m.Vertices[base+2] * quantum),
		}
	}

	// Accumulate area-weighted face normals per quantized position.
	acc := make(map[key][3]float32)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		n := faceNormal(m.Vertices, i0, i1, i2)
		for _, vi := range [3]uint32{i0, i1, i2} {
			k := quant(vi)
			a := acc[k]
			a[0] += n[0]
			a[1] += n[1]
			a[2] += n[2]
			acc[k] = a
		}
	}

	for vi := 0; vi < len(m.Vertices)/3; vi++ {
		a := acc[quant(uint32(vi))]
		l := math32.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
		if l > 1e-8 {
			a[0] /= l
			a[1] /= l
			a[2] /= l
		}
		m.Normals[vi*3] = a[0]
		m.Normals[vi*3+1] = a[1]
		m.Normals[vi*3+2] = a[2]
	}
}

// faceNormal returns the unnormalized cross-product normal of one
// triangle; magnitude carries the area weight.
func faceNormal(verts []float32, i0, i1, i2 uint32) [3]float32 {
	a, b, c := int(i0)*3, int(i1)*3, int(i2)*3
	e1 := [3]float32{verts[b] - verts[a], verts[b+1] - verts[a+1], verts[b+2] - verts[a+2]}
	e2 := [3]float32{verts[c] - verts[a], verts[c+1] - verts[a+1], verts[c+2] - verts[a+2]}
	return [3]float32{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
}
