package mesh

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chewxy/math32"
)

// stlTriangleSize is the fixed wire size of one binary STL triangle:
// normal + three vertices (12 floats) + attribute byte count.
const stlTriangleSize = 50

// WriteSTL writes the mesh to w in binary STL format: an 80-byte
// comment header, a uint32 triangle count, then 50 bytes per triangle,
// all little-endian. STL carries no shared indexing, so the mesh is
// flattened on the way out. Returns the number of bytes written.
func WriteSTL(w io.Writer, m *Mesh) (int, error) {
	if m.IsEmpty() {
		return 0, fmt.Errorf("mesh: cannot write empty mesh as STL")
	}

	// Count what the loop below will actually emit so the header and
	// body agree even if Triangles is stale.
	var buf [84]byte
	binary.LittleEndian.PutUint32(buf[80:], uint32(len(m.Indices)/3))
	n, err := w.Write(buf[:84])
	if err != nil {
		return n, err
	}

	var tri [stlTriangleSize]byte
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		fn := faceNormal(m.Vertices, i0, i1, i2)
		l := math32.Sqrt(fn[0]*fn[0] + fn[1]*fn[1] + fn[2]*fn[2])
		if l > 1e-12 {
			fn[0] /= l
			fn[1] /= l
			fn[2] /= l
		}

		off := 0
		for _, f := range fn {
			binary.LittleEndian.PutUint32(tri[off:], math32.Float32bits(f))
			off += 4
		}
		for _, vi := range [3]uint32{i0, i1, i2} {
			base := int(vi) * 3
			for a := 0; a < 3; a++ {
				binary.LittleEndian.PutUint32(tri[off:], math32.Float32bits(m.Vertices[base+a]))
				off += 4
			}
		}
		// Attribute byte count, always zero.
		tri[48] = 0
		tri[49] = 0

		ngot, err := w.Write(tri[:])
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
