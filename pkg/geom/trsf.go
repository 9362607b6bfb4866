package geom

import "math"

// Trsf is a rigid local-to-world transform: a rotation followed by a
// translation. Rotation is stored row-major. Because the transform is
// rigid, directions (normals) transform by the rotation part alone.
type Trsf struct {
	rot   [9]float64
	trans Vec3
}

// Identity returns the identity transform.
func Identity() Trsf {
	return Trsf{rot: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// Translation returns a pure translation by v.
func Translation(v Vec3) Trsf {
	t := Identity()
	t.trans = v
	return t
}

// RotationX returns a rotation about the X axis by angle radians.
func RotationX(angle float64) Trsf {
	c, s := math.Cos(angle), math.Sin(angle)
	return Trsf{rot: [9]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}}
}

// RotationY returns a rotation about the Y axis by angle radians.
func RotationY(angle float64) Trsf {
	c, s := math.Cos(angle), math.Sin(angle)
	return Trsf{rot: [9]float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}}
}

// RotationZ returns a rotation about the Z axis by angle radians.
func RotationZ(angle float64) Trsf {
	c, s := math.Cos(angle), math.Sin(angle)
	return Trsf{rot: [9]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}}
}

// Mul returns the composition t∘o: o applied first, then t.
func (t Trsf) Mul(o Trsf) Trsf {
	var r Trsf
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += t.rot[i*3+k] * o.rot[k*3+j]
			}
			r.rot[i*3+j] = sum
		}
	}
	r.trans = t.Apply(o.trans)
	return r
}

// Apply transforms a point: rotation then translation.
func (t Trsf) Apply(p Vec3) Vec3 {
	return Vec3{
		t.rot[0]*p.X + t.rot[1]*p.Y + t.rot[2]*p.Z + t.trans.X,
		t.rot[3]*p.X + t.rot[4]*p.Y + t.rot[5]*p.Z + t.trans.Y,
		t.rot[6]*p.X + t.rot[7]*p.Y + t.rot[8]*p.Z + t.trans.Z,
	}
}

// ApplyVec transforms a direction: rotation only, no translation.
func (t Trsf) ApplyVec(v Vec3) Vec3 {
	return Vec3{
		t.rot[0]*v.X + t.rot[1]*v.Y + t.rot[2]*v.Z,
		t.rot[3]*v.X + t.rot[4]*v.Y + t.rot[5]*v.Z,
		t.rot[6]*v.X + t.rot[7]*v.Y + t.rot[8]*v.Z,
	}
}

// IsIdentity reports whether t is exactly the identity transform.
func (t Trsf) IsIdentity() bool {
	return t == Identity()
}

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min, Max Vec3
}

// EmptyBox3 returns a box that Extend can grow from.
func EmptyBox3() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Extend grows the box to contain p.
func (b *Box3) Extend(p Vec3) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
}

// Size returns the box extents along each axis.
func (b Box3) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box center.
func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
