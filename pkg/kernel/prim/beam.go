package prim

import (
	"math"

	"github.com/trestlecad/trestle/pkg/brep"
	"github.com/trestlecad/trestle/pkg/geom"
	"github.com/trestlecad/trestle/pkg/kernel"
)

// StepBeam is a rack beam: a prism along +X whose cross-section is a
// rectangle of Width×Depth with a Step×Step square notched out of the
// upper corner at y=0, forming the shelf ledge. Length runs along X,
// Width along Y, Depth along Z, minimum corner at the origin.
type StepBeam struct {
	Length float64
	Width  float64
	Depth  float64
	Step   float64
}

// NewStepBeam returns a step-profile beam. Step must be smaller than
// both Width and Depth; callers pass catalog dimensions, so this is
// not validated here.
func NewStepBeam(length, width, depth, step float64) *StepBeam {
	return &StepBeam{Length: length, Width: width, Depth: depth, Step: step}
}

// BoundingBox returns the axis-aligned bounding box.
func (sb *StepBeam) BoundingBox() (min, max [3]float64) {
	return [3]float64{0, 0, 0}, [3]float64{sb.Length, sb.Width, sb.Depth}
}

// profile returns the counterclockwise cross-section: a Width×Depth
// rectangle minus the Step×Step upper-left corner, six vertices.
func (sb *StepBeam) profile() []profilePoint {
	w, d, s := sb.Width, sb.Depth, sb.Step
	return []profilePoint{
		{0, 0},
		{w, 0},
		{w, d},
		{s, d},
		{s, d - s},
		{0, d - s},
	}
}

// profileTriangles is the fixed triangulation of the six-vertex step
// profile: a counterclockwise fan from the reflex corner, 1-based.
// The L-shape is star-shaped from vertex 5, so the fan covers it.
var profileTriangles = []brep.Triangle{
	{1, 2, 5},
	{2, 3, 5},
	{3, 4, 5},
	{1, 5, 6},
}

func (sb *StepBeam) faceJobs(o kernel.Options) []func() *brep.Face {
	prof := sb.profile()
	jobs := make([]func() *brep.Face, 0, len(prof)+2)

	// Side walls, one per profile edge.
	for i := range prof {
		a, b := prof[i], prof[(i+1)%len(prof)]
		jobs = append(jobs, func() *brep.Face {
			return wallFace(sb.Length, a, b)
		})
	}
	// End caps share one +X-winding triangulation.
	jobs = append(jobs, func() *brep.Face {
		return capFace(sb.Length, prof, profileTriangles, brep.Forward)
	})
	jobs = append(jobs, func() *brep.Face {
		return capFace(0, prof, profileTriangles, brep.Reversed)
	})
	return jobs
}

// Cylinder is an upright cylinder: base circle of the given radius in
// the z=0 plane centered on the origin, extruded to z=Height.
type Cylinder struct {
	Height float64
	Radius float64
}

// NewCylinder returns a cylinder solid.
func NewCylinder(height, radius float64) *Cylinder {
	return &Cylinder{Height: height, Radius: radius}
}

// BoundingBox returns the axis-aligned bounding box.
func (c *Cylinder) BoundingBox() (min, max [3]float64) {
	return [3]float64{-c.Radius, -c.Radius, 0}, [3]float64{c.Radius, c.Radius, c.Height}
}

// segments derives the wall segment count from the deflection pair:
// enough segments that both the angular step and the sagitta (the
// chord's deviation from the arc) stay within tolerance.
func (c *Cylinder) segments(o kernel.Options) int {
	n := int(math.Ceil(2 * math.Pi / o.AngularDeflection))
	if o.LinearDeflection < c.Radius {
		// r(1-cos(π/n)) <= lin  =>  n >= π / acos(1 - lin/r)
		sag := int(math.Ceil(math.Pi / math.Acos(1-o.LinearDeflection/c.Radius)))
		if sag > n {
			n = sag
		}
	}
	if n < 3 {
		n = 3
	}
	if n > 512 {
		n = 512
	}
	return n
}

func (c *Cylinder) faceJobs(o kernel.Options) []func() *brep.Face {
	n := c.segments(o)
	return []func() *brep.Face{
		func() *brep.Face { return c.wall(n) },
		func() *brep.Face { return c.cap(n, c.Height, brep.Forward) },
		func() *brep.Face { return c.cap(n, 0, brep.Reversed) },
	}
}

// wall triangulates the lateral surface as a 2-row grid over the
// unrolled angle, seam column duplicated. The (angle, z) grid winds
// radially outward, so the wall is Forward.
func (c *Cylinder) wall(n int) *brep.Face {
	nodes := make([]geom.Vec3, 0, 2*(n+1))
	for _, z := range [2]float64{0, c.Height} {
		for i := 0; i <= n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			nodes = append(nodes, geom.Vec3{
				X: c.Radius * math.Cos(theta),
				Y: c.Radius * math.Sin(theta),
				Z: z,
			})
		}
	}
	return brep.NewFace(brep.NewTriangulation(nodes, gridTriangles(n, 1)), brep.Forward, geom.Identity())
}

// cap triangulates one end disc as a fan from the center node. Both
// caps wind counterclockwise toward +Z; the base cap's outward side is
// -Z, so it is Reversed.
func (c *Cylinder) cap(n int, z float64, orient brep.Orientation) *brep.Face {
	nodes := make([]geom.Vec3, 0, n+2)
	nodes = append(nodes, geom.Vec3{Z: z})
	for i := 0; i <= n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		nodes = append(nodes, geom.Vec3{
			X: c.Radius * math.Cos(theta),
			Y: c.Radius * math.Sin(theta),
			Z: z,
		})
	}
	tris := make([]brep.Triangle, 0, n)
	for i := 0; i < n; i++ {
		tris = append(tris, brep.Triangle{1, i + 2, i + 3})
	}
	return brep.NewFace(brep.NewTriangulation(nodes, tris), orient, geom.Identity())
}
