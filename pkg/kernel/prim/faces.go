package prim

import (
	"github.com/trestlecad/trestle/pkg/brep"
	"github.com/trestlecad/trestle/pkg/geom"
)

// gridFace triangulates the planar patch origin + s*du + t*dv,
// s,t ∈ [0,1], as an nu×nv grid. Triangles wind counterclockwise with
// respect to du×dv; the orient flag records whether that direction is
// the face's outward side.
func gridFace(origin, du, dv geom.Vec3, nu, nv int, orient brep.Orientation) *brep.Face {
	nodes := make([]geom.Vec3, 0, (nu+1)*(nv+1))
	for j := 0; j <= nv; j++ {
		for i := 0; i <= nu; i++ {
			p := origin.
				Add(du.Scale(float64(i) / float64(nu))).
				Add(dv.Scale(float64(j) / float64(nv)))
			nodes = append(nodes, p)
		}
	}
	tris := gridTriangles(nu, nv)
	return brep.NewFace(brep.NewTriangulation(nodes, tris), orient, geom.Identity())
}

// gridTriangles emits the 1-based triangle list for an nu×nv node grid
// laid out row-major, two counterclockwise triangles per cell.
func gridTriangles(nu, nv int) []brep.Triangle {
	tris := make([]brep.Triangle, 0, 2*nu*nv)
	for j := 0; j < nv; j++ {
		for i := 0; i < nu; i++ {
			a := j*(nu+1) + i + 1
			b := a + 1
			c := a + nu + 1
			d := c + 1
			tris = append(tris, brep.Triangle{a, b, d}, brep.Triangle{a, d, c})
		}
	}
	return tris
}

// profilePoint is one vertex of a planar cross-section in the (y,z)
// plane, listed counterclockwise so the profile's triangulation winds
// toward +X.
type profilePoint struct {
	Y, Z float64
}

// capFace places a profile triangulation at the given x station.
// Both caps of a prism share the +X-winding triangulation; the near cap
// (outward -X) is Reversed.
func capFace(x float64, profile []profilePoint, tris []brep.Triangle, orient brep.Orientation) *brep.Face {
	nodes := make([]geom.Vec3, len(profile))
	for i, p := range profile {
		nodes[i] = geom.Vec3{X: x, Y: p.Y, Z: p.Z}
	}
	return brep.NewFace(brep.NewTriangulation(nodes, tris), orient, geom.Identity())
}

// wallFace extrudes one profile edge along +X into a quad. With the
// edge as the first grid axis and the extrusion as the second, the
// grid winding points along the profile's outward side, so walls of a
// counterclockwise profile are Forward.
func wallFace(length float64, a, b profilePoint) *brep.Face {
	origin := geom.Vec3{Y: a.Y, Z: a.Z}
	du := geom.Vec3{Y: b.Y - a.Y, Z: b.Z - a.Z}
	dv := geom.Vec3{X: length}
	return gridFace(origin, du, dv, 1, 1, brep.Forward)
}
