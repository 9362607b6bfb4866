// Package prim is an analytic B-rep kernel backend for the structural
// primitives the demos need: boxes, plates, step-profile rack beams,
// and cylinders. Planar faces triangulate as deflection-independent
// grids; the cylinder wall is segmented from the deflection pair.
// Faces whose outward side opposes their parameterization normal are
// emitted Reversed, exactly as a full B-rep kernel would.
package prim

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/trestlecad/trestle/pkg/brep"
	"github.com/trestlecad/trestle/pkg/geom"
	"github.com/trestlecad/trestle/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Mesher = (*Mesher)(nil)
	_ kernel.Solid  = (*Box)(nil)
	_ kernel.Solid  = (*StepBeam)(nil)
	_ kernel.Solid  = (*Cylinder)(nil)
)

// faceSource is implemented by every prim solid: it yields one job per
// face, in traversal order, each producing that face's triangulation.
type faceSource interface {
	kernel.Solid
	faceJobs(o kernel.Options) []func() *brep.Face
}

// Mesher triangulates prim solids.
type Mesher struct{}

// NewMesher returns a Mesher for prim solids.
func NewMesher() *Mesher {
	return &Mesher{}
}

// Triangulate meshes every face of the solid. With Parallel set the
// faces mesh on a bounded worker pool; face order in the returned
// shape is the solid's traversal order either way.
func (m *Mesher) Triangulate(s kernel.Solid, o kernel.Options) (*brep.Shape, error) {
	src, ok := s.(faceSource)
	if !ok {
		return nil, fmt.Errorf("prim: unsupported solid type %T", s)
	}
	o = o.WithDefaults()
	jobs := src.faceJobs(o)
	faces := make([]*brep.Face, len(jobs))

	if !o.Parallel {
		for i, job := range jobs {
			faces[i] = job()
		}
		return brep.NewShape(faces...), nil
	}

	workers := runtime.NumCPU()
	if workers > len(jobs) {
		workers = len(jobs)
	}
	idx := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				faces[i] = jobs[i]()
			}
		}()
	}
	for i := range jobs {
		idx <- i
	}
	close(idx)
	wg.Wait()
	return brep.NewShape(faces...), nil
}

// Box is an axis-aligned box with its minimum corner at the origin, so
// placement translations work intuitively.
type Box struct {
	DX, DY, DZ float64
}

// NewBox returns a box with the given dimensions.
func NewBox(dx, dy, dz float64) *Box {
	return &Box{DX: dx, DY: dy, DZ: dz}
}

// NewPlate returns a thin box: a shelf plate of the given width, depth,
// and thickness.
func NewPlate(width, depth, thickness float64) *Box {
	return &Box{DX: width, DY: depth, DZ: thickness}
}

// BoundingBox returns the axis-aligned bounding box.
func (b *Box) BoundingBox() (min, max [3]float64) {
	return [3]float64{0, 0, 0}, [3]float64{b.DX, b.DY, b.DZ}
}

func (b *Box) faceJobs(o kernel.Options) []func() *brep.Face {
	type patch struct {
		origin, du, dv geom.Vec3
		orient         brep.Orientation
	}
	// Each opposing pair shares one parameterization; the face whose
	// outward side opposes du×dv is Reversed.
	patches := []patch{
		{geom.Vec3{X: b.DX}, geom.Vec3{Y: b.DY}, geom.Vec3{Z: b.DZ}, brep.Forward},  // +X
		{geom.Vec3{}, geom.Vec3{Y: b.DY}, geom.Vec3{Z: b.DZ}, brep.Reversed},        // -X
		{geom.Vec3{Y: b.DY}, geom.Vec3{Z: b.DZ}, geom.Vec3{X: b.DX}, brep.Forward},  // +Y
		{geom.Vec3{}, geom.Vec3{Z: b.DZ}, geom.Vec3{X: b.DX}, brep.Reversed},        // -Y
		{geom.Vec3{Z: b.DZ}, geom.Vec3{X: b.DX}, geom.Vec3{Y: b.DY}, brep.Forward},  // +Z
		{geom.Vec3{}, geom.Vec3{X: b.DX}, geom.Vec3{Y: b.DY}, brep.Reversed},        // -Z
	}
	jobs := make([]func() *brep.Face, len(patches))
	for i, sp := range patches {
		jobs[i] = func() *brep.Face {
			return gridFace(sp.origin, sp.du, sp.dv, 1, 1, sp.orient)
		}
	}
	return jobs
}
