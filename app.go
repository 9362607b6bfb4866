package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/trestlecad/trestle/pkg/config"
	"github.com/trestlecad/trestle/pkg/kernel"
	"github.com/trestlecad/trestle/pkg/kernel/prim"
	"github.com/trestlecad/trestle/pkg/kernel/sdfx"
	"github.com/trestlecad/trestle/pkg/logger"
	"github.com/trestlecad/trestle/pkg/mesh"
	"github.com/trestlecad/trestle/pkg/tessellate"
	"github.com/trestlecad/trestle/pkg/variant"
)

// App is the Wails backend. It exposes methods to the frontend via
// bindings: the variant library is built once at Initialize and served
// read-only from then on.
type App struct {
	ctx     context.Context
	cfg     *config.Config
	mesher  kernel.Mesher
	csg     kernel.Kernel
	library *variant.Library
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices   []float32 `json:"vertices"`
	Normals    []float32 `json:"normals"`
	Indices    []uint32  `json:"indices"`
	Triangles  int       `json:"triangles"`
	IndexWidth int       `json:"indexWidth"`
}

// InstanceData is one instantiated rack position: the variant's shared
// mesh buffers plus its identity and display metadata.
type InstanceData struct {
	VariantID string           `json:"variantId"`
	Metadata  variant.Metadata `json:"metadata"`
	Mesh      MeshData         `json:"mesh"`
}

// StatsData is the read-only library aggregate for the frontend.
type StatsData struct {
	TotalVariants int `json:"totalVariants"`
	ApproxMemory  int `json:"approxMemory"`
	MinLengthMM   int `json:"minLengthMm"`
	MaxLengthMM   int `json:"maxLengthMm"`
	MinDepthMM    int `json:"minDepthMm"`
	MaxDepthMM    int `json:"maxDepthMm"`
	Patterns      int `json:"patterns"`
}

// NewApp creates a new App with the prim mesher and the sdfx CSG kernel.
func NewApp(cfg *config.Config) *App {
	return &App{
		cfg:     cfg,
		mesher:  prim.NewMesher(),
		csg:     sdfx.New(),
		library: variant.New(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// meshOptions maps the config to kernel meshing options.
func (a *App) meshOptions() kernel.Options {
	return kernel.Options{
		LinearDeflection:  a.cfg.Mesh.LinearDeflection,
		AngularDeflection: a.cfg.Mesh.AngularDeflection,
		Parallel:          a.cfg.Mesh.Parallel,
	}.WithDefaults()
}

// Initialize builds the variant library: one template beam is meshed
// and consolidated exactly once, then every variant record aliases
// that mesh under its derived key. Calling it twice is an error.
func (a *App) Initialize() error {
	rack := a.cfg.Rack
	template, err := a.templateMesh()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	keyFn := beamKey(rack)
	metaFn := beamMetadata(rack)
	if err := a.library.Build(template, rack.VariantCount, keyFn, metaFn); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

// templateMesh meshes and consolidates the template beam.
func (a *App) templateMesh() (*mesh.Mesh, error) {
	rack := a.cfg.Rack
	beam := prim.NewStepBeam(rack.BeamLengthMM, rack.BeamWidthMM, rack.BeamDepthMM, rack.BeamStepMM)
	shape, err := a.mesher.Triangulate(beam, a.meshOptions())
	if err != nil {
		return nil, fmt.Errorf("template beam meshing: %w", err)
	}
	m := tessellate.Consolidate(shape)
	if m.IsEmpty() {
		return nil, fmt.Errorf("template beam consolidated to an empty mesh")
	}
	return m, nil
}

// beamKey returns the demo's key derivation: one deterministic string
// per variant index. The library reuses this exact function at lookup
// time, which is what keeps build and lookup derivation in step.
func beamKey(rack config.RackConfig) func(int) string {
	return func(i int) string {
		return fmt.Sprintf("beam-%s-L%d-%04d", rack.Pattern, int(rack.BeamLengthMM), i)
	}
}

// beamMetadata returns the demo's display metadata derivation.
func beamMetadata(rack config.RackConfig) func(int) variant.Metadata {
	return func(i int) variant.Metadata {
		return variant.Metadata{
			LengthMM:     int(rack.BeamLengthMM),
			DepthMM:      int(rack.BeamDepthMM),
			Pattern:      rack.Pattern,
			Revision:     1 + i%4,
			LoadRatingKg: 800 + 50*(i%10),
		}
	}
}

// Instantiate resolves one rack position (slot, bay, floor) to its
// variant. The returned mesh buffers are the shared template buffers;
// no meshing or consolidation runs here. A missing key is a fatal
// derivation mismatch and is surfaced, never defaulted.
func (a *App) Instantiate(slot, bay, floor int) (InstanceData, error) {
	rec, err := a.library.Lookup(slot, bay, floor)
	if err != nil {
		logger.Error("instantiate failed",
			zap.Int("slot", slot), zap.Int("bay", bay), zap.Int("floor", floor),
			zap.Error(err))
		return InstanceData{}, err
	}
	return InstanceData{
		VariantID: rec.Key,
		Metadata:  rec.Meta,
		Mesh:      toMeshData(rec.Mesh),
	}, nil
}

// TessellateSolid meshes and consolidates one of the showcase solids.
// Unlike Instantiate this pays full meshing cost on every call; the
// frontend uses it to compare against library instantiation.
func (a *App) TessellateSolid(kind string) (MeshData, error) {
	rack := a.cfg.Rack
	var s kernel.Solid
	mesher := a.mesher
	switch kind {
	case "box":
		s = prim.NewBox(600, 400, 300)
	case "plate":
		s = prim.NewPlate(1200, 800, 25)
	case "beam":
		s = prim.NewStepBeam(rack.BeamLengthMM, rack.BeamWidthMM, rack.BeamDepthMM, rack.BeamStepMM)
	case "cylinder":
		s = prim.NewCylinder(900, 45)
	case "bracket":
		// CSG showcase: a plate with a cylindrical bolt hole.
		plate := a.csg.Box(120, 80, 12)
		hole := a.csg.Translate(a.csg.Cylinder(40, 14), 60, 40, 6)
		s = a.csg.Difference(plate, hole)
		mesher = a.csg
	default:
		return MeshData{}, fmt.Errorf("unknown solid kind %q", kind)
	}

	bshape, err := mesher.Triangulate(s, a.meshOptions())
	if err != nil {
		return MeshData{}, fmt.Errorf("tessellate %q: %w", kind, err)
	}
	return toMeshData(tessellate.Consolidate(bshape)), nil
}

// GetStats returns the library aggregates. Read-only; calling it (or
// Instantiate) never changes the totals.
func (a *App) GetStats() StatsData {
	st := a.library.Stats()
	return StatsData{
		TotalVariants: st.TotalVariants,
		ApproxMemory:  st.ApproxMemory,
		MinLengthMM:   st.MinLengthMM,
		MaxLengthMM:   st.MaxLengthMM,
		MinDepthMM:    st.MinDepthMM,
		MaxDepthMM:    st.MaxDepthMM,
		Patterns:      st.Patterns,
	}
}

// toMeshData converts a consolidated mesh to the frontend format.
func toMeshData(m *mesh.Mesh) MeshData {
	return MeshData{
		Vertices:   m.Vertices,
		Normals:    m.Normals,
		Indices:    m.Indices,
		Triangles:  m.Triangles,
		IndexWidth: m.IndexWidth(),
	}
}
