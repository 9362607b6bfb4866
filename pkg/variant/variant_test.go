package variant_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/trestlecad/trestle/pkg/mesh"
	"github.com/trestlecad/trestle/pkg/variant"
)

// testMesh returns a small non-empty template mesh.
func testMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices:  []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:   []uint32{0, 1, 2},
		Triangles: 1,
	}
}

func testKey(i int) string {
	return fmt.Sprintf("beam-step-L2700-%04d", i)
}

func testMeta(i int) variant.Metadata {
	return variant.Metadata{
		LengthMM: 2700, DepthMM: 110, Pattern: "step",
		Revision: 1 + i%4, LoadRatingKg: 800 + 50*(i%10),
	}
}

func buildLibrary(t *testing.T, n int) *variant.Library {
	t.Helper()
	lib := variant.New()
	if err := lib.Build(testMesh(), n, testKey, testMeta); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return lib
}

func TestStructuralHashDeterministic(t *testing.T) {
	tests := []struct {
		name      string
		a, b      [3]int
		wantEqual bool
	}{
		{"same coords", [3]int{3, 7, 2}, [3]int{3, 7, 2}, true},
		{"coordinate order matters", [3]int{1, 2, 3}, [3]int{3, 2, 1}, false},
		{"adjacent slots differ", [3]int{0, 0, 0}, [3]int{1, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ha := variant.StructuralHash(tt.a[0], tt.a[1], tt.a[2])
			hb := variant.StructuralHash(tt.b[0], tt.b[1], tt.b[2])
			if (ha == hb) != tt.wantEqual {
				t.Errorf("hash(%v) = %d, hash(%v) = %d, wantEqual=%v",
					tt.a, ha, tt.b, hb, tt.wantEqual)
			}
		})
	}
}

func TestLookupRoundTrip(t *testing.T) {
	const n = 1000
	lib := buildLibrary(t, n)

	rec, err := lib.Lookup(3, 7, 2)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}

	// The record is exactly the one stored under the derived bucket.
	bucket := int(variant.StructuralHash(3, 7, 2) % n)
	if want := testKey(bucket); rec.Key != want {
		t.Errorf("Key = %q, want %q", rec.Key, want)
	}
}

func TestInstantiateScenario(t *testing.T) {
	// Build with N=1000; repeated lookups return reference-identical
	// mesh data and never change the stats.
	lib := buildLibrary(t, 1000)

	first, err := lib.Lookup(0, 0, 0)
	if err != nil {
		t.Fatalf("first Lookup() error: %v", err)
	}
	second, err := lib.Lookup(0, 0, 0)
	if err != nil {
		t.Fatalf("second Lookup() error: %v", err)
	}
	if first != second {
		t.Error("repeated lookups returned different records")
	}
	if first.Mesh != second.Mesh {
		t.Error("repeated lookups returned different mesh references")
	}

	if got := lib.Stats().TotalVariants; got != 1000 {
		t.Errorf("TotalVariants = %d after lookups, want 1000", got)
	}
}

func TestSameBucketAliasing(t *testing.T) {
	// With a single bucket every coordinate triple must collide onto
	// the identical record, deterministically.
	lib := buildLibrary(t, 1)

	a, err := lib.Lookup(0, 0, 0)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	b, err := lib.Lookup(99, 4, 11)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if a != b {
		t.Error("colliding coordinates returned distinct records")
	}
}

func TestAllRecordsShareTemplate(t *testing.T) {
	lib := buildLibrary(t, 50)
	var meshes []*mesh.Mesh
	for i := 0; i < 50; i++ {
		rec, err := lib.Lookup(i, i*3, i*7)
		if err != nil {
			t.Fatalf("Lookup() error: %v", err)
		}
		meshes = append(meshes, rec.Mesh)
	}
	for i := 1; i < len(meshes); i++ {
		if meshes[i] != meshes[0] {
			t.Fatalf("record %d holds a different mesh reference", i)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		template *mesh.Mesh
		n        int
	}{
		{"nil template", nil, 10},
		{"empty template", mesh.Empty(), 10},
		{"zero variants", testMesh(), 0},
		{"negative variants", testMesh(), -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := variant.New()
			if err := lib.Build(tt.template, tt.n, testKey, testMeta); err == nil {
				t.Error("Build() succeeded, want error")
			}
		})
	}
}

func TestBuildTwice(t *testing.T) {
	lib := buildLibrary(t, 10)
	err := lib.Build(testMesh(), 10, testKey, testMeta)
	if !errors.Is(err, variant.ErrAlreadyBuilt) {
		t.Errorf("second Build() error = %v, want ErrAlreadyBuilt", err)
	}
}

func TestLookupBeforeBuild(t *testing.T) {
	lib := variant.New()
	if _, err := lib.Lookup(0, 0, 0); !errors.Is(err, variant.ErrNotBuilt) {
		t.Errorf("Lookup() error = %v, want ErrNotBuilt", err)
	}
}

func TestBuildDuplicateKeys(t *testing.T) {
	lib := variant.New()
	constantKey := func(int) string { return "beam-step-L2700-0000" }
	if err := lib.Build(testMesh(), 2, constantKey, testMeta); err == nil {
		t.Error("Build() with colliding keys succeeded, want error")
	}
}

func TestStats(t *testing.T) {
	lib := buildLibrary(t, 200)
	st := lib.Stats()

	if st.TotalVariants != 200 {
		t.Errorf("TotalVariants = %d, want 200", st.TotalVariants)
	}
	if want := testMesh().ApproxMemory(); st.ApproxMemory != want {
		t.Errorf("ApproxMemory = %d, want %d (one shared template)", st.ApproxMemory, want)
	}
	if st.MinLengthMM != 2700 || st.MaxLengthMM != 2700 {
		t.Errorf("length range = [%d,%d], want [2700,2700]", st.MinLengthMM, st.MaxLengthMM)
	}
	if st.Patterns != 1 {
		t.Errorf("Patterns = %d, want 1", st.Patterns)
	}

	if got := variant.New().Stats(); got != (variant.Stats{}) {
		t.Errorf("unbuilt Stats() = %+v, want zero", got)
	}
}

func TestReset(t *testing.T) {
	lib := buildLibrary(t, 10)
	lib.Reset()
	if lib.Built() {
		t.Error("library still built after Reset")
	}
	if err := lib.Build(testMesh(), 5, testKey, testMeta); err != nil {
		t.Errorf("Build() after Reset error: %v", err)
	}
}
