// Package variant implements the precomputed-variant library: a
// build-once, read-many table mapping deterministic structural keys to
// consolidated meshes plus metadata, so thousands of positional
// instances reuse a bounded set of expensive meshing results.
package variant

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/trestlecad/trestle/pkg/logger"
	"github.com/trestlecad/trestle/pkg/mesh"
)

var (
	// ErrNotFound means a lookup derived a key the build phase never
	// produced. That is a build/lookup derivation contract violation
	// and must propagate; substituting a default mesh would break the
	// position-to-appearance guarantee downstream.
	ErrNotFound = errors.New("variant: not found")

	// ErrAlreadyBuilt is returned by a second Build call.
	ErrAlreadyBuilt = errors.New("variant: library already built")

	// ErrNotBuilt is returned by Lookup before Build has run.
	ErrNotBuilt = errors.New("variant: library not built")
)

// Metadata is the per-variant descriptive bag. It is display and
// bookkeeping data only; nothing here selects geometry beyond the key
// derivation that already happened.
type Metadata struct {
	LengthMM     int    `json:"lengthMm"`
	DepthMM      int    `json:"depthMm"`
	Pattern      string `json:"pattern"`
	Revision     int    `json:"revision"`
	LoadRatingKg int    `json:"loadRatingKg"`
}

// Record is one library entry. Records are created during Build and
// immutable afterward. Many records may share one *mesh.Mesh when the
// caller intentionally reuses a base geometry; the mesh is never
// copied per record.
type Record struct {
	Key  string
	Mesh *mesh.Mesh
	Meta Metadata
}

// Stats is a read-only aggregate over the built library.
type Stats struct {
	TotalVariants int `json:"totalVariants"`
	// ApproxMemory counts each distinct mesh once, however many
	// records alias it.
	ApproxMemory int `json:"approxMemory"`
	MinLengthMM  int `json:"minLengthMm"`
	MaxLengthMM  int `json:"maxLengthMm"`
	MinDepthMM   int `json:"minDepthMm"`
	MaxDepthMM   int `json:"maxDepthMm"`
	Patterns     int `json:"patterns"`
}

// Library is the variant cache. Build it exactly once, then Lookup
// freely: the read path takes no lock because no writer runs after
// Build returns. Each Library is an independent value; tests construct
// their own instead of sharing process globals.
type Library struct {
	records map[string]*Record
	keyFn   func(int) string
	n       int
	built   bool
	stats   Stats
}

// New returns an empty, unbuilt library.
func New() *Library {
	return &Library{}
}

// Build populates the library: for i in [0, n), a record keyed
// keyFn(i) with metadata metaFn(i), every record sharing the one
// template mesh. Whether distinct i alias one mesh or the caller runs
// Build-equivalent population with distinct meshes is caller policy;
// this library only stores what it is given. Build fails on a nil or
// empty template, non-positive n, duplicate derived keys, or a second
// call.
func (l *Library) Build(template *mesh.Mesh, n int, keyFn func(int) string, metaFn func(int) Metadata) error {
	if l.built {
		return ErrAlreadyBuilt
	}
	if template == nil || template.IsEmpty() {
		return fmt.Errorf("variant: build requires a non-empty template mesh")
	}
	if n <= 0 {
		return fmt.Errorf("variant: build requires a positive variant count, got %d", n)
	}
	if keyFn == nil || metaFn == nil {
		return fmt.Errorf("variant: build requires key and metadata derivation functions")
	}

	start := time.Now()
	records := make(map[string]*Record, n)
	var st Stats
	patterns := map[string]bool{}

	for i := 0; i < n; i++ {
		key := keyFn(i)
		if _, dup := records[key]; dup {
			return fmt.Errorf("variant: key derivation produced duplicate key %q at index %d", key, i)
		}
		meta := metaFn(i)
		records[key] = &Record{Key: key, Mesh: template, Meta: meta}

		if i == 0 || meta.LengthMM < st.MinLengthMM {
			st.MinLengthMM = meta.LengthMM
		}
		if i == 0 || meta.LengthMM > st.MaxLengthMM {
			st.MaxLengthMM = meta.LengthMM
		}
		if i == 0 || meta.DepthMM < st.MinDepthMM {
			st.MinDepthMM = meta.DepthMM
		}
		if i == 0 || meta.DepthMM > st.MaxDepthMM {
			st.MaxDepthMM = meta.DepthMM
		}
		patterns[meta.Pattern] = true
	}
	// All records alias the one template; count its buffers once.
	st.ApproxMemory = template.ApproxMemory()
	st.TotalVariants = n
	st.Patterns = len(patterns)

	l.records = records
	l.keyFn = keyFn
	l.n = n
	l.stats = st
	l.built = true

	logger.Info("variant library built",
		zap.Int("variants", n),
		zap.Int("approxMemory", st.ApproxMemory),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Lookup resolves a positional coordinate triple to its record: the
// structural hash of the coordinates is reduced modulo the variant
// count and the build-time key for that bucket is reconstructed with
// the same derivation function Build used. Coordinates hashing to the
// same bucket return the identical record. A missing key is ErrNotFound
// and never silently defaulted.
func (l *Library) Lookup(slot, bay, floor int) (*Record, error) {
	if !l.built {
		return nil, ErrNotBuilt
	}
	bucket := int(StructuralHash(slot, bay, floor) % uint64(l.n))
	key := l.keyFn(bucket)
	rec, ok := l.records[key]
	if !ok {
		return nil, fmt.Errorf("variant: lookup (%d,%d,%d) derived key %q: %w", slot, bay, floor, key, ErrNotFound)
	}
	return rec, nil
}

// Stats returns the aggregates recorded at build time. It has no side
// effects and is the zero Stats before Build.
func (l *Library) Stats() Stats {
	return l.stats
}

// Built reports whether Build has completed.
func (l *Library) Built() bool {
	return l.built
}

// Reset discards all records and returns the library to the unbuilt
// state. Only for tests and controlled re-initialization; never call
// it concurrently with Lookup.
func (l *Library) Reset() {
	*l = Library{}
}
