//go:build !occt

// Package occt provides a CGo-based geometry kernel binding to Open
// CASCADE Technology through the occtwrap C shim. When the "occt"
// build tag is not set, this stub package is compiled instead,
// returning an error from New().
//
// Build with: go build -tags=occt
package occt

import (
	"errors"

	"github.com/trestlecad/trestle/pkg/kernel"
)

// New returns an error indicating the OCCT binding is not available.
// Build with -tags=occt to enable.
func New() (kernel.Kernel, error) {
	return nil, errors.New("occt kernel not available: build with -tags=occt")
}
