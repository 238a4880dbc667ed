package core

import (
	"context"

	"github.com/nexus-forensics/nexus/internal/engine"
	"github.com/nexus-forensics/nexus/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Options         = engine.Options
	Candidate       = types.Candidate
	Category        = types.Category
	Metrics         = types.Metrics
	DetectionResult = types.DetectionResult
	Params          = types.Params
	ParamValue      = types.ParamValue
)

// Detect is the stable entrypoint for other programs. It never fails.
func Detect(input string) DetectionResult {
	return engine.Detect(input)
}

// DetectWith runs a detection with explicit options.
func DetectWith(input string, opts Options) DetectionResult {
	return engine.DetectWith(input, opts)
}

// DetectAll detects many inputs concurrently and returns results in input
// order. workers <= 0 uses GOMAXPROCS.
func DetectAll(ctx context.Context, inputs []string, workers int) ([]DetectionResult, error) {
	return engine.DetectAll(ctx, inputs, workers, Options{})
}

// DetectorIDs returns every candidate name the engine can emit.
// This is exposed for convenience to avoid importing internals directly.
func DetectorIDs() []string { return engine.DetectorIDs() }
