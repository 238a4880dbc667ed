package engine

import (
	"context"
	"runtime"
	"sort"

	"github.com/nexus-forensics/nexus/internal/detectors"
	"github.com/nexus-forensics/nexus/internal/types"
	"golang.org/x/sync/errgroup"
)

// MaxCandidates caps the number of candidates in a result.
const MaxCandidates = 15

// Options controls how a single detection call runs.
type Options struct {
	// Parallel runs each detector on its own goroutine. Output is reassembled
	// in registry order, so the result is identical to a sequential run.
	Parallel bool
}

// DetectorIDs returns every candidate name the battery can emit.
func DetectorIDs() []string { return detectors.IDs() }

// Detect runs every detector sequentially. It never fails.
func Detect(input string) types.DetectionResult {
	return DetectWith(input, Options{})
}

// DetectWith runs every detector according to opts.
func DetectWith(input string, opts Options) types.DetectionResult {
	in := detectors.NewInput(input)
	if opts.Parallel {
		return aggregate(in, runParallel(in, detectors.All()))
	}
	return aggregate(in, [][]types.Candidate{detectors.RunAll(in)})
}

// DetectOnly runs the single detector registered under id (see
// detectors.FunctionIDs) through the usual ranking. ok is false for an
// unknown id.
func DetectOnly(id, input string) (res types.DetectionResult, ok bool) {
	in := detectors.NewInput(input)
	cands, ok := detectors.RunFunction(id, in)
	if !ok {
		return types.DetectionResult{}, false
	}
	return aggregate(in, [][]types.Candidate{cands}), true
}

func runParallel(in *detectors.Input, ds []detectors.Detector) [][]types.Candidate {
	outs := make([][]types.Candidate, len(ds))
	var g errgroup.Group
	for i, d := range ds {
		g.Go(func() error {
			outs[i] = d(in)
			return nil
		})
	}
	_ = g.Wait() // detectors do not fail
	return outs
}

// aggregate concatenates detector outputs in the given order, drops repeated
// (name, category) pairs keeping the first, ranks by score and truncates.
func aggregate(in *detectors.Input, outs [][]types.Candidate) types.DetectionResult {
	seen := make(map[string]struct{})
	cands := make([]types.Candidate, 0, MaxCandidates)
	for _, out := range outs {
		for _, c := range out {
			k := c.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			cands = append(cands, c)
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
	if len(cands) > MaxCandidates {
		cands = cands[:MaxCandidates]
	}
	return types.DetectionResult{
		InputLength: in.Length(),
		Metrics: types.Metrics{
			Entropy:            types.Round(in.Entropy, 4),
			PrintableRatio:     types.Round(in.PrintableRatio, 4),
			IndexOfCoincidence: types.Round(in.IC(), 4),
		},
		Candidates: cands,
	}
}

// DetectAll runs Detect over many inputs on at most workers goroutines and
// returns the results in input order. workers <= 0 means GOMAXPROCS.
// Cancelling ctx stops scheduling new inputs and returns ctx's error.
func DetectAll(ctx context.Context, inputs []string, workers int, opts Options) ([]types.DetectionResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]types.DetectionResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = DetectWith(s, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
