package detectors

import "github.com/nexus-forensics/nexus/internal/types"

// ClassicalTransposition detects transposition ciphers. Transposition keeps
// the letters and only reorders them, so both IC and the letter distribution
// stay English.
func ClassicalTransposition(in *Input) []types.Candidate {
	if len(in.letters) < MinLetters {
		return nil
	}
	ic := icOf(in.letters)
	chi2 := chi2Of(in.letters)
	if !(ic > 0.060 && ic < 0.075) || chi2 >= 50 {
		return nil
	}
	var out []types.Candidate
	for _, h := range []struct {
		name  string
		score float64
	}{
		{"transposition_cipher", 0.62},
		{"columnar_transposition", 0.58},
		{"rail_fence", 0.55},
		{"route_cipher", 0.52},
		{"scytale", 0.50},
	} {
		out = append(out, withParams(fixed(h.name, types.CatClassical, h.score), icChiParams(ic, chi2)))
	}
	return out
}
