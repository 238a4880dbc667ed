package detectors

import (
	"strings"

	"github.com/nexus-forensics/nexus/internal/types"
)

// ClassicalFractionation detects fractionating ciphers (bifid, trifid,
// ADFG(V)X, fractionated morse, nihilist).
func ClassicalFractionation(in *Input) []types.Candidate {
	var out []types.Candidate
	if len(in.letters) >= MinLetters {
		ic := icOf(in.letters)
		if ic > 0.045 && ic < 0.062 {
			out = append(out,
				withParams(fixed("bifid", types.CatClassical, 0.50), icParams(ic)),
				withParams(fixed("trifid", types.CatClassical, 0.48), icParams(ic)),
			)
		}

		// ADFGX-only text satisfies both rules.
		set := in.letterSet()
		if subsetOf(set, "ADFGX") {
			out = append(out, fixed("adfgx", types.CatClassical, 0.80))
		}
		if subsetOf(set, "ADFGVX") {
			out = append(out, fixed("adfgvx", types.CatClassical, 0.82))
		}

		if onlyRunes(in.Text, ".-X \n") {
			out = append(out, fixed("fractionated_morse", types.CatClassical, 0.75))
		}

		if in.digitsOnly() {
			out = append(out, fixed("nihilist", types.CatClassical, 0.58))
		}
	}
	return out
}

func subsetOf(set map[rune]struct{}, allowed string) bool {
	for r := range set {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}

func onlyRunes(s, allowed string) bool {
	for _, r := range s {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}
