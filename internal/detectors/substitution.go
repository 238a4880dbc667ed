package detectors

import (
	"strings"

	"github.com/nexus-forensics/nexus/internal/types"
)

// ClassicalSubstitution detects monoalphabetic and polyalphabetic
// substitution ciphers from letter statistics.
func ClassicalSubstitution(in *Input) []types.Candidate {
	var out []types.Candidate
	if len(in.letters) >= MinLetters {
		ic := icOf(in.letters)
		chi2 := chi2Of(in.letters)

		// Monoalphabetic substitution keeps the English IC (~0.066).
		if ic > 0.060 && ic < 0.075 {
			if chi2 < 100 {
				out = append(out, withParams(fixed("plaintext_or_simple_substitution", types.CatClassical, 0.55), icChiParams(ic, chi2)))
			} else {
				out = append(out,
					withParams(fixed("monoalphabetic_substitution", types.CatClassical, 0.65), icChiParams(ic, chi2)),
					withParams(fixed("caesar_rot13_atbash", types.CatClassical, 0.60), icChiParams(ic, chi2)),
				)
			}
		}

		// Several alphabets flatten the distribution towards random (~0.038).
		if ic > 0.038 && ic < 0.055 {
			for _, h := range []struct {
				name  string
				score float64
			}{
				{"vigenere_polyalphabetic", 0.70},
				{"autokey_vigenere", 0.55},
				{"beaufort_variant", 0.52},
				{"porta", 0.50},
				{"gronsfeld", 0.48},
			} {
				out = append(out, withParams(fixed(h.name, types.CatClassical, h.score), icParams(ic)))
			}
		}

		if !strings.ContainsRune(string(in.letters), 'Q') && len(in.letters)%2 == 0 {
			out = append(out, withParams(fixed("playfair", types.CatClassical, 0.45), icParams(ic)))
		}

		set := in.letterSet()
		_, hasA := set['A']
		_, hasB := set['B']
		if len(set) == 2 && hasA && hasB {
			out = append(out, fixed("baconian", types.CatClassical, 0.85))
		}

		// Shares the letter gate, so it never fires on bare digit strings.
		if in.digitsOnly() {
			out = append(out, fixed("polybius", types.CatClassical, 0.60))
		}
	}
	return out
}

func withParams(c types.Candidate, ps types.Params) types.Candidate {
	c.Params = ps
	return c
}
