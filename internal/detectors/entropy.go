package detectors

import "github.com/nexus-forensics/nexus/internal/types"

var likelyCiphers = []string{
	"AES", "3DES", "Blowfish", "Twofish", "ChaCha20",
	"Salsa20", "RC4", "Serpent", "Camellia",
}

// HighEntropyCiphertext flags raw binary ciphertext and printable text whose
// entropy suggests encoded ciphertext.
func HighEntropyCiphertext(in *Input) []types.Candidate {
	ent, pr := in.Entropy, in.PrintableRatio
	params := types.Params{
		{Key: "entropy", Value: types.Number(types.Round(ent, 3))},
		{Key: "printable_ratio", Value: types.Number(types.Round(pr, 3))},
	}
	switch {
	case ent > 7.5 && pr < 0.3:
		c := fixed("high_entropy_ciphertext", types.CatModern, 0.75)
		c.Params = params.With("likely_ciphers", types.List(likelyCiphers...))
		return []types.Candidate{c}
	case ent > 6.5 && pr > 0.9:
		c := fixed("encoded_ciphertext", types.CatModern, 0.65)
		c.Params = params.With("note", types.Text("possibly base64/hex encoded ciphertext"))
		return []types.Candidate{c}
	}
	return nil
}
