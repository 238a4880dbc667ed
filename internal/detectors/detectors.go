package detectors

import (
	"unicode"
	"unicode/utf8"

	"github.com/nexus-forensics/nexus/internal/types"
)

// CalibrationVersion identifies the table of thresholds and scores used by
// the detectors. Bump it whenever a constant changes.
const CalibrationVersion = "1"

// MinLetters is the minimum number of letters a classical detector needs
// before it says anything.
const MinLetters = 20

// Input is the read-only view of one detection call shared by every
// detector. Build it with NewInput; detectors must not modify it.
type Input struct {
	Text           string
	Data           []byte
	Entropy        float64
	PrintableRatio float64

	letters []rune // upper-cased alphabetic projection of Text
}

// NewInput computes the per-call statistics once.
func NewInput(text string) *Input {
	data := []byte(text)
	return &Input{
		Text:           text,
		Data:           data,
		Entropy:        Entropy(data),
		PrintableRatio: PrintableRatio(data),
		letters:        letters(text),
	}
}

// Length is the number of text units (runes) in the input.
func (in *Input) Length() int { return utf8.RuneCountInString(in.Text) }

// IC returns the index of coincidence of the input's letters.
func (in *Input) IC() float64 { return icOf(in.letters) }

// digitsOnly reports whether the input, ignoring spaces and newlines, is a
// non-empty run of digits.
func (in *Input) digitsOnly() bool {
	n := 0
	for _, r := range in.Text {
		switch {
		case r == ' ' || r == '\n':
		case unicode.IsDigit(r):
			n++
		default:
			return false
		}
	}
	return n > 0
}

func (in *Input) letterSet() map[rune]struct{} {
	set := make(map[rune]struct{}, 26)
	for _, r := range in.letters {
		set[r] = struct{}{}
	}
	return set
}

// Detector inspects an input and returns zero or more scored candidates.
type Detector func(in *Input) []types.Candidate

var all = []Detector{
	Encoders,
	ClassicalSubstitution,
	ClassicalFractionation,
	ClassicalTransposition,
	Containers,
	HighEntropyCiphertext,
}

// All returns the detector registry in invocation order.
func All() []Detector {
	return append([]Detector{}, all...)
}

// RunAll runs every detector in registry order and concatenates the output.
func RunAll(in *Input) []types.Candidate {
	var out []types.Candidate
	for _, d := range all {
		out = append(out, d(in)...)
	}
	return out
}

// IDs returns every candidate name the battery can emit, grouped by detector.
func IDs() []string {
	return []string{
		// encoders and armor
		"hex", "base64", "base64url", "base32", "base32hex", "crockford_base32",
		"base58", "base36", "base62", "jwt", "pem_armor", "pgp_armor",
		"url_encoded", "html_entities", "uuencode", "quoted_printable",
		"bech32", "punycode", "morse_code",
		// substitution
		"plaintext_or_simple_substitution", "monoalphabetic_substitution",
		"caesar_rot13_atbash", "vigenere_polyalphabetic", "autokey_vigenere",
		"beaufort_variant", "porta", "gronsfeld", "playfair", "baconian", "polybius",
		// fractionation
		"bifid", "trifid", "adfgx", "adfgvx", "fractionated_morse", "nihilist",
		// transposition
		"transposition_cipher", "columnar_transposition", "rail_fence",
		"route_cipher", "scytale",
		// containers
		"pdf", "zip", "gzip", "bzip2", "xz_lzma", "7z", "zstd", "lz4",
		"openssh_key", "pkcs8", "pkcs1", "x509_cert",
		// modern
		"high_entropy_ciphertext", "encoded_ciphertext",
	}
}

var funcByID = map[string]Detector{
	"encoders":      Encoders,
	"substitution":  ClassicalSubstitution,
	"fractionation": ClassicalFractionation,
	"transposition": ClassicalTransposition,
	"containers":    Containers,
	"entropy":       HighEntropyCiphertext,
}

// FunctionIDs returns the registry IDs accepted by RunFunction.
func FunctionIDs() []string {
	return []string{"encoders", "substitution", "fractionation", "transposition", "containers", "entropy"}
}

// RunFunction runs a single detector by registry ID. ok is false when id
// is not one of FunctionIDs.
func RunFunction(id string, in *Input) (cands []types.Candidate, ok bool) {
	f, ok := funcByID[id]
	if !ok {
		return nil, false
	}
	return f(in), true
}

// scored builds a candidate whose score grows from base towards 1 with match.
func scored(name string, cat types.Category, base, match float64) types.Candidate {
	return types.Candidate{Name: name, Score: base + (1-base)*match, Category: cat}
}

func fixed(name string, cat types.Category, score float64) types.Candidate {
	return types.Candidate{Name: name, Score: score, Category: cat}
}

func icParams(ic float64) types.Params {
	return types.Params{{Key: "ic", Value: types.Number(types.Round(ic, 4))}}
}

func icChiParams(ic, chi2 float64) types.Params {
	return types.Params{
		{Key: "ic", Value: types.Number(types.Round(ic, 4))},
		{Key: "chi2", Value: types.Number(types.Round(chi2, 2))},
	}
}
