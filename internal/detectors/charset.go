package detectors

import "sort"

// Alphabet is a fixed character set used for charset matching.
type Alphabet struct {
	name  string
	chars string
	set   map[rune]struct{}
}

func newAlphabet(name, chars string) *Alphabet {
	set := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	return &Alphabet{name: name, chars: chars, set: set}
}

func (a *Alphabet) Name() string { return a.name }

// Chars returns the members of the alphabet in definition order.
func (a *Alphabet) Chars() string { return a.chars }

// Contains reports whether r belongs to the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.set[r]
	return ok
}

// Named alphabets. The exclusions are deliberate: crockford drops I, L, O, U
// and base58 drops 0, O, I, l.
var (
	Hex       = newAlphabet("hex", "0123456789ABCDEFabcdef")
	Base32    = newAlphabet("base32", "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567=")
	Base32Hex = newAlphabet("base32hex", "0123456789ABCDEFGHIJKLMNOPQRSTUV=")
	Crockford = newAlphabet("crockford", "0123456789ABCDEFGHJKMNPQRSTVWXYZ")
	Base58    = newAlphabet("base58", "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz")
	Base64    = newAlphabet("base64", "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/=")
	Base64URL = newAlphabet("base64url", "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_=")
	Base36    = newAlphabet("base36", "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	Base62    = newAlphabet("base62", "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	Base85    = newAlphabet("base85", "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz!#$%&()*+-;<=>?@^_`{|}~")
	Morse     = newAlphabet("morse", ".-/ \n")
)

var alphabets = map[string]*Alphabet{}

func init() {
	for _, a := range []*Alphabet{Hex, Base32, Base32Hex, Crockford, Base58, Base64, Base64URL, Base36, Base62, Base85, Morse} {
		alphabets[a.name] = a
	}
}

// LookupAlphabet returns the named alphabet.
func LookupAlphabet(name string) (*Alphabet, bool) {
	a, ok := alphabets[name]
	return a, ok
}

// AlphabetNames returns the names of all built-in alphabets, sorted.
func AlphabetNames() []string {
	out := make([]string, 0, len(alphabets))
	for n := range alphabets {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// CharsetMatch returns the fraction of runes in text that belong to a.
// Empty text yields 0.
func CharsetMatch(text string, a *Alphabet) float64 {
	total, hit := 0, 0
	for _, r := range text {
		total++
		if a.Contains(r) {
			hit++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hit) / float64(total)
}
