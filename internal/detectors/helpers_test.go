package detectors

import (
	"testing"

	"github.com/nexus-forensics/nexus/internal/types"
)

func find(cs []types.Candidate, name string) (types.Candidate, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return types.Candidate{}, false
}

func requireCandidate(t *testing.T, cs []types.Candidate, name string) types.Candidate {
	t.Helper()
	c, ok := find(cs, name)
	if !ok {
		t.Fatalf("expected %s candidate, got %v", name, names(cs))
	}
	return c
}

func requireNoCandidate(t *testing.T, cs []types.Candidate, name string) {
	t.Helper()
	if _, ok := find(cs, name); ok {
		t.Fatalf("did not expect %s candidate, got %v", name, names(cs))
	}
}

func names(cs []types.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

// Opening of Pride and Prejudice; 470 letters, IC 0.0658, chi2 19.09.
const englishSample = "It is a truth universally acknowledged, that a single man in possession of a good fortune, " +
	"must be in want of a wife. However little known the feelings or views of such a man may be on his " +
	"first entering a neighbourhood, this truth is so well fixed in the minds of the surrounding families, " +
	"that he is considered the rightful property of some one or other of their daughters. My dear Mr. Bennet, " +
	"said his lady to him one day, have you heard that Netherfield Park is let at last? Mr. Bennet replied " +
	"that he had not. But it is, returned she; for Mrs. Long has just been here, and she told me all about it."

// caesar shifts ASCII letters by k, keeping case.
func caesar(s string, k int) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'A' && r <= 'Z':
			out[i] = 'A' + (r-'A'+rune(k))%26
		case r >= 'a' && r <= 'z':
			out[i] = 'a' + (r-'a'+rune(k))%26
		}
	}
	return string(out)
}

// vigenere encrypts the letters of s with key, dropping everything else.
func vigenere(s, key string) string {
	var out []rune
	i := 0
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			r -= 'a' - 'A'
		case r >= 'A' && r <= 'Z':
		default:
			continue
		}
		k := rune(key[i%len(key)] - 'A')
		out = append(out, 'A'+(r-'A'+k)%26)
		i++
	}
	return string(out)
}

func param(t *testing.T, c types.Candidate, key string) types.ParamValue {
	t.Helper()
	v, ok := c.Params.Get(key)
	if !ok {
		t.Fatalf("%s: missing param %q", c.Name, key)
	}
	return v
}

func number(t *testing.T, c types.Candidate, key string) float64 {
	t.Helper()
	f, ok := param(t, c, key).Float()
	if !ok {
		t.Fatalf("%s: param %q is not a number", c.Name, key)
	}
	return f
}
