package detectors

import (
	"math"
	"unicode"
)

// englishFreq is the reference letter distribution used by ChiSquared.
var englishFreq = map[rune]float64{
	'E': 0.127, 'T': 0.091, 'A': 0.082, 'O': 0.075, 'I': 0.070,
	'N': 0.067, 'S': 0.063, 'H': 0.061, 'R': 0.060, 'D': 0.043,
	'L': 0.040, 'C': 0.028, 'U': 0.028, 'M': 0.024, 'W': 0.024,
	'F': 0.022, 'G': 0.020, 'Y': 0.020, 'P': 0.019, 'B': 0.015,
	'V': 0.010, 'K': 0.008, 'J': 0.002, 'X': 0.002, 'Q': 0.001, 'Z': 0.001,
}

// defaultLetterWeight is the expected frequency of a letter missing from englishFreq.
const defaultLetterWeight = 0.001

// printableBytes mirrors the ASCII printable set: digits, letters,
// punctuation and the six whitespace bytes.
var printableBytes = func() (t [256]bool) {
	for b := 0x20; b <= 0x7e; b++ {
		t[b] = true
	}
	for _, b := range []byte{'\t', '\n', '\r', '\v', '\f'} {
		t[b] = true
	}
	return t
}()

// Entropy returns the Shannon entropy of data in bits per byte.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var freq [256]int
	for _, b := range data {
		freq[b]++
	}
	n := float64(len(data))
	H := 0.0
	for _, c := range freq {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		H -= p * math.Log2(p)
	}
	return H
}

// PrintableRatio returns the fraction of bytes that are ASCII printable.
func PrintableRatio(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	n := 0
	for _, b := range data {
		if printableBytes[b] {
			n++
		}
	}
	return float64(n) / float64(len(data))
}

// letters returns the alphabetic runes of s, upper-cased.
func letters(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			out = append(out, unicode.ToUpper(r))
		}
	}
	return out
}

// IndexOfCoincidence returns the probability that two letters drawn from text
// are identical. Non-letters are ignored; fewer than two letters yields 0.
func IndexOfCoincidence(text string) float64 {
	return icOf(letters(text))
}

func icOf(upper []rune) float64 {
	n := len(upper)
	if n < 2 {
		return 0
	}
	freq := make(map[rune]int, 26)
	for _, r := range upper {
		freq[r]++
	}
	sum := 0
	for _, f := range freq {
		sum += f * (f - 1)
	}
	return float64(sum) / float64(n*(n-1))
}

// ChiSquared measures the distance between the letter distribution of text
// and English. It returns +Inf when text holds no letters.
func ChiSquared(text string) float64 {
	return chi2Of(letters(text))
}

func chi2Of(upper []rune) float64 {
	n := len(upper)
	if n == 0 {
		return math.Inf(1)
	}
	observed := make(map[rune]int, 26)
	for _, r := range upper {
		observed[r]++
	}
	chi2 := 0.0
	for c := 'A'; c <= 'Z'; c++ {
		w, ok := englishFreq[c]
		if !ok {
			w = defaultLetterWeight
		}
		expected := w * float64(n)
		d := float64(observed[c]) - expected
		chi2 += d * d / expected
	}
	return chi2
}
