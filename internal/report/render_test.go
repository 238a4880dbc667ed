package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nexus-forensics/nexus/internal/types"
)

func sample() types.DetectionResult {
	return types.DetectionResult{
		InputLength: 16,
		Metrics:     types.Metrics{Entropy: 3.75, PrintableRatio: 1, IndexOfCoincidence: 0.0417},
		Candidates: []types.Candidate{
			{Name: "base64", Score: 1, Category: types.CatEncoder},
			{Name: "base58", Score: 0.9, Category: types.CatEncoder},
			{Name: "vigenere_polyalphabetic", Score: 0.7, Category: types.CatClassical,
				Params: types.Params{{Key: "ic", Value: types.Number(0.041234)}}},
			{Name: "porta", Score: 0.5, Category: types.CatClassical},
			{Name: "high_entropy_ciphertext", Score: 0.75, Category: types.CatModern,
				Params: types.Params{{Key: "likely_ciphers", Value: types.List("AES", "3DES", "Blowfish", "Twofish", "ChaCha20", "Salsa20", "RC4")}}},
		},
	}
}

func TestPrintSimple_NoCandidates(t *testing.T) {
	var buf bytes.Buffer
	PrintSimple(&buf, types.DetectionResult{Candidates: []types.Candidate{}}, PrintOptions{NoColor: true})
	if !strings.Contains(buf.String(), "No matches found") {
		t.Fatalf("expected friendly no-match message; got: %q", buf.String())
	}
}

func TestPrintSimple_Tiers(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{1, "✓ Detected: Base64 (100% confidence)"},
		{0.85, "✓ Detected: Base64 (85% confidence)"},
		{0.72, "→ Likely: Base64 (72% confidence)"},
		{0.5, "? Possibly: Base64 (50% confidence)"},
	}
	for _, tc := range cases {
		res := types.DetectionResult{Candidates: []types.Candidate{{Name: "base64", Score: tc.score, Category: types.CatEncoder}}}
		if got := Simple(res); got != tc.want {
			t.Fatalf("score %v: got %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestPrintSimple_Alternates(t *testing.T) {
	got := Simple(sample())
	// candidates 2..4 above 0.65: base58 and vigenere; porta is too weak and
	// the fifth candidate is out of range
	if !strings.Contains(got, "Also consider: Base58, Vigenere Polyalphabetic\n") && !strings.HasSuffix(got, "Also consider: Base58, Vigenere Polyalphabetic") {
		t.Fatalf("unexpected alternates: %q", got)
	}
	if strings.Contains(got, "High Entropy") {
		t.Fatalf("fifth candidate must not be listed: %q", got)
	}
}

func TestPrintDetailed(t *testing.T) {
	var buf bytes.Buffer
	PrintDetailed(&buf, sample(), PrintOptions{NoColor: true})
	out := buf.String()
	for _, want := range []string{
		"CRYPTOGRAPHIC DETECTION RESULTS",
		"Length: 16 characters",
		"Entropy:              3.7500 bits/byte",
		"Printable Ratio:      100.00%",
		"Low entropy (3.75)",
		"Low IC (0.0417)",
		"Detection Results (5 candidates)",
		"1. Base64",
		strings.Repeat("█", 30) + " 100.0%",
		"Confidence: Very High (Strongly recommended)",
		"Category:   📜 Classical Cipher - Historical encryption method",
		"• ic: 0.0412",
		"• likely_ciphers: AES, 3DES, Blowfish, Twofish, ChaCha20",
		"... and 2 more",
		"Confidence: Medium (Consider as possibility)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("detailed output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintDetailed_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintDetailed(&buf, types.DetectionResult{Candidates: []types.Candidate{}}, PrintOptions{NoColor: true})
	if !strings.Contains(buf.String(), "No strong matches found") {
		t.Fatalf("got: %q", buf.String())
	}
}

func TestPrintCompact(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintCompact(&buf, sample(), PrintOptions{NoColor: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Input: 16 chars | Entropy: 3.75 | IC: 0.0417") {
		t.Fatalf("unexpected summary: %q", out)
	}
	for _, want := range []string{"Vigenere Polyalphabetic", "70.0%", "Classical Cipher", "Modern Cipher"} {
		if !strings.Contains(out, want) {
			t.Fatalf("compact output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_TopKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sample(), FormatJSON, PrintOptions{NoColor: true, Top: 3}); err != nil {
		t.Fatal(err)
	}
	var back types.DetectionResult
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("plain JSON expected when colour is off: %v", err)
	}
	if len(back.Candidates) != 3 || back.Candidates[2].Name != "vigenere_polyalphabetic" {
		t.Fatalf("unexpected candidates %+v", back.Candidates)
	}
}

func TestRender_JSONHighlighted(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sample(), FormatJSON, PrintOptions{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes in highlighted JSON")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatSimple, "JSON": FormatJSON, " compact ": FormatCompact, "detailed": FormatDetailed} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestBar(t *testing.T) {
	if got := Bar(0.5); got != strings.Repeat("█", 15)+strings.Repeat("░", 15) {
		t.Fatalf("got %q", got)
	}
	if got := Bar(0); got != strings.Repeat("░", 30) {
		t.Fatalf("got %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("caesar_rot13_atbash"); got != "Caesar Rot13 Atbash" {
		t.Fatalf("got %q", got)
	}
}
