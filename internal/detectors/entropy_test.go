package detectors

import (
	"strings"
	"testing"

	"github.com/nexus-forensics/nexus/internal/types"
)

// cipherLike returns 156 non-printable and 40 printable byte values, each
// four times: entropy log2(196) ~ 7.61, printable ratio ~ 0.20.
func cipherLike() []byte {
	var out []byte
	printable := 0
	for b := 0; b < 256; b++ {
		isPrintable := printableBytes[b]
		if isPrintable {
			if printable >= 40 {
				continue
			}
			printable++
		}
		for i := 0; i < 4; i++ {
			out = append(out, byte(b))
		}
	}
	return out
}

func TestHighEntropyCiphertext_Binary(t *testing.T) {
	in := NewInput(string(cipherLike()))
	if in.Entropy <= 7.5 || in.PrintableRatio >= 0.3 {
		t.Fatalf("fixture out of band: entropy %v printable %v", in.Entropy, in.PrintableRatio)
	}
	got := HighEntropyCiphertext(in)
	c := requireCandidate(t, got, "high_entropy_ciphertext")
	if c.Score != 0.75 || c.Category != types.CatModern {
		t.Fatalf("unexpected candidate %+v", c)
	}
	ciphers, _ := param(t, c, "likely_ciphers").Strings()
	if len(ciphers) != 9 || ciphers[0] != "AES" {
		t.Fatalf("likely ciphers = %v", ciphers)
	}
	number(t, c, "entropy")
}

func TestHighEntropyCiphertext_Encoded(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		for r := byte(0x20); r <= 0x7e; r++ {
			b.WriteByte(r)
		}
	}
	got := HighEntropyCiphertext(NewInput(b.String()))
	c := requireCandidate(t, got, "encoded_ciphertext")
	if c.Score != 0.65 {
		t.Fatalf("score = %v", c.Score)
	}
	if note, _ := param(t, c, "note").Str(); note != "possibly base64/hex encoded ciphertext" {
		t.Fatalf("note = %q", note)
	}
}

func TestHighEntropyCiphertext_PlainText(t *testing.T) {
	if got := HighEntropyCiphertext(NewInput(englishSample)); len(got) != 0 {
		t.Fatalf("english flagged as ciphertext: %v", names(got))
	}
}
