package detectors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nexus-forensics/nexus/internal/types"
)

var (
	reHTMLEntity = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)
	reQPEscape   = regexp.MustCompile(`=[0-9A-Fa-f]{2}`)
	reBech32     = regexp.MustCompile(`^[a-z]{2,}1[ac-hj-np-z02-9]{38,}$`)
)

// Encoders detects text encodings and ASCII armor.
func Encoders(in *Input) []types.Candidate {
	var out []types.Candidate
	text := in.Text
	s := strings.TrimSpace(text)
	n := float64(utf8.RuneCountInString(text))

	compact := strings.Join(strings.Fields(s), "")
	if m := CharsetMatch(compact, Hex); m > 0.95 && utf8.RuneCountInString(compact)%2 == 0 {
		out = append(out, scored("hex", types.CatEncoder, 0.85, m))
	}

	if m := CharsetMatch(s, Base64); m > 0.95 && paddingOK(s) {
		out = append(out, scored("base64", types.CatEncoder, 0.80, m))
	}
	if m := CharsetMatch(s, Base64URL); m > 0.95 && paddingOK(s) && strings.ContainsAny(s, "-_") {
		out = append(out, scored("base64url", types.CatEncoder, 0.78, m))
	}
	if m := CharsetMatch(s, Base32); m > 0.95 {
		out = append(out, scored("base32", types.CatEncoder, 0.75, m))
	}
	if m := CharsetMatch(s, Base32Hex); m > 0.95 && strings.ContainsAny(s, "0123456789") {
		out = append(out, scored("base32hex", types.CatEncoder, 0.73, m))
	}
	// Lower-case confusables are rejected as well as the excluded capitals.
	if m := CharsetMatch(s, Crockford); m > 0.95 && !strings.ContainsAny(s, "ILOUilou") {
		out = append(out, scored("crockford_base32", types.CatEncoder, 0.72, m))
	}
	if m := CharsetMatch(s, Base58); m > 0.95 && !strings.ContainsAny(s, "0OIl") {
		out = append(out, scored("base58", types.CatEncoder, 0.70, m))
	}
	if m := CharsetMatch(strings.ToUpper(s), Base36); m > 0.98 && isUpper(s) {
		out = append(out, scored("base36", types.CatEncoder, 0.68, m))
	}
	if m := CharsetMatch(s, Base62); m > 0.98 {
		out = append(out, scored("base62", types.CatEncoder, 0.67, m))
	}

	if c, ok := jwt(s); ok {
		out = append(out, c)
	}

	if strings.Contains(text, "-----BEGIN") && strings.Contains(text, "-----END") {
		out = append(out, fixed("pem_armor", types.CatArmor, 0.95))
	}
	if strings.Contains(text, "-----BEGIN PGP") && strings.Contains(text, "-----END PGP") {
		out = append(out, fixed("pgp_armor", types.CatArmor, 0.96))
	}

	if pct := strings.Count(text, "%"); pct > 0 {
		if u := math.Min(0.9, float64(pct)/n*10); u > 0.3 {
			out = append(out, scored("url_encoded", types.CatEncoder, 0.60, u))
		}
	}
	if strings.Contains(text, "&") && strings.Contains(text, ";") {
		if k := len(reHTMLEntity.FindAllStringIndex(text, -1)); k > 0 {
			out = append(out, scored("html_entities", types.CatEncoder, 0.65, density(k, n)))
		}
	}
	if strings.HasPrefix(text, "begin ") && strings.Contains(text, "\nend\n") {
		out = append(out, fixed("uuencode", types.CatEncoder, 0.88))
	}
	if strings.Contains(text, "=") {
		if k := len(reQPEscape.FindAllStringIndex(text, -1)); k > 0 {
			out = append(out, scored("quoted_printable", types.CatEncoder, 0.62, density(k, n)))
		}
	}
	if reBech32.MatchString(strings.ToLower(s)) {
		out = append(out, fixed("bech32", types.CatEncoder, 0.85))
	}
	if strings.HasPrefix(s, "xn--") {
		out = append(out, fixed("punycode", types.CatEncoder, 0.87))
	}
	if m := CharsetMatch(s, Morse); m > 0.95 && strings.ContainsAny(text, ".-") {
		out = append(out, scored("morse_code", types.CatClassical, 0.70, m))
	}
	return out
}

// paddingOK checks base64 padding: at most two '=' and a length that is a
// multiple of four unless padding is present.
func paddingOK(s string) bool {
	pad := strings.Count(s, "=")
	return pad <= 2 && (utf8.RuneCountInString(s)%4 == 0 || pad > 0)
}

// density is the token rate per ten characters, capped at 0.9.
func density(tokens int, n float64) float64 {
	return math.Min(0.9, float64(tokens)/(n/10))
}

// isUpper reports whether s has at least one cased letter and no lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// jwt scores a header.payload.signature triple by its weakest segment.
func jwt(s string) (types.Candidate, bool) {
	if strings.Count(s, ".") != 2 {
		return types.Candidate{}, false
	}
	weakest := 1.0
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return types.Candidate{}, false
		}
		weakest = math.Min(weakest, CharsetMatch(part, Base64URL))
	}
	if weakest <= 0.95 {
		return types.Candidate{}, false
	}
	return scored("jwt", types.CatEncoder, 0.90, weakest), true
}
