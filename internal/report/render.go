package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/nexus-forensics/nexus/internal/types"
	"github.com/olekukonko/tablewriter"
)

type PrintOptions struct {
	NoColor bool
	// Top caps the number of candidates shown; <= 0 shows all.
	Top int
}

var (
	headStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	strongStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	weakStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func paint(opts PrintOptions, st lipgloss.Style, s string) string {
	if opts.NoColor {
		return s
	}
	return st.Render(s)
}

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 0.85:
		return strongStyle
	case score >= 0.55:
		return mediumStyle
	default:
		return weakStyle
	}
}

// Render writes res in the given format. Candidate order is never changed.
func Render(w io.Writer, res types.DetectionResult, f Format, opts PrintOptions) error {
	res = res.Top(opts.Top)
	switch f {
	case FormatJSON:
		return PrintJSON(w, res, opts)
	case FormatCompact:
		return PrintCompact(w, res, opts)
	case FormatDetailed:
		PrintDetailed(w, res, opts)
	default:
		PrintSimple(w, res, opts)
	}
	return nil
}

// Simple returns the uncoloured one-glance verdict.
func Simple(res types.DetectionResult) string {
	var buf bytes.Buffer
	PrintSimple(&buf, res, PrintOptions{NoColor: true})
	return strings.TrimRight(buf.String(), "\n")
}

// PrintSimple writes the top candidate and up to three strong alternates.
func PrintSimple(w io.Writer, res types.DetectionResult, opts PrintOptions) {
	if len(res.Candidates) == 0 {
		fmt.Fprintln(w, "❌ No matches found")
		return
	}
	top := res.Candidates[0]
	mark, word := verdict(top.Score)
	line := fmt.Sprintf("%s %s: %s (%s confidence)", mark, word, DisplayName(top.Name), percent(top.Score, 0))
	fmt.Fprintln(w, paint(opts, scoreStyle(top.Score), line))

	var alts []string
	for i := 1; i < len(res.Candidates) && i < 4; i++ {
		if c := res.Candidates[i]; c.Score > 0.65 {
			alts = append(alts, DisplayName(c.Name))
		}
	}
	if len(alts) > 0 {
		fmt.Fprintf(w, "   Also consider: %s\n", strings.Join(alts, ", "))
	}
}

const rule = "======================================================================"

// PrintDetailed writes metrics, their interpretation and every candidate.
func PrintDetailed(w io.Writer, res types.DetectionResult, opts PrintOptions) {
	m := res.Metrics
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, paint(opts, headStyle, "🔍 CRYPTOGRAPHIC DETECTION RESULTS"))
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "\n📊 Input Analysis:\n")
	fmt.Fprintf(w, "   Length: %d characters\n", res.InputLength)

	fmt.Fprintf(w, "\n📈 Metrics:\n")
	fmt.Fprintf(w, "   Entropy:              %.4f bits/byte\n", m.Entropy)
	fmt.Fprintf(w, "   Printable Ratio:      %s\n", percent(m.PrintableRatio, 2))
	fmt.Fprintf(w, "   Index of Coincidence: %.4f\n", m.IndexOfCoincidence)

	fmt.Fprintf(w, "\n💡 Statistical Interpretation:\n")
	for _, l := range interpret(m) {
		fmt.Fprintln(w, l)
	}

	if len(res.Candidates) == 0 {
		fmt.Fprintf(w, "\n❌ No strong matches found\n")
		fmt.Fprintf(w, "   The input doesn't match any known patterns\n")
	} else {
		fmt.Fprintf(w, "\n🎯 Detection Results (%d candidates):\n\n", len(res.Candidates))
		for i, c := range res.Candidates {
			writeCandidate(w, i+1, c, opts)
			if i < len(res.Candidates)-1 {
				fmt.Fprintln(w)
			}
		}
	}
	fmt.Fprintf(w, "\n%s\n", rule)
}

func interpret(m types.Metrics) []string {
	var out []string
	switch ent := m.Entropy; {
	case ent > 7.5:
		out = append(out,
			fmt.Sprintf("   ⚡ High entropy (%.2f) suggests modern encryption or compression", ent),
			"      → Data is highly random, likely AES/ChaCha20 or compressed")
	case ent > 6.0:
		out = append(out,
			fmt.Sprintf("   📝 Medium entropy (%.2f) suggests encoding or weak encryption", ent),
			"      → Could be Base64/hex encoded data or classical cipher")
	default:
		out = append(out,
			fmt.Sprintf("   📄 Low entropy (%.2f) suggests plaintext or simple cipher", ent),
			"      → Natural language or very simple substitution")
	}

	out = append(out, "")
	switch ic := m.IndexOfCoincidence; {
	case ic > 0.060:
		out = append(out,
			fmt.Sprintf("   🔤 High IC (%.4f) suggests monoalphabetic or transposition", ic),
			"      → Letter frequencies preserved (Caesar, Atbash, substitution)",
			"      → IC close to English (0.067) - same letters, different order")
	case ic > 0.045:
		out = append(out,
			fmt.Sprintf("   🔄 Medium IC (%.4f) suggests polyalphabetic cipher", ic),
			"      → Flattened letter frequencies (Vigenère, Beaufort, etc.)",
			"      → Multiple alphabets used")
	case ic > 0.030:
		out = append(out,
			fmt.Sprintf("   🎲 Low IC (%.4f) suggests random or strong encryption", ic),
			"      → Very uniform distribution (modern cipher or random data)")
	}
	return out
}

// Bar renders score as a 30-cell meter.
func Bar(score float64) string {
	n := int(score * 30)
	n = max(0, min(30, n))
	return strings.Repeat("█", n) + strings.Repeat("░", 30-n)
}

func writeCandidate(w io.Writer, rank int, c types.Candidate, opts PrintOptions) {
	tier := TierFor(c.Score)
	ci := infoFor(c.Category)
	fmt.Fprintf(w, "   %d. %s\n", rank, paint(opts, headStyle, DisplayName(c.Name)))
	fmt.Fprintf(w, "      %s %s\n", paint(opts, scoreStyle(c.Score), Bar(c.Score)), percent(c.Score, 1))
	fmt.Fprintf(w, "      Confidence: %s (%s)\n", tier.Confidence, tier.Reliability)
	fmt.Fprintf(w, "      Category:   %s %s - %s\n", ci.icon, ci.label, ci.desc)
	if len(c.Params) == 0 {
		return
	}
	fmt.Fprintf(w, "      Parameters:\n")
	for _, p := range c.Params {
		switch p.Value.Kind() {
		case types.KindNumber:
			f, _ := p.Value.Float()
			fmt.Fprintf(w, "         • %s: %.4f\n", p.Key, f)
		case types.KindList:
			items, _ := p.Value.Strings()
			shown := items[:min(5, len(items))]
			fmt.Fprintf(w, "         • %s: %s\n", p.Key, strings.Join(shown, ", "))
			if len(items) > 5 {
				fmt.Fprintf(w, "           ... and %d more\n", len(items)-5)
			}
		default:
			fmt.Fprintf(w, "         • %s: %s\n", p.Key, p.Value)
		}
	}
}

// PrintCompact writes a summary line followed by a candidate table.
func PrintCompact(w io.Writer, res types.DetectionResult, opts PrintOptions) error {
	m := res.Metrics
	fmt.Fprintf(w, "Input: %d chars | Entropy: %.2f | IC: %.4f\n\n", res.InputLength, m.Entropy, m.IndexOfCoincidence)
	if len(res.Candidates) == 0 {
		fmt.Fprintln(w, "No matches found")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("#", "Name", "Score", "Category")
	for i, c := range res.Candidates {
		row := []string{
			fmt.Sprint(i + 1),
			DisplayName(c.Name),
			percent(c.Score, 1),
			CategoryLabel(c.Category),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("compact table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("compact table: %w", err)
	}
	return nil
}

// PrintJSON writes res as indented JSON, highlighted unless colour is off.
func PrintJSON(w io.Writer, res types.DetectionResult, opts PrintOptions) error {
	return WriteJSON(w, res, opts)
}

// WriteJSON writes any value as indented JSON, highlighted unless colour is
// off.
func WriteJSON(w io.Writer, v any, opts PrintOptions) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	out := string(b)
	if !opts.NoColor {
		out = highlightJSON(out)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func highlightJSON(code string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
