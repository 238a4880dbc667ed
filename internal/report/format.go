package report

import (
	"fmt"
	"strings"

	"github.com/nexus-forensics/nexus/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format selects a renderer.
type Format string

const (
	FormatSimple   Format = "simple"
	FormatDetailed Format = "detailed"
	FormatCompact  Format = "compact"
	FormatJSON     Format = "json"
)

// Formats lists the accepted format names.
func Formats() []string {
	return []string{string(FormatSimple), string(FormatDetailed), string(FormatCompact), string(FormatJSON)}
}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatSimple, FormatDetailed, FormatCompact, FormatJSON:
		return f, nil
	case "":
		return FormatSimple, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(Formats(), ", "))
}

var title = cases.Title(language.English)

// DisplayName turns a snake_case identifier into a title-cased label.
func DisplayName(name string) string {
	return title.String(strings.ReplaceAll(name, "_", " "))
}

// Tier describes how much weight a score deserves.
type Tier struct {
	Confidence  string
	Reliability string
}

// TierFor maps a score to its confidence tier.
func TierFor(score float64) Tier {
	switch {
	case score >= 0.85:
		return Tier{"Very High", "Strongly recommended"}
	case score >= 0.70:
		return Tier{"High", "Recommended"}
	case score >= 0.55:
		return Tier{"Medium", "Consider as possibility"}
	default:
		return Tier{"Low", "Weak match"}
	}
}

// verdict is the one-word lead of the simple format.
func verdict(score float64) (mark, word string) {
	switch {
	case score >= 0.85:
		return "✓", "Detected"
	case score >= 0.70:
		return "→", "Likely"
	default:
		return "?", "Possibly"
	}
}

type categoryInfo struct {
	icon, label, desc string
}

var categoryInfos = map[types.Category]categoryInfo{
	types.CatEncoder:   {"📦", "Encoder", "Text representation or encoding scheme"},
	types.CatArmor:     {"🛡️", "Armor", "ASCII armored binary data"},
	types.CatClassical: {"📜", "Classical Cipher", "Historical encryption method"},
	types.CatModern:    {"🔐", "Modern Cipher", "Strong cryptographic algorithm"},
	types.CatContainer: {"📁", "Container", "File format or compression"},
	types.CatUnknown:   {"❓", "Unknown", "Unclassified"},
}

func infoFor(c types.Category) categoryInfo {
	if ci, ok := categoryInfos[c]; ok {
		return ci
	}
	return categoryInfos[types.CatUnknown]
}

// CategoryLabel returns the human label of a category.
func CategoryLabel(c types.Category) string { return infoFor(c).label }

// CategoryDescription returns a one-line explanation of a category.
func CategoryDescription(c types.Category) string { return infoFor(c).desc }

func percent(score float64, digits int) string {
	return fmt.Sprintf("%.*f%%", digits, score*100)
}
