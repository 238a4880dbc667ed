package types

import "math"

// Category groups candidates by the family of transformation they describe.
type Category string

const (
	CatEncoder   Category = "encoder"
	CatArmor     Category = "armor"
	CatClassical Category = "classical_cipher"
	CatModern    Category = "modern_cipher"
	CatContainer Category = "container"
	CatUnknown   Category = "unknown"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CatEncoder, CatArmor, CatClassical, CatModern, CatContainer, CatUnknown}
}

// Candidate is one scored hypothesis about what the input is. Score is a
// heuristic confidence in [0,1]; it is only comparable across detectors by
// rank. Identity for deduplication is the (Name, Category) pair.
type Candidate struct {
	Name     string   `json:"name"`
	Score    float64  `json:"score"`
	Category Category `json:"category"`
	Params   Params   `json:"params,omitempty"`
}

// Key returns the deduplication identity of the candidate.
func (c Candidate) Key() string {
	return string(c.Category) + "|" + c.Name
}

// Metrics are the global statistics computed once per input.
type Metrics struct {
	Entropy            float64 `json:"entropy"`
	PrintableRatio     float64 `json:"printable_ratio"`
	IndexOfCoincidence float64 `json:"index_of_coincidence"`
}

// DetectionResult is the ranked outcome of a single detection call.
type DetectionResult struct {
	InputLength int         `json:"input_length"`
	Metrics     Metrics     `json:"metrics"`
	Candidates  []Candidate `json:"candidates"`
}

// Top returns a copy of r whose candidate list is capped at n entries.
// n <= 0 leaves the list untouched. Order is never changed.
func (r DetectionResult) Top(n int) DetectionResult {
	out := r
	out.Candidates = append([]Candidate{}, r.Candidates...)
	if n > 0 && len(out.Candidates) > n {
		out.Candidates = out.Candidates[:n]
	}
	return out
}

// Round rounds x to the given number of decimal digits.
func Round(x float64, digits int) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}
