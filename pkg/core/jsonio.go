package core

import (
	"encoding/json"
	"io"
)

// MarshalResult pretty-prints a result as JSON for humans or pipelines.
func MarshalResult(w io.Writer, res DetectionResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// UnmarshalResult decodes result JSON, useful for ingestion tests.
func UnmarshalResult(r io.Reader) (DetectionResult, error) {
	var res DetectionResult
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return DetectionResult{}, err
	}
	if res.Candidates == nil {
		res.Candidates = []Candidate{}
	}
	return res, nil
}
