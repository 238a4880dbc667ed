// Package core provides a small, stable facade over the nexus detection
// engine for external integrations. It re-exports a narrow API surface so
// other tools can depend on a stable import path without reaching into
// internal packages.
//
// Example:
//
//	res := core.Detect("SGVsbG8gV29ybGQh")
//	for _, c := range res.Candidates {
//		fmt.Println(c.Name, c.Score)
//	}
//	_ = core.MarshalResult(os.Stdout, res)
package core
