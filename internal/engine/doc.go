// Package engine runs the detector battery over an input and aggregates the
// candidates into a ranked result. This package is internal; external
// consumers should use the stable facade in pkg/core.
package engine
