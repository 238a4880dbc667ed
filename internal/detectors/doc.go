// Package detectors implements the statistics and the detector battery used
// by nexus. Each detector is a stateless function over a shared Input and
// reports zero or more scored candidates; ranking happens in the engine.
package detectors
