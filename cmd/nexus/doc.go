// Package nexus provides the command-line interface for the nexus forensic
// triage tool. It wires the detection engine, the metadata extractor, the
// log store and the audit trail to cobra subcommands.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/nexus-forensics/nexus/cmd/nexus"
//	func main() { nexus.Execute() }
package nexus
