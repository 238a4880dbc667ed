package main

import "github.com/nexus-forensics/nexus/cmd/nexus"

func main() { nexus.Execute() }
