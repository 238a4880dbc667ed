// Package config loads nexus configuration from local and global YAML files
// with precedence rules. It is internal; CLI code maps flags and files into
// resolved settings.
package config
