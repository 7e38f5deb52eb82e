// Package file reads and writes the docgen.toml project configuration.
//
// Keys are stored flattened with dots ("source.root", "run.jobs") and
// written back as TOML tables.
package file
