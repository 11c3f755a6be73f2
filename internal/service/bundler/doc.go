// Package bundler wires configuration, assembly and manifest generation
// into the entry points used by the command line.
//
// Run builds a complete bundle, Render prints the manifest a build would
// write and Init writes a starting bundle description.
package bundler
