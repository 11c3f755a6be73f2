// Package bundle assembles macOS application bundles.
//
// The Assembler removes any previous <name>.app, creates the directory
// skeleton and copies the launcher, localized resources, the optional Java
// runtime, classpath and native library file-sets and icons into place.
// Every step blocks until done and the first error aborts the run; cleanup
// of a half written bundle is left to the next run, which starts by
// deleting it.
//
// Classpath and library file-sets are flattened: files are copied by name
// only, so a file from a later file-set replaces an earlier one with the
// same name.
package bundle
