// Package launcher reads the CPU architectures of launcher executables.
//
// Thin and universal Mach-O binaries are parsed with go-macho; anything else
// (such as the embedded shell launcher) is reported as ErrNotMachO.
package launcher
