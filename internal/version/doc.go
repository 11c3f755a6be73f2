// Package version exposes build metadata for appbundler.
//
// Version, Commit and BuildTime are injected via -ldflags at release time.
// Short is what the bundler records in its logs; Full backs the `version` command.
package version
