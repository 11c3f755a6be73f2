// Package config defines the bundle description consumed by appbundler and
// provides helpers to load, validate and save it in YAML format.
//
// A Config is fully populated and validated before assembly starts and is
// treated as read-only afterwards. Validate applies the launcher defaults
// (short version "1.0", signature "????", launcher name "JavaAppLauncher",
// high resolution and graphics switching enabled),
// resolves relative paths against the directory of the YAML file and
// rejects configurations that would fail half way through assembly.
package config
