package config

import "path/filepath"

// Config describes one application bundle.
type Config struct {
	// OutputDir is the existing directory that receives <Name>.app.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Name is the bundle name; the bundle directory is <Name>.app.
	Name string `yaml:"name"`
	// DisplayName is the user-visible application name.
	DisplayName string `yaml:"display_name"`
	// Identifier is the reverse-domain bundle identifier.
	Identifier string `yaml:"identifier"`
	// Icon is an optional path to the application .icns file.
	Icon string `yaml:"icon,omitempty"`
	// ExecutableName is the launcher file name inside Contents/MacOS.
	ExecutableName string `yaml:"executable_name,omitempty"`
	// Launcher optionally replaces the embedded launcher binary.
	Launcher string `yaml:"launcher,omitempty"`
	// ShortVersion is the marketing version string.
	ShortVersion string `yaml:"short_version,omitempty"`
	// Version is the build version string.
	Version string `yaml:"version,omitempty"`
	// Signature is the four character creator code.
	Signature string `yaml:"signature,omitempty"`
	// Copyright is written verbatim as the human readable copyright.
	Copyright string `yaml:"copyright,omitempty"`
	// MinimumSystemVersion is the lowest supported macOS release.
	MinimumSystemVersion string `yaml:"minimum_system_version,omitempty"`
	// ApplicationCategory is the LaunchServices category type.
	ApplicationCategory string `yaml:"application_category,omitempty"`

	// HighResolutionCapable enables Retina rendering; nil means true.
	HighResolutionCapable *bool `yaml:"high_resolution_capable,omitempty"`
	// SupportsAutomaticGraphicsSwitching allows the integrated GPU; nil means true.
	SupportsAutomaticGraphicsSwitching *bool `yaml:"supports_automatic_graphics_switching,omitempty"`
	// HideDockIcon runs the application as an agent without a dock icon.
	HideDockIcon bool `yaml:"hide_dock_icon,omitempty"`
	// Debug makes the launcher verbose.
	Debug bool `yaml:"debug,omitempty"`
	// AllowHTTP turns off App Transport Security.
	AllowHTTP bool `yaml:"allow_http,omitempty"`
	// IncludeJavaRoot adds Contents/Java itself to the launcher classpath.
	IncludeJavaRoot bool `yaml:"include_java_root,omitempty"`

	// MainClassName is the Java entry point.
	MainClassName string `yaml:"main_class_name"`
	// WorkingDirectory is the launcher working directory.
	WorkingDirectory string `yaml:"working_directory,omitempty"`
	// Privileged is the privilege escalation mode passed to the launcher.
	Privileged string `yaml:"privileged,omitempty"`

	// Runtime is the optional Java runtime; its Dir points at the runtime home.
	Runtime *FileSet `yaml:"runtime,omitempty"`
	// ClassPath file-sets are flattened into Contents/Java.
	ClassPath []FileSet `yaml:"classpath,omitempty"`
	// ClassPathRef is an externally resolved, ordered list of paths copied into Contents/Java.
	ClassPathRef []string `yaml:"classpath_ref,omitempty"`
	// LibraryPath file-sets are flattened into Contents/MacOS.
	LibraryPath []FileSet `yaml:"library_path,omitempty"`
	// Options are JVM options, positional when unnamed.
	Options []Option `yaml:"options,omitempty"`
	// Arguments are positional application arguments.
	Arguments []string `yaml:"arguments,omitempty"`
	// Architectures lists CPU architectures in priority order.
	Architectures []string `yaml:"architectures,omitempty"`
	// Schemes lists the URL protocol schemes the application handles.
	Schemes []string `yaml:"schemes,omitempty"`
	// Documents lists the document types the application opens.
	Documents []DocumentType `yaml:"documents,omitempty"`
	// PlistEntries are custom Info.plist keys appended last, in order.
	PlistEntries []PlistEntry `yaml:"plist_entries,omitempty"`

	// BaseDir is the directory relative paths are resolved against.
	// It is set by Load and is not persisted to YAML.
	BaseDir string `yaml:"-"`
}

// FileSet selects files below Dir with Ant-style include and exclude patterns.
type FileSet struct {
	// Dir is the base directory of the file-set.
	Dir string `yaml:"dir"`
	// Includes are glob patterns selecting files; empty selects everything.
	Includes []string `yaml:"includes,omitempty"`
	// Excludes are glob patterns removing files; they win over includes.
	Excludes []string `yaml:"excludes,omitempty"`
	// DefaultExcludes drops VCS and OS metadata files; nil means true.
	DefaultExcludes *bool `yaml:"default_excludes,omitempty"`
}

// Option is a JVM option. Unnamed options are positional launch flags,
// named options become default option key/value pairs.
type Option struct {
	// Name is the option key; empty for positional options.
	Name string `yaml:"name,omitempty"`
	// Value is the option value.
	Value string `yaml:"value"`
}

// IsNamed reports whether the option belongs to the default options dictionary.
func (o Option) IsNamed() bool {
	return o.Name != ""
}

// DocumentType describes a document type registered by the application.
type DocumentType struct {
	// Name is the display name of the document type.
	Name string `yaml:"name"`
	// Role is the application role for the type (Editor, Viewer, Shell, None).
	Role string `yaml:"role,omitempty"`
	// Extensions are the file name extensions of the type.
	Extensions []string `yaml:"extensions"`
	// Icon is either a path to an icon file or a bare icon name.
	Icon string `yaml:"icon,omitempty"`
	// IsPackage marks directory-based document types.
	IsPackage bool `yaml:"is_package,omitempty"`

	// IconFile is the resolved icon path when Icon names an existing file.
	IconFile string `yaml:"-"`
}

// HasIcon reports whether the document type carries any icon.
func (d DocumentType) HasIcon() bool {
	return d.Icon != ""
}

// IconReference is the value written to the manifest for the document icon:
// the file name of a resolved icon file or the bare name otherwise.
func (d DocumentType) IconReference() string {
	if d.IconFile != "" {
		return filepath.Base(d.IconFile)
	}

	return d.Icon
}

// PlistEntry is a custom Info.plist key/value pair.
type PlistEntry struct {
	// Key is the plist key.
	Key string `yaml:"key"`
	// Value is written as a string node.
	Value string `yaml:"value"`
}

// IsHighResolutionCapable returns the effective high resolution flag.
func (c *Config) IsHighResolutionCapable() bool {
	return boolOrDefault(c.HighResolutionCapable, true)
}

// IsAutomaticGraphicsSwitchingSupported returns the effective graphics switching flag.
func (c *Config) IsAutomaticGraphicsSwitchingSupported() bool {
	return boolOrDefault(c.SupportsAutomaticGraphicsSwitching, true)
}

// UseDefaultExcludes returns the effective default excludes flag.
func (f *FileSet) UseDefaultExcludes() bool {
	return boolOrDefault(f.DefaultExcludes, true)
}

// BundleDirName returns the bundle directory name, <Name>.app.
func (c *Config) BundleDirName() string {
	return c.Name + BundleExtension
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}

	return *value
}
