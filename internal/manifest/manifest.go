package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/appbundler/internal/bundle"
	"github.com/oshokin/appbundler/internal/config"
	"github.com/oshokin/appbundler/internal/fsutil"
	"github.com/oshokin/appbundler/internal/plist"
)

const (
	// DevelopmentRegion is the fixed CFBundleDevelopmentRegion.
	DevelopmentRegion = "English"
	// InfoDictionaryVersion is the fixed CFBundleInfoDictionaryVersion.
	InfoDictionaryVersion = "6.0"
	// PackageType is the OS type code of applications.
	PackageType = "APPL"
	// TextEncoding is exported to the launcher as LC_CTYPE.
	TextEncoding = "UTF-8"
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Build renders the manifest of the bundle described by cfg. The key order
// is fixed; custom entries follow the generated keys, duplicates included.
//
//nolint:funlen // One linear pass mirrors the document.
func Build(cfg *config.Config) (*plist.Document, error) {
	if cfg == nil {
		return nil, errConfigIsNotSet
	}

	b := plist.NewBuilder()

	b.Property("CFBundleDevelopmentRegion", DevelopmentRegion)
	b.Property("CFBundleExecutable", cfg.ExecutableName)
	b.Property("CFBundleIconFile", bundle.IconFileName(cfg))
	b.Property("CFBundleIdentifier", cfg.Identifier)
	b.Property("CFBundleDisplayName", cfg.DisplayName)
	b.Property("CFBundleInfoDictionaryVersion", InfoDictionaryVersion)
	b.Property("CFBundleName", cfg.Name)
	b.Property("CFBundlePackageType", PackageType)
	b.Property("CFBundleShortVersionString", cfg.ShortVersion)
	b.Property("CFBundleVersion", cfg.Version)
	b.Property("CFBundleSignature", cfg.Signature)
	b.Property("NSHumanReadableCopyright", cfg.Copyright)

	optionalProperty(b, "LSMinimumSystemVersion", cfg.MinimumSystemVersion)
	optionalProperty(b, "LSApplicationCategoryType", cfg.ApplicationCategory)

	flag(b, "LSUIElement", cfg.HideDockIcon)
	flag(b, "NSHighResolutionCapable", cfg.IsHighResolutionCapable())
	flag(b, "IncludeJavaRoot", cfg.IncludeJavaRoot)

	if cfg.AllowHTTP {
		b.WriteKey("NSAppTransportSecurity")
		b.BeginDict()
		b.WriteKey("NSAllowsArbitraryLoads")
		b.WriteBool(true)
		b.EndDict()
	}

	flag(b, "NSSupportsAutomaticGraphicsSwitching", cfg.IsAutomaticGraphicsSwitchingSupported())

	if len(cfg.Schemes) > 0 {
		b.WriteKey("CFBundleURLTypes")
		b.BeginArray()
		b.BeginDict()
		b.Property("CFBundleURLName", cfg.Identifier)
		b.WriteKey("CFBundleURLSchemes")
		b.StringArray(cfg.Schemes)
		b.EndDict()
		b.EndArray()
	}

	optionalProperty(b, "JVMRuntime", bundle.RuntimeName(cfg))
	optionalProperty(b, "JVMRunPrivileged", cfg.Privileged)
	optionalProperty(b, "WorkingDirectory", cfg.WorkingDirectory)

	b.Property("JVMMainClassName", cfg.MainClassName)

	flag(b, "JVMDebug", cfg.Debug)

	b.WriteKey("CFBundleDocumentTypes")
	b.BeginArray()

	for _, doc := range cfg.Documents {
		documentType(b, doc)
	}

	b.EndArray()

	b.WriteKey("LSArchitecturePriority")
	b.StringArray(cfg.Architectures)

	b.WriteKey("LSEnvironment")
	b.BeginDict()
	b.Property("LC_CTYPE", TextEncoding)
	b.EndDict()

	jvmOptions(b, cfg.Options)

	b.WriteKey("JVMArguments")
	b.StringArray(cfg.Arguments)

	for _, entry := range cfg.PlistEntries {
		b.Property(entry.Key, entry.Value)
	}

	doc, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build manifest: %w", err)
	}

	return doc, nil
}

func optionalProperty(b *plist.Builder, key, value string) {
	if value != "" {
		b.Property(key, value)
	}
}

// flag writes <true/> under key when set and nothing otherwise.
func flag(b *plist.Builder, key string, set bool) {
	if set {
		b.WriteKey(key)
		b.WriteBool(true)
	}
}

func documentType(b *plist.Builder, doc config.DocumentType) {
	b.BeginDict()

	b.WriteKey("CFBundleTypeExtensions")
	b.StringArray(doc.Extensions)

	if doc.HasIcon() {
		b.Property("CFBundleTypeIconFile", doc.IconReference())
	}

	b.Property("CFBundleTypeName", doc.Name)
	b.Property("CFBundleTypeRole", doc.Role)
	// LaunchServices reads the flag as a string here.
	b.Property("LSTypeIsPackage", fmt.Sprint(doc.IsPackage))

	b.EndDict()
}

// jvmOptions splits options into the unnamed JVMOptions array and the named
// JVMDefaultOptions dictionary, keeping declaration order in both.
func jvmOptions(b *plist.Builder, options []config.Option) {
	b.WriteKey("JVMOptions")
	b.BeginArray()

	for _, opt := range options {
		if !opt.IsNamed() {
			b.WriteString(opt.Value)
		}
	}

	b.EndArray()

	b.WriteKey("JVMDefaultOptions")
	b.BeginDict()

	for _, opt := range options {
		if opt.IsNamed() {
			b.Property(opt.Name, opt.Value)
		}
	}

	b.EndDict()
}

// Write serializes doc to path as an XML property list.
func Write(path string, doc *plist.Document) error {
	if err := plist.WriteFile(path, doc, fsutil.FilePermissions); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// WritePkgInfo writes the eight byte type and creator marker.
func WritePkgInfo(path, signature string) error {
	if len(signature) != config.SignatureLength {
		return fmt.Errorf("%w: %q", config.ErrInvalidSignature, signature)
	}

	err := os.WriteFile(filepath.Clean(path), []byte(PackageType+signature), fsutil.FilePermissions)
	if err != nil {
		return fmt.Errorf("write package info: %w", err)
	}

	return nil
}
