package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/blacktop/go-macho"
	"github.com/blacktop/go-macho/types"
)

// ErrNotMachO is returned for executables that are neither thin nor universal Mach-O files.
var ErrNotMachO = errors.New("not a Mach-O executable")

// Architectures returns the architecture names of a Mach-O executable in
// the spelling LSArchitecturePriority uses (x86_64, arm64, i386).
func Architectures(r io.ReaderAt) ([]string, error) {
	if fat, err := macho.NewFatFile(r); err == nil {
		defer fat.Close()

		archs := make([]string, 0, len(fat.Arches))
		for _, arch := range fat.Arches {
			archs = append(archs, archName(arch.CPU))
		}

		return archs, nil
	}

	m, err := macho.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMachO, err)
	}
	defer m.Close()

	return []string{archName(m.CPU)}, nil
}

// InspectFile opens path and returns its architectures.
func InspectFile(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	return Architectures(f)
}

// Missing returns the wanted architectures the launcher does not contain, in wanted order.
func Missing(wanted, available []string) []string {
	var missing []string

	for _, arch := range wanted {
		if !slices.Contains(available, arch) {
			missing = append(missing, arch)
		}
	}

	return missing
}

func archName(cpu types.CPU) string {
	switch cpu {
	case types.CPUAmd64:
		return "x86_64"
	case types.CPUArm64:
		return "arm64"
	case types.CPUI386:
		return "i386"
	default:
		return strings.ToLower(cpu.String())
	}
}
