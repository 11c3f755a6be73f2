package bundler

import (
	"context"
	"os"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/appbundler/internal/logger"
)

// warnIfRunning logs a warning for every running process named like the
// bundle executable, since replacing a running bundle may break it.
func warnIfRunning(ctx context.Context, executable string) {
	pids, err := findProcesses(executable)
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	if len(pids) > 0 {
		logger.WarnKV(ctx, "Application appears to be running, the bundle will be replaced underneath it",
			"executable", executable, "pids", pids)
	}
}

// findProcesses returns the IDs of processes with the given executable
// name, excluding the current process.
func findProcesses(name string) ([]int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	thisProcessID := os.Getpid()

	var pids []int

	for _, process := range processList {
		if process.Pid() == thisProcessID || process.Executable() != name {
			continue
		}

		pids = append(pids, process.Pid())
	}

	return pids, nil
}
