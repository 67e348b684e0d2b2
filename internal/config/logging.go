package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const runLogPattern = "run-*.log"

// NewRunLogFile opens a fresh timestamped log file under dir and prunes
// older run logs so that at most keep remain, the new file included.
// The caller owns the handle.
func NewRunLogFile(dir string, keep int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, "run-"+time.Now().Format("2006-01-02T15-04-05")+".log")
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	pruneRunLogs(dir, keep)
	return f, nil
}

// pruneRunLogs drops the oldest run logs beyond keep. The timestamped
// names sort chronologically. Removal failures are ignored; a leftover
// log never blocks a run.
func pruneRunLogs(dir string, keep int) {
	logs, err := filepath.Glob(filepath.Join(dir, runLogPattern))
	if err != nil || len(logs) <= keep {
		return
	}
	sort.Strings(logs)
	for _, old := range logs[:len(logs)-keep] {
		os.Remove(old)
	}
}
