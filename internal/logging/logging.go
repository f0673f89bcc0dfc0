// SPDX-License-Identifier: MPL-2.0

// Package logging sets up the launcher's leveled diagnostic logger: every
// session writes to a fresh timestamped file under the logs directory.
// Logging is for diagnostics only and never drives control flow.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// filePrefix is the log file name prefix; files are named
// m365admin_YYYYMMDD_HHMMSS.log.
const filePrefix = "m365admin_"

// Setup creates the logs directory if needed, opens a timestamped log file,
// and returns a leveled logger writing to it along with the file path.
// The caller owns the returned closer.
func Setup(logsDir, level string) (*log.Logger, string, func() error, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, "", nil, fmt.Errorf("create logs directory: %w", err)
	}

	name := filePrefix + time.Now().Format("20060102_150405") + ".log"
	path := filepath.Join(logsDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open log file: %w", err)
	}

	logger := New(file, level)
	return logger, path, file.Close, nil
}

// New builds a leveled logger writing to w. An unparsable level falls back
// to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Prefix:          "m365admin",
	})
}
