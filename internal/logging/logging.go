// Package logging builds the engine loggers. Engine output goes to a
// rotating file under the project directory so interactive prompts and
// progress lines stay readable; --verbose tees the same stream to
// stderr.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

// Options controls where engine logs go.
type Options struct {
	// Path is the log file location. Empty uses DefaultPath relative to
	// the working directory.
	Path string

	// Verbose additionally mirrors log lines to stderr.
	Verbose bool
}

// DefaultPath returns the standard log location under a workspace root.
func DefaultPath(root string) string {
	return filepath.Join(root, component.ConfigDir, "logs", "rui.log")
}

// New creates a prefixed logger backed by a size-rotated file. The
// returned closer flushes the rotation handle; callers defer it for the
// process lifetime.
func New(prefix string, opts Options) (*log.Logger, io.Closer) {
	path := opts.Path
	if path == "" {
		path = DefaultPath(".")
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}

	var w io.Writer = rotator
	if opts.Verbose {
		w = io.MultiWriter(rotator, os.Stderr)
	}
	return log.New(w, prefix, log.LstdFlags), rotator
}
