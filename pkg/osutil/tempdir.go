package osutil

import (
	"fmt"
	"log/slog"
	"os"
)

const tempDirLogPrefix = "osutil:tempdir"

// TempDir creates a fresh directory under base, creating base first if it
// does not exist. An empty base uses the OS temp directory.
func TempDir(base, pattern string) (string, error) {
	if base != "" {
		if err := os.MkdirAll(base, 0o755); err != nil {
			return "", err
		}
	}
	dir, err := os.MkdirTemp(base, pattern)
	if err != nil {
		return "", err
	}
	slog.Debug(fmt.Sprintf("%s - created %s", tempDirLogPrefix, dir))
	return dir, nil
}
