package fieldhandler

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/morezero/build-api/pkg/api"
	"github.com/morezero/build-api/pkg/osutil"
)

const pathLogPrefix = "fieldhandler:path"

// Direction is the requested target side of a transfer.
type Direction int32

const (
	DirectionInside  = Direction(api.Inside)
	DirectionOutside = Direction(api.Outside)
	// DirectionAll copies regardless of the current location. It is only
	// valid as a request and is never stored on a Path.
	DirectionAll Direction = -1
)

func (d Direction) String() string {
	if d == DirectionAll {
		return "ALL"
	}
	return api.Location(d).String()
}

func (d Direction) valid() bool {
	return d == DirectionInside || d == DirectionOutside || d == DirectionAll
}

// PathHandler copies the file or directory behind one Path descriptor across
// the chroot boundary.
//
// With delete set, each transfer goes into a fresh temporary directory under
// the destination that Cleanup removes. Without it, files are copied straight
// into the destination and the caller owns their lifecycle.
type PathHandler struct {
	field       *api.Path
	destination string
	delete      bool
	prefix      string

	tempDir string
}

// NewPathHandler binds a handler to field. prefix, when non-empty, is
// stripped from the front of returned paths.
func NewPathHandler(field *api.Path, destination string, delete bool, prefix string) *PathHandler {
	return &PathHandler{
		field:       field,
		destination: destination,
		delete:      delete,
		prefix:      prefix,
	}
}

// TempDir returns the temporary directory the handler owns, if any.
func (h *PathHandler) TempDir() string {
	return h.tempDir
}

// Transfer copies the bound path towards direction and returns the new
// descriptor. It returns nil, nil when the path already sits on that side.
// A Path without path or location, or an unknown direction, is a programming
// error and panics.
func (h *PathHandler) Transfer(direction Direction) (*api.Path, error) {
	if !h.field.IsSet() {
		panic(fmt.Sprintf("%s - transfer of incomplete path %+v", pathLogPrefix, h.field))
	}
	if !direction.valid() {
		panic(fmt.Sprintf("%s - invalid transfer direction %d", pathLogPrefix, direction))
	}

	if Direction(h.field.Location) == direction {
		slog.Debug(fmt.Sprintf("%s - %s already %s", pathLogPrefix, h.field.Path, direction))
		return nil, nil
	}

	destination := h.destination
	if h.delete {
		dir, err := osutil.TempDir(h.destination, "transfer-")
		if err != nil {
			return nil, err
		}
		h.tempDir = dir
		destination = dir
	} else if err := os.MkdirAll(destination, 0o755); err != nil {
		return nil, err
	}

	info, err := os.Stat(h.field.Path)
	if err != nil {
		return nil, err
	}

	destPath := destination
	if info.IsDir() {
		err = osutil.CopyDirContents(h.field.Path, destination)
	} else {
		destPath = filepath.Join(destination, filepath.Base(h.field.Path))
		err = osutil.CopyFile(h.field.Path, destPath)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug(fmt.Sprintf("%s - copied %s to %s", pathLogPrefix, h.field.Path, destPath))

	if h.prefix != "" && strings.HasPrefix(destPath, h.prefix) {
		destPath = destPath[len(h.prefix):]
	}

	return &api.Path{Path: destPath, Location: resultLocation(h.field.Location, direction)}, nil
}

// resultLocation maps the requested direction onto a storable location. A
// wildcard transfer always crosses the boundary, so it lands on the opposite
// side of where it started.
func resultLocation(current api.Location, direction Direction) api.Location {
	if direction != DirectionAll {
		return api.Location(direction)
	}
	if current == api.Inside {
		return api.Outside
	}
	return api.Inside
}

// Cleanup removes the temporary directory created by Transfer. It is a no-op
// when Transfer never created one and is safe to call more than once.
func (h *PathHandler) Cleanup() error {
	if h.tempDir == "" {
		return nil
	}
	dir := h.tempDir
	h.tempDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%s - failed to remove %s: %w", pathLogPrefix, dir, err)
	}
	slog.Debug(fmt.Sprintf("%s - removed %s", pathLogPrefix, dir))
	return nil
}
