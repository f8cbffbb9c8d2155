package fieldhandler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/morezero/build-api/pkg/api"
	"github.com/morezero/build-api/pkg/message"
)

const scopeLogPrefix = "fieldhandler:scope"

// ErrNoDestination is returned by WithPathTransfers for an empty destination.
var ErrNoDestination = errors.New("transfer destination is required")

// PathTransfer is one Path field found on a message and the handler bound
// to it.
type PathTransfer struct {
	Field   string
	Handler *PathHandler
	// Result is the descriptor written back to the message, or nil when the
	// path was already on the requested side.
	Result *api.Path
}

type transferOptions struct {
	delete    bool
	direction Direction
	prefix    string
}

// TransferOption configures WithPathTransfers.
type TransferOption func(*transferOptions)

// WithDelete controls whether transfers go through temporary directories
// that are removed when the scope ends. Defaults to true.
func WithDelete(delete bool) TransferOption {
	return func(o *transferOptions) {
		o.delete = delete
	}
}

// WithDirection sets the transfer direction. Defaults to DirectionAll.
func WithDirection(d Direction) TransferOption {
	return func(o *transferOptions) {
		o.direction = d
	}
}

// WithPrefix strips prefix from the front of transferred paths, typically the
// chroot root so the results can be used from inside it.
func WithPrefix(prefix string) TransferOption {
	return func(o *transferOptions) {
		o.prefix = prefix
	}
}

// WithPathTransfers transfers every complete Path field of msg into
// destination, rewrites those fields on msg with the transferred
// descriptors, and runs fn with the transfers. Every handler is cleaned up
// exactly once when the scope ends, in discovery order, whether the
// transfers and fn succeed, fail or panic.
//
// Copy errors are returned as-is. Cleanup errors are reported only when
// nothing else failed.
func WithPathTransfers(msg message.Message, destination string, fn func([]PathTransfer) error, opts ...TransferOption) (err error) {
	if destination == "" {
		return fmt.Errorf("%s - %w", scopeLogPrefix, ErrNoDestination)
	}

	o := transferOptions{delete: true, direction: DirectionAll}
	for _, opt := range opts {
		opt(&o)
	}

	var transfers []PathTransfer
	var fields []message.Field
	for _, f := range message.FieldsOfType(msg, api.PathType) {
		p, _ := f.Message().(*api.Path)
		if !p.IsSet() {
			slog.Debug(fmt.Sprintf("%s - skipping incomplete path field %s", scopeLogPrefix, f.Name))
			continue
		}
		transfers = append(transfers, PathTransfer{
			Field:   f.Name,
			Handler: NewPathHandler(p, destination, o.delete, o.prefix),
		})
		fields = append(fields, f)
	}

	defer func() {
		var cleanupErrs []error
		for _, t := range transfers {
			if cerr := t.Handler.Cleanup(); cerr != nil {
				slog.Error(fmt.Sprintf("%s - cleanup of field %s failed: %v", scopeLogPrefix, t.Field, cerr))
				cleanupErrs = append(cleanupErrs, cerr)
			}
		}
		if err == nil {
			err = errors.Join(cleanupErrs...)
		}
	}()

	for i := range transfers {
		result, terr := transfers[i].Handler.Transfer(o.direction)
		if terr != nil {
			return terr
		}
		if result == nil {
			continue
		}
		fields[i].Set(result)
		transfers[i].Result = result
	}

	name := "<nil>"
	if msg != nil {
		name = msg.MessageName()
	}
	slog.Debug(fmt.Sprintf("%s - %d path fields transferred for %s", scopeLogPrefix, len(transfers), name))
	if fn == nil {
		return nil
	}
	return fn(transfers)
}
