// Package store persists diagrams. Each diagram is keyed by the id of the user
// who owns it; saving again replaces the previous payload.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"umlterm/pkg/diagram"
)

// Sentinel errors for store operations.
var (
	// ErrInvalidID is returned for an empty diagram id.
	ErrInvalidID = errors.New("invalid diagram id")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown backend")
)

// Store loads and saves diagrams.
//
// Load reports ok == false when nothing is stored under id. A stored payload
// that fails validation is also reported as missing, with a warning logged,
// so a corrupt record never reaches the editor.
type Store interface {
	Load(ctx context.Context, id string) (d diagram.Diagram, ok bool, err error)
	Save(ctx context.Context, id string, d diagram.Diagram) error
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// Entry describes one stored diagram.
type Entry struct {
	ID        string
	UpdatedAt time.Time
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Dir      string // file backend directory
	Database string // sqlite database path
	Logger   *log.Logger
}

// Open returns the store selected by opts.Backend. An empty backend means file.
func Open(opts Options) (Store, error) {
	logger := orDiscard(opts.Logger)
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.Dir, logger)
	case BackendSQLite:
		return OpenSQLite(opts.Database, logger)
	case BackendMemory:
		return NewMemoryStore(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// decode turns a stored payload into a diagram. Malformed payloads are
// logged and reported as missing.
func decode(logger *log.Logger, id string, data []byte) (diagram.Diagram, bool) {
	d, err := diagram.Decode(data)
	if err != nil {
		logger.Warn("ignoring stored diagram", "id", id, "err", err)
		return diagram.Diagram{}, false
	}
	return d, true
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}

func checkID(id string) error {
	if id == "" {
		return ErrInvalidID
	}
	return nil
}
