package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"umlterm/pkg/diagram"
)

const fileExt = ".json"

// FileStore keeps one indented JSON file per diagram in a directory.
type FileStore struct {
	dir    string
	logger *log.Logger
}

// NewFileStore creates a file store in dir, creating the directory if needed.
func NewFileStore(dir string, logger *log.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir, logger: orDiscard(logger)}, nil
}

// Load reads the diagram stored under id.
func (s *FileStore) Load(ctx context.Context, id string) (diagram.Diagram, bool, error) {
	if err := checkID(id); err != nil {
		return diagram.Diagram{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return diagram.Diagram{}, false, err
	}
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return diagram.Diagram{}, false, nil
	}
	if err != nil {
		return diagram.Diagram{}, false, fmt.Errorf("read diagram %s: %w", id, err)
	}
	d, ok := decode(s.logger, id, data)
	return d, ok, nil
}

// Save writes d under id, replacing any previous file. The payload goes to a
// temporary file first so a failed write leaves the old diagram intact.
func (s *FileStore) Save(ctx context.Context, id string, d diagram.Diagram) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := diagram.MarshalIndent(d)
	if err != nil {
		return fmt.Errorf("encode diagram: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("save diagram %s: %w", id, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save diagram %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save diagram %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		return fmt.Errorf("save diagram %s: %w", id, err)
	}
	s.logger.Debug("diagram saved", "id", id, "path", s.path(id))
	return nil
}

// List returns the stored diagrams, most recently saved first.
func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	var out []Entry
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		id, err := decodeFilename(strings.TrimSuffix(name, fileExt))
		if err != nil {
			s.logger.Debug("skipping foreign file", "name", name)
			continue
		}
		out = append(out, Entry{ID: id, UpdatedAt: info.ModTime()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, encodeFilename(id)+fileExt)
}

// encodeFilename maps an id to a safe file name. Letters, digits, '-', '_'
// and a non-leading '.' are kept; every other byte becomes %XX. The mapping
// is reversible, so distinct ids never share a file.
func encodeFilename(id string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		case c == '.' && i > 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0F])
		}
	}
	return b.String()
}

// decodeFilename reverses encodeFilename.
func decodeFilename(name string) (string, error) {
	return url.PathUnescape(name)
}

var _ Store = (*FileStore)(nil)
